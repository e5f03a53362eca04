package employee

import (
	"strings"

	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"

	"gorm.io/gorm"
)

// EmployedDuring keeps employees admitted by r.End and not terminated before r.Start.
func EmployedDuring(r competence.Range) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("employees.admission_date <= ?", r.End).
			Where("(employees.termination_date IS NULL OR employees.termination_date >= ?)", r.Start)
	}
}

func ByStatus(status string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch status {
		case StatusInactive:
			return db.Where("employees.termination_date IS NOT NULL")
		case StatusAll:
			return db
		default:
			return db.Where("employees.termination_date IS NULL")
		}
	}
}

func BySearch(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		like := "%" + escapeLike(search) + "%"
		return db.Where("(employees.name ILIKE ? OR employees.matricula ILIKE ?)", like, like)
	}
}

func ByBranch(branch string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branch == "" {
			return db
		}
		return db.Where("employees.branch = ?", branch)
	}
}

func ByCostCenter(costCenter string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if costCenter == "" {
			return db
		}
		return db.Where("employees.cost_center = ?", costCenter)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
