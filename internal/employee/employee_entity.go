package employee

import (
	"time"
)

type Employee struct {
	ID                    uint       `gorm:"primaryKey"`
	Matricula             string     `gorm:"size:40;not null;uniqueIndex:uq_employees_matricula"`
	Name                  string     `gorm:"size:200;not null;index"`
	CostCenter            string     `gorm:"size:100;not null"`
	Branch                string     `gorm:"size:20;not null"`
	AdmissionDate         time.Time  `gorm:"type:date;not null"`
	TerminationDate       *time.Time `gorm:"type:date"`
	VoucherMarketExcluded bool       `gorm:"not null;default:false"`
	VoucherMealExcluded   bool       `gorm:"not null;default:false"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) Active() bool {
	return e.TerminationDate == nil
}
