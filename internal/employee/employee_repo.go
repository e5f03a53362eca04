package employee

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status     string
	Search     string
	Branch     string
	CostCenter string
	Offset     int
	Limit      int
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id uint) (*Employee, error)
	FindByMatricula(ctx context.Context, matricula string) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	FindOptions(ctx context.Context) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

// Update writes every column, so a nil TerminationDate is persisted as NULL.
func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Employee, error) {
	var empl Employee
	if err := r.db.WithContext(ctx).First(&empl, id).Error; err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindByMatricula(ctx context.Context, matricula string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Where("matricula = ?", matricula).
		First(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Employee, int64, error) {
	query := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&Employee{}).
			Scopes(
				ByStatus(filter.Status),
				BySearch(filter.Search),
				ByBranch(filter.Branch),
				ByCostCenter(filter.CostCenter),
			)
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Employee
	err := query().
		Order("employees.name ASC").
		Order("employees.id ASC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&items).Error
	return items, total, err
}

func (r *repository) FindOptions(ctx context.Context) ([]Employee, error) {
	var items []Employee
	err := r.db.WithContext(ctx).
		Select("id", "matricula", "name", "branch").
		Scopes(ByStatus(StatusActive)).
		Order("name ASC").
		Find(&items).Error
	return items, err
}
