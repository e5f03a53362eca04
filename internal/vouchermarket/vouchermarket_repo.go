package vouchermarket

import (
	"context"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCompetence(ctx context.Context, month time.Time) (*Invoice, error)
	FindByID(ctx context.Context, id uint) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*Invoice, error)
	CreateInvoice(ctx context.Context, inv *Invoice) error
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	ListEligibleEmployees(ctx context.Context, r competence.Range) ([]employee.Employee, error)
	InsertMissingAllocations(ctx context.Context, allocs []Allocation) (int64, error)
	ListAllocations(ctx context.Context, invoiceID uint) ([]Allocation, error)
	FindAllocation(ctx context.Context, invoiceID, employeeID uint) (*Allocation, error)
	SaveAllocations(ctx context.Context, allocs []Allocation) error
	SetEmployeesExcluded(ctx context.Context, employeeIDs []uint, excluded bool) error
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

func (r *repository) FindByCompetence(ctx context.Context, month time.Time) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Where("competence = ?", month).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*Invoice, error) {
	var inv Invoice
	if err := r.db.WithContext(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindByIDForUpdate row-locks the header so concurrent close/reopen calls serialise.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, id).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *repository) UpdateInvoice(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *repository) ListEligibleEmployees(ctx context.Context, rng competence.Range) ([]employee.Employee, error) {
	var items []employee.Employee
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Scopes(employee.EmployedDuring(rng)).
		Order("employees.id ASC").
		Find(&items).Error
	return items, err
}

// InsertMissingAllocations skips rows whose (invoice, employee) pair already exists.
func (r *repository) InsertMissingAllocations(ctx context.Context, allocs []Allocation) (int64, error) {
	if len(allocs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(allocs, 500)
	return res.RowsAffected, res.Error
}

func (r *repository) ListAllocations(ctx context.Context, invoiceID uint) ([]Allocation, error) {
	var items []Allocation
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindAllocation(ctx context.Context, invoiceID, employeeID uint) (*Allocation, error) {
	var alloc Allocation
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("invoice_id = ? AND employee_id = ?", invoiceID, employeeID).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *repository) SaveAllocations(ctx context.Context, allocs []Allocation) error {
	if len(allocs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invoice_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount", "status", "note", "updated_at"}),
		}).
		Create(&allocs).Error
}

func (r *repository) SetEmployeesExcluded(ctx context.Context, employeeIDs []uint, excluded bool) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("id IN ?", employeeIDs).
		Update("voucher_market_excluded", excluded).Error
}
