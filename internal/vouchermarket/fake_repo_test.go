package vouchermarket_test

import (
	"context"
	"sync"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka"
	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"
	"github.com/gustavopprado/Sistema-RH/internal/vouchermarket"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// memRepository keeps invoices and allocations in memory and enforces the same unique keys as the schema.
type memRepository struct {
	mu          sync.Mutex
	nextID      uint
	invoices    map[uint]*vouchermarket.Invoice
	allocations map[uint]map[uint]vouchermarket.Allocation
	employees   []employee.Employee

	// onLookup runs before every FindByCompetence, outside the lock.
	onLookup func()
}

func newMemRepository(emps ...employee.Employee) *memRepository {
	return &memRepository{
		invoices:    map[uint]*vouchermarket.Invoice{},
		allocations: map[uint]map[uint]vouchermarket.Allocation{},
		employees:   emps,
	}
}

func (m *memRepository) WithTx(tx *gorm.DB) vouchermarket.Repository { return m }

func (m *memRepository) FindByCompetence(ctx context.Context, month time.Time) (*vouchermarket.Invoice, error) {
	if m.onLookup != nil {
		m.onLookup()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.Competence.Equal(month) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepository) FindByID(ctx context.Context, id uint) (*vouchermarket.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memRepository) FindByIDForUpdate(ctx context.Context, id uint) (*vouchermarket.Invoice, error) {
	return m.FindByID(ctx, id)
}

func (m *memRepository) CreateInvoice(ctx context.Context, inv *vouchermarket.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.Competence.Equal(inv.Competence) {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_voucher_market_invoices_competence"}
		}
	}
	m.nextID++
	inv.ID = m.nextID
	cp := *inv
	m.invoices[inv.ID] = &cp
	m.allocations[inv.ID] = map[uint]vouchermarket.Allocation{}
	return nil
}

func (m *memRepository) UpdateInvoice(ctx context.Context, inv *vouchermarket.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memRepository) ListEligibleEmployees(ctx context.Context, r competence.Range) ([]employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []employee.Employee
	for _, e := range m.employees {
		if r.Includes(e.AdmissionDate, e.TerminationDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepository) InsertMissingAllocations(ctx context.Context, allocs []vouchermarket.Allocation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var inserted int64
	for _, a := range allocs {
		rows := m.allocations[a.InvoiceID]
		if _, exists := rows[a.EmployeeID]; exists {
			continue
		}
		m.nextID++
		a.ID = m.nextID
		rows[a.EmployeeID] = a
		inserted++
	}
	return inserted, nil
}

func (m *memRepository) ListAllocations(ctx context.Context, invoiceID uint) ([]vouchermarket.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vouchermarket.Allocation
	for _, a := range m.allocations[invoiceID] {
		a.Employee = m.employeeLocked(a.EmployeeID)
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepository) FindAllocation(ctx context.Context, invoiceID, employeeID uint) (*vouchermarket.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.allocations[invoiceID][employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Employee = m.employeeLocked(employeeID)
	return &a, nil
}

func (m *memRepository) SaveAllocations(ctx context.Context, allocs []vouchermarket.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range allocs {
		a.Employee = employee.Employee{}
		m.allocations[a.InvoiceID][a.EmployeeID] = a
	}
	return nil
}

func (m *memRepository) SetEmployeesExcluded(ctx context.Context, ids []uint, excluded bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		for i := range m.employees {
			if m.employees[i].ID == id {
				m.employees[i].VoucherMarketExcluded = excluded
			}
		}
	}
	return nil
}

func (m *memRepository) employeeLocked(id uint) employee.Employee {
	for _, e := range m.employees {
		if e.ID == id {
			return e
		}
	}
	return employee.Employee{}
}

func (m *memRepository) allocationCount(invoiceID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.allocations[invoiceID])
}

func (m *memRepository) invoiceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.invoices)
}

func (m *memRepository) setAllocationAmount(invoiceID, employeeID uint, status vouchermarket.AllocationStatus, amount string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.allocations[invoiceID][employeeID]
	a.Status = status
	a.Amount = mustDecimal(amount)
	m.allocations[invoiceID][employeeID] = a
}

type recordingOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
	err    error
}

func (r *recordingOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return r }

func (r *recordingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (r *recordingOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (r *recordingOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}
