package vouchermeal_test

import (
	"context"
	"sync"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka"
	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"
	"github.com/gustavopprado/Sistema-RH/internal/vouchermeal"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type lineKey struct {
	invoiceID uint
	kind      vouchermeal.LineKind
	part      vouchermeal.Part
}

// memRepository mirrors the meal tables in memory, unique keys included.
type memRepository struct {
	mu          sync.Mutex
	nextID      uint
	invoices    map[uint]*vouchermeal.Invoice
	lines       map[lineKey]vouchermeal.Line
	allocations map[uint]map[uint]vouchermeal.Allocation
	employees   []employee.Employee
}

func newMemRepository(emps ...employee.Employee) *memRepository {
	return &memRepository{
		invoices:    map[uint]*vouchermeal.Invoice{},
		lines:       map[lineKey]vouchermeal.Line{},
		allocations: map[uint]map[uint]vouchermeal.Allocation{},
		employees:   emps,
	}
}

func (m *memRepository) WithTx(tx *gorm.DB) vouchermeal.Repository { return m }

func (m *memRepository) FindByCompetence(ctx context.Context, month time.Time, branch string) (*vouchermeal.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invoices {
		if inv.Competence.Equal(month) && inv.Branch == branch {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memRepository) FindByID(ctx context.Context, id uint) (*vouchermeal.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memRepository) FindByIDForUpdate(ctx context.Context, id uint) (*vouchermeal.Invoice, error) {
	return m.FindByID(ctx, id)
}

func (m *memRepository) CreateInvoice(ctx context.Context, inv *vouchermeal.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.Competence.Equal(inv.Competence) && existing.Branch == inv.Branch {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_voucher_meal_invoices_competence_branch"}
		}
	}
	m.nextID++
	inv.ID = m.nextID
	cp := *inv
	m.invoices[inv.ID] = &cp
	m.allocations[inv.ID] = map[uint]vouchermeal.Allocation{}
	return nil
}

func (m *memRepository) UpdateInvoice(ctx context.Context, inv *vouchermeal.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memRepository) ListEligibleEmployees(ctx context.Context, r competence.Range, branch string) ([]employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []employee.Employee
	for _, e := range m.employees {
		if e.Branch == branch && !e.VoucherMealExcluded && r.Includes(e.AdmissionDate, e.TerminationDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memRepository) InsertMissingAllocations(ctx context.Context, allocs []vouchermeal.Allocation) (int64, error) {
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

func (m *memRepository) ListAllocations(ctx context.Context, invoiceID uint) ([]vouchermeal.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vouchermeal.Allocation
	for _, a := range m.allocations[invoiceID] {
		a.Employee = m.employeeLocked(a.EmployeeID)
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepository) FindAllocation(ctx context.Context, invoiceID, employeeID uint) (*vouchermeal.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.allocations[invoiceID][employeeID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Employee = m.employeeLocked(employeeID)
	return &a, nil
}

func (m *memRepository) SaveAllocations(ctx context.Context, allocs []vouchermeal.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range allocs {
		a.Employee = employee.Employee{}
		m.allocations[a.InvoiceID][a.EmployeeID] = a
	}
	return nil
}

func (m *memRepository) ListLines(ctx context.Context, invoiceID uint) ([]vouchermeal.Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vouchermeal.Line
	for k, l := range m.lines {
		if k.invoiceID == invoiceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepository) UpsertLines(ctx context.Context, lines []vouchermeal.Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range lines {
		k := lineKey{l.InvoiceID, l.Kind, l.Part}
		if existing, ok := m.lines[k]; ok {
			existing.Amount = l.Amount
			m.lines[k] = existing
			continue
		}
		m.nextID++
		l.ID = m.nextID
		m.lines[k] = l
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

func (m *memRepository) setEmployee(e employee.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.employees {
		if m.employees[i].ID == e.ID {
			m.employees[i] = e
			return
		}
	}
	m.employees = append(m.employees, e)
}

type recordingOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (r *recordingOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return r }

func (r *recordingOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
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
