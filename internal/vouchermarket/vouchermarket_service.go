package vouchermarket

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/events"
	"github.com/gustavopprado/Sistema-RH/internal/messaging/kafka"
	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"
	"github.com/gustavopprado/Sistema-RH/internal/shared/contextutil"
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"
	vouchermarketerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermarket/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type Service interface {
	GetByMonth(ctx context.Context, month string) (ByMonthResponse, error)
	CreateOrGet(ctx context.Context, req CreateInvoiceRequest) (CreateInvoiceResponse, error)
	GetByID(ctx context.Context, id uint) (InvoiceDetailResponse, error)
	UpdateInvoice(ctx context.Context, id uint, req UpdateInvoiceRequest) (InvoiceDetailResponse, error)
	UpdateAllocation(ctx context.Context, id, employeeID uint, req UpdateAllocationRequest) (AllocationResponse, error)
	Close(ctx context.Context, id uint, req CloseInvoiceRequest) (InvoiceDetailResponse, error)
	Reopen(ctx context.Context, id uint) (InvoiceDetailResponse, error)
	Export(ctx context.Context, id uint) (ExportFile, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds the Vale Mercado engine. A nil outbox disables lifecycle events.
func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("vouchermarket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vouchermarket.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) GetByMonth(ctx context.Context, month string) (ByMonthResponse, error) {
	start, err := competence.ParseMonth(month)
	if err != nil {
		return ByMonthResponse{}, vouchermarketerrors.ErrInvalidMonth
	}

	inv, err := s.repo.FindByCompetence(ctx, start)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ByMonthResponse{}, nil
	}
	if err != nil {
		s.logger.Error("get invoice by month failed", zap.String("month", month), zap.Error(err))
		return ByMonthResponse{}, mapRepositoryError(err)
	}

	summary := mapToSummary(*inv)
	return ByMonthResponse{Invoice: &summary}, nil
}

func (s *service) CreateOrGet(ctx context.Context, req CreateInvoiceRequest) (CreateInvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create invoice requested", zap.String("request_id", rid), zap.String("month", req.Month))

	start, err := competence.ParseMonth(req.Month)
	if err != nil {
		return CreateInvoiceResponse{}, vouchermarketerrors.ErrInvalidMonth
	}
	value := decimal.Zero
	if !req.InvoiceValue.IsZero() {
		if value, err = req.InvoiceValue.Decimal(); err != nil {
			return CreateInvoiceResponse{}, vouchermarketerrors.ErrInvalidAmount
		}
	}
	rng := competence.MonthRange(start)

	existing, err := s.repo.FindByCompetence(ctx, start)
	switch {
	case err == nil:
		return s.existed(ctx, existing, rng)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("create invoice lookup failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvoiceResponse{}, mapRepositoryError(err)
	}

	var created Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv := &Invoice{
			Competence:    start,
			InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
			InvoiceValue:  value,
			Status:        domain.StatusDraft,
		}
		if err := qtx.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		if _, err := s.insertDefaults(ctx, qtx, inv.ID, rng); err != nil {
			return err
		}
		created = *inv
		return nil
	})
	if err != nil {
		if isCompetenceConflict(err) {
			s.logger.Info("create invoice lost race, loading winner", zap.String("month", req.Month))
			winner, ferr := s.repo.FindByCompetence(ctx, start)
			if ferr != nil {
				s.logger.Error("reload invoice after conflict failed", zap.Error(ferr))
				return CreateInvoiceResponse{}, mapRepositoryError(ferr)
			}
			return s.existed(ctx, winner, rng)
		}
		s.logger.Error("create invoice failed", zap.String("request_id", rid), zap.Error(err))
		return CreateInvoiceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create invoice success",
		zap.String("request_id", rid),
		zap.Uint("invoice_id", created.ID),
		zap.String("month", competence.Format(start)),
	)
	return CreateInvoiceResponse{InvoiceID: created.ID, Existed: false}, nil
}

// existed tops up allocations for employees that became eligible after the invoice was created.
func (s *service) existed(ctx context.Context, inv *Invoice, rng competence.Range) (CreateInvoiceResponse, error) {
	if inv.Status.Editable() {
		inserted, err := s.insertDefaults(ctx, s.repo, inv.ID, rng)
		if err != nil {
			s.logger.Error("top up allocations failed", zap.Uint("invoice_id", inv.ID), zap.Error(err))
			return CreateInvoiceResponse{}, mapRepositoryError(err)
		}
		if inserted > 0 {
			s.logger.Info("topped up allocations", zap.Uint("invoice_id", inv.ID), zap.Int64("inserted", inserted))
		}
	}
	return CreateInvoiceResponse{InvoiceID: inv.ID, Existed: true}, nil
}

func (s *service) insertDefaults(ctx context.Context, repo Repository, invoiceID uint, rng competence.Range) (int64, error) {
	emps, err := repo.ListEligibleEmployees(ctx, rng)
	if err != nil {
		return 0, err
	}
	allocs := make([]Allocation, len(emps))
	for i, e := range emps {
		allocs[i] = DefaultAllocation(invoiceID, e)
	}
	return repo.InsertMissingAllocations(ctx, allocs)
}

func (s *service) GetByID(ctx context.Context, id uint) (InvoiceDetailResponse, error) {
	s.logger.Debug("get invoice requested", zap.Uint("invoice_id", id))

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get invoice failed", zap.Uint("invoice_id", id), zap.Error(err))
		return InvoiceDetailResponse{}, mapRepositoryError(err)
	}
	allocs, err := s.repo.ListAllocations(ctx, id)
	if err != nil {
		s.logger.Error("list allocations failed", zap.Uint("invoice_id", id), zap.Error(err))
		return InvoiceDetailResponse{}, mapRepositoryError(err)
	}

	return buildDetail(*inv, allocs), nil
}

func (s *service) UpdateInvoice(ctx context.Context, id uint, req UpdateInvoiceRequest) (InvoiceDetailResponse, error) {
	s.logger.Debug("update invoice requested", zap.Uint("invoice_id", id))

	var value *decimal.Decimal
	if !req.InvoiceValue.IsZero() {
		v, err := req.InvoiceValue.Decimal()
		if err != nil {
			return InvoiceDetailResponse{}, vouchermarketerrors.ErrInvalidAmount
		}
		value = &v
	}

	var resp InvoiceDetailResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !inv.Status.Editable() {
			return vouchermarketerrors.ErrInvoiceClosed
		}
		if req.InvoiceNumber != nil {
			inv.InvoiceNumber = strings.TrimSpace(*req.InvoiceNumber)
		}
		if value != nil {
			inv.InvoiceValue = *value
		}
		if err := qtx.UpdateInvoice(ctx, inv); err != nil {
			return mapRepositoryError(err)
		}

		allocs, err := qtx.ListAllocations(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		resp = buildDetail(*inv, allocs)
		return nil
	})
	if err != nil {
		s.logFailure("update invoice", id, err)
		return InvoiceDetailResponse{}, err
	}

	s.logger.Info("update invoice success", zap.Uint("invoice_id", id))
	return resp, nil
}

func (s *service) UpdateAllocation(ctx context.Context, id, employeeID uint, req UpdateAllocationRequest) (AllocationResponse, error) {
	s.logger.Debug("update allocation requested", zap.Uint("invoice_id", id), zap.Uint("employee_id", employeeID))

	amount, err := resolveAmount(req.Status, req.Amount)
	if err != nil {
		return AllocationResponse{}, err
	}

	var resp AllocationResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !inv.Status.Editable() {
			return vouchermarketerrors.ErrInvoiceClosed
		}

		alloc, err := qtx.FindAllocation(ctx, id, employeeID)
		if err != nil {
			return mapAllocationError(err)
		}
		alloc.Status = req.Status
		alloc.Amount = amount
		if req.Note != nil {
			note := strings.TrimSpace(*req.Note)
			alloc.Note = &note
			if note == "" {
				alloc.Note = nil
			}
		}
		if err := qtx.SaveAllocations(ctx, []Allocation{*alloc}); err != nil {
			return mapRepositoryError(err)
		}
		resp = mapToAllocation(*alloc)
		return nil
	})
	if err != nil {
		s.logFailure("update allocation", id, err)
		return AllocationResponse{}, err
	}

	s.logger.Info("update allocation success",
		zap.Uint("invoice_id", id),
		zap.Uint("employee_id", employeeID),
		zap.String("status", string(req.Status)),
	)
	return resp, nil
}

// Close merges the snapshot over the stored allocations, reconciles and freezes the month.
// The employees' opt-out flag is rewritten from the final EXCLUIDO statuses in the same transaction.
func (s *service) Close(ctx context.Context, id uint, req CloseInvoiceRequest) (InvoiceDetailResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("close invoice requested", zap.String("request_id", rid), zap.Uint("invoice_id", id))

	invoiceValue, err := req.InvoiceValue.Decimal()
	if err != nil {
		return InvoiceDetailResponse{}, vouchermarketerrors.ErrInvalidAmount
	}

	snapshot := make(map[uint]Allocation, len(req.Allocations))
	for _, in := range req.Allocations {
		if _, dup := snapshot[in.EmployeeID]; dup {
			return InvoiceDetailResponse{}, vouchermarketerrors.ErrDuplicateAllocation.WithDetails(map[string]uint{"employeeId": in.EmployeeID})
		}
		amount, err := resolveAmount(in.Status, in.Amount)
		if err != nil {
			return InvoiceDetailResponse{}, err
		}
		snapshot[in.EmployeeID] = Allocation{EmployeeID: in.EmployeeID, Status: in.Status, Amount: amount}
	}

	var (
		resp   InvoiceDetailResponse
		noop   bool
		closed Invoice
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		allocs, err := qtx.ListAllocations(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !inv.Status.CanTransition(domain.StatusClosed) {
			noop = true
			resp = buildDetail(*inv, allocs)
			return nil
		}

		index := make(map[uint]int, len(allocs))
		for i, a := range allocs {
			index[a.EmployeeID] = i
		}
		for empID, snap := range snapshot {
			i, ok := index[empID]
			if !ok {
				return vouchermarketerrors.ErrAllocationNotFound.WithDetails(map[string]uint{"employeeId": empID})
			}
			allocs[i].Status = snap.Status
			allocs[i].Amount = snap.Amount
		}

		sum := sumAllocations(allocs)
		diff, ok := domain.Reconcile(invoiceValue, sum)
		if !ok {
			return vouchermarketerrors.ErrReconciliationMismatch.WithDetails(MismatchDetails{
				Diff:           money.Format(diff),
				SumAllocations: money.Format(sum),
				InvoiceValue:   money.Format(invoiceValue),
			})
		}

		now := s.now().UTC()
		inv.InvoiceNumber = strings.TrimSpace(req.InvoiceNumber)
		inv.InvoiceValue = invoiceValue
		inv.Status = domain.StatusClosed
		inv.ClosedAt = &now
		if err := qtx.UpdateInvoice(ctx, inv); err != nil {
			return mapRepositoryError(err)
		}
		if err := qtx.SaveAllocations(ctx, allocs); err != nil {
			return mapRepositoryError(err)
		}

		var excluded, included []uint
		for i := range allocs {
			isExcluded := allocs[i].Status == AllocationExcluido
			allocs[i].Employee.VoucherMarketExcluded = isExcluded
			if isExcluded {
				excluded = append(excluded, allocs[i].EmployeeID)
			} else {
				included = append(included, allocs[i].EmployeeID)
			}
		}
		if err := qtx.SetEmployeesExcluded(ctx, excluded, true); err != nil {
			return err
		}
		if err := qtx.SetEmployeesExcluded(ctx, included, false); err != nil {
			return err
		}

		if err := s.writeEvent(ctx, tx, events.VoucherInvoiceClosed, *inv, sum, len(allocs)); err != nil {
			return err
		}

		closed = *inv
		resp = buildDetail(*inv, allocs)
		return nil
	})
	if err != nil {
		s.logFailure("close invoice", id, err)
		return InvoiceDetailResponse{}, err
	}

	if noop {
		s.logger.Info("close invoice skipped, already closed", zap.Uint("invoice_id", id))
		return resp, nil
	}

	s.logger.Info("close invoice success",
		zap.String("request_id", rid),
		zap.Uint("invoice_id", id),
		zap.String("month", competence.Format(closed.Competence)),
		zap.String("invoice_value", money.Format(closed.InvoiceValue)),
	)
	return resp, nil
}

func (s *service) Reopen(ctx context.Context, id uint) (InvoiceDetailResponse, error) {
	s.logger.Debug("reopen invoice requested", zap.Uint("invoice_id", id))

	var (
		resp       InvoiceDetailResponse
		transition bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		allocs, err := qtx.ListAllocations(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if inv.Status.CanTransition(domain.StatusDraft) {
			transition = true
			inv.Status = domain.StatusDraft
			inv.ClosedAt = nil
			if err := qtx.UpdateInvoice(ctx, inv); err != nil {
				return mapRepositoryError(err)
			}
			if err := s.writeEvent(ctx, tx, events.VoucherInvoiceReopened, *inv, sumAllocations(allocs), len(allocs)); err != nil {
				return err
			}
		}

		resp = buildDetail(*inv, allocs)
		return nil
	})
	if err != nil {
		s.logFailure("reopen invoice", id, err)
		return InvoiceDetailResponse{}, err
	}

	s.logger.Info("reopen invoice done", zap.Uint("invoice_id", id), zap.Bool("transition", transition))
	return resp, nil
}

func (s *service) writeEvent(ctx context.Context, tx *gorm.DB, eventType string, inv Invoice, sum decimal.Decimal, count int) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	payload := events.VoucherInvoiceEvent{
		EventType:        eventType,
		Program:          events.ProgramVoucherMarket,
		InvoiceID:        inv.ID,
		Competence:       competence.Format(inv.Competence),
		InvoiceTotal:     money.Format(inv.InvoiceValue),
		AllocationsTotal: money.Format(sum),
		Allocations:      count,
		RequestID:        rid,
		OccurredAt:       s.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(rid, payload.AggregateType(), strconv.FormatUint(uint64(inv.ID), 10), eventType, events.VoucherInvoiceTopic, payload)
	if err != nil {
		return err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("outbox persist failed",
			zap.Uint("invoice_id", inv.ID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) logFailure(action string, id uint, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		s.logger.Warn(action+" rejected", zap.Uint("invoice_id", id), zap.String("code", appErr.Code), zap.String("message", appErr.Message))
		return
	}
	s.logger.Error(action+" failed", zap.Uint("invoice_id", id), zap.Error(err))
}

// resolveAmount validates the status and returns the amount it implies.
func resolveAmount(status AllocationStatus, supplied money.Amount) (decimal.Decimal, error) {
	if !status.Valid() {
		return decimal.Zero, vouchermarketerrors.ErrInvalidStatus
	}
	if status != AllocationProporcional {
		return status.Amount(decimal.Zero), nil
	}
	if supplied.IsZero() {
		return decimal.Zero, vouchermarketerrors.ErrAmountRequired
	}
	v, err := supplied.Decimal()
	if err != nil {
		return decimal.Zero, vouchermarketerrors.ErrInvalidAmount
	}
	return status.Amount(v), nil
}

func sumAllocations(allocs []Allocation) decimal.Decimal {
	amounts := make([]decimal.Decimal, len(allocs))
	for i, a := range allocs {
		amounts[i] = a.Amount
	}
	return money.Sum(amounts...)
}

func buildDetail(inv Invoice, allocs []Allocation) InvoiceDetailResponse {
	sortByEmployeeName(allocs)

	items := make([]AllocationResponse, len(allocs))
	for i, a := range allocs {
		items[i] = mapToAllocation(a)
	}

	sum := sumAllocations(allocs)
	diff, _ := domain.Reconcile(inv.InvoiceValue, sum)
	split := domain.SplitMarket(inv.InvoiceValue)

	return InvoiceDetailResponse{
		Invoice:     mapToSummary(inv),
		BaseValue:   money.Format(domain.MarketBaseAmount),
		Allocations: items,
		Totals: Totals{
			SumAllocations: money.Format(sum),
			Diff:           money.Format(diff),
			Company95:      money.Format(split.Company95),
			Employees5:     money.Format(split.Employees5),
		},
	}
}

func sortByEmployeeName(allocs []Allocation) {
	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(allocs, func(i, j int) bool {
		if c := col.CompareString(allocs[i].Employee.Name, allocs[j].Employee.Name); c != 0 {
			return c < 0
		}
		return allocs[i].EmployeeID < allocs[j].EmployeeID
	})
}

func mapToSummary(inv Invoice) InvoiceSummary {
	return InvoiceSummary{
		ID:            inv.ID,
		Month:         competence.Format(inv.Competence),
		Competence:    competence.FormatDate(inv.Competence),
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceValue:  money.Format(inv.InvoiceValue),
		Status:        inv.Status,
		ClosedAt:      inv.ClosedAt,
	}
}

func mapToAllocation(a Allocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Amount:     money.Format(a.Amount),
		Status:     a.Status,
		Note:       a.Note,
		Employee:   mapToAllocationEmployee(a.Employee),
	}
}

func mapToAllocationEmployee(e employee.Employee) AllocationEmployee {
	resp := AllocationEmployee{
		ID:            e.ID,
		Matricula:     e.Matricula,
		Name:          e.Name,
		CostCenter:    e.CostCenter,
		Branch:        e.Branch,
		AdmissionDate: competence.FormatDate(e.AdmissionDate),
	}
	if e.TerminationDate != nil {
		t := competence.FormatDate(*e.TerminationDate)
		resp.TerminationDate = &t
	}
	return resp
}
