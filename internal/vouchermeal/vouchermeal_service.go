package vouchermeal

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
	vouchermealerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermeal/errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type Service interface {
	GetByMonth(ctx context.Context, month, branch string) (ByMonthResponse, error)
	CreateOrGet(ctx context.Context, req CreateInvoiceRequest) (CreateInvoiceResponse, error)
	GetByID(ctx context.Context, id uint, costCenter string) (InvoiceDetailResponse, error)
	UpdateInvoice(ctx context.Context, id uint, req UpdateInvoiceRequest) (InvoiceDetailResponse, error)
	UpdateAllocation(ctx context.Context, id, employeeID uint, req UpdateAllocationRequest) (AllocationResponse, error)
	Close(ctx context.Context, id uint, req CloseInvoiceRequest) (InvoiceDetailResponse, error)
	Reopen(ctx context.Context, id uint) (InvoiceDetailResponse, error)
	Export(ctx context.Context, id uint, costCenter string) (ExportFile, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds the Vale Refeição engine. A nil outbox disables lifecycle events.
func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("vouchermeal.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("vouchermeal.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outbox,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) GetByMonth(ctx context.Context, month, branch string) (ByMonthResponse, error) {
	start, err := competence.ParseMonth(month)
	if err != nil {
		return ByMonthResponse{}, vouchermealerrors.ErrInvalidMonth
	}
	branch, err = normalizeBranch(branch)
	if err != nil {
		return ByMonthResponse{}, err
	}

	inv, err := s.repo.FindByCompetence(ctx, start, branch)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ByMonthResponse{}, nil
	}
	if err != nil {
		s.logger.Error("get invoice by month failed", zap.String("month", month), zap.String("branch", branch), zap.Error(err))
		return ByMonthResponse{}, mapRepositoryError(err)
	}

	summary := mapToSummary(*inv)
	return ByMonthResponse{Invoice: &summary}, nil
}

func (s *service) CreateOrGet(ctx context.Context, req CreateInvoiceRequest) (CreateInvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create invoice requested",
		zap.String("request_id", rid),
		zap.String("month", req.Month),
		zap.String("branch", req.Branch),
	)

	start, err := competence.ParseMonth(req.Month)
	if err != nil {
		return CreateInvoiceResponse{}, vouchermealerrors.ErrInvalidMonth
	}
	branch, err := normalizeBranch(req.Branch)
	if err != nil {
		return CreateInvoiceResponse{}, err
	}
	lines, err := parseLines(req.Lines)
	if err != nil {
		return CreateInvoiceResponse{}, err
	}
	rng := competence.MonthRange(start)

	existing, err := s.repo.FindByCompetence(ctx, start, branch)
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
			Competence:                 start,
			Branch:                     branch,
			InvoiceSecondHalfNumber:    strings.TrimSpace(req.InvoiceSecondHalfNumber),
			InvoiceFirstHalfNextNumber: strings.TrimSpace(req.InvoiceFirstHalfNextNumber),
			InvoiceSecondHalf:          decimal.Zero,
			InvoiceFirstHalfNext:       decimal.Zero,
			Status:                     domain.StatusDraft,
		}
		if err := qtx.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		if len(lines) > 0 {
			if _, err := s.applyLines(ctx, qtx, inv, lines); err != nil {
				return err
			}
			if err := qtx.UpdateInvoice(ctx, inv); err != nil {
				return err
			}
		}
		if _, err := s.insertDefaults(ctx, qtx, inv, rng); err != nil {
			return err
		}
		created = *inv
		return nil
	})
	if err != nil {
		if isCompetenceConflict(err) {
			s.logger.Info("create invoice lost race, loading winner", zap.String("month", req.Month), zap.String("branch", branch))
			winner, ferr := s.repo.FindByCompetence(ctx, start, branch)
			if ferr != nil {
				s.logger.Error("reload invoice after conflict failed", zap.Error(ferr))
				return CreateInvoiceResponse{}, mapRepositoryError(ferr)
			}
			return s.existed(ctx, winner, rng)
		}
		s.logFailure("create invoice", 0, err)
		return CreateInvoiceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("create invoice success",
		zap.String("request_id", rid),
		zap.Uint("invoice_id", created.ID),
		zap.String("month", competence.Format(start)),
		zap.String("branch", branch),
	)
	return CreateInvoiceResponse{InvoiceID: created.ID, Existed: false}, nil
}

func (s *service) existed(ctx context.Context, inv *Invoice, rng competence.Range) (CreateInvoiceResponse, error) {
	if inv.Status.Editable() {
		inserted, err := s.insertDefaults(ctx, s.repo, inv, rng)
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

func (s *service) insertDefaults(ctx context.Context, repo Repository, inv *Invoice, rng competence.Range) (int64, error) {
	emps, err := repo.ListEligibleEmployees(ctx, rng, inv.Branch)
	if err != nil {
		return 0, err
	}
	allocs := make([]Allocation, 0, len(emps))
	for _, e := range emps {
		if !Eligible(e, inv.Branch) {
			continue
		}
		allocs = append(allocs, Allocation{InvoiceID: inv.ID, EmployeeID: e.ID})
		allocs[len(allocs)-1].SetEmployee20(decimal.Zero)
	}
	return repo.InsertMissingAllocations(ctx, allocs)
}

// applyLines upserts the given lines and re-derives both header halves from every stored line.
func (s *service) applyLines(ctx context.Context, repo Repository, inv *Invoice, lines []Line) ([]Line, error) {
	for i := range lines {
		lines[i].InvoiceID = inv.ID
	}
	if err := repo.UpsertLines(ctx, lines); err != nil {
		return nil, err
	}
	stored, err := repo.ListLines(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	sums := SumLines(stored)
	inv.InvoiceSecondHalf = sums.SecondHalf
	inv.InvoiceFirstHalfNext = sums.FirstHalfNext
	return stored, nil
}

func (s *service) GetByID(ctx context.Context, id uint, costCenter string) (InvoiceDetailResponse, error) {
	s.logger.Debug("get invoice requested", zap.Uint("invoice_id", id), zap.String("cost_center", costCenter))

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get invoice failed", zap.Uint("invoice_id", id), zap.Error(err))
		return InvoiceDetailResponse{}, mapRepositoryError(err)
	}
	lines, err := s.repo.ListLines(ctx, id)
	if err != nil {
		s.logger.Error("list lines failed", zap.Uint("invoice_id", id), zap.Error(err))
		return InvoiceDetailResponse{}, mapRepositoryError(err)
	}
	allocs, err := s.repo.ListAllocations(ctx, id)
	if err != nil {
		s.logger.Error("list allocations failed", zap.Uint("invoice_id", id), zap.Error(err))
		return InvoiceDetailResponse{}, mapRepositoryError(err)
	}

	return buildDetail(*inv, lines, allocs, costCenter), nil
}

func (s *service) UpdateInvoice(ctx context.Context, id uint, req UpdateInvoiceRequest) (InvoiceDetailResponse, error) {
	s.logger.Debug("update invoice requested", zap.Uint("invoice_id", id), zap.Int("lines", len(req.Lines)))

	lines, err := parseLines(req.Lines)
	if err != nil {
		return InvoiceDetailResponse{}, err
	}

	var resp InvoiceDetailResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !inv.Status.Editable() {
			return vouchermealerrors.ErrInvoiceClosed
		}
		applyNumbers(inv, req.InvoiceSecondHalfNumber, req.InvoiceFirstHalfNextNumber)

		stored, err := s.applyLines(ctx, qtx, inv, lines)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := qtx.UpdateInvoice(ctx, inv); err != nil {
			return mapRepositoryError(err)
		}

		allocs, err := qtx.ListAllocations(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		resp = buildDetail(*inv, stored, allocs, "")
		return nil
	})
	if err != nil {
		s.logFailure("update invoice", id, err)
		return InvoiceDetailResponse{}, err
	}

	s.logger.Info("update invoice success",
		zap.Uint("invoice_id", id),
		zap.String("second_half", resp.Invoice.InvoiceSecondHalf),
		zap.String("first_half_next", resp.Invoice.InvoiceFirstHalfNext),
	)
	return resp, nil
}

func (s *service) UpdateAllocation(ctx context.Context, id, employeeID uint, req UpdateAllocationRequest) (AllocationResponse, error) {
	s.logger.Debug("update allocation requested", zap.Uint("invoice_id", id), zap.Uint("employee_id", employeeID))

	e20, err := req.Employee20.Decimal()
	if err != nil {
		return AllocationResponse{}, vouchermealerrors.ErrInvalidAmount
	}

	var resp AllocationResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		inv, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if !inv.Status.Editable() {
			return vouchermealerrors.ErrInvoiceClosed
		}

		alloc, err := qtx.FindAllocation(ctx, id, employeeID)
		if err != nil {
			return mapAllocationError(err)
		}
		if !Eligible(alloc.Employee, inv.Branch) {
			return vouchermealerrors.ErrEmployeeIneligible
		}

		alloc.SetEmployee20(e20)
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
		zap.String("employee20", resp.Employee20),
	)
	return resp, nil
}

// Close applies the optional snapshot, then reconciles the lunch lines against the eligible
// allocations and freezes the month.
func (s *service) Close(ctx context.Context, id uint, req CloseInvoiceRequest) (InvoiceDetailResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("close invoice requested", zap.String("request_id", rid), zap.Uint("invoice_id", id))

	lines, err := parseLines(req.Lines)
	if err != nil {
		return InvoiceDetailResponse{}, err
	}
	snapshot := make(map[uint]decimal.Decimal, len(req.Allocations))
	for _, in := range req.Allocations {
		if _, dup := snapshot[in.EmployeeID]; dup {
			return InvoiceDetailResponse{}, vouchermealerrors.ErrDuplicateAllocation.WithDetails(map[string]uint{"employeeId": in.EmployeeID})
		}
		v, err := in.Employee20.Decimal()
		if err != nil {
			return InvoiceDetailResponse{}, vouchermealerrors.ErrInvalidAmount.WithDetails(map[string]uint{"employeeId": in.EmployeeID})
		}
		snapshot[in.EmployeeID] = v
	}

	var (
		resp InvoiceDetailResponse
		noop bool
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
			stored, err := qtx.ListLines(ctx, id)
			if err != nil {
				return mapRepositoryError(err)
			}
			noop = true
			resp = buildDetail(*inv, stored, allocs, "")
			return nil
		}

		applyNumbers(inv, req.InvoiceSecondHalfNumber, req.InvoiceFirstHalfNextNumber)
		stored, err := s.applyLines(ctx, qtx, inv, lines)
		if err != nil {
			return mapRepositoryError(err)
		}

		index := make(map[uint]int, len(allocs))
		for i, a := range allocs {
			index[a.EmployeeID] = i
		}
		for empID, e20 := range snapshot {
			i, ok := index[empID]
			if !ok {
				return vouchermealerrors.ErrAllocationNotFound.WithDetails(map[string]uint{"employeeId": empID})
			}
			if !Eligible(allocs[i].Employee, inv.Branch) {
				return vouchermealerrors.ErrEmployeeIneligible.WithDetails(map[string]uint{"employeeId": empID})
			}
			allocs[i].SetEmployee20(e20)
		}

		eligible := eligibleAllocations(allocs, inv.Branch)
		lineSums := SumLines(stored)
		allocSums := SumAllocations(eligible)
		diff, ok := Reconcile(lineSums, allocSums)
		if !ok {
			return vouchermealerrors.ErrReconciliationMismatch.WithDetails(MismatchDetails{
				Diff:        money.Format(diff),
				LunchTotal:  money.Format(lineSums.Lunch),
				SumTotal100: money.Format(allocSums.Total100),
			})
		}

		now := s.now().UTC()
		inv.Status = domain.StatusClosed
		inv.ClosedAt = &now
		if err := qtx.UpdateInvoice(ctx, inv); err != nil {
			return mapRepositoryError(err)
		}
		if err := qtx.SaveAllocations(ctx, eligible); err != nil {
			return mapRepositoryError(err)
		}
		if err := s.writeEvent(ctx, tx, events.VoucherInvoiceClosed, *inv, lineSums, allocSums); err != nil {
			return err
		}

		resp = buildDetail(*inv, stored, allocs, "")
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
		zap.String("lunch_total", resp.Totals.LunchTotal),
		zap.String("sum_total100", resp.Totals.SumTotal100),
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
		lines, err := qtx.ListLines(ctx, id)
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
			sums := SumAllocations(eligibleAllocations(allocs, inv.Branch))
			if err := s.writeEvent(ctx, tx, events.VoucherInvoiceReopened, *inv, SumLines(lines), sums); err != nil {
				return err
			}
		}

		resp = buildDetail(*inv, lines, allocs, "")
		return nil
	})
	if err != nil {
		s.logFailure("reopen invoice", id, err)
		return InvoiceDetailResponse{}, err
	}

	s.logger.Info("reopen invoice done", zap.Uint("invoice_id", id), zap.Bool("transition", transition))
	return resp, nil
}

func (s *service) writeEvent(ctx context.Context, tx *gorm.DB, eventType string, inv Invoice, lines LineSums, allocs AllocationSums) error {
	if s.outbox == nil {
		return nil
	}

	rid := contextutil.GetRequestID(ctx)
	payload := events.VoucherInvoiceEvent{
		EventType:        eventType,
		Program:          events.ProgramVoucherMeal,
		InvoiceID:        inv.ID,
		Competence:       competence.Format(inv.Competence),
		Branch:           inv.Branch,
		InvoiceTotal:     money.Format(lines.Total()),
		AllocationsTotal: money.Format(allocs.Total100),
		Allocations:      allocs.Count,
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

func normalizeBranch(branch string) (string, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return domain.DefaultMealBranch, nil
	}
	if !domain.MealBranchEligible(branch) {
		return "", vouchermealerrors.ErrBranchExcluded
	}
	return branch, nil
}

func applyNumbers(inv *Invoice, secondHalf, firstHalfNext *string) {
	if secondHalf != nil {
		inv.InvoiceSecondHalfNumber = strings.TrimSpace(*secondHalf)
	}
	if firstHalfNext != nil {
		inv.InvoiceFirstHalfNextNumber = strings.TrimSpace(*firstHalfNext)
	}
}

type lineKey struct {
	kind LineKind
	part Part
}

func parseLines(inputs []LineInput) ([]Line, error) {
	lines := make([]Line, 0, len(inputs))
	seen := make(map[lineKey]struct{}, len(inputs))
	for _, in := range inputs {
		if !in.Kind.Valid() {
			return nil, vouchermealerrors.ErrInvalidLineKind.WithDetails(map[string]string{"kind": string(in.Kind)})
		}
		if !in.Part.Valid() {
			return nil, vouchermealerrors.ErrInvalidLinePart.WithDetails(map[string]string{"part": string(in.Part)})
		}
		key := lineKey{in.Kind, in.Part}
		if _, dup := seen[key]; dup {
			return nil, vouchermealerrors.ErrDuplicateLine.WithDetails(map[string]string{"kind": string(in.Kind), "part": string(in.Part)})
		}
		seen[key] = struct{}{}

		amount := decimal.Zero
		if !in.Amount.IsZero() {
			v, err := in.Amount.Decimal()
			if err != nil {
				return nil, vouchermealerrors.ErrInvalidAmount.WithDetails(map[string]string{"kind": string(in.Kind), "part": string(in.Part)})
			}
			amount = v
		}
		lines = append(lines, Line{Kind: in.Kind, Part: in.Part, Amount: amount})
	}
	return lines, nil
}

func eligibleAllocations(allocs []Allocation, branch string) []Allocation {
	out := make([]Allocation, 0, len(allocs))
	for _, a := range allocs {
		if Eligible(a.Employee, branch) {
			out = append(out, a)
		}
	}
	return out
}

func buildDetail(inv Invoice, lines []Line, allocs []Allocation, costCenter string) InvoiceDetailResponse {
	eligible := eligibleAllocations(allocs, inv.Branch)

	shown := eligible
	if cc := strings.TrimSpace(costCenter); cc != "" {
		shown = make([]Allocation, 0, len(eligible))
		for _, a := range eligible {
			if a.Employee.CostCenter == cc {
				shown = append(shown, a)
			}
		}
	}
	sortByEmployeeName(shown)

	items := make([]AllocationResponse, len(shown))
	for i, a := range shown {
		items[i] = mapToAllocation(a)
	}

	return InvoiceDetailResponse{
		Invoice:     mapToSummary(inv),
		Lines:       mapToLines(lines),
		Allocations: items,
		Totals:      buildTotals(SumLines(lines), SumAllocations(eligible), SumAllocations(shown)),
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

var kindOrder = func() map[LineKind]int {
	m := make(map[LineKind]int, len(LineKinds))
	for i, k := range LineKinds {
		m[k] = i
	}
	return m
}()

func mapToLines(lines []Line) []LineResponse {
	sorted := append([]Line(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return kindOrder[sorted[i].Kind] < kindOrder[sorted[j].Kind]
		}
		return sorted[i].Part == PartSecondHalf && sorted[j].Part != PartSecondHalf
	})

	out := make([]LineResponse, len(sorted))
	for i, l := range sorted {
		cat, _ := l.Kind.Category()
		out[i] = LineResponse{Kind: l.Kind, Category: cat, Part: l.Part, Amount: money.Format(l.Amount)}
	}
	return out
}

func mapToSummary(inv Invoice) InvoiceSummary {
	return InvoiceSummary{
		ID:                         inv.ID,
		Month:                      competence.Format(inv.Competence),
		Competence:                 competence.FormatDate(inv.Competence),
		Branch:                     inv.Branch,
		InvoiceSecondHalfNumber:    inv.InvoiceSecondHalfNumber,
		InvoiceFirstHalfNextNumber: inv.InvoiceFirstHalfNextNumber,
		InvoiceSecondHalf:          money.Format(inv.InvoiceSecondHalf),
		InvoiceFirstHalfNext:       money.Format(inv.InvoiceFirstHalfNext),
		Status:                     inv.Status,
		ClosedAt:                   inv.ClosedAt,
	}
}

func mapToAllocation(a Allocation) AllocationResponse {
	return AllocationResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		Employee20: money.Format(a.Employee20),
		Company80:  money.Format(a.Company80),
		Total100:   money.Format(a.Total100),
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
