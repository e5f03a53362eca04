package employee

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	employeeerrors "github.com/gustavopprado/Sistema-RH/internal/employee/errors"
	"github.com/gustavopprado/Sistema-RH/internal/shared/competence"
	"github.com/gustavopprado/Sistema-RH/internal/shared/contextutil"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOptionsKey = "employees:options"
	optionsTTL         = time.Hour
)

type Service interface {
	List(ctx context.Context, req ListEmployeesRequest) (ListEmployeesResult, error)
	GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error)
	GetByID(ctx context.Context, id uint) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Terminate(ctx context.Context, id uint, req TerminateEmployeeRequest) (EmployeeResponse, error)
	Reactivate(ctx context.Context, id uint) (EmployeeResponse, error)
	Seed(ctx context.Context, path string) (SeedResult, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) List(ctx context.Context, req ListEmployeesRequest) (ListEmployeesResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	s.logger.Debug("list employees requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("status", status),
		zap.Int("page", page),
		zap.Int("page_size", pageSize),
	)

	items, total, err := s.repo.List(ctx, ListFilter{
		Status:     status,
		Search:     req.Search,
		Branch:     strings.TrimSpace(req.Branch),
		CostCenter: strings.TrimSpace(req.CostCenter),
		Offset:     (page - 1) * pageSize,
		Limit:      pageSize,
	})
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return ListEmployeesResult{}, mapRepositoryError(err)
	}

	return ListEmployeesResult{
		Items:    mapToListResponse(items),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *service) GetOptions(ctx context.Context) ([]EmployeeOptionResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeeOptionsKey).Result(); err == nil {
			var resp []EmployeeOptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(EmployeeOptionsKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOptionResponse, len(emps))
		for i, e := range emps {
			resp[i] = EmployeeOptionResponse{ID: e.ID, Matricula: e.Matricula, Name: e.Name, Branch: e.Branch}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeeOptionsKey, data, optionsTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		s.logger.Error("get employee options failed", zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, id uint) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested", zap.Uint("employee_id", id))

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("matricula", req.Matricula),
	)

	name := normalizeName(req.Name)
	if name == "" {
		return EmployeeResponse{}, employeeerrors.ErrInvalidName
	}

	admission, err := parseDate(req.AdmissionDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	var termination *time.Time
	if req.TerminationDate != nil && strings.TrimSpace(*req.TerminationDate) != "" {
		t, err := parseDate(*req.TerminationDate)
		if err != nil {
			return EmployeeResponse{}, err
		}
		termination = &t
	}
	if err := validateDates(admission, termination); err != nil {
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		Matricula:             strings.TrimSpace(req.Matricula),
		Name:                  name,
		CostCenter:            strings.TrimSpace(req.CostCenter),
		Branch:                strings.TrimSpace(req.Branch),
		AdmissionDate:         admission,
		TerminationDate:       termination,
		VoucherMarketExcluded: req.VoucherMarketExcluded,
		VoucherMealExcluded:   req.VoucherMealExcluded,
	}

	if err := s.repo.Create(ctx, empl); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, employeeerrors.ErrMatriculaAlreadyExists) {
			s.logger.Warn("create employee duplicate matricula", zap.String("matricula", empl.Matricula))
		} else {
			s.logger.Error("create employee persist failed", zap.String("request_id", rid), zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}

	s.invalidateOptions(ctx)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.Uint("employee_id", empl.ID),
	)

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id uint, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested", zap.Uint("employee_id", id))

	if req.Matricula != nil {
		return EmployeeResponse{}, employeeerrors.ErrMatriculaImmutable
	}

	return s.mutate(ctx, id, "update", func(empl *Employee) error {
		if req.Name != nil {
			name := normalizeName(*req.Name)
			if name == "" {
				return employeeerrors.ErrInvalidName
			}
			empl.Name = name
		}
		if req.CostCenter != nil {
			empl.CostCenter = strings.TrimSpace(*req.CostCenter)
		}
		if req.Branch != nil {
			empl.Branch = strings.TrimSpace(*req.Branch)
		}
		if req.AdmissionDate != nil {
			admission, err := parseDate(*req.AdmissionDate)
			if err != nil {
				return err
			}
			empl.AdmissionDate = admission
		}
		if req.TerminationDate.Set {
			empl.TerminationDate = nil
			if req.TerminationDate.Value != nil {
				t, err := parseDate(*req.TerminationDate.Value)
				if err != nil {
					return err
				}
				empl.TerminationDate = &t
			}
		}
		if req.VoucherMarketExcluded != nil {
			empl.VoucherMarketExcluded = *req.VoucherMarketExcluded
		}
		if req.VoucherMealExcluded != nil {
			empl.VoucherMealExcluded = *req.VoucherMealExcluded
		}
		return validateDates(empl.AdmissionDate, empl.TerminationDate)
	})
}

func (s *service) Terminate(ctx context.Context, id uint, req TerminateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("terminate employee requested", zap.Uint("employee_id", id))

	termination, err := parseDate(req.TerminationDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	return s.mutate(ctx, id, "terminate", func(empl *Employee) error {
		if err := validateDates(empl.AdmissionDate, &termination); err != nil {
			return err
		}
		empl.TerminationDate = &termination
		return nil
	})
}

func (s *service) Reactivate(ctx context.Context, id uint) (EmployeeResponse, error) {
	s.logger.Debug("reactivate employee requested", zap.Uint("employee_id", id))

	return s.mutate(ctx, id, "reactivate", func(empl *Employee) error {
		empl.TerminationDate = nil
		return nil
	})
}

// mutate loads, changes and saves one employee inside a transaction.
func (s *service) mutate(ctx context.Context, id uint, action string, apply func(*Employee) error) (EmployeeResponse, error) {
	var updated Employee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		empl, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}
		if err := apply(empl); err != nil {
			return err
		}
		if err := qtx.Update(ctx, empl); err != nil {
			return mapRepositoryError(err)
		}
		updated = *empl
		return nil
	})
	if err != nil {
		s.logger.Warn(action+" employee failed", zap.Uint("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx)
	s.logger.Info(action+" employee success", zap.Uint("employee_id", id))

	return mapToResponse(updated), nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeeOptionsKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", EmployeeOptionsKey),
		)
	}
}

func validateDates(admission time.Time, termination *time.Time) error {
	if termination != nil && competence.DateOnly(*termination).Before(competence.DateOnly(admission)) {
		return employeeerrors.ErrTerminationBeforeAdmission
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := competence.ParseDate(v)
	if err != nil {
		return time.Time{}, employeeerrors.ErrInvalidDate
	}
	return t, nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                    empl.ID,
		Matricula:             empl.Matricula,
		Name:                  empl.Name,
		CostCenter:            empl.CostCenter,
		Branch:                empl.Branch,
		AdmissionDate:         competence.FormatDate(empl.AdmissionDate),
		Active:                empl.Active(),
		VoucherMarketExcluded: empl.VoucherMarketExcluded,
		VoucherMealExcluded:   empl.VoucherMealExcluded,
		CreatedAt:             empl.CreatedAt,
		UpdatedAt:             empl.UpdatedAt,
	}
	if empl.TerminationDate != nil {
		t := competence.FormatDate(*empl.TerminationDate)
		resp.TerminationDate = &t
	}
	return resp
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}
