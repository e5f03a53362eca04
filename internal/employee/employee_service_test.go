package employee_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/employee"
	employeeerrors "github.com/gustavopprado/Sistema-RH/internal/employee/errors"
	"github.com/gustavopprado/Sistema-RH/internal/shared/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn          func(ctx context.Context, e *employee.Employee) error
	updateFn          func(ctx context.Context, e *employee.Employee) error
	findByIDFn        func(ctx context.Context, id uint) (*employee.Employee, error)
	findByMatriculaFn func(ctx context.Context, matricula string) (*employee.Employee, error)
	listFn            func(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int64, error)
	findOptionsFn     func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id uint) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) FindByMatricula(ctx context.Context, matricula string) (*employee.Employee, error) {
	if f.findByMatriculaFn != nil {
		return f.findByMatriculaFn(ctx, matricula)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmployeeRepository) List(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (f *fakeEmployeeRepository) FindOptions(ctx context.Context) ([]employee.Employee, error) {
	if f.findOptionsFn != nil {
		return f.findOptionsFn(ctx)
	}
	return nil, nil
}

type employeeServiceDeps struct {
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	repo      *fakeEmployeeRepository
	service   employee.Service
}

func setupEmployeeServiceTest(t *testing.T) *employeeServiceDeps {
	t.Helper()

	db, sqlMock := testutil.NewMockDB(t)
	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeEmployeeRepository{}

	return &employeeServiceDeps{
		sqlMock:   sqlMock,
		redisMock: redisMock,
		repo:      repo,
		service:   employee.NewService(db, repo, rdb),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes fields", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			assert.Equal(t, "Maria da Silva", e.Name)
			assert.Equal(t, "1001", e.Matricula)
			assert.Equal(t, date(2024, time.January, 10), e.AdmissionDate)
			e.ID = 7
			return nil
		}
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Matricula:     " 1001 ",
			Name:          "  Maria   da  Silva ",
			CostCenter:    "ADM",
			Branch:        "1",
			AdmissionDate: "20240110",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(7), resp.ID)
		assert.Equal(t, "2024-01-10", resp.AdmissionDate)
		assert.True(t, resp.Active)
		assert.Nil(t, resp.TerminationDate)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("duplicate matricula returns conflict", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_matricula"}
		}

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Matricula: "1001", Name: "Ana", CostCenter: "ADM", Branch: "1", AdmissionDate: "2024-01-10",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrMatriculaAlreadyExists)
	})

	t.Run("termination before admission is rejected", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
			t.Fatal("repository must not be called")
			return nil
		}

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Matricula: "1001", Name: "Ana", CostCenter: "ADM", Branch: "1",
			AdmissionDate: "2024-01-10", TerminationDate: strPtr("2024-01-09"),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrTerminationBeforeAdmission)
	})

	t.Run("invalid admission date", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{
			Matricula: "1001", Name: "Ana", CostCenter: "ADM", Branch: "1", AdmissionDate: "10/01/2024",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidDate)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *employee.Employee {
		term := date(2024, time.March, 31)
		return &employee.Employee{
			ID: 3, Matricula: "1001", Name: "Ana", CostCenter: "ADM", Branch: "1",
			AdmissionDate: date(2024, time.January, 10), TerminationDate: &term,
		}
	}

	t.Run("matricula is immutable", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)

		_, err := deps.service.Update(ctx, 3, employee.UpdateEmployeeRequest{Matricula: strPtr("2002")})

		assert.ErrorIs(t, err, employeeerrors.ErrMatriculaImmutable)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("explicit null clears termination", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) {
			return existing(), nil
		}
		deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
			assert.Nil(t, e.TerminationDate)
			assert.Equal(t, "Ana Paula", e.Name)
			assert.True(t, e.VoucherMealExcluded)
			return nil
		}
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		mealExcluded := true
		resp, err := deps.service.Update(ctx, 3, employee.UpdateEmployeeRequest{
			Name:                strPtr("Ana  Paula"),
			TerminationDate:     employee.OptionalDate{Set: true},
			VoucherMealExcluded: &mealExcluded,
		})

		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("absent termination keeps stored value", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) {
			return existing(), nil
		}
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, 3, employee.UpdateEmployeeRequest{Branch: strPtr("3")})

		require.NoError(t, err)
		assert.Equal(t, "3", resp.Branch)
		require.NotNil(t, resp.TerminationDate)
		assert.Equal(t, "2024-03-31", *resp.TerminationDate)
	})

	t.Run("admission moved after termination rolls back", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) {
			return existing(), nil
		}

		_, err := deps.service.Update(ctx, 3, employee.UpdateEmployeeRequest{AdmissionDate: strPtr("2024-04-01")})

		assert.ErrorIs(t, err, employeeerrors.ErrTerminationBeforeAdmission)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, 99, employee.UpdateEmployeeRequest{Branch: strPtr("3")})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_TerminateAndReactivate(t *testing.T) {
	ctx := context.Background()
	active := func() *employee.Employee {
		return &employee.Employee{ID: 5, Matricula: "55", Name: "Joao", AdmissionDate: date(2024, time.January, 10)}
	}

	t.Run("terminate before admission", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) { return active(), nil }

		_, err := deps.service.Terminate(ctx, 5, employee.TerminateEmployeeRequest{TerminationDate: "2024-01-09"})

		assert.ErrorIs(t, err, employeeerrors.ErrTerminationBeforeAdmission)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("terminate on admission day", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) { return active(), nil }
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Terminate(ctx, 5, employee.TerminateEmployeeRequest{TerminationDate: "2024-01-10"})

		require.NoError(t, err)
		assert.False(t, resp.Active)
		assert.Equal(t, "2024-01-10", *resp.TerminationDate)
	})

	t.Run("reactivate clears termination", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		testutil.ExpectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id uint) (*employee.Employee, error) {
			e := active()
			term := date(2024, time.June, 1)
			e.TerminationDate = &term
			return e, nil
		}
		deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

		resp, err := deps.service.Reactivate(ctx, 5)

		require.NoError(t, err)
		assert.True(t, resp.Active)
		assert.Nil(t, resp.TerminationDate)
	})
}

func TestEmployeeService_List(t *testing.T) {
	deps := setupEmployeeServiceTest(t)
	deps.repo.listFn = func(ctx context.Context, filter employee.ListFilter) ([]employee.Employee, int64, error) {
		assert.Equal(t, employee.StatusActive, filter.Status)
		assert.Equal(t, employee.MaxPageSize, filter.Limit)
		assert.Equal(t, employee.MaxPageSize, filter.Offset)
		return []employee.Employee{{ID: 1, Name: "Ana", AdmissionDate: date(2024, time.January, 1)}}, 201, nil
	}

	res, err := deps.service.List(context.Background(), employee.ListEmployeesRequest{Page: 2, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, int64(201), res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, employee.MaxPageSize, res.PageSize)
	assert.Len(t, res.Items, 1)
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).SetVal(`[{"id":1,"matricula":"10","name":"Ana","branch":"1"}]`)
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			t.Fatal("repository must not be called on cache hit")
			return nil, nil
		}

		resp, err := deps.service.GetOptions(ctx)

		require.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Ana", resp[0].Name)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.redisMock.Regexp().ExpectSet(employee.EmployeeOptionsKey, `.*`, time.Hour).SetVal("OK")
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{{ID: 2, Matricula: "20", Name: "Bruno", Branch: "2"}}, nil
		}

		resp, err := deps.service.GetOptions(ctx)

		require.NoError(t, err)
		assert.Equal(t, []employee.EmployeeOptionResponse{{ID: 2, Matricula: "20", Name: "Bruno", Branch: "2"}}, resp)
		assert.NoError(t, deps.redisMock.ExpectationsWereMet())
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupEmployeeServiceTest(t)
		deps.redisMock.ExpectGet(employee.EmployeeOptionsKey).RedisNil()
		deps.repo.findOptionsFn = func(ctx context.Context) ([]employee.Employee, error) {
			return nil, errors.New("connection refused")
		}

		_, err := deps.service.GetOptions(ctx)

		assert.Error(t, err)
	})
}

func TestEmployeeService_Seed(t *testing.T) {
	deps := setupEmployeeServiceTest(t)

	path := filepath.Join(t.TempDir(), "funcionarios.json")
	content := `[
		{"Nome": "Ana  Souza", "Matricula": 1001, "Centro Custo": "ADM", "Admissao": "20200115", "Demissao": "", "Filial": 1},
		{"Nome": "Bruno Lima", "Matricula": "1002", "Centro Custo": "PRD", "Admissao": "2021-03-01", "Demissao": "2024-02-10", "Filial": "2"},
		{"Nome": "", "Matricula": "1003", "Admissao": "2021-03-01"},
		{"Nome": "Carla", "Matricula": "1004", "Admissao": "2021-13-01"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	stored := map[string]*employee.Employee{
		"1002": {ID: 2, Matricula: "1002", Name: "Bruno", VoucherMarketExcluded: true},
	}
	deps.repo.findByMatriculaFn = func(ctx context.Context, matricula string) (*employee.Employee, error) {
		if e, ok := stored[matricula]; ok {
			cp := *e
			return &cp, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.createFn = func(ctx context.Context, e *employee.Employee) error {
		assert.Equal(t, "1001", e.Matricula)
		assert.Equal(t, "Ana Souza", e.Name)
		assert.Equal(t, "1", e.Branch)
		stored[e.Matricula] = e
		return nil
	}
	deps.repo.updateFn = func(ctx context.Context, e *employee.Employee) error {
		assert.Equal(t, "Bruno Lima", e.Name)
		assert.True(t, e.VoucherMarketExcluded, "opt-out flags survive a re-seed")
		require.NotNil(t, e.TerminationDate)
		assert.Equal(t, date(2024, time.February, 10), *e.TerminationDate)
		return nil
	}
	testutil.ExpectTx(t, deps.sqlMock, true)
	testutil.ExpectTx(t, deps.sqlMock, true)
	deps.redisMock.ExpectDel(employee.EmployeeOptionsKey).SetVal(1)

	res, err := deps.service.Seed(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, employee.SeedResult{Created: 1, Updated: 1, Skipped: 2}, res)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}
