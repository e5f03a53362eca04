package vouchermeal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gustavopprado/Sistema-RH/internal/domain"
	"github.com/gustavopprado/Sistema-RH/internal/employee"
	"github.com/gustavopprado/Sistema-RH/internal/events"
	"github.com/gustavopprado/Sistema-RH/internal/shared/apperror"
	"github.com/gustavopprado/Sistema-RH/internal/shared/money"
	"github.com/gustavopprado/Sistema-RH/internal/shared/testutil"
	"github.com/gustavopprado/Sistema-RH/internal/vouchermeal"
	vouchermealerrors "github.com/gustavopprado/Sistema-RH/internal/vouchermeal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func emp(id uint, name, branch, costCenter string) employee.Employee {
	return employee.Employee{
		ID:            id,
		Matricula:     fmt.Sprintf("M%03d", id),
		Name:          name,
		CostCenter:    costCenter,
		Branch:        branch,
		AdmissionDate: date("2023-01-10"),
	}
}

func standardLines() []vouchermeal.LineInput {
	return []vouchermeal.LineInput{
		{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartSecondHalf, Amount: "300.00"},
		{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartFirstHalfNext, Amount: "200.00"},
		{Kind: vouchermeal.KindCoffeeSandwich, Part: vouchermeal.PartSecondHalf, Amount: "90.00"},
		{Kind: vouchermeal.KindLunchVisitors, Part: vouchermeal.PartFirstHalfNext, Amount: "50.00"},
	}
}

type mealDeps struct {
	repo    *memRepository
	outbox  *recordingOutbox
	sqlMock sqlmock.Sqlmock
	svc     vouchermeal.Service
}

func setupMealService(t *testing.T, emps ...employee.Employee) mealDeps {
	t.Helper()
	db, mock := testutil.NewMockDB(t)
	repo := newMemRepository(emps...)
	outbox := &recordingOutbox{}
	return mealDeps{
		repo:    repo,
		outbox:  outbox,
		sqlMock: mock,
		svc:     vouchermeal.NewService(db, repo, outbox),
	}
}

// defaultStaff has two eligible employees on branch 1 plus one of each kind that must be left out.
func defaultStaff() []employee.Employee {
	ana := emp(1, "Ana", "1", "ADM")
	bruno := emp(2, "Bruno", "1", "PROD")
	carla := emp(3, "Carla", "2", "ADM")
	davi := emp(4, "Davi", "1", "ADM")
	davi.VoucherMealExcluded = true
	eva := emp(5, "Eva", "3", "ADM")
	fabio := emp(6, "Fábio", "1", "ADM")
	term := date("2024-02-10")
	fabio.TerminationDate = &term
	return []employee.Employee{ana, bruno, carla, davi, eva, fabio}
}

func createMonth(t *testing.T, d mealDeps) uint {
	t.Helper()
	testutil.ExpectTx(t, d.sqlMock, true)
	resp, err := d.svc.CreateOrGet(context.Background(), vouchermeal.CreateInvoiceRequest{
		Month:                   "2024-03",
		InvoiceSecondHalfNumber: "NF-100",
		Lines:                   standardLines(),
	})
	require.NoError(t, err)
	require.False(t, resp.Existed)
	return resp.InvoiceID
}

func setShare(t *testing.T, d mealDeps, id, employeeID uint, e20 string) vouchermeal.AllocationResponse {
	t.Helper()
	testutil.ExpectTx(t, d.sqlMock, true)
	resp, err := d.svc.UpdateAllocation(context.Background(), id, employeeID, vouchermeal.UpdateAllocationRequest{Employee20: money.Amount(e20)})
	require.NoError(t, err)
	return resp
}

func TestService_CreateOrGet(t *testing.T) {
	t.Run("defaults to branch 1 and seeds eligible employees only", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		detail, err := d.svc.GetByID(context.Background(), id, "")
		require.NoError(t, err)

		assert.Equal(t, "1", detail.Invoice.Branch)
		assert.Equal(t, "2024-03", detail.Invoice.Month)
		assert.Equal(t, "NF-100", detail.Invoice.InvoiceSecondHalfNumber)
		assert.Equal(t, "390.00", detail.Invoice.InvoiceSecondHalf)
		assert.Equal(t, "250.00", detail.Invoice.InvoiceFirstHalfNext)
		assert.Equal(t, domain.StatusDraft, detail.Invoice.Status)

		require.Len(t, detail.Allocations, 2)
		assert.Equal(t, "Ana", detail.Allocations[0].Employee.Name)
		assert.Equal(t, "Bruno", detail.Allocations[1].Employee.Name)
		assert.Equal(t, "0.00", detail.Allocations[0].Total100)

		require.Len(t, detail.Lines, 4)
		assert.Equal(t, vouchermeal.KindLunch, detail.Lines[0].Kind)
		assert.Equal(t, vouchermeal.PartSecondHalf, detail.Lines[0].Part)
		assert.Equal(t, vouchermeal.CategoryCoffee, detail.Lines[2].Category)

		assert.Equal(t, "640.00", detail.Totals.InvoiceTotal)
		assert.Equal(t, "500.00", detail.Totals.LunchTotal)
		assert.Equal(t, "90.00", detail.Totals.CoffeeTotal)
		assert.Equal(t, "50.00", detail.Totals.ThirdPartyTotal)
		assert.Equal(t, "500.00", detail.Totals.Diff)
		assert.Equal(t, 2, detail.Totals.EligibleEmployees)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("branch 2 is refused", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		_, err := d.svc.CreateOrGet(context.Background(), vouchermeal.CreateInvoiceRequest{Month: "2024-03", Branch: "2"})
		assert.ErrorIs(t, err, vouchermealerrors.ErrBranchExcluded)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid lines are rejected before any write", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		tests := []struct {
			name  string
			lines []vouchermeal.LineInput
			want  error
		}{
			{"unknown kind", []vouchermeal.LineInput{{Kind: "DESSERT", Part: vouchermeal.PartSecondHalf, Amount: "1"}}, vouchermealerrors.ErrInvalidLineKind},
			{"unknown part", []vouchermeal.LineInput{{Kind: vouchermeal.KindLunch, Part: "THIRD_HALF", Amount: "1"}}, vouchermealerrors.ErrInvalidLinePart},
			{"negative amount", []vouchermeal.LineInput{{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartSecondHalf, Amount: "-1"}}, vouchermealerrors.ErrInvalidAmount},
			{"duplicate", []vouchermeal.LineInput{
				{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartSecondHalf, Amount: "1"},
				{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartSecondHalf, Amount: "2"},
			}, vouchermealerrors.ErrDuplicateLine},
		}
		for _, tt := range tests {
			_, err := d.svc.CreateOrGet(context.Background(), vouchermeal.CreateInvoiceRequest{Month: "2024-03", Lines: tt.lines})
			assert.ErrorIs(t, err, tt.want, tt.name)
		}
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("existing month tops up new employees", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)
		d.repo.setEmployee(emp(7, "Gabriela", "1", "PROD"))

		resp, err := d.svc.CreateOrGet(context.Background(), vouchermeal.CreateInvoiceRequest{Month: "2024-03", Branch: "1"})
		require.NoError(t, err)
		assert.True(t, resp.Existed)
		assert.Equal(t, id, resp.InvoiceID)
		assert.Equal(t, 3, d.repo.allocationCount(id))
	})
}

func TestService_GetByMonth(t *testing.T) {
	d := setupMealService(t, defaultStaff()...)

	resp, err := d.svc.GetByMonth(context.Background(), "2024-03", "")
	require.NoError(t, err)
	assert.Nil(t, resp.Invoice)

	createMonth(t, d)
	resp, err = d.svc.GetByMonth(context.Background(), "2024-03", "1")
	require.NoError(t, err)
	require.NotNil(t, resp.Invoice)
	assert.Equal(t, "1", resp.Invoice.Branch)

	resp, err = d.svc.GetByMonth(context.Background(), "2024-03", "3")
	require.NoError(t, err)
	assert.Nil(t, resp.Invoice)

	_, err = d.svc.GetByMonth(context.Background(), "2024-3", "")
	assert.ErrorIs(t, err, vouchermealerrors.ErrInvalidMonth)
}

func TestService_UpdateAllocation(t *testing.T) {
	t.Run("derives company and total from the employee share", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		resp := setShare(t, d, id, 1, "12,50")
		assert.Equal(t, "12.50", resp.Employee20)
		assert.Equal(t, "50.00", resp.Company80)
		assert.Equal(t, "62.50", resp.Total100)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative share is rejected", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		_, err := d.svc.UpdateAllocation(context.Background(), id, 1, vouchermeal.UpdateAllocationRequest{Employee20: "-1"})
		assert.ErrorIs(t, err, vouchermealerrors.ErrInvalidAmount)
	})

	t.Run("employee flagged after seeding is ineligible", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)
		bruno := emp(2, "Bruno", "1", "PROD")
		bruno.VoucherMealExcluded = true
		d.repo.setEmployee(bruno)

		testutil.ExpectTx(t, d.sqlMock, false)
		_, err := d.svc.UpdateAllocation(context.Background(), id, 2, vouchermeal.UpdateAllocationRequest{Employee20: "10"})
		assert.ErrorIs(t, err, vouchermealerrors.ErrEmployeeIneligible)

		detail, err := d.svc.GetByID(context.Background(), id, "")
		require.NoError(t, err)
		require.Len(t, detail.Allocations, 1)
		assert.Equal(t, uint(1), detail.Allocations[0].EmployeeID)
	})

	t.Run("unknown employee", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		testutil.ExpectTx(t, d.sqlMock, false)
		_, err := d.svc.UpdateAllocation(context.Background(), id, 99, vouchermeal.UpdateAllocationRequest{Employee20: "10"})
		assert.ErrorIs(t, err, vouchermealerrors.ErrAllocationNotFound)
	})
}

func TestService_GetByID_CostCenterFilter(t *testing.T) {
	d := setupMealService(t, defaultStaff()...)
	id := createMonth(t, d)
	setShare(t, d, id, 1, "60.00")
	setShare(t, d, id, 2, "40.00")

	detail, err := d.svc.GetByID(context.Background(), id, "PROD")
	require.NoError(t, err)

	require.Len(t, detail.Allocations, 1)
	assert.Equal(t, "Bruno", detail.Allocations[0].Employee.Name)
	assert.Equal(t, "200.00", detail.Totals.SumTotal100)
	assert.Equal(t, "0.00", detail.Totals.Diff)
	assert.Equal(t, "90.00", detail.Totals.CoffeePerEmployee)
	assert.Equal(t, "250.00", detail.Totals.CompanyTotalWithCoffee)
	assert.Equal(t, 2, detail.Totals.EligibleEmployees)
	assert.Equal(t, 1, detail.Totals.ListedEmployees)

	_, err = d.svc.GetByID(context.Background(), 999, "")
	assert.ErrorIs(t, err, vouchermealerrors.ErrInvoiceNotFound)
}

func TestService_Close(t *testing.T) {
	t.Run("mismatch is refused with details", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		testutil.ExpectTx(t, d.sqlMock, false)
		_, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			Allocations: []vouchermeal.CloseAllocationInput{
				{EmployeeID: 1, Employee20: "60.00"},
				{EmployeeID: 2, Employee20: "39.99"},
			},
		})
		require.ErrorIs(t, err, vouchermealerrors.ErrReconciliationMismatch)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, vouchermeal.MismatchDetails{Diff: "0.05", LunchTotal: "500.00", SumTotal100: "499.95"}, appErr.Details)
		assert.Empty(t, d.outbox.events)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("closes when lunch matches and emits an event", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		testutil.ExpectTx(t, d.sqlMock, true)
		detail, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			InvoiceFirstHalfNextNumber: strPtr("NF-200"),
			Allocations: []vouchermeal.CloseAllocationInput{
				{EmployeeID: 1, Employee20: "60.00"},
				{EmployeeID: 2, Employee20: "40,00"},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.StatusClosed, detail.Invoice.Status)
		assert.NotNil(t, detail.Invoice.ClosedAt)
		assert.Equal(t, "NF-200", detail.Invoice.InvoiceFirstHalfNextNumber)
		assert.Equal(t, "100.00", detail.Totals.SumEmployee20)
		assert.Equal(t, "400.00", detail.Totals.SumCompany80)
		assert.Equal(t, "500.00", detail.Totals.SumTotal100)
		assert.Equal(t, "0.00", detail.Totals.Diff)
		assert.Equal(t, "45.00", detail.Totals.CoffeePerEmployee)
		assert.Equal(t, "490.00", detail.Totals.CompanyTotalWithCoffee)

		require.Len(t, d.outbox.events, 1)
		ev := d.outbox.events[0]
		assert.Equal(t, events.VoucherInvoiceClosed, ev.EventType)
		assert.Equal(t, events.VoucherInvoiceTopic, ev.Topic)

		var payload events.VoucherInvoiceEvent
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, events.ProgramVoucherMeal, payload.Program)
		assert.Equal(t, "1", payload.Branch)
		assert.Equal(t, "640.00", payload.InvoiceTotal)
		assert.Equal(t, "500.00", payload.AllocationsTotal)
		assert.Equal(t, 2, payload.Allocations)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})

	t.Run("lines sent with close replace stored amounts", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		testutil.ExpectTx(t, d.sqlMock, true)
		detail, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			Lines: []vouchermeal.LineInput{
				{Kind: vouchermeal.KindLunch, Part: vouchermeal.PartFirstHalfNext, Amount: "0"},
			},
			Allocations: []vouchermeal.CloseAllocationInput{
				{EmployeeID: 1, Employee20: "60.00"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "300.00", detail.Totals.LunchTotal)
		assert.Equal(t, "50.00", detail.Invoice.InvoiceFirstHalfNext)
	})

	t.Run("ineligible employees do not count", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)
		setShare(t, d, id, 2, "40.00")
		bruno := emp(2, "Bruno", "1", "PROD")
		bruno.VoucherMealExcluded = true
		d.repo.setEmployee(bruno)

		testutil.ExpectTx(t, d.sqlMock, true)
		detail, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			Allocations: []vouchermeal.CloseAllocationInput{{EmployeeID: 1, Employee20: "100.00"}},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, detail.Invoice.Status)
		assert.Len(t, detail.Allocations, 1)
		assert.Equal(t, 1, detail.Totals.EligibleEmployees)
	})

	t.Run("snapshot errors", func(t *testing.T) {
		d := setupMealService(t, defaultStaff()...)
		id := createMonth(t, d)

		testutil.ExpectTx(t, d.sqlMock, false)
		_, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			Allocations: []vouchermeal.CloseAllocationInput{{EmployeeID: 99, Employee20: "1"}},
		})
		assert.ErrorIs(t, err, vouchermealerrors.ErrAllocationNotFound)

		_, err = d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
			Allocations: []vouchermeal.CloseAllocationInput{
				{EmployeeID: 1, Employee20: "1"},
				{EmployeeID: 1, Employee20: "2"},
			},
		})
		assert.ErrorIs(t, err, vouchermealerrors.ErrDuplicateAllocation)
		assert.NoError(t, d.sqlMock.ExpectationsWereMet())
	})
}

func TestService_ReopenAndEdit(t *testing.T) {
	d := setupMealService(t, defaultStaff()...)
	id := createMonth(t, d)

	testutil.ExpectTx(t, d.sqlMock, true)
	_, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{
		Allocations: []vouchermeal.CloseAllocationInput{
			{EmployeeID: 1, Employee20: "50.00"},
			{EmployeeID: 2, Employee20: "50.00"},
		},
	})
	require.NoError(t, err)

	testutil.ExpectTx(t, d.sqlMock, true)
	again, err := d.svc.Close(context.Background(), id, vouchermeal.CloseInvoiceRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, again.Invoice.Status)
	assert.Len(t, d.outbox.events, 1)

	testutil.ExpectTx(t, d.sqlMock, false)
	_, err = d.svc.UpdateInvoice(context.Background(), id, vouchermeal.UpdateInvoiceRequest{InvoiceSecondHalfNumber: strPtr("X")})
	assert.ErrorIs(t, err, vouchermealerrors.ErrInvoiceClosed)

	testutil.ExpectTx(t, d.sqlMock, false)
	_, err = d.svc.UpdateAllocation(context.Background(), id, 1, vouchermeal.UpdateAllocationRequest{Employee20: "1"})
	assert.ErrorIs(t, err, vouchermealerrors.ErrInvoiceClosed)

	testutil.ExpectTx(t, d.sqlMock, true)
	reopened, err := d.svc.Reopen(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, reopened.Invoice.Status)
	assert.Nil(t, reopened.Invoice.ClosedAt)
	require.Len(t, d.outbox.events, 2)
	assert.Equal(t, events.VoucherInvoiceReopened, d.outbox.events[1].EventType)

	testutil.ExpectTx(t, d.sqlMock, true)
	updated, err := d.svc.UpdateInvoice(context.Background(), id, vouchermeal.UpdateInvoiceRequest{
		Lines: []vouchermeal.LineInput{{Kind: vouchermeal.KindLunchDonation, Part: vouchermeal.PartSecondHalf, Amount: "10"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "400.00", updated.Invoice.InvoiceSecondHalf)
	assert.Equal(t, "60.00", updated.Totals.ThirdPartyTotal)
	assert.Len(t, updated.Lines, 5)
	assert.NoError(t, d.sqlMock.ExpectationsWereMet())
}

func TestService_Export(t *testing.T) {
	d := setupMealService(t, defaultStaff()...)
	id := createMonth(t, d)

	file, err := d.svc.Export(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, "vale-refeicao-2024-03-filial-1.xlsx", file.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Lines", "Allocations", "Totals"}, f.GetSheetList())

	rows, err := f.GetRows("Allocations")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func strPtr(s string) *string { return &s }
