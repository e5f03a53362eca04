package vouchermeal

import (
	"context"
	"fmt"

	"github.com/gustavopprado/Sistema-RH/internal/shared/xlsx"

	"go.uber.org/zap"
)

type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (s *service) Export(ctx context.Context, id uint, costCenter string) (ExportFile, error) {
	detail, err := s.GetByID(ctx, id, costCenter)
	if err != nil {
		return ExportFile{}, err
	}

	lineRows := make([][]any, len(detail.Lines))
	for i, l := range detail.Lines {
		lineRows[i] = []any{string(l.Kind), string(l.Category), string(l.Part), l.Amount}
	}

	allocRows := make([][]any, len(detail.Allocations))
	for i, a := range detail.Allocations {
		allocRows[i] = []any{
			a.Employee.Matricula,
			a.Employee.Name,
			a.Employee.CostCenter,
			a.Employee20,
			a.Company80,
			a.Total100,
		}
	}

	inv, totals := detail.Invoice, detail.Totals
	data, err := xlsx.Build(
		xlsx.Sheet{
			Name:   "Lines",
			Header: []string{"Kind", "Category", "Part", "Amount"},
			Rows:   lineRows,
		},
		xlsx.Sheet{
			Name:   "Allocations",
			Header: []string{"Matricula", "Name", "Cost center", "Employee 20%", "Company 80%", "Total 100%"},
			Rows:   allocRows,
		},
		xlsx.Sheet{
			Name: "Totals",
			Rows: [][]any{
				{"Month", inv.Month},
				{"Branch", inv.Branch},
				{"Status", string(inv.Status)},
				{"Invoice second half", inv.InvoiceSecondHalfNumber, inv.InvoiceSecondHalf},
				{"Invoice first half next", inv.InvoiceFirstHalfNextNumber, inv.InvoiceFirstHalfNext},
				{"Invoice total", totals.InvoiceTotal},
				{"Lunch", totals.LunchTotal},
				{"Coffee", totals.CoffeeTotal},
				{"Third party", totals.ThirdPartyTotal},
				{"Employees 20%", totals.SumEmployee20},
				{"Company 80%", totals.SumCompany80},
				{"Total 100%", totals.SumTotal100},
				{"Difference", totals.Diff},
				{"Coffee per employee", totals.CoffeePerEmployee},
				{"Company total with coffee", totals.CompanyTotalWithCoffee},
			},
		},
	)
	if err != nil {
		s.logger.Error("export invoice failed", zap.Uint("invoice_id", id), zap.Error(err))
		return ExportFile{}, err
	}

	return ExportFile{
		FileName:    fmt.Sprintf("vale-refeicao-%s-filial-%s.xlsx", inv.Month, inv.Branch),
		ContentType: xlsx.ContentType,
		Data:        data,
	}, nil
}
