package vouchermarket

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

func (s *service) Export(ctx context.Context, id uint) (ExportFile, error) {
	detail, err := s.GetByID(ctx, id)
	if err != nil {
		return ExportFile{}, err
	}

	rows := make([][]any, len(detail.Allocations))
	for i, a := range detail.Allocations {
		note := ""
		if a.Note != nil {
			note = *a.Note
		}
		rows[i] = []any{
			a.Employee.Matricula,
			a.Employee.Name,
			a.Employee.CostCenter,
			a.Employee.Branch,
			string(a.Status),
			a.Amount,
			note,
		}
	}

	inv := detail.Invoice
	data, err := xlsx.Build(
		xlsx.Sheet{
			Name:   "Allocations",
			Header: []string{"Matricula", "Name", "Cost center", "Branch", "Status", "Amount", "Note"},
			Rows:   rows,
		},
		xlsx.Sheet{
			Name: "Totals",
			Rows: [][]any{
				{"Month", inv.Month},
				{"Status", string(inv.Status)},
				{"Invoice number", inv.InvoiceNumber},
				{"Invoice value", inv.InvoiceValue},
				{"Base value", detail.BaseValue},
				{"Sum of allocations", detail.Totals.SumAllocations},
				{"Difference", detail.Totals.Diff},
				{"Company 95%", detail.Totals.Company95},
				{"Employees 5%", detail.Totals.Employees5},
			},
		},
	)
	if err != nil {
		s.logger.Error("export invoice failed", zap.Uint("invoice_id", id), zap.Error(err))
		return ExportFile{}, err
	}

	return ExportFile{
		FileName:    fmt.Sprintf("vale-mercado-%s.xlsx", inv.Month),
		ContentType: xlsx.ContentType,
		Data:        data,
	}, nil
}
