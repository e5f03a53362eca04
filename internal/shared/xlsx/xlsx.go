// Package xlsx renders simple tabular workbooks for month exports.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Build writes each sheet with an optional bold header row followed by its rows.
func Build(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx: at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return nil, fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, fmt.Errorf("xlsx: add sheet %q: %w", sh.Name, err)
		}

		first := 1
		if len(sh.Header) > 0 {
			first = 2
			header := make([]any, len(sh.Header))
			for c, h := range sh.Header {
				header[c] = h
			}
			if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
				return nil, fmt.Errorf("xlsx: write header: %w", err)
			}
			last, _ := excelize.CoordinatesToCellName(len(sh.Header), 1)
			if err := f.SetCellStyle(sh.Name, "A1", last, bold); err != nil {
				return nil, fmt.Errorf("xlsx: style header: %w", err)
			}
		}

		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, first+r)
			if err != nil {
				return nil, err
			}
			row := row
			if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("xlsx: write row %d: %w", first+r, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
