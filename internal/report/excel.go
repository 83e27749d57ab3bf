package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"MarathonTracker/internal/model"
)

// ExcelFileName is the suggested name for the exported workbook.
const ExcelFileName = "financial_marathon.xlsx"

// Excel exports all entries to a single-sheet XLSX workbook.
func Excel(entries []model.BalanceEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Marathon"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Day", "Date", "Balance", "Plan", "Diff"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d cell name: %w", i+2, err)
		}
		row := []interface{}{
			e.Day,
			e.Date.Format("2006-01-02"),
			e.Actual.InexactFloat64(),
			e.Planned.InexactFloat64(),
			e.Diff.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
