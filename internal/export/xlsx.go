package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the worksheet holding the pivot and report side by side.
	SheetName = "Export"
	// MappingSheet holds unification provenance.
	MappingSheet = "Unifications"
)

// WriteXLSX writes pivot at column A and report after a one-column gap on a
// single sheet. A non-empty mapping goes to its own sheet.
func WriteXLSX(path string, pivot, report, mapping *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := writeBlock(f, SheetName, 1, pivot, bold); err != nil {
		return err
	}
	if err := writeBlock(f, SheetName, pivot.Width()+2, report, bold); err != nil {
		return err
	}
	if mapping != nil && len(mapping.Rows) > 0 {
		if _, err := f.NewSheet(MappingSheet); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
		if err := writeBlock(f, MappingSheet, 1, mapping, bold); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// writeBlock writes t with its top-left corner at row 1, column col (1-based).
func writeBlock(f *excelize.File, sheet string, col int, t *Table, headerStyle int) error {
	start, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, start, &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if len(t.Header) > 0 {
		end, _ := excelize.CoordinatesToCellName(col+len(t.Header)-1, 1)
		if err := f.SetCellStyle(sheet, start, end, headerStyle); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(col, r+2)
		if err != nil {
			return err
		}
		vals := row
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	return nil
}
