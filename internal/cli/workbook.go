package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/lindenview/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExplanationSheet is the sheet holding per-row explanations in exported workbooks.
const ExplanationSheet = "explanations"

// WriteWorkbook writes table as an XLSX workbook to w. Titles go in the first
// row of sheet; rows follow in order. When the table has explanations they are
// written to ExplanationSheet, one line per cell, keyed by row position.
func WriteWorkbook(w io.Writer, table *models.ResultTable, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "results"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet %q: %w", sheet, err)
	}

	next := 1
	if len(table.Titles) > 0 {
		header := make([]any, len(table.Titles))
		for i, t := range table.Titles {
			header[i] = t
		}
		if err := setRow(f, sheet, next, header); err != nil {
			return err
		}
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("create header style: %w", err)
		}
		if err := f.SetRowStyle(sheet, next, next, style); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
		next++
	}
	for _, row := range table.Rows {
		cells := make([]any, len(row.Cells))
		for i, c := range row.Cells {
			cells[i] = workbookCell(c)
		}
		if err := setRow(f, sheet, next, cells); err != nil {
			return err
		}
		next++
	}

	if table.HasExplanation {
		if err := writeExplanationSheet(f, table); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func writeExplanationSheet(f *excelize.File, table *models.ResultTable) error {
	if _, err := f.NewSheet(ExplanationSheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", ExplanationSheet, err)
	}
	next := 1
	for pos, row := range table.Rows {
		if row.Explanation == "" {
			continue
		}
		cells := []any{pos}
		for _, line := range strings.Split(strings.TrimSuffix(row.Explanation, "\n"), "\n") {
			cells = append(cells, line)
		}
		if err := setRow(f, ExplanationSheet, next, cells); err != nil {
			return err
		}
		next++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

func workbookCell(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case string, int, float64, bool:
		return v
	default:
		return FormatCell(v)
	}
}
