package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
)

// ParseRegistryTable reads the first sheet of an xlsx document as a
// raw table. The first row is the header; cell values are kept
// verbatim for the registry to type.
func ParseRegistryTable(data []byte) (models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.Table{}, fmt.Errorf("open registry document: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return models.Table{}, fmt.Errorf("registry document has no sheets")
	}
	table, err := readSheet(f, sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return table, nil
}

// ParseWorkbook reads every sheet of an xlsx document, preserving
// sheet order. A sheet that cannot be read fails the whole parse.
func ParseWorkbook(data []byte) (models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return models.Workbook{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := models.Workbook{Sheets: make(map[string]models.Table)}
	for _, sheet := range f.GetSheetList() {
		table, err := readSheet(f, sheet)
		if err != nil {
			return models.Workbook{}, &series.LoadError{Sheet: sheet, Cause: err}
		}
		wb.SheetOrder = append(wb.SheetOrder, sheet)
		wb.Sheets[sheet] = table
	}
	return wb, nil
}

func readSheet(f *excelize.File, sheet string) (models.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return models.Table{}, nil
	}

	header := rows[0]
	table := models.Table{
		Columns: append([]string(nil), header...),
		Rows:    make([]map[string]string, 0, len(rows)-1),
	}
	for _, raw := range rows[1:] {
		if emptyRow(raw) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				// excelize trims trailing empty cells per row
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func emptyRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
