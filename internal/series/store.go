// Package series loads per-station time-series datasets from a
// multi-sheet workbook and answers sheet-resolution and
// trailing-window queries against them.
package series

import (
	"errors"
	"fmt"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

// TimestampColumn is the exact column name carrying row timestamps.
const TimestampColumn = "Date"

// ErrNotFound is returned when no sheet matches a lookup. A station
// with no recorded measurements is a normal outcome, not a load
// failure.
var ErrNotFound = errors.New("series: no matching sheet")

// LoadError reports a structurally malformed sheet. It fails the whole
// workbook load; no partial store is committed.
type LoadError struct {
	Sheet string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("series: sheet %q: %v", e.Sheet, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Store holds one dataset per workbook sheet, in workbook sheet order.
type Store struct {
	order    []string
	datasets map[string]models.Dataset
	dropped  map[string]int
}

// LoadStore parses every sheet of the workbook. A sheet without a
// timestamp column is structurally malformed and aborts the load; a
// sheet whose rows all have unparseable timestamps loads as a valid
// empty dataset.
func LoadStore(wb models.Workbook) (*Store, error) {
	s := &Store{
		order:    make([]string, 0, len(wb.SheetOrder)),
		datasets: make(map[string]models.Dataset, len(wb.SheetOrder)),
		dropped:  make(map[string]int, len(wb.SheetOrder)),
	}
	for _, name := range wb.SheetOrder {
		table, ok := wb.Sheets[name]
		if !ok {
			return nil, &LoadError{Sheet: name, Cause: errors.New("sheet listed but absent")}
		}
		ds, dropped, err := parseDataset(name, table)
		if err != nil {
			return nil, &LoadError{Sheet: name, Cause: err}
		}
		s.order = append(s.order, name)
		s.datasets[name] = ds
		s.dropped[name] = dropped
	}
	return s, nil
}

func parseDataset(name string, table models.Table) (models.Dataset, int, error) {
	hasTimestamp := false
	columns := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col == TimestampColumn {
			hasTimestamp = true
			continue
		}
		columns = append(columns, col)
	}
	if !hasTimestamp {
		return models.Dataset{}, 0, fmt.Errorf("no %q column", TimestampColumn)
	}

	ds := models.Dataset{
		Name:    name,
		Columns: columns,
		Rows:    make([]models.Row, 0, len(table.Rows)),
	}
	dropped := 0
	for _, raw := range table.Rows {
		ts, ok := models.ParseTimestamp(raw[TimestampColumn])
		if !ok {
			dropped++
			continue
		}
		row := models.Row{
			Timestamp: ts,
			Cells:     make(map[string]models.Cell, len(columns)),
		}
		for _, col := range columns {
			v := raw[col]
			row.Cells[col] = models.Cell{Raw: v, Number: models.ParseNumber(v)}
		}
		ds.Rows = append(ds.Rows, row)
	}
	ds.NumericColumns = numericColumns(ds)
	return ds, dropped, nil
}

// numericColumns keeps the columns where every surviving cell is
// numeric or empty. A single stray text cell demotes the whole column
// to verbatim-only.
func numericColumns(ds models.Dataset) []string {
	var out []string
	for _, col := range ds.Columns {
		numeric := true
		for _, row := range ds.Rows {
			cell := row.Cells[col]
			if cell.Raw != "" && !cell.Number.Valid {
				numeric = false
				break
			}
		}
		if numeric {
			out = append(out, col)
		}
	}
	return out
}

// SheetNames returns sheet names in workbook order.
func (s *Store) SheetNames() []string {
	return s.order
}

// Get returns the dataset for a sheet name, or ErrNotFound.
func (s *Store) Get(name string) (models.Dataset, error) {
	ds, ok := s.datasets[name]
	if !ok {
		return models.Dataset{}, ErrNotFound
	}
	return ds, nil
}

// DroppedRows returns the number of rows discarded at load for
// unparseable timestamps, summed across sheets.
func (s *Store) DroppedRows() int {
	total := 0
	for _, n := range s.dropped {
		total += n
	}
	return total
}
