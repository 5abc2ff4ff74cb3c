package series

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

func sheetTable(rows []map[string]string, columns ...string) models.Table {
	return models.Table{Columns: columns, Rows: rows}
}

func TestLoadStore_DropsUnparseableTimestamps(t *testing.T) {
	rows := make([]map[string]string, 0, 10)
	for i := 0; i < 7; i++ {
		rows = append(rows, map[string]string{
			"Date":  fmt.Sprintf("2024-05-%02d", i+1),
			"Level": fmt.Sprintf("%d.5", i),
		})
	}
	for _, bad := range []string{"", "not a date", "??"} {
		rows = append(rows, map[string]string{"Date": bad, "Level": "1.0"})
	}

	wb := models.Workbook{
		SheetOrder: []string{"STN001_water"},
		Sheets:     map[string]models.Table{"STN001_water": sheetTable(rows, "Date", "Level")},
	}
	store, err := LoadStore(wb)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}

	ds, err := store.Get("STN001_water")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(ds.Rows) != 7 {
		t.Errorf("len(Rows) = %d, want 7", len(ds.Rows))
	}
	if store.DroppedRows() != 3 {
		t.Errorf("DroppedRows() = %d, want 3", store.DroppedRows())
	}
}

func TestLoadStore_NumericColumnClassification(t *testing.T) {
	rows := []map[string]string{
		{"Date": "2024-05-01", "Level": "1.2", "Note": "ok", "Flow": "3"},
		{"Date": "2024-05-02", "Level": "1.4", "Note": "", "Flow": ""},
		{"Date": "2024-05-03", "Level": "1.1", "Note": "flooded", "Flow": "2.5"},
	}
	wb := models.Workbook{
		SheetOrder: []string{"s"},
		Sheets:     map[string]models.Table{"s": sheetTable(rows, "Date", "Level", "Note", "Flow")},
	}
	store, err := LoadStore(wb)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	ds, _ := store.Get("s")

	want := []string{"Level", "Flow"}
	if !reflect.DeepEqual(ds.NumericColumns, want) {
		t.Errorf("NumericColumns = %v, want %v", ds.NumericColumns, want)
	}
	// The mixed column is retained verbatim.
	if got := ds.Rows[2].Cells["Note"].Raw; got != "flooded" {
		t.Errorf("Note cell = %q, want flooded", got)
	}
	if ds.Rows[2].Cells["Note"].Number.Valid {
		t.Error("Note cell should not parse as a number")
	}
}

func TestLoadStore_MissingTimestampColumnFailsWholeLoad(t *testing.T) {
	wb := models.Workbook{
		SheetOrder: []string{"good", "bad"},
		Sheets: map[string]models.Table{
			"good": sheetTable([]map[string]string{{"Date": "2024-05-01", "Level": "1"}}, "Date", "Level"),
			"bad":  sheetTable([]map[string]string{{"When": "2024-05-01"}}, "When"),
		},
	}
	store, err := LoadStore(wb)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if loadErr.Sheet != "bad" {
		t.Errorf("LoadError.Sheet = %q, want bad", loadErr.Sheet)
	}
	if store != nil {
		t.Error("no partial store should be committed")
	}
}

func TestLoadStore_AllRowsDroppedIsValidEmptyDataset(t *testing.T) {
	wb := models.Workbook{
		SheetOrder: []string{"s"},
		Sheets: map[string]models.Table{
			"s": sheetTable([]map[string]string{{"Date": "junk", "Level": "1"}}, "Date", "Level"),
		},
	}
	store, err := LoadStore(wb)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	ds, err := store.Get("s")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ds.Empty() {
		t.Errorf("dataset should be empty, has %d rows", len(ds.Rows))
	}
}

func TestStore_SheetNamesInWorkbookOrder(t *testing.T) {
	order := []string{"zeta", "alpha", "mid"}
	sheets := make(map[string]models.Table, len(order))
	for _, name := range order {
		sheets[name] = sheetTable(nil, "Date")
	}
	store, err := LoadStore(models.Workbook{SheetOrder: order, Sheets: sheets})
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if !reflect.DeepEqual(store.SheetNames(), order) {
		t.Errorf("SheetNames() = %v, want %v", store.SheetNames(), order)
	}
}

func TestStore_GetUnknownSheet(t *testing.T) {
	store, err := LoadStore(models.Workbook{})
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) err = %v, want ErrNotFound", err)
	}
}
