package series

import (
	"errors"
	"testing"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

func storeWithSheets(t *testing.T, names ...string) *Store {
	t.Helper()
	sheets := make(map[string]models.Table, len(names))
	for _, name := range names {
		sheets[name] = models.Table{Columns: []string{"Date"}}
	}
	store, err := LoadStore(models.Workbook{SheetOrder: names, Sheets: sheets})
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	return store
}

func TestResolve_CaseInsensitiveSubstring(t *testing.T) {
	store := storeWithSheets(t, "STN001_water", "STN002_water")

	got, err := Resolve(store, "stn001")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "STN001_water" {
		t.Errorf("Resolve(stn001) = %q, want STN001_water", got)
	}
}

func TestResolve_FirstMatchInStoreOrder(t *testing.T) {
	// Both sheets contain "stn01"; the first in workbook order wins.
	store := storeWithSheets(t, "STN010_flow", "STN01_level")

	got, err := Resolve(store, "STN01")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != "STN010_flow" {
		t.Errorf("Resolve(STN01) = %q, want first match STN010_flow", got)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	store := storeWithSheets(t, "STN001_water", "STN001_flow")

	first, err := Resolve(store, "stn001")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, err := Resolve(store, "stn001")
		if err != nil {
			t.Fatalf("Resolve (repeat %d): %v", i, err)
		}
		if got != first {
			t.Fatalf("Resolve returned %q then %q", first, got)
		}
	}
}

func TestResolve_NoMatch(t *testing.T) {
	store := storeWithSheets(t, "STN001_water")

	if _, err := Resolve(store, "STN999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if _, err := Resolve(store, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty id err = %v, want ErrNotFound", err)
	}
}
