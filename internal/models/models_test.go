package models

import (
	"database/sql"
	"testing"
	"time"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want Status
	}{
		{"active", StatusActive},
		{"Active", StatusActive},
		{" ACTIVE ", StatusActive},
		{"dead", StatusDead},
		{"Dead", StatusDead},
		{"decommissioned", StatusUnknown},
		{"", StatusUnknown},
	}
	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"4.25", 4.25, true},
		{" -31.95 ", -31.95, true},
		{"0", 0, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"4,25", 0, false},
	}
	for _, tt := range tests {
		got := ParseNumber(tt.in)
		if got.Valid != tt.valid {
			t.Errorf("ParseNumber(%q).Valid = %v, want %v", tt.in, got.Valid, tt.valid)
			continue
		}
		if got.Valid && got.Float64 != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got.Float64, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01", "2024-03-01 00:00:00", true},
		{"2024-03-01 14:30:00", "2024-03-01 14:30:00", true},
		{"2024-03-01T14:30:00Z", "2024-03-01 14:30:00", true},
		{"1/2/2006", "2006-01-02 00:00:00", true},
		{"Jan 2, 2006", "2006-01-02 00:00:00", true},
		{"", "", false},
		{"not a date", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok {
			if s := got.UTC().Format("2006-01-02 15:04:05"); s != tt.want {
				t.Errorf("ParseTimestamp(%q) = %s, want %s", tt.in, s, tt.want)
			}
		}
	}
}

func TestParseTimestamp_ExcelSerial(t *testing.T) {
	// Serial 45000 is 2023-03-15 in the 1900 date system.
	got, ok := ParseTimestamp("45000")
	if !ok {
		t.Fatal("expected serial to parse")
	}
	want := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Fractional part is the time of day.
	got, ok = ParseTimestamp("45000.5")
	if !ok {
		t.Fatal("expected fractional serial to parse")
	}
	if got.Hour() != 12 {
		t.Errorf("expected noon, got %v", got)
	}
}

func TestStationRecord_Identifier(t *testing.T) {
	rec := StationRecord{Name: "Bore 7"}
	if got := rec.Identifier(); got != "Bore 7" {
		t.Errorf("expected name fallback, got %q", got)
	}

	rec.ExternalID = sql.NullString{String: "GW-007", Valid: true}
	if got := rec.Identifier(); got != "GW-007" {
		t.Errorf("expected external ID, got %q", got)
	}
}

func TestStationRecord_HasCoordinates(t *testing.T) {
	rec := StationRecord{Latitude: sql.NullFloat64{Float64: -31.95, Valid: true}}
	if rec.HasCoordinates() {
		t.Error("expected false with only one coordinate")
	}
	rec.Longitude = sql.NullFloat64{Float64: 115.86, Valid: true}
	if !rec.HasCoordinates() {
		t.Error("expected true with both coordinates")
	}
}

func TestDataset_LatestTimestamp(t *testing.T) {
	ds := Dataset{}
	if _, ok := ds.LatestTimestamp(); ok {
		t.Error("expected no timestamp for empty dataset")
	}

	t1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	ds.Rows = []Row{{Timestamp: t2}, {Timestamp: t1}}
	got, ok := ds.LatestTimestamp()
	if !ok || !got.Equal(t2) {
		t.Errorf("got %v ok=%v, want %v", got, ok, t2)
	}
}

func TestDataset_Plottable(t *testing.T) {
	ds := Dataset{Rows: []Row{{}}}
	if ds.Plottable() {
		t.Error("expected not plottable without numeric columns")
	}
	ds.NumericColumns = []string{"Level"}
	if !ds.Plottable() {
		t.Error("expected plottable")
	}
	ds.Rows = nil
	if ds.Plottable() {
		t.Error("expected not plottable without rows")
	}
}
