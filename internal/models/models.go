package models

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Table is a raw tabular document: ordered column names plus rows of
// string cells keyed by column name. Cell values are kept verbatim;
// typing happens in the consumers (registry, series).
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Workbook maps sheet name to raw table. SheetOrder preserves the
// source document's sheet ordering, which is load-bearing for
// first-match sheet resolution.
type Workbook struct {
	SheetOrder []string
	Sheets     map[string]Table
}

// Status is the interpreted station status. Source values are free
// text; anything that is not "active" or "dead" (case-insensitively)
// is Unknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusActive
	StatusDead
)

func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return StatusActive
	case "dead":
		return StatusDead
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}

type StationRecord struct {
	Name        string
	ExternalID  sql.NullString
	Address     sql.NullString
	Type        sql.NullString
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
	Status      Status
	RawStatus   string
	OnboardedAt sql.NullTime
	UpdatedAt   sql.NullTime
}

// HasCoordinates reports whether the record can be placed on a map.
// Records without both coordinates stay listable but are skipped by
// spatial consumers.
func (r StationRecord) HasCoordinates() bool {
	return r.Latitude.Valid && r.Longitude.Valid
}

// Identifier returns the key used for selection and sheet resolution:
// the external station ID when the source provides one, otherwise the
// station name.
func (r StationRecord) Identifier() string {
	if r.ExternalID.Valid && r.ExternalID.String != "" {
		return r.ExternalID.String
	}
	return r.Name
}

// Cell is one dataset value: the verbatim source text plus its numeric
// parse when the text is a number.
type Cell struct {
	Raw    string
	Number sql.NullFloat64
}

type Row struct {
	Timestamp time.Time
	Cells     map[string]Cell
}

// Dataset is one sheet's time series. Rows are kept in source order
// and are assumed ascending by timestamp; the filter never re-sorts.
type Dataset struct {
	Name string
	// Columns is the source column order with the timestamp column
	// excluded.
	Columns []string
	// NumericColumns are the columns where every non-empty cell parses
	// as a number. Only these feed charts and aggregation; mixed
	// columns are retained verbatim but excluded.
	NumericColumns []string
	Rows           []Row
}

func (d Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Plottable reports whether the dataset can produce a chart. A dataset
// with zero numeric columns is valid but has nothing to plot.
func (d Dataset) Plottable() bool {
	return len(d.Rows) > 0 && len(d.NumericColumns) > 0
}

// LatestTimestamp returns the maximum timestamp in the dataset, or
// false when it has no rows.
func (d Dataset) LatestTimestamp() (time.Time, bool) {
	if len(d.Rows) == 0 {
		return time.Time{}, false
	}
	latest := d.Rows[0].Timestamp
	for _, row := range d.Rows[1:] {
		if row.Timestamp.After(latest) {
			latest = row.Timestamp
		}
	}
	return latest, true
}

// ParseNumber parses a cell as a float. Empty and non-numeric text
// yield an invalid NullFloat64, never an error.
func ParseNumber(s string) sql.NullFloat64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
