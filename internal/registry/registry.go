// Package registry builds and queries the in-memory collection of
// station records loaded from a validated registry table.
package registry

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/schema"
)

// ErrNotFound is returned when no record matches a lookup. It is a
// normal outcome, never masked with a zero-value record.
var ErrNotFound = errors.New("registry: station not found")

// FieldMap names the source columns carrying each record field, after
// whitespace trimming. Deployments rename columns here rather than in
// parsing code.
type FieldMap struct {
	Name      string
	ID        string
	Address   string
	Type      string
	Lat       string
	Lon       string
	Status    string
	Onboarded string
	Updated   string
}

// Config declares the deployment's column mapping and its explicit
// required-field set. A source missing any required column fails load;
// nothing is silently defaulted.
type Config struct {
	Fields   FieldMap
	Required []string
}

// DefaultConfig matches the original registry workbooks: name,
// coordinates and status are required, identity and descriptive
// columns optional.
func DefaultConfig() Config {
	f := FieldMap{
		Name:      "Station Name",
		ID:        "Station ID",
		Address:   "Address",
		Type:      "Type",
		Lat:       "Lat",
		Lon:       "Lon",
		Status:    "Status",
		Onboarded: "Onboarding Date",
		Updated:   "Last Update",
	}
	return Config{
		Fields:   f,
		Required: []string{f.Name, f.Lat, f.Lon, f.Status},
	}
}

// optional returns the mapped columns that are not in the required set.
func (c Config) optional() []string {
	req := make(map[string]bool, len(c.Required))
	for _, r := range c.Required {
		req[r] = true
	}
	var out []string
	for _, col := range []string{
		c.Fields.Name, c.Fields.ID, c.Fields.Address, c.Fields.Type,
		c.Fields.Lat, c.Fields.Lon, c.Fields.Status,
		c.Fields.Onboarded, c.Fields.Updated,
	} {
		if col != "" && !req[col] {
			out = append(out, col)
		}
	}
	return out
}

// Registry is the validated, ordered collection of station records.
// Source row order is the canonical list order.
type Registry struct {
	cfg     Config
	records []models.StationRecord
}

// Load validates the table against cfg's required-field set and parses
// one record per row in source order. A non-numeric or absent
// coordinate yields a record without that coordinate, not an error.
func Load(table models.Table, cfg Config) (*Registry, error) {
	projected, err := schema.Validate(table, cfg.Required, cfg.optional())
	if err != nil {
		return nil, err
	}

	r := &Registry{
		cfg:     cfg,
		records: make([]models.StationRecord, 0, len(projected.Rows)),
	}
	for _, row := range projected.Rows {
		r.records = append(r.records, parseRecord(row, cfg.Fields))
	}
	return r, nil
}

func parseRecord(row map[string]string, f FieldMap) models.StationRecord {
	rawStatus := strings.TrimSpace(row[f.Status])
	return models.StationRecord{
		Name:        strings.TrimSpace(row[f.Name]),
		ExternalID:  nullString(row[f.ID]),
		Address:     nullString(row[f.Address]),
		Type:        nullString(row[f.Type]),
		Latitude:    models.ParseNumber(row[f.Lat]),
		Longitude:   models.ParseNumber(row[f.Lon]),
		Status:      models.ParseStatus(rawStatus),
		RawStatus:   rawStatus,
		OnboardedAt: nullTime(row[f.Onboarded]),
		UpdatedAt:   nullTime(row[f.Updated]),
	}
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(s string) sql.NullTime {
	t, ok := models.ParseTimestamp(s)
	if !ok {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// Records returns all records in source order.
func (r *Registry) Records() []models.StationRecord {
	return r.records
}

func (r *Registry) Count() int {
	return len(r.records)
}

// CountByStatus counts records whose status matches the given value
// case-insensitively. Records with missing or unrecognized status
// count as neither active nor dead.
func (r *Registry) CountByStatus(status string) int {
	want := models.ParseStatus(status)
	if want == models.StatusUnknown {
		return 0
	}
	n := 0
	for _, rec := range r.records {
		if rec.Status == want {
			n++
		}
	}
	return n
}

// FindByIdentifier returns the first record (in source order) whose
// external ID or name equals id case-insensitively.
func (r *Registry) FindByIdentifier(id string) (models.StationRecord, error) {
	for _, rec := range r.records {
		if rec.ExternalID.Valid && strings.EqualFold(rec.ExternalID.String, id) {
			return rec, nil
		}
		if strings.EqualFold(rec.Name, id) {
			return rec, nil
		}
	}
	return models.StationRecord{}, ErrNotFound
}

// Locatable returns the records that carry both coordinates, in source
// order. This is the view spatial consumers plot; records it omits are
// still listable.
func (r *Registry) Locatable() []models.StationRecord {
	var out []models.StationRecord
	for _, rec := range r.records {
		if rec.HasCoordinates() {
			out = append(out, rec)
		}
	}
	return out
}
