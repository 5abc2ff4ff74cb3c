package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/htmlutil"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

// StationView is the presentation shape of a record: optional fields
// flattened to pointers/strings at the edge, never inside the core.
type StationView struct {
	Identifier  string   `json:"identifier"`
	Name        string   `json:"name"`
	ID          string   `json:"id,omitempty"`
	Type        string   `json:"type,omitempty"`
	Address     string   `json:"address,omitempty"`
	Status      string   `json:"status"`
	RawStatus   string   `json:"raw_status,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Onboarded   string   `json:"onboarded,omitempty"`
	LastUpdate  string   `json:"last_update,omitempty"`
	Locatable   bool     `json:"locatable"`
	MarkerClass string   `json:"marker_class,omitempty"`
	Popup       string   `json:"popup,omitempty"`
}

func stationView(rec models.StationRecord) StationView {
	v := StationView{
		Identifier: rec.Identifier(),
		Name:       rec.Name,
		Status:     rec.Status.String(),
		RawStatus:  rec.RawStatus,
		Locatable:  rec.HasCoordinates(),
	}
	if rec.ExternalID.Valid {
		v.ID = rec.ExternalID.String
	}
	if rec.Type.Valid {
		v.Type = rec.Type.String
	}
	if rec.Address.Valid {
		v.Address = htmlutil.ToText(rec.Address.String)
	}
	if rec.Latitude.Valid {
		lat := rec.Latitude.Float64
		v.Latitude = &lat
	}
	if rec.Longitude.Valid {
		lon := rec.Longitude.Float64
		v.Longitude = &lon
	}
	if rec.OnboardedAt.Valid {
		v.Onboarded = rec.OnboardedAt.Time.Format("2006-01-02")
	}
	if rec.UpdatedAt.Valid {
		v.LastUpdate = rec.UpdatedAt.Time.Format("2006-01-02")
	}
	if v.Locatable {
		v.MarkerClass = markerClass(rec)
		v.Popup = popupText(rec)
	}
	return v
}

// markerClass mirrors the original icon rule: any type containing
// "groundwater" gets its own marker style.
func markerClass(rec models.StationRecord) string {
	if rec.Type.Valid && strings.Contains(strings.ToLower(rec.Type.String), "groundwater") {
		return "groundwater"
	}
	return "default"
}

// popupText is what the map layer shows for a marker. Descriptive
// fields can carry markup in the wild; only plain text leaves here.
func popupText(rec models.StationRecord) string {
	var b strings.Builder
	b.WriteString(htmlutil.ToText(rec.Name))
	if rec.ExternalID.Valid {
		fmt.Fprintf(&b, "\nID: %s", htmlutil.ToText(rec.ExternalID.String))
	}
	if rec.Type.Valid {
		fmt.Fprintf(&b, "\nType: %s", htmlutil.ToText(rec.Type.String))
	}
	fmt.Fprintf(&b, "\nStatus: %s", rec.Status)
	return b.String()
}

// OverviewData feeds the overview page: totals strip, the full list in
// source order and the locatable subset for the map.
type OverviewData struct {
	Total       int
	ActiveCount int
	DeadCount   int
	GeneratedAt time.Time
	Stations    []StationView
	Markers     []StationView
	MarkersJSON string
}

// Outcome of a series query, surfaced instead of a deceptively valid
// empty payload.
const (
	OutcomeOK          = "ok"
	OutcomeNoSheet     = "no_sheet"
	OutcomeEmptyWindow = "empty_window"
)

type SeriesRow struct {
	Date   string              `json:"date"`
	Cells  map[string]string   `json:"cells"`
	Values map[string]*float64 `json:"values"`
}

type SeriesResponse struct {
	Station        StationView `json:"station"`
	Outcome        string      `json:"outcome"`
	Sheet          string      `json:"sheet,omitempty"`
	Days           int         `json:"days"`
	Mode           string      `json:"mode"`
	TotalRows      int         `json:"total_rows"`
	Columns        []string    `json:"columns,omitempty"`
	NumericColumns []string    `json:"numeric_columns,omitempty"`
	Rows           []SeriesRow `json:"rows,omitempty"`
}

func seriesResponse(res session.SeriesResult, days int, mode series.ReferenceMode) SeriesResponse {
	resp := SeriesResponse{
		Station: stationView(res.Record),
		Days:    days,
		Mode:    string(mode),
	}
	if !res.HasSheet {
		resp.Outcome = OutcomeNoSheet
		return resp
	}

	resp.Sheet = res.Sheet
	resp.TotalRows = res.TotalRows
	resp.Columns = res.Dataset.Columns
	resp.NumericColumns = res.Dataset.NumericColumns
	if res.Dataset.Empty() {
		resp.Outcome = OutcomeEmptyWindow
		return resp
	}

	resp.Outcome = OutcomeOK
	resp.Rows = make([]SeriesRow, 0, len(res.Dataset.Rows))
	for _, row := range res.Dataset.Rows {
		sr := SeriesRow{
			Date:   row.Timestamp.Format("2006-01-02 15:04:05"),
			Cells:  make(map[string]string, len(row.Cells)),
			Values: make(map[string]*float64, len(res.Dataset.NumericColumns)),
		}
		for col, cell := range row.Cells {
			sr.Cells[col] = cell.Raw
		}
		for _, col := range res.Dataset.NumericColumns {
			if n := row.Cells[col].Number; n.Valid {
				f := n.Float64
				sr.Values[col] = &f
			} else {
				sr.Values[col] = nil
			}
		}
		resp.Rows = append(resp.Rows, sr)
	}
	return resp
}

// StationPageData feeds the detail page.
type StationPageData struct {
	Station  StationView
	Days     int
	Presets  []int
	Mode     string
	Series   SeriesResponse
	HasChart bool
}
