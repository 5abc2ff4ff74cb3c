package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/metrics"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.mu.Lock()
	// Landing on the overview page is the explicit back event.
	s.sess.Back()
	data := s.overviewData()
	s.mu.Unlock()

	if err := s.tmpl.ExecuteTemplate(w, "overview.html", data); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) overviewData() OverviewData {
	reg := s.sess.Registry()
	data := OverviewData{
		Total:       reg.Count(),
		ActiveCount: reg.CountByStatus("active"),
		DeadCount:   reg.CountByStatus("dead"),
		GeneratedAt: time.Now(),
	}
	for _, rec := range reg.Records() {
		data.Stations = append(data.Stations, stationView(rec))
	}
	for _, rec := range reg.Locatable() {
		data.Markers = append(data.Markers, stationView(rec))
	}
	if b, err := json.Marshal(data.Markers); err == nil {
		data.MarkersJSON = string(b)
	}
	return data
}

func (s *Server) handleStation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.URL.Query().Get("id")
	days := parseDays(r, DefaultDays)
	if id == "" || days < 1 {
		http.Error(w, "id and a positive days value are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	err := s.sess.Select(id)
	if err == nil {
		var res session.SeriesResult
		res, err = s.sess.StationSeries(id, days)
		if err == nil {
			resp := seriesResponse(res, days, s.sess.Filter().Mode)
			s.mu.Unlock()

			recordQuery("station_page", start, resp.Outcome)
			page := StationPageData{
				Station:  resp.Station,
				Days:     days,
				Presets:  WindowPresets,
				Mode:     resp.Mode,
				Series:   resp,
				HasChart: resp.Outcome == OutcomeOK && len(resp.NumericColumns) > 0,
			}
			if err := s.tmpl.ExecuteTemplate(w, "station.html", page); err != nil {
				log.Printf("template error: %v", err)
			}
			return
		}
	}
	s.mu.Unlock()

	if errors.Is(err, session.ErrUnknownStation) {
		recordQuery("station_page", start, "unknown_station")
		http.Error(w, "unknown station: "+id, http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func recordQuery(endpoint string, start time.Time, outcome string) {
	metrics.StationQueriesTotal.WithLabelValues(outcome).Inc()
	metrics.QueryDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}
