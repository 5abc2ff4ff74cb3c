package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

func parseDays(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return fallback
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return days
}

func (s *Server) handleAPIStations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.sess.Registry().Records()
	views := make([]StationView, 0, len(records))
	for _, rec := range records {
		views = append(views, stationView(rec))
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.URL.Query().Get("station")
	if id == "" {
		http.Error(w, "station parameter required", http.StatusBadRequest)
		return
	}
	days := parseDays(r, DefaultDays)
	if days < 1 {
		http.Error(w, "days must be a positive integer", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	mode := s.sess.Filter().Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		var err error
		mode, err = series.ParseReferenceMode(raw)
		if err != nil {
			s.mu.Unlock()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	res, err := s.sess.StationSeriesAt(id, days, mode)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, session.ErrUnknownStation) {
			recordQuery("api_series", start, "unknown_station")
			http.Error(w, "unknown station: "+id, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := seriesResponse(res, days, mode)
	recordQuery("api_series", start, resp.Outcome)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
