package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/chartgen"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := r.URL.Query().Get("station")
	days := parseDays(r, DefaultDays)
	if id == "" || days < 1 {
		http.Error(w, "station and a positive days value are required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	mode := s.sess.Filter().Mode
	res, err := s.sess.StationSeries(id, days)
	s.mu.Unlock()

	if err != nil {
		if errors.Is(err, session.ErrUnknownStation) {
			recordQuery("chart", start, "unknown_station")
			http.Error(w, "unknown station: "+id, http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !res.HasSheet || !res.Dataset.Plottable() {
		recordQuery("chart", start, OutcomeNoSheet)
		http.Error(w, "no plottable data", http.StatusNotFound)
		return
	}

	key := fmt.Sprintf("%s|%d|%s|%d", res.Sheet, days, mode, len(res.Dataset.Rows))
	data, ok := s.charts.Get(key)
	if !ok {
		title := fmt.Sprintf("%s - last %d days", res.Record.Name, days)
		data, err = chartgen.Render(res.Dataset, chartgen.Options{Title: title})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.charts.Set(key, data)
	}

	recordQuery("chart", start, OutcomeOK)
	w.Header().Set("Content-Type", "image/png")
	w.Write(data)
}
