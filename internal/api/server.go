package api

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/chartgen"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

// WindowPresets are the trailing-window choices the UI offers. The
// filter itself accepts any positive day count; this set only shapes
// the links and the selector.
var WindowPresets = []int{7, 30, 90, 120, 365}

// DefaultDays is the window preselected on the detail page.
const DefaultDays = 90

// Server renders the dashboard and serves the JSON API over one
// session. Each interaction is a single synchronous pass through the
// core (lookup, resolve, filter); the mutex keeps passes from
// overlapping, the session has no event-loop dependency.
type Server struct {
	sess   *session.Session
	port   string
	tmpl   *template.Template
	charts *chartgen.Cache
	mu     sync.Mutex
}

func NewServer(sess *session.Session, port string) *Server {
	return &Server{
		sess:   sess,
		port:   port,
		tmpl:   newTemplates(),
		charts: chartgen.NewCache(5 * time.Minute),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleOverview)
	mux.HandleFunc("/station", s.handleStation)
	mux.HandleFunc("/api/stations", s.handleAPIStations)
	mux.HandleFunc("/api/series", s.handleAPISeries)
	mux.HandleFunc("/chart.png", s.handleChart)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
