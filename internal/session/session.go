// Package session owns one load's worth of dashboard state: the
// station registry, the time-series store and the current selection.
// There are no process-wide singletons; callers hold a Session and
// drive explicit request/response calls through it.
package session

import (
	"errors"
	"fmt"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/registry"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
)

// ErrUnknownStation is returned when a selection names an identifier
// the registry cannot resolve. The selection state is left unchanged.
var ErrUnknownStation = errors.New("session: unknown station")

// Session holds the loaded data and the selection state machine
// (overview, or detail on one station). It references stations by
// identifier only; records live in the registry.
type Session struct {
	registry *registry.Registry
	store    *series.Store
	filter   series.Filter

	// selected is the canonical identifier of the focused station;
	// empty means overview.
	selected string
}

// New starts a session at overview over freshly loaded data.
func New(reg *registry.Registry, store *series.Store, filter series.Filter) *Session {
	return &Session{registry: reg, store: store, filter: filter}
}

func (s *Session) Registry() *registry.Registry {
	return s.registry
}

func (s *Session) Store() *series.Store {
	return s.store
}

func (s *Session) Filter() series.Filter {
	return s.filter
}

// Select moves to detail on the given station. Selecting an unknown
// identifier fails with ErrUnknownStation and never clears an existing
// selection.
func (s *Session) Select(id string) error {
	rec, err := s.registry.FindByIdentifier(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrUnknownStation, id)
		}
		return err
	}
	s.selected = rec.Identifier()
	return nil
}

// Back returns to overview. Calling it at overview is a no-op.
func (s *Session) Back() {
	s.selected = ""
}

// Selected returns the focused station identifier, or false at
// overview.
func (s *Session) Selected() (string, bool) {
	if s.selected == "" {
		return "", false
	}
	return s.selected, true
}

// SeriesResult is one answer to "station S's measurements for the last
// N days". HasSheet distinguishes "station never had data" from "no
// data in this window": when HasSheet is true and Dataset is empty,
// TotalRows says whether the unfiltered sheet had rows at all.
type SeriesResult struct {
	Record    models.StationRecord
	Sheet     string
	HasSheet  bool
	Dataset   models.Dataset
	TotalRows int
}

// StationSeries runs one full query pass: registry lookup, sheet
// resolution, trailing-window filter. A station without a matching
// sheet is a normal outcome, not an error.
func (s *Session) StationSeries(id string, days int) (SeriesResult, error) {
	return s.StationSeriesAt(id, days, s.filter.Mode)
}

// StationSeriesAt is StationSeries with an explicit reference mode,
// overriding the session default for this one query.
func (s *Session) StationSeriesAt(id string, days int, mode series.ReferenceMode) (SeriesResult, error) {
	rec, err := s.registry.FindByIdentifier(id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return SeriesResult{}, fmt.Errorf("%w: %q", ErrUnknownStation, id)
		}
		return SeriesResult{}, err
	}

	res := SeriesResult{Record: rec}
	sheet, err := series.Resolve(s.store, rec.Identifier())
	if err != nil {
		if errors.Is(err, series.ErrNotFound) {
			return res, nil
		}
		return SeriesResult{}, err
	}

	ds, err := s.store.Get(sheet)
	if err != nil {
		return SeriesResult{}, err
	}
	filter := series.Filter{Mode: mode, Now: s.filter.Now}
	filtered, err := filter.Apply(ds, days)
	if err != nil {
		return SeriesResult{}, err
	}

	res.Sheet = sheet
	res.HasSheet = true
	res.Dataset = filtered
	res.TotalRows = len(ds.Rows)
	return res, nil
}
