package series

import (
	"fmt"
	"time"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
)

// ReferenceMode selects the instant a trailing window is anchored to.
type ReferenceMode string

const (
	// RefNow anchors the window at wall-clock time at query time.
	RefNow ReferenceMode = "now"
	// RefLatest anchors the window at the dataset's maximum timestamp.
	RefLatest ReferenceMode = "latest"
)

func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch ReferenceMode(s) {
	case RefNow, RefLatest:
		return ReferenceMode(s), nil
	default:
		return "", fmt.Errorf("series: unknown reference mode %q", s)
	}
}

// Filter reduces datasets to their trailing N-day slice. Now is
// injectable so tests can pin the clock; nil means time.Now.
type Filter struct {
	Mode ReferenceMode
	Now  func() time.Time
}

// Apply returns the rows whose timestamp is >= reference - days
// (inclusive), preserving row order and the full column set. An empty
// result is a valid dataset, not an error; days must be positive.
func (f Filter) Apply(ds models.Dataset, days int) (models.Dataset, error) {
	if days < 1 {
		return models.Dataset{}, fmt.Errorf("series: days must be positive, got %d", days)
	}

	out := models.Dataset{
		Name:           ds.Name,
		Columns:        ds.Columns,
		NumericColumns: ds.NumericColumns,
	}

	var ref time.Time
	switch f.Mode {
	case RefLatest:
		latest, ok := ds.LatestTimestamp()
		if !ok {
			return out, nil
		}
		ref = latest
	default:
		now := f.Now
		if now == nil {
			now = time.Now
		}
		ref = now()
	}

	cutoff := ref.AddDate(0, 0, -days)
	for _, row := range ds.Rows {
		if !row.Timestamp.Before(cutoff) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
