package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/cache"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/metrics"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/models"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/registry"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/session"
)

// Loader performs the once-per-session bulk load: fetch both source
// documents, consult the snapshot cache by content identity, parse and
// hand a fresh session back. Each LoadSession call yields independent
// copies; nothing is shared mutably across sessions.
type Loader struct {
	Cache          *cache.Cache
	RegistryConfig registry.Config
	Filter         series.Filter
}

// LoadSession builds a session at overview from the two source refs.
// A SchemaError or LoadError aborts with no partial session.
func (l *Loader) LoadSession(ctx context.Context, registryRef, dataRef string) (*session.Session, error) {
	table, regIdentity, err := l.loadRegistryTable(ctx, registryRef)
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues("registry", "error").Inc()
		return nil, fmt.Errorf("load registry source: %w", err)
	}
	metrics.SourceLoadsTotal.WithLabelValues("registry", "ok").Inc()

	wb, wbIdentity, err := l.loadWorkbook(ctx, dataRef)
	if err != nil {
		metrics.SourceLoadsTotal.WithLabelValues("workbook", "error").Inc()
		return nil, fmt.Errorf("load time-series source: %w", err)
	}
	metrics.SourceLoadsTotal.WithLabelValues("workbook", "ok").Inc()

	if l.Cache != nil {
		// Stale snapshots of replaced sources are dropped here; a
		// changed source already missed by hashing differently.
		if err := l.Cache.PruneExcept([]string{regIdentity, wbIdentity}); err != nil {
			log.Printf("snapshot cache prune: %v", err)
		}
	}

	reg, err := registry.Load(table, l.RegistryConfig)
	if err != nil {
		return nil, err
	}
	store, err := series.LoadStore(wb)
	if err != nil {
		return nil, err
	}
	if n := store.DroppedRows(); n > 0 {
		metrics.RowsDroppedTotal.WithLabelValues("workbook").Add(float64(n))
		log.Printf("dropped %d rows with unparseable timestamps", n)
	}

	return session.New(reg, store, l.Filter), nil
}

func (l *Loader) loadRegistryTable(ctx context.Context, ref string) (models.Table, string, error) {
	data, err := Fetch(ctx, ref)
	if err != nil {
		return models.Table{}, "", err
	}
	identity := Identity(data)

	if l.Cache != nil {
		if table, ok, err := l.Cache.GetRegistry(identity); err != nil {
			log.Printf("snapshot cache read: %v", err)
		} else if ok {
			metrics.SnapshotCacheTotal.WithLabelValues("registry", "hit").Inc()
			return table, identity, nil
		}
		metrics.SnapshotCacheTotal.WithLabelValues("registry", "miss").Inc()
	}

	table, err := ParseRegistryTable(data)
	if err != nil {
		return models.Table{}, "", err
	}
	if l.Cache != nil {
		if err := l.Cache.PutRegistry(identity, table); err != nil {
			log.Printf("snapshot cache write: %v", err)
		}
	}
	return table, identity, nil
}

func (l *Loader) loadWorkbook(ctx context.Context, ref string) (models.Workbook, string, error) {
	data, err := Fetch(ctx, ref)
	if err != nil {
		return models.Workbook{}, "", err
	}
	identity := Identity(data)

	if l.Cache != nil {
		if wb, ok, err := l.Cache.GetWorkbook(identity); err != nil {
			log.Printf("snapshot cache read: %v", err)
		} else if ok {
			metrics.SnapshotCacheTotal.WithLabelValues("workbook", "hit").Inc()
			return wb, identity, nil
		}
		metrics.SnapshotCacheTotal.WithLabelValues("workbook", "miss").Inc()
	}

	wb, err := ParseWorkbook(data)
	if err != nil {
		return models.Workbook{}, "", err
	}
	if l.Cache != nil {
		if err := l.Cache.PutWorkbook(identity, wb); err != nil {
			log.Printf("snapshot cache write: %v", err)
		}
	}
	return wb, identity, nil
}
