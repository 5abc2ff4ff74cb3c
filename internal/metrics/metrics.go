package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourceLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationmon_source_loads_total",
			Help: "Source document loads by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	SnapshotCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationmon_snapshot_cache_total",
			Help: "Snapshot cache lookups by kind and result",
		},
		[]string{"kind", "result"},
	)

	RowsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationmon_rows_dropped_total",
			Help: "Time-series rows dropped for unparseable timestamps",
		},
		[]string{"kind"},
	)

	StationQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stationmon_station_queries_total",
			Help: "Station series queries by outcome",
		},
		[]string{"outcome"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stationmon_query_duration_seconds",
			Help:    "Full query pass duration (lookup, resolve, filter)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
