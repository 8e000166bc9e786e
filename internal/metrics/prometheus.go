package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the scrape/ingest worker

var (
	// Fetch metrics
	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raceseries_pages_fetched_total",
			Help: "Total number of source pages fetched",
		},
		[]string{"status"},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raceseries_fetch_duration_seconds",
			Help:    "Duration of source page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Extraction metrics
	RowsExtractedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_rows_extracted_total",
			Help: "Total number of result rows extracted from source pages",
		},
	)

	RowsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_rows_rejected_total",
			Help: "Total number of extracted rows rejected by validation",
		},
	)

	// Ingestion metrics
	RunnersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_runners_created_total",
			Help: "Total number of new runner identities created",
		},
	)

	RunnersUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_runners_updated_total",
			Help: "Total number of existing runners updated on re-sighting",
		},
	)

	BibConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_bib_conflicts_total",
			Help: "Total number of bib reuse conflicts resolved by superseding",
		},
	)

	ResultsWrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_results_written_total",
			Help: "Total number of result rows written",
		},
	)

	ResultsSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_results_skipped_total",
			Help: "Total number of result rows skipped (no matching registration)",
		},
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raceseries_ingest_duration_seconds",
			Help:    "Duration of single-race ingestion in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Standings metrics
	StandingsRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raceseries_standings_runs_total",
			Help: "Total number of standings computation runs",
		},
		[]string{"status"},
	)

	StandingsDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raceseries_standings_duration_seconds",
			Help:    "Duration of standings computation runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raceseries_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raceseries_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)
)
