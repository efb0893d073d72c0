package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	MediaRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_media_requests_total",
			Help: "Total number of media files served, by file type",
		},
		[]string{"type"},
	)
)

// Manifest build metrics
var (
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_builds_total",
			Help: "Total number of manifest builds",
		},
		[]string{"trigger", "status"},
	)

	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_build_duration_seconds",
			Help:    "Manifest build duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	BuildLastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_build_last_timestamp",
			Help: "Timestamp of the last successful manifest build",
		},
	)

	ManifestRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_manifest_records",
			Help: "Number of records in the current manifest",
		},
	)
)

// Scanner metrics
var (
	ScannerScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_scanner_scans_total",
			Help: "Total number of media directory scans",
		},
		[]string{"status"},
	)

	ScannerScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_scanner_scan_duration_seconds",
			Help:    "Media directory scan duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	ScannerFilesAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_scanner_files_accepted_total",
			Help: "Total number of files accepted by the extension allow-list",
		},
	)

	ScannerFilesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_scanner_files_skipped_total",
			Help: "Total number of files skipped by the extension allow-list",
		},
	)
)

// Metadata override metrics
var (
	MetadataLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_metadata_loads_total",
			Help: "Total number of override document load attempts",
		},
		[]string{"status"},
	)

	MetadataOverridesLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_metadata_overrides_loaded",
			Help: "Number of override records loaded from the metadata document",
		},
	)
)

// Filter engine metrics
var (
	FilterQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_filter_queries_total",
			Help: "Total number of filter queries evaluated",
		},
	)

	FilterQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_filter_query_duration_seconds",
			Help:    "Filter query evaluation duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		},
	)

	FilterResultsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_filter_results_returned",
			Help:    "Number of records returned per filter query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)
)

// Admin session metrics
var (
	SessionStartsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_session_starts_total",
			Help: "Total number of admin edit sessions started",
		},
	)

	SessionSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_session_saves_total",
			Help: "Total number of override saves in admin edit sessions",
		},
	)

	SessionDocumentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_session_documents_total",
			Help: "Total number of clipboard documents rendered",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_watcher_events_total",
			Help: "Total number of filesystem events observed",
		},
		[]string{"type"},
	)

	WatcherRebuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_watcher_rebuilds_total",
			Help: "Total number of rebuilds triggered by filesystem changes",
		},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_watcher_errors_total",
			Help: "Total number of watcher errors",
		},
	)
)
