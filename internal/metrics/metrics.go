package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gif_viewer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_scan_runs_total",
			Help: "Total number of directory scans",
		},
	)

	ScanErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_scan_errors_total",
			Help: "Total number of scans that failed to list the source directory",
		},
	)

	ScanItemsAdded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_scan_items_added_total",
			Help: "Total number of GIFs added to the index by scans",
		},
	)

	ScanItemsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_scan_items_skipped_total",
			Help: "Total number of directory entries skipped during scans",
		},
		[]string{"reason"}, // "error", "ignored"
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_scan_last_run_timestamp",
			Help: "Unix timestamp of the last completed scan",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_scan_last_run_duration_seconds",
			Help: "Duration of the last scan in seconds",
		},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_scan_running",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
	)
)

// Index contents
var (
	IndexItemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_index_items",
			Help: "Number of GIFs in the index",
		},
	)

	IndexPeopleTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_index_people",
			Help: "Number of distinct owners in the index",
		},
	)

	IndexYearsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_index_years",
			Help: "Number of distinct years in the index",
		},
	)

	IndexBytesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_index_bytes",
			Help: "Total size in bytes of all indexed GIFs",
		},
	)
)

// Search metrics
var (
	SearchQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_search_queries_total",
			Help: "Total number of search queries",
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gif_viewer_search_results",
			Help:    "Number of results returned per search query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	SuggestionQueriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_suggestion_queries_total",
			Help: "Total number of search suggestion queries",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_thumbnail_generations_total",
			Help: "Total number of poster thumbnail generations",
		},
		[]string{"status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gif_viewer_thumbnail_generation_duration_seconds",
			Help:    "Poster thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)
)

// Error reporting metrics
var (
	ErrorReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_error_reports_total",
			Help: "Total number of errors reported, by source",
		},
		[]string{"source"},
	)

	ErrorReportsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_error_reports_dropped_total",
			Help: "Total number of error reports dropped by the rate limiter",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries after a stale file handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gif_viewer_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors seen",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gif_viewer_filesystem_retry_duration_seconds",
			Help:    "Duration of retried filesystem operations including backoff",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gif_viewer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the Go memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gif_viewer_memory_paused",
			Help: "1 while poster warm-up is paused for memory pressure",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gif_viewer_memory_pauses_total",
			Help: "Number of times poster warm-up was paused for memory pressure",
		},
	)
)
