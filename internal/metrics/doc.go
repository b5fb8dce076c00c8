// Package metrics provides Prometheus instrumentation for the gif viewer.
//
// All metrics are prefixed with "gif_viewer_" and registered with the default
// registry through promauto, so they are served by promhttp.Handler().
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Scan Metrics
//   - ScanRunsTotal, ScanErrorsTotal: scan attempts and scan-fatal failures
//   - ScanItemsAdded, ScanItemsSkipped: per-entry outcomes
//   - ScanLastRunTimestamp, ScanLastRunDuration, ScanIsRunning
//
// ## Index Metrics
//
// Updated by the Collector from a StatsProvider:
//   - IndexItemsTotal, IndexPeopleTotal, IndexYearsTotal, IndexBytesTotal
//
// ## Search, Thumbnail and Error Reporting Metrics
//   - SearchQueriesTotal, SearchResults, SuggestionQueriesTotal
//   - ThumbnailGenerationsTotal, ThumbnailGenerationDuration, cache hits/misses
//   - ErrorReportsTotal, ErrorReportsDropped
//
// ## Memory Metrics
//   - MemoryUsageRatio, MemoryPaused, MemoryPausesTotal: poster warm-up
//     backpressure from the memory package
//
// ## Filesystem Metrics
//
// Stale file handle retries performed by the filesystem package, labelled by
// operation and volume.
package metrics
