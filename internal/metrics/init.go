package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, reason := range []string{"error", "ignored"} {
		ScanItemsSkipped.WithLabelValues(reason)
	}

	for _, status := range []string{"success", "error", "error_decode", "error_encode"} {
		ThumbnailGenerationsTotal.WithLabelValues(status)
	}

	for _, source := range []string{"scan", "render"} {
		ErrorReportsTotal.WithLabelValues(source)
	}

	for _, op := range []string{"stat", "open"} {
		for _, vol := range []string{"gifs", "cache", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
