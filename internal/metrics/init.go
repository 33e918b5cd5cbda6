package metrics

// InitializeMetrics pre-populates the expected label combinations so every
// metric is exported from the first scrape.
func InitializeMetrics() {
	volumes := []string{"content", "cache", "unknown"}
	ops := []string{"stat", "open", "readdir"}

	for _, vol := range volumes {
		for _, op := range ops {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}

	for _, backend := range []string{"imaging", "vips"} {
		ThumbnailGenerationDuration.WithLabelValues(backend)
		for _, status := range []string{"success", "error_not_found", "error_unsupported", "error_encode"} {
			ThumbnailGenerationsTotal.WithLabelValues(backend, status)
		}
	}
}
