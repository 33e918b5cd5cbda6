// Package metrics provides Prometheus instrumentation for the gallery viewer.
//
// All metrics are prefixed with "gallery_viewer_".
//
// # Metric Categories
//
// HTTP: request counts, durations and in-flight requests, recorded by the
// middleware package.
//
// Thumbnails: generations by backend and outcome, generation duration, cache
// hits, misses and write failures, and the size of the on-disk cache (updated
// periodically by Collector).
//
// Layout: gallery render duration, rows and images per gallery, and files the
// ratio collector skipped because they were not decodable images.
//
// Filesystem: per-volume operation durations and errors plus NFS retry
// counters, fed through the filesystem.Observer returned by
// NewFilesystemObserver.
//
// Memory: heap usage against the limit and whether thumbnail generation is
// paused, set by memory.Monitor.
//
// # Usage
//
// Metrics are registered with the default registry via promauto and exposed by
// promhttp.Handler on the metrics port:
//
//	metrics.InitializeMetrics()
//	filesystem.SetObserver(metrics.NewFilesystemObserver())
//	collector := metrics.NewCollector(thumbs, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
