package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	HTTPNotModifiedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_http_not_modified_total",
			Help: "Total number of image requests answered with 304 Not Modified",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_generations_total",
			Help: "Total number of thumbnail generations",
		},
		[]string{"backend", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses, including stale entries",
		},
	)

	ThumbnailCacheStale = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_cache_stale_total",
			Help: "Total number of cache entries found older than their source",
		},
	)

	ThumbnailCacheWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_thumbnail_cache_write_errors_total",
			Help: "Total number of failed thumbnail cache writes",
		},
	)

	ThumbnailCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_thumbnail_cache_size_bytes",
			Help: "Total size of the thumbnail cache in bytes",
		},
	)

	ThumbnailCacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_thumbnail_cache_count",
			Help: "Number of thumbnails in the cache",
		},
	)

	FullImageServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_full_images_served_total",
			Help: "Total number of full-size images passed through unmodified",
		},
	)
)

// Layout metrics
var (
	GalleryRenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_gallery_render_duration_seconds",
			Help:    "Time to scan a directory and lay out its gallery",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	GalleryRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_gallery_rows",
			Help:    "Number of rows per rendered gallery",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	GalleryImages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_gallery_images",
			Help:    "Number of images per rendered gallery",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	CollectorSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_collector_skipped_files_total",
			Help: "Total number of directory entries skipped because they are not readable images",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gallery_viewer_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations by volume and operation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_filesystem_retry_attempts_total",
			Help: "Total number of NFS retry attempts",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_viewer_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)
)

// AppInfo exposes build information as labels.
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "gallery_viewer_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_viewer_memory_paused",
			Help: "Whether thumbnail generation is paused for memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_viewer_memory_gc_pauses_total",
			Help: "Total number of times thumbnail generation was paused for memory pressure",
		},
	)
)
