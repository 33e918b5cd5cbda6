// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables by [Load], after merging
// an optional .env file from the working directory. [LoadConfig] does the
// same and additionally prints the banner, logs every setting and prepares
// the content and cache directories.
//
//   - CONTENT_DIR: content root; image URLs are relative to it (default: ./content)
//   - CACHE_DIR: cache root; thumbnails live under CACHE_DIR/image (default: ./cache)
//   - CACHE_ENABLED: persist thumbnails (default: true); turned off when the
//     cache directory is not writable
//   - BASE_URL: prefix for generated links (default: empty)
//   - IMAGE_ROUTE: path of the image endpoint (default: /image)
//   - DISPLAY_WIDTH: gallery width when a request does not give one (default: 900)
//   - IDEAL_HEIGHT: ideal row height when a request does not give one (default: 200)
//   - JPEG_QUALITY: thumbnail JPEG quality, 1-100 (default: 65)
//   - RESIZE_BACKEND: imaging or vips (default: imaging)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - CACHE_STATS_INTERVAL: how often the cache size gauges refresh (default: 1m)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: log image requests (default: false)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// Invalid values are logged and replaced by their defaults.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X gallery-viewer/internal/startup.Version=1.2.0"
//
// # Lifecycle Logging
//
//   - [LogMemoryConfig]: Go memory limit
//   - [LogThumbnailInit]: resize backend and cache location
//   - [LogHTTPRoutes]: registered HTTP routes (debug level)
//   - [LogServerStarted]: server endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownComplete]: graceful shutdown
package startup
