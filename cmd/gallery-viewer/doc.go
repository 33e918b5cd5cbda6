// Package main provides the entry point for the Gallery Viewer server.
//
// Gallery Viewer serves balanced, gap-less photo galleries: every row of a
// gallery spans the display width exactly and rows keep the images' aspect
// ratios. Images are served through a single endpoint that returns either
// the original file or a cached JPEG thumbnail.
//
// # Application Lifecycle
//
//  1. Memory Configuration: Sets GOMEMLIMIT from MEMORY_LIMIT and MEMORY_RATIO
//  2. Configuration Loading: Reads .env and environment variables, validates directories
//  3. Component Initialization:
//     - Resize backend: imaging (pure Go) or libvips
//     - Memory Monitor: Pauses thumbnail generation under heap pressure
//     - Thumbnail Service: Content-addressed disk cache under CACHE_DIR/image
//     - Metrics Collector: Reports cache size and entry count
//     - Gallery Renderer: Row partitioning and width distribution
//  4. HTTP Server Setup: Routes, logging, metrics and compression middleware
//  5. Graceful Shutdown: Handles SIGINT/SIGTERM and stops all components
//
// # HTTP Server
//
// The main server (default port 8080) exposes:
//
//   - GET  /image/{path}?w=W&h=H  thumbnail, or the full image when w is absent
//   - GET  /api/gallery/{dir}     gallery HTML fragment
//   - GET  /api/layout/{dir}      computed layout as JSON
//   - POST /api/render?page=P     page content with gallery and image tags expanded
//   - /health, /healthz, /livez, /readyz, /version
//
// The metrics server (default port 9090, optional) exposes /metrics.
//
// # Environment Variables
//
//   - CONTENT_DIR: Root directory of pages and images (default: ./content)
//   - CACHE_DIR: Thumbnail cache root (default: ./cache)
//   - BASE_URL: Prefix for generated image URLs
//   - IMAGE_ROUTE: Path the image endpoint is mounted on (default: /image)
//   - DISPLAY_WIDTH, IDEAL_HEIGHT: Default gallery width and ideal row height
//   - JPEG_QUALITY: Thumbnail quality (default: 65)
//   - RESIZE_BACKEND: imaging or vips
//   - PORT, METRICS_PORT, METRICS_ENABLED
//   - LOG_LEVEL, LOG_STATIC_FILES, LOG_HEALTH_CHECKS
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT
//
// # Related Packages
//
//   - [gallery-viewer/internal/layout]: Row partitioning and width distribution
//   - [gallery-viewer/internal/media]: Ratio collection, thumbnails and the disk cache
//   - [gallery-viewer/internal/gallery]: Gallery HTML and page markup substitution
//   - [gallery-viewer/internal/handlers]: HTTP request handlers
//   - [gallery-viewer/internal/middleware]: HTTP middleware (logging, metrics, compression)
//   - [gallery-viewer/internal/startup]: Configuration and initialization
package main
