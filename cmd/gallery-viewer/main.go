package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/handlers"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/memory"
	"gallery-viewer/internal/metrics"
	"gallery-viewer/internal/middleware"
	"gallery-viewer/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Memory limit first, so GOMEMLIMIT is in effect before anything allocates
	memResult := memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(memResult)

	// Metrics and filesystem instrumentation
	metrics.InitializeMetrics()
	metrics.AppInfo.WithLabelValues(startup.Version, startup.Commit, startup.GoVersion).Set(1)
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"content": config.ContentDir,
		"cache":   config.CacheDir,
	}))

	// Resize backend
	if config.ResizeBackend == media.BackendVips {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, falling back to %s: %v", media.BackendImaging, err)
			config.ResizeBackend = media.BackendImaging
		}
	}
	resizer := media.NewResizer(config.ResizeBackend)

	// Memory backpressure for thumbnail generation
	monitorConfig := memory.DefaultConfig()
	monitorConfig.LimitBytes = memResult.GoMemLimit
	monitor := memory.NewMonitor(monitorConfig)
	monitor.Start()

	thumbs := media.NewThumbnailService(media.ThumbnailOptions{
		CacheDir:     config.CacheDir,
		CacheEnabled: config.CacheEnabled,
		Quality:      config.JPEGQuality,
		Resizer:      resizer,
		Gate:         monitor,
	})
	startup.LogThumbnailInit(thumbs.Backend(), thumbs.CacheEnabled(), config.CacheDir)

	var collector *metrics.Collector
	if config.MetricsEnabled && thumbs.CacheEnabled() {
		collector = metrics.NewCollector(thumbs, config.CacheStatsInterval)
		collector.Start()
	}

	renderer := gallery.NewRenderer(gallery.Config{
		ContentDir:   config.ContentDir,
		BaseURL:      config.BaseURL,
		ImageRoute:   config.ImageRoute,
		DisplayWidth: config.DisplayWidth,
		IdealHeight:  config.IdealHeight,
	})

	// Initialize handlers
	h := handlers.New(config, thumbs, renderer, monitor)

	// Setup router
	router := setupRouter(h, config.ImageRoute)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.ImagePrefixes = []string{config.ImageRoute + "/"}
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}
	handler = middleware.Logger(loggingConfig)(handler)
	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:              ":" + config.MetricsPort,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	done := make(chan struct{})
	go handleShutdown(srv, metricsSrv, collector, monitor, config.ResizeBackend, done)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers, imageRoute string) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Image endpoint: full image, or thumbnail when ?w= is given
	r.HandleFunc(imageRoute+"/{path:.*}", h.GetImage).Methods("GET", "HEAD")

	// Gallery API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/gallery/{dir:.*}", h.GetGallery).Methods("GET")
	api.HandleFunc("/layout/{dir:.*}", h.GetLayout).Methods("GET")
	api.HandleFunc("/render", h.RenderPage).Methods("POST")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, monitor *memory.Monitor, backend string, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if collector != nil {
		startup.LogShutdownStep("Stopping cache stats collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Cache stats collector stopped")
	}

	startup.LogShutdownStep("Stopping memory monitor")
	monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	if backend == media.BackendVips {
		startup.LogShutdownStep("Shutting down libvips")
		media.ShutdownVips()
		startup.LogShutdownStepComplete("libvips shut down")
	}

	startup.LogShutdownComplete()
}
