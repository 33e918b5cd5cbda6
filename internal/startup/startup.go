package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/memory"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Defaults applied when a variable is unset or invalid.
const (
	DefaultContentDir    = "./content"
	DefaultCacheDir      = "./cache"
	DefaultImageRoute    = "/image"
	DefaultDisplayWidth  = 900
	DefaultIdealHeight   = 200
	DefaultJPEGQuality   = 65
	DefaultResizeBackend = "imaging"
	DefaultPort          = "8080"
	DefaultMetricsPort   = "9090"
	DefaultStatsInterval = time.Minute
)

// MaxGalleryDimension bounds DISPLAY_WIDTH and IDEAL_HEIGHT, matching the
// largest thumbnail the server will generate.
const MaxGalleryDimension = 4096

// Config holds all application configuration
type Config struct {
	ContentDir    string
	CacheDir      string
	CacheEnabled  bool
	BaseURL       string
	ImageRoute    string
	DisplayWidth  int
	IdealHeight   int
	JPEGQuality   int
	ResizeBackend string

	Port               string
	MetricsPort        string
	MetricsEnabled     bool
	CacheStatsInterval time.Duration
	LogStaticFiles     bool
	LogHealthChecks    bool
}

// Load reads the configuration from the environment, after merging an
// optional .env file from the working directory. Variables already set in the
// environment win over the file. Load does not touch the filesystem beyond
// reading .env and resolving paths.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Failed to load .env file: %v", err)
	}

	cfg := &Config{
		ContentDir:         getEnv("CONTENT_DIR", DefaultContentDir),
		CacheDir:           getEnv("CACHE_DIR", DefaultCacheDir),
		CacheEnabled:       getEnvBool("CACHE_ENABLED", true),
		BaseURL:            strings.TrimSuffix(os.Getenv("BASE_URL"), "/"),
		ImageRoute:         normalizeRoute(getEnv("IMAGE_ROUTE", DefaultImageRoute)),
		DisplayWidth:       getEnvInt("DISPLAY_WIDTH", DefaultDisplayWidth, 1, MaxGalleryDimension),
		IdealHeight:        getEnvInt("IDEAL_HEIGHT", DefaultIdealHeight, 1, MaxGalleryDimension),
		JPEGQuality:        getEnvInt("JPEG_QUALITY", DefaultJPEGQuality, 1, 100),
		ResizeBackend:      strings.ToLower(getEnv("RESIZE_BACKEND", DefaultResizeBackend)),
		Port:               getEnv("PORT", DefaultPort),
		MetricsPort:        getEnv("METRICS_PORT", DefaultMetricsPort),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		CacheStatsInterval: getEnvDuration("CACHE_STATS_INTERVAL", DefaultStatsInterval),
		LogStaticFiles:     getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks:    getEnvBool("LOG_HEALTH_CHECKS", true),
	}

	switch cfg.ResizeBackend {
	case "imaging", "vips":
	default:
		logging.Warn("Invalid RESIZE_BACKEND %q, using default: %s", cfg.ResizeBackend, DefaultResizeBackend)
		cfg.ResizeBackend = DefaultResizeBackend
	}

	var err error
	if cfg.ContentDir, err = filepath.Abs(cfg.ContentDir); err != nil {
		return nil, fmt.Errorf("failed to resolve content directory path: %w", err)
	}
	if cfg.CacheDir, err = filepath.Abs(cfg.CacheDir); err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}

	return cfg, nil
}

// LoadConfig prints the banner, loads the configuration, logs it and prepares
// the content and cache directories. The cache is disabled, not fatal, when
// its directory cannot be written.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  CONTENT_DIR:          %s", cfg.ContentDir)
	logging.Info("  CACHE_DIR:            %s", cfg.CacheDir)
	logging.Info("  CACHE_ENABLED:        %v", cfg.CacheEnabled)
	logging.Info("  BASE_URL:             %q", cfg.BaseURL)
	logging.Info("  IMAGE_ROUTE:          %s", cfg.ImageRoute)
	logging.Info("  DISPLAY_WIDTH:        %d", cfg.DisplayWidth)
	logging.Info("  IDEAL_HEIGHT:         %d", cfg.IdealHeight)
	logging.Info("  JPEG_QUALITY:         %d", cfg.JPEGQuality)
	logging.Info("  RESIZE_BACKEND:       %s", cfg.ResizeBackend)
	logging.Info("  PORT:                 %s", cfg.Port)
	logging.Info("  METRICS_PORT:         %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:      %v", cfg.MetricsEnabled)
	logging.Info("  CACHE_STATS_INTERVAL: %s", cfg.CacheStatsInterval)
	logging.Info("  LOG_STATIC_FILES:     %v", cfg.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS:    %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	// The content root should be mounted; a missing one is only a warning
	if err := ensureDirectory(cfg.ContentDir, "content"); err != nil {
		logging.Warn("  Content directory issue: %v", err)
	}

	if cfg.CacheEnabled {
		cfg.CacheEnabled = setupOptionalDir(filepath.Join(cfg.CacheDir, "image"), "thumbnail cache")
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Thumbnail cache: %s", enabledString(cfg.CacheEnabled))
	logging.Info("    Metrics:         %s", enabledString(cfg.MetricsEnabled))

	return cfg, nil
}

func normalizeRoute(route string) string {
	route = "/" + strings.Trim(route, "/")
	if route == "/" {
		logging.Warn("IMAGE_ROUTE cannot be the root, using default: %s", DefaultImageRoute)
		return DefaultImageRoute
	}
	return route
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Debug("    [OK] %s directory ready", name)
	return true
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogMemoryConfig logs how the Go memory limit was configured
func LogMemoryConfig(result memory.ConfigResult) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEMORY CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if !result.Configured {
		logging.Info("  GOMEMLIMIT not configured (set MEMORY_LIMIT or GOMEMLIMIT)")
		return
	}
	logging.Info("  Source:      %s", result.Source)
	logging.Info("  GOMEMLIMIT:  %s", memory.FormatBytes(result.GoMemLimit))
	if result.ContainerLimit > 0 {
		logging.Info("  Container:   %s (ratio %.2f)", memory.FormatBytes(result.ContainerLimit), result.Ratio)
	}
}

// LogThumbnailInit logs the thumbnail service configuration
func LogThumbnailInit(backend string, cacheEnabled bool, cacheDir string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("THUMBNAIL SERVICE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Resize backend: %s", backend)
	if cacheEnabled {
		logging.Info("  [OK] Cache at %s", filepath.Join(cacheDir, "image"))
	} else {
		logging.Info("  Cache disabled, every thumbnail request will resize")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			// Prefix-only routes have no template
			pathTemplate, err = route.GetPathRegexp()
			if err != nil {
				return nil
			}
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Image request logging: ON")
	} else {
		logging.Info("    Image request logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
   ______      ____                     _    ___
  / ____/___ _/ / /__  _______  __     | |  / (_)__ _      __
 / / __/ __ '/ / / _ \/ ___/ / / /     | | / / / _ \ | /| / /
/ /_/ / /_/ / / /  __/ /  / /_/ /      | |/ / /  __/ |/ |/ /
\____/\__,_/_/_/\___/_/   \__, /       |___/_/\___/|__/|__/
                         /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue, minValue, maxValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < minValue || parsed > maxValue {
		logging.Warn("Invalid value for %s: %q (want %d-%d), using default: %d", key, value, minValue, maxValue, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		logging.Warn("Invalid duration for %s: %q, using default: %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
