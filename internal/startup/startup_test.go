package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

// clearEnv isolates a test from the developer's environment and any .env
// file in the package directory.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONTENT_DIR", "CACHE_DIR", "CACHE_ENABLED", "BASE_URL", "IMAGE_ROUTE",
		"DISPLAY_WIDTH", "IDEAL_HEIGHT", "JPEG_QUALITY", "RESIZE_BACKEND",
		"PORT", "METRICS_PORT", "METRICS_ENABLED", "CACHE_STATS_INTERVAL",
		"LOG_STATIC_FILES", "LOG_HEALTH_CHECKS",
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !filepath.IsAbs(cfg.ContentDir) || filepath.Base(cfg.ContentDir) != "content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should default to true")
	}
	if cfg.ImageRoute != "/image" {
		t.Errorf("ImageRoute = %q, want /image", cfg.ImageRoute)
	}
	if cfg.DisplayWidth != 900 || cfg.IdealHeight != 200 {
		t.Errorf("gallery defaults = %dx%d, want 900x200", cfg.DisplayWidth, cfg.IdealHeight)
	}
	if cfg.JPEGQuality != 65 {
		t.Errorf("JPEGQuality = %d, want 65", cfg.JPEGQuality)
	}
	if cfg.ResizeBackend != "imaging" {
		t.Errorf("ResizeBackend = %q, want imaging", cfg.ResizeBackend)
	}
	if cfg.Port != "8080" || cfg.MetricsPort != "9090" {
		t.Errorf("ports = %s/%s", cfg.Port, cfg.MetricsPort)
	}
	if cfg.CacheStatsInterval != time.Minute {
		t.Errorf("CacheStatsInterval = %v, want 1m", cfg.CacheStatsInterval)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("BASE_URL", "https://photos.example.org/")
	t.Setenv("IMAGE_ROUTE", "thumbs/")
	t.Setenv("DISPLAY_WIDTH", "1200")
	t.Setenv("JPEG_QUALITY", "80")
	t.Setenv("RESIZE_BACKEND", "VIPS")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.BaseURL != "https://photos.example.org" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ImageRoute != "/thumbs" {
		t.Errorf("ImageRoute = %q, want /thumbs", cfg.ImageRoute)
	}
	if cfg.DisplayWidth != 1200 || cfg.JPEGQuality != 80 {
		t.Errorf("DisplayWidth = %d, JPEGQuality = %d", cfg.DisplayWidth, cfg.JPEGQuality)
	}
	if cfg.ResizeBackend != "vips" {
		t.Errorf("ResizeBackend = %q, want vips", cfg.ResizeBackend)
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled should be false")
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	clearEnv(t)
	if err := os.WriteFile(".env", []byte("IDEAL_HEIGHT=150\nPORT=9000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides a variable that is present, even when empty
	os.Unsetenv("IDEAL_HEIGHT")
	os.Unsetenv("PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IdealHeight != 150 || cfg.Port != "9000" {
		t.Errorf("IdealHeight = %d, Port = %s; want 150, 9000", cfg.IdealHeight, cfg.Port)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISPLAY_WIDTH", "wide")
	t.Setenv("IDEAL_HEIGHT", "5000")
	t.Setenv("JPEG_QUALITY", "150")
	t.Setenv("RESIZE_BACKEND", "magick")
	t.Setenv("CACHE_STATS_INTERVAL", "-5s")
	t.Setenv("IMAGE_ROUTE", "/")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.DisplayWidth != DefaultDisplayWidth {
		t.Errorf("DisplayWidth = %d", cfg.DisplayWidth)
	}
	if cfg.IdealHeight != DefaultIdealHeight {
		t.Errorf("IdealHeight = %d", cfg.IdealHeight)
	}
	if cfg.JPEGQuality != DefaultJPEGQuality {
		t.Errorf("JPEGQuality = %d", cfg.JPEGQuality)
	}
	if cfg.ResizeBackend != DefaultResizeBackend {
		t.Errorf("ResizeBackend = %q", cfg.ResizeBackend)
	}
	if cfg.CacheStatsInterval != DefaultStatsInterval {
		t.Errorf("CacheStatsInterval = %v", cfg.CacheStatsInterval)
	}
	if cfg.ImageRoute != DefaultImageRoute {
		t.Errorf("ImageRoute = %q", cfg.ImageRoute)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should fall back to true")
	}
}

func TestLoadConfigDisablesUnwritableCache(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "cache")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTENT_DIR", filepath.Join(dir, "content"))
	t.Setenv("CACHE_DIR", blocker)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.CacheEnabled {
		t.Error("cache should be disabled when its directory cannot be created")
	}
	if info, err := os.Stat(cfg.ContentDir); err != nil || !info.IsDir() {
		t.Errorf("content directory was not created: %v", err)
	}
}

func TestGetRoutes(t *testing.T) {
	r := mux.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.HandleFunc("/api/gallery/{dir:.*}", noop).Methods("GET").Name("gallery")
	r.HandleFunc("/api/render", noop).Methods("POST")
	r.PathPrefix("/image/").HandlerFunc(noop)

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 3: %+v", len(routes), routes)
	}
	if routes[0].Method != "GET" || routes[0].Name != "gallery" {
		t.Errorf("routes[0] = %+v", routes[0])
	}
	if routes[2].Method != "*" {
		t.Errorf("prefix route method = %q, want *", routes[2].Method)
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/gallery/{dir}": "api/gallery",
		"/api/render":        "api/render",
		"/image/{path}":      "image",
		"/healthz":           "healthz",
		"/":                  "",
	}
	for path, want := range tests {
		if got := getRouteGroup(path); got != want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", path, got, want)
		}
	}
}
