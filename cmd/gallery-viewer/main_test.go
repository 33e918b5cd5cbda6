package main

import (
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/handlers"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/startup"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	content := t.TempDir()
	dir := filepath.Join(content, "trip")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for x := 0; x < 120; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(filepath.Join(dir, "beach.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	config := &startup.Config{
		ContentDir:   content,
		CacheDir:     t.TempDir(),
		CacheEnabled: true,
		ImageRoute:   "/image",
		DisplayWidth: 600,
		IdealHeight:  200,
	}
	thumbs := media.NewThumbnailService(media.ThumbnailOptions{
		CacheDir:     config.CacheDir,
		CacheEnabled: config.CacheEnabled,
	})
	renderer := gallery.NewRenderer(gallery.Config{
		ContentDir:   config.ContentDir,
		ImageRoute:   config.ImageRoute,
		DisplayWidth: config.DisplayWidth,
		IdealHeight:  config.IdealHeight,
	})

	return setupRouter(handlers.New(config, thumbs, renderer, nil), config.ImageRoute)
}

func TestSetupRouter(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method     string
		target     string
		body       string
		wantStatus int
		wantType   string
	}{
		{"GET", "/healthz", "", http.StatusOK, "application/json"},
		{"GET", "/livez", "", http.StatusOK, "application/json"},
		{"HEAD", "/livez", "", http.StatusOK, "application/json"},
		{"GET", "/readyz", "", http.StatusOK, "application/json"},
		{"GET", "/version", "", http.StatusOK, "application/json"},
		{"GET", "/image/trip/beach.jpg", "", http.StatusOK, "image/jpeg"},
		{"GET", "/image/trip/beach.jpg?w=60", "", http.StatusOK, "image/jpeg"},
		{"HEAD", "/image/trip/beach.jpg?w=60", "", http.StatusOK, "image/jpeg"},
		{"GET", "/image/trip/missing.jpg?w=60", "", http.StatusNotFound, ""},
		{"GET", "/api/gallery/trip", "", http.StatusOK, "text/html; charset=utf-8"},
		{"GET", "/api/layout/trip", "", http.StatusOK, "application/json"},
		{"POST", "/api/render?page=trip/index.md", "{gallery:600x200}", http.StatusOK, "text/html; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantType != "" && w.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", w.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestImageRouteFollowsConfig(t *testing.T) {
	content := t.TempDir()
	config := &startup.Config{ContentDir: content, ImageRoute: "/photos"}
	thumbs := media.NewThumbnailService(media.ThumbnailOptions{})
	renderer := gallery.NewRenderer(gallery.Config{ContentDir: content, ImageRoute: "/photos"})
	router := setupRouter(handlers.New(config, thumbs, renderer, nil), config.ImageRoute)

	req := httptest.NewRequest("GET", "/photos/none.jpg", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
