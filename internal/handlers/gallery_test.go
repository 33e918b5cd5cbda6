package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gallery-viewer/internal/gallery"
)

func TestGetGallery(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	req := withVars(httptest.NewRequest("GET", "/api/gallery/album?w=600&h=150", http.NoBody),
		map[string]string{"dir": "album"})
	w := httptest.NewRecorder()
	h.GetGallery(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, `<div class="gallery" style="width:600px"><ul>`) {
		t.Errorf("unexpected fragment start: %s", body)
	}
	for _, name := range []string{"tall.jpg", "wide.jpg"} {
		if !strings.Contains(body, `href="/image/album/`+name+`"`) {
			t.Errorf("fragment does not link %s: %s", name, body)
		}
	}
}

func TestGetGalleryEmptyDirectory(t *testing.T) {
	h, content := newTestHandlers(t, nil)
	if err := os.Mkdir(filepath.Join(content, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	req := withVars(httptest.NewRequest("GET", "/api/gallery/empty", http.NoBody),
		map[string]string{"dir": "empty"})
	w := httptest.NewRecorder()
	h.GetGallery(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", w.Body.String())
	}
}

func TestGetGalleryErrors(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	tests := []struct {
		name   string
		dir    string
		query  string
		status int
	}{
		{"missing directory", "nowhere", "", http.StatusNotFound},
		{"traversal", "../..", "", http.StatusBadRequest},
		{"bad width", "album", "w=wide", http.StatusBadRequest},
		{"huge width", "album", "w=1000000000000000", http.StatusBadRequest},
		{"overflowing width", "album", "w=99999999999999999999", http.StatusBadRequest},
		{"huge height", "album", "h=1000000000000000", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withVars(httptest.NewRequest("GET", "/api/gallery/x?"+tt.query, http.NoBody),
				map[string]string{"dir": tt.dir})
			w := httptest.NewRecorder()
			h.GetGallery(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestGetLayout(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	req := withVars(httptest.NewRequest("GET", "/api/layout/album?w=600", http.NoBody),
		map[string]string{"dir": "album"})
	w := httptest.NewRecorder()
	h.GetLayout(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var g gallery.Gallery
	if err := json.NewDecoder(w.Body).Decode(&g); err != nil {
		t.Fatalf("failed to decode layout: %v", err)
	}
	if g.DisplayWidth != 600 || g.IdealHeight != 200 {
		t.Errorf("dimensions = %dx%d, want 600x200", g.DisplayWidth, g.IdealHeight)
	}
	if g.ImageCount() != 2 {
		t.Fatalf("image count = %d, want 2", g.ImageCount())
	}
	for _, row := range g.Rows {
		sum := 0
		for _, img := range row.Images {
			sum += img.Width
		}
		if sum != 600 {
			t.Errorf("row widths sum to %d, want 600", sum)
		}
	}
}

func TestRenderPage(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	page := "<p>{gallery:400x100}</p>\n![Tall one](tall.jpg) \n"
	req := httptest.NewRequest("POST", "/api/render?page=album/index.md", strings.NewReader(page))
	w := httptest.NewRecorder()
	h.RenderPage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if strings.Contains(body, "{gallery:") {
		t.Errorf("gallery placeholder not substituted: %s", body)
	}
	if !strings.Contains(body, `<div class="gallery" style="width:400px">`) {
		t.Errorf("gallery fragment missing: %s", body)
	}
	if !strings.Contains(body, `/image/album/tall.jpg`) {
		t.Errorf("inline image not resolved against the page directory: %s", body)
	}
}

func TestRenderPageErrors(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"missing page", "/api/render", "{gallery:10x10}", http.StatusBadRequest},
		{"traversal", "/api/render?page=../../etc/index.md", "{gallery:10x10}", http.StatusBadRequest},
		{"huge gallery", "/api/render?page=album/index.md", "{gallery:1000000000000000x200}", http.StatusBadRequest},
		{"overflowing gallery", "/api/render?page=album/index.md", "{gallery:99999999999999999999x200}", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			h.RenderPage(w, req)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestRenderPageTooLarge(t *testing.T) {
	h, _ := newTestHandlers(t, nil)

	req := httptest.NewRequest("POST", "/api/render?page=album/index.md",
		strings.NewReader(strings.Repeat("x", maxPageSize+1)))
	w := httptest.NewRecorder()
	h.RenderPage(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
}
