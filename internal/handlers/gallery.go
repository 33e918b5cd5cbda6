package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
)

// maxPageSize bounds the body accepted by RenderPage.
const maxPageSize = 1 << 20

// galleryDir resolves the {dir} route variable.
func (h *Handlers) galleryDir(r *http.Request) (string, error) {
	return h.resolvePath(mux.Vars(r)["dir"])
}

// gallerySize parses the optional w and h query parameters.
func gallerySize(r *http.Request) (int, int, error) {
	width, err := queryInt(r, "w")
	if err != nil {
		return 0, 0, err
	}
	height, err := queryInt(r, "h")
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

// GetGallery returns the gallery fragment of a content directory. A
// directory without images yields an empty 200 response.
func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	dir, err := h.galleryDir(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	width, height, err := gallerySize(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	fragment, err := h.renderer.Render(r.Context(), dir, width, height)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := io.WriteString(w, fragment); err != nil {
		writeError(w, r, fmt.Errorf("failed to write gallery: %w", err))
	}
}

// GetLayout returns the computed layout of a content directory as JSON.
func (h *Handlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	dir, err := h.galleryDir(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	width, height, err := gallerySize(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := h.renderer.Layout(r.Context(), dir, width, height)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, g)
}

// RenderPage expands the gallery placeholder and inline image tokens of the
// posted page content. The page query parameter names the page's source file,
// relative to the content root; its directory is the gallery directory and
// the base for relative image sources.
func (h *Handlers) RenderPage(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		http.Error(w, "page is required", http.StatusBadRequest)
		return
	}
	pagePath, err := h.resolvePath(page)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPageSize))
	if err != nil {
		http.Error(w, "page content too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}

	out, err := h.renderer.Process(r.Context(), string(body), filepath.Dir(pagePath))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, out); err != nil {
		writeError(w, r, fmt.Errorf("failed to write page: %w", err))
	}
}
