package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/gallery"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/startup"
)

// errInvalidPath is returned for request paths that escape the content root.
var errInvalidPath = errors.New("invalid path")

// PauseReporter reports whether thumbnail generation is held back.
type PauseReporter interface {
	IsPaused() bool
}

// Handlers holds the dependencies of every HTTP handler.
type Handlers struct {
	images     media.ImageServer
	thumbs     *media.ThumbnailService
	renderer   *gallery.Renderer
	memory     PauseReporter
	contentDir string
	started    time.Time
}

// New creates the handlers. mem may be nil.
func New(config *startup.Config, thumbs *media.ThumbnailService, renderer *gallery.Renderer, mem PauseReporter) *Handlers {
	return &Handlers{
		images:     thumbs,
		thumbs:     thumbs,
		renderer:   renderer,
		memory:     mem,
		contentDir: config.ContentDir,
		started:    time.Now(),
	}
}

// resolvePath maps a content-relative request path to a file system path
// under the content root.
func (h *Handlers) resolvePath(rel string) (string, error) {
	full := filepath.Join(h.contentDir, filepath.FromSlash(rel))
	if !isSubPath(h.contentDir, full) {
		return "", fmt.Errorf("%w: %s", errInvalidPath, rel)
	}
	return full, nil
}

func isSubPath(parent, child string) bool {
	parent, err := filepath.Abs(parent)
	if err != nil {
		return false
	}
	child, err = filepath.Abs(child)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// queryInt parses an optional non-negative integer query parameter. Missing
// or empty values yield 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s=%q", media.ErrInvalidSize, name, raw)
	}
	return v, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, media.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrInvalidSize), errors.Is(err, errInvalidPath), errors.Is(err, gallery.ErrOutsideContent):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes the matching status. Server errors are
// logged at ERROR and their detail is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable:
		logging.Error("%s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, http.StatusText(status), status)
		return
	case status == http.StatusServiceUnavailable:
		logging.Warn("%s %s: %v", r.Method, r.URL.Path, err)
		w.Header().Set("Retry-After", "5")
	default:
		logging.Debug("%s %s: %v", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}
