package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/metrics"
	"gallery-viewer/internal/streaming"

	"github.com/cespare/xxhash/v2"
	"github.com/gorilla/mux"
)

const imageCacheControl = "public, max-age=3600"

// imageRequest builds the request variant for r: a thumbnail when w is a
// positive integer, the full image otherwise.
func (h *Handlers) imageRequest(r *http.Request) (media.ImageRequest, error) {
	path, err := h.resolvePath(mux.Vars(r)["path"])
	if err != nil {
		return nil, err
	}

	width, err := queryInt(r, "w")
	if err != nil {
		return nil, err
	}
	if width == 0 {
		return media.FullImageRequest{Path: path}, nil
	}

	height, err := queryInt(r, "h")
	if err != nil {
		return nil, err
	}
	return media.ThumbnailRequest{Path: path, Width: width, Height: height}, nil
}

// GetImage serves a full image or a thumbnail. Last-Modified is always the
// source modification time, so a client revalidating with If-Modified-Since
// gets 304 until the source changes. Thumbnails also carry a content ETag.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	req, err := h.imageRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	modTime, err := h.images.ModTime(req.SourcePath())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))

	// If-None-Match takes precedence over If-Modified-Since when both are sent
	if r.Header.Get("If-None-Match") == "" && notModifiedSince(r, modTime) {
		writeNotModified(w)
		return
	}

	img, err := media.Serve(h.images, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer img.Body.Close()

	var body io.Reader = img.Body
	var etag string
	if _, ok := req.(media.ThumbnailRequest); ok {
		data, err := io.ReadAll(img.Body)
		if err != nil {
			writeError(w, r, fmt.Errorf("failed to read thumbnail: %w", err))
			return
		}
		etag = strongETag(data)
		body = bytes.NewReader(data)
	} else {
		etag = weakETag(req.SourcePath(), img.Size, img.ModTime)
	}
	w.Header().Set("ETag", etag)

	if matchesETag(r.Header.Get("If-None-Match"), etag) {
		writeNotModified(w)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(img.Size, 10))
	w.Header().Set("Cache-Control", imageCacheControl)
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}
	n, err := streaming.Copy(r.Context(), w, body, streaming.DefaultConfig())
	switch {
	case errors.Is(err, streaming.ErrClientGone):
		logging.Debug("Client left during %s after %d bytes", r.URL.Path, n)
	case err != nil:
		logging.Warn("Image response for %s aborted after %d bytes: %v", r.URL.Path, n, err)
	}
}

func notModifiedSince(r *http.Request, modTime time.Time) bool {
	raw := r.Header.Get("If-Modified-Since")
	if raw == "" {
		return false
	}
	since, err := http.ParseTime(raw)
	if err != nil {
		return false
	}
	// HTTP dates have second precision
	return !modTime.Truncate(time.Second).After(since)
}

func writeNotModified(w http.ResponseWriter) {
	metrics.HTTPNotModifiedTotal.Inc()
	h := w.Header()
	h.Del("Content-Type")
	h.Del("Content-Length")
	w.WriteHeader(http.StatusNotModified)
}

func strongETag(data []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(data))
}

func weakETag(path string, size int64, modTime time.Time) string {
	d := xxhash.New()
	fmt.Fprintf(d, "%s:%d:%d", path, size, modTime.UnixNano())
	return fmt.Sprintf(`W/"%016x"`, d.Sum64())
}

// matchesETag implements the weak comparison used for If-None-Match.
func matchesETag(header, etag string) bool {
	if header == "" {
		return false
	}
	if strings.TrimSpace(header) == "*" {
		return true
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == want {
			return true
		}
	}
	return false
}
