package media

import (
	"errors"
	"time"

	"gallery-viewer/internal/layout"
)

var (
	// ErrNotFound is returned when the source file does not exist.
	ErrNotFound = errors.New("image not found")
	// ErrUnsupportedFormat is returned when the source cannot be decoded as a
	// supported raster image.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidSize is returned for non-positive or oversized target boxes.
	ErrInvalidSize = errors.New("invalid thumbnail size")
)

// MaxThumbnailDimension bounds the requested thumbnail width and height.
const MaxThumbnailDimension = 4096

// ImageRef is one image found while collecting a gallery.
type ImageRef struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Format  string    `json:"format"`
	ModTime time.Time `json:"modTime"`
}

// Key returns the quantized aspect ratio of the image.
func (r ImageRef) Key() layout.RatioKey {
	return layout.NewRatioKey(r.Width, r.Height)
}

// ImageExtensions lists the extensions of formats the decoders registered in
// image.go can read. Detection is done on content; the extension only decides
// how loudly a file that fails to decode is reported.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tiff": true, ".tif": true,
}

var mimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// MimeType returns the MIME type for a format name reported by
// image.DecodeConfig, or application/octet-stream.
func MimeType(format string) string {
	if m, ok := mimeTypes[format]; ok {
		return m
	}
	return "application/octet-stream"
}
