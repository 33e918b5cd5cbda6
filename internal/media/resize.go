package media

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/logging"

	"github.com/disintegration/imaging"
)

// Resize backends selectable through RESIZE_BACKEND.
const (
	BackendImaging = "imaging"
	BackendVips    = "vips"
)

// Resizer produces an encoded JPEG thumbnail of the image at path. A height
// of 0 means "derive from width, preserving the aspect ratio".
type Resizer interface {
	Name() string
	Thumbnail(path string, width, height, quality int) ([]byte, error)
}

// NewResizer returns the resizer for backend. The vips backend falls back to
// imaging when libvips has not been initialized.
func NewResizer(backend string) Resizer {
	switch strings.ToLower(backend) {
	case BackendVips:
		if IsVipsAvailable() {
			return vipsResizer{}
		}
		logging.Warn("RESIZE_BACKEND=vips but libvips is not initialized, using imaging")
		return imagingResizer{}
	case "", BackendImaging:
		return imagingResizer{}
	default:
		logging.Warn("Unknown RESIZE_BACKEND %q, using imaging", backend)
		return imagingResizer{}
	}
}

type imagingResizer struct{}

func (imagingResizer) Name() string { return BackendImaging }

// Thumbnail resamples with a box filter, which averages source pixels like a
// plain area-weighted resample.
func (imagingResizer) Thumbnail(path string, width, height, quality int) ([]byte, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, filepath.Base(path), err)
	}

	b := img.Bounds()
	if height <= 0 {
		height = TargetHeight(b.Dx(), b.Dy(), width)
	}

	thumb := imaging.Resize(img, width, height, imaging.Box)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
