package media

import (
	"fmt"
	"image"
	"io"
	"os"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageDimensions holds the displayed size of an image and its format.
type ImageDimensions struct {
	Width  int
	Height int
	Format string
}

// GetImageDimensions returns image dimensions without fully decoding the
// image. JPEGs whose EXIF orientation rotates them by 90 degrees report
// swapped dimensions, matching what the thumbnail decoder produces.
func GetImageDimensions(path string) (*ImageDimensions, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, path, err)
	}
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrUnsupportedFormat, path)
	}

	dims := &ImageDimensions{
		Width:  config.Width,
		Height: config.Height,
		Format: format,
	}

	if format == "jpeg" {
		if _, err := file.Seek(0, io.SeekStart); err == nil && isTransposed(file) {
			dims.Width, dims.Height = dims.Height, dims.Width
		}
	}

	return dims, nil
}

// isTransposed reports whether the EXIF orientation tag is one of the four
// values (5-8) that swap width and height.
func isTransposed(r io.Reader) bool {
	x, err := exif.Decode(r)
	if err != nil {
		return false
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return false
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return false
	}
	return orientation >= 5 && orientation <= 8
}

// TargetHeight returns the height that keeps the source aspect ratio at the
// given width: round(width / (srcWidth/srcHeight)), never below 1.
func TargetHeight(srcWidth, srcHeight, width int) int {
	if srcWidth <= 0 || srcHeight <= 0 {
		return width
	}
	h := (2*width*srcHeight + srcWidth) / (2 * srcWidth)
	if h < 1 {
		h = 1
	}
	return h
}
