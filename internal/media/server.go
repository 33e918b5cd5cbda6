package media

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"time"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
)

// ImageRequest is either a FullImageRequest or a ThumbnailRequest.
type ImageRequest interface {
	SourcePath() string
	isImageRequest()
}

// FullImageRequest asks for the source file unchanged.
type FullImageRequest struct {
	Path string
}

// ThumbnailRequest asks for a resized JPEG. Height 0 derives the height from
// the source aspect ratio.
type ThumbnailRequest struct {
	Path   string
	Width  int
	Height int
}

func (r FullImageRequest) SourcePath() string { return r.Path }
func (r ThumbnailRequest) SourcePath() string { return r.Path }

func (FullImageRequest) isImageRequest() {}
func (ThumbnailRequest) isImageRequest() {}

// Image is a response body ready to be written. The caller must close Body.
type Image struct {
	ContentType string
	ModTime     time.Time
	Size        int64
	Body        io.ReadCloser
}

// ImageServer is the set of operations the image endpoint needs.
type ImageServer interface {
	// ModTime returns the source modification time for conditional requests.
	ModTime(path string) (time.Time, error)
	ServeFull(req FullImageRequest) (*Image, error)
	ServeThumbnail(req ThumbnailRequest) (*Image, error)
}

// Serve dispatches req to the matching ImageServer operation.
func Serve(s ImageServer, req ImageRequest) (*Image, error) {
	switch r := req.(type) {
	case FullImageRequest:
		return s.ServeFull(r)
	case ThumbnailRequest:
		return s.ServeThumbnail(r)
	default:
		return nil, fmt.Errorf("unknown image request %T", req)
	}
}

// ServeFull streams the source file with its detected MIME type. Full images
// are never cached.
func (s *ThumbnailService) ServeFull(req FullImageRequest) (*Image, error) {
	info, err := statSource(req.Path)
	if err != nil {
		return nil, err
	}

	f, err := filesystem.OpenWithRetry(req.Path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.Path, err)
	}

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedFormat, req.Path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind %s: %w", req.Path, err)
	}

	metrics.FullImageServedTotal.Inc()
	logging.Debug("Serving full image %s (%s, %d bytes)", req.Path, format, info.Size())

	return &Image{
		ContentType: MimeType(format),
		ModTime:     info.ModTime(),
		Size:        info.Size(),
		Body:        f,
	}, nil
}

// ServeThumbnail resolves the thumbnail through the cache.
func (s *ThumbnailService) ServeThumbnail(req ThumbnailRequest) (*Image, error) {
	thumb, err := s.Resolve(req.Path, req.Width, req.Height)
	if err != nil {
		return nil, err
	}
	return &Image{
		ContentType: "image/jpeg",
		ModTime:     thumb.ModTime,
		Size:        int64(len(thumb.Data)),
		Body:        io.NopCloser(bytes.NewReader(thumb.Data)),
	}, nil
}
