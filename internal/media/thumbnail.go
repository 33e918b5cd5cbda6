package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
)

// DefaultJPEGQuality is the quality thumbnails are encoded at when none is
// configured.
const DefaultJPEGQuality = 65

// ThumbnailOptions configures a ThumbnailService.
type ThumbnailOptions struct {
	// CacheDir is the cache root. Entries live under CacheDir/image.
	CacheDir string
	// CacheEnabled turns the disk cache on. Without it every request resizes.
	CacheEnabled bool
	// Quality is the JPEG quality, 1-100.
	Quality int
	// Resizer defaults to the imaging backend.
	Resizer Resizer
	// Gate, when set, is consulted before every resize so generation can be
	// held back while memory is under pressure.
	Gate Gate
}

// Gate blocks, for a bounded time, until work may proceed. It returns false
// when the caller should give up instead.
type Gate interface {
	WaitIfPaused() bool
}

// ErrBusy is returned when the Gate refuses a resize.
var ErrBusy = errors.New("thumbnail generation paused")

// Thumbnail is an encoded thumbnail together with the time that should be
// advertised as its Last-Modified.
type Thumbnail struct {
	Data    []byte
	ModTime time.Time
	// Cached is true when Data came from a fresh cache entry.
	Cached bool
}

// ThumbnailStats are cumulative counters since the service was created.
type ThumbnailStats struct {
	Hits        int64
	Misses      int64
	Stale       int64
	Generations int64
	WriteErrors int64
}

// ThumbnailService produces resized JPEGs of source images, backed by an
// optional content-addressed disk cache. A cache entry is valid as long as it
// is not older than its source file.
type ThumbnailService struct {
	cache   *DiskCache
	enabled bool
	quality int
	resizer Resizer
	gate    Gate

	hits        atomic.Int64
	misses      atomic.Int64
	stale       atomic.Int64
	generations atomic.Int64
	writeErrors atomic.Int64
}

// NewThumbnailService creates a service from opts.
func NewThumbnailService(opts ThumbnailOptions) *ThumbnailService {
	if opts.Quality < 1 || opts.Quality > 100 {
		opts.Quality = DefaultJPEGQuality
	}
	if opts.Resizer == nil {
		opts.Resizer = imagingResizer{}
	}

	s := &ThumbnailService{
		enabled: opts.CacheEnabled && opts.CacheDir != "",
		quality: opts.Quality,
		resizer: opts.Resizer,
		gate:    opts.Gate,
	}

	if s.enabled {
		s.cache = NewDiskCache(opts.CacheDir)
		if err := os.MkdirAll(s.cache.Root(), 0o755); err != nil {
			logging.Warn("ThumbnailService: failed to create cache dir: %v", err)
		}
		logging.Debug("ThumbnailService: cache enabled at %s (backend: %s, quality: %d)",
			s.cache.Root(), s.resizer.Name(), s.quality)
	} else {
		logging.Debug("ThumbnailService: cache disabled (backend: %s, quality: %d)",
			s.resizer.Name(), s.quality)
	}

	return s
}

// CacheEnabled reports whether thumbnails are persisted.
func (s *ThumbnailService) CacheEnabled() bool {
	return s.enabled
}

// Cache returns the underlying disk cache, or nil when caching is disabled.
func (s *ThumbnailService) Cache() *DiskCache {
	return s.cache
}

// Backend returns the name of the resize backend in use.
func (s *ThumbnailService) Backend() string {
	return s.resizer.Name()
}

// ValidateSize checks requested thumbnail dimensions. Height 0 means derived.
func ValidateSize(width, height int) error {
	if width <= 0 || width > MaxThumbnailDimension {
		return fmt.Errorf("%w: width %d", ErrInvalidSize, width)
	}
	if height < 0 || height > MaxThumbnailDimension {
		return fmt.Errorf("%w: height %d", ErrInvalidSize, height)
	}
	return nil
}

// ModTime returns the modification time of the source at path.
func (s *ThumbnailService) ModTime(path string) (time.Time, error) {
	info, err := statSource(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// IsFresh reports whether something produced at cachedAt is still valid for
// the source at path.
func (s *ThumbnailService) IsFresh(path string, cachedAt time.Time) bool {
	mtime, err := s.ModTime(path)
	if err != nil {
		return false
	}
	return !cachedAt.Before(mtime)
}

// Resolve returns the thumbnail of path at width x height, serving it from
// the cache when a fresh entry exists and generating and storing it
// otherwise. A failed cache write is logged and the generated bytes are still
// returned.
func (s *ThumbnailService) Resolve(path string, width, height int) (*Thumbnail, error) {
	if err := ValidateSize(width, height); err != nil {
		return nil, err
	}

	info, err := statSource(path)
	if err != nil {
		return nil, err
	}
	srcMod := info.ModTime()

	var key string
	if s.enabled {
		key = CacheKey(path, width, height)
		data, cachedAt, err := s.cache.Get(key)
		switch {
		case err == nil && !cachedAt.Before(srcMod):
			s.hits.Add(1)
			metrics.ThumbnailCacheHits.Inc()
			logging.Debug("Thumbnail cache hit: %s (%dx%d)", filepath.Base(path), width, height)
			return &Thumbnail{Data: data, ModTime: srcMod, Cached: true}, nil
		case err == nil:
			s.stale.Add(1)
			metrics.ThumbnailCacheStale.Inc()
			logging.Debug("Thumbnail cache stale: %s (entry %s, source %s)",
				filepath.Base(path), cachedAt.Format(time.RFC3339), srcMod.Format(time.RFC3339))
		default:
			s.misses.Add(1)
			metrics.ThumbnailCacheMisses.Inc()
		}
	}

	data, err := s.generate(path, width, height)
	if err != nil {
		return nil, err
	}

	if s.enabled {
		if err := s.cache.Put(key, data); err != nil {
			s.writeErrors.Add(1)
			metrics.ThumbnailCacheWriteErrors.Inc()
			logging.Warn("Failed to cache thumbnail for %s: %v", path, err)
		}
	}

	return &Thumbnail{Data: data, ModTime: srcMod}, nil
}

func (s *ThumbnailService) generate(path string, width, height int) ([]byte, error) {
	if s.gate != nil && !s.gate.WaitIfPaused() {
		return nil, ErrBusy
	}

	backend := s.resizer.Name()
	start := time.Now()

	data, err := s.resizer.Thumbnail(path, width, height, s.quality)
	metrics.ThumbnailGenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, generationStatus(err)).Inc()
		return nil, err
	}

	s.generations.Add(1)
	metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "success").Inc()
	logging.Debug("Generated thumbnail %s (%dx%d, %d bytes) in %v",
		filepath.Base(path), width, height, len(data), time.Since(start))
	return data, nil
}

func generationStatus(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "error_not_found"
	case errors.Is(err, ErrUnsupportedFormat):
		return "error_unsupported"
	default:
		return "error_encode"
	}
}

// Stats returns the service counters.
func (s *ThumbnailService) Stats() ThumbnailStats {
	return ThumbnailStats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Stale:       s.stale.Load(),
		Generations: s.generations.Load(),
		WriteErrors: s.writeErrors.Load(),
	}
}

// GetStats reports the disk cache footprint, implementing
// metrics.StatsProvider. It is empty when caching is disabled.
func (s *ThumbnailService) GetStats() metrics.Stats {
	if !s.enabled {
		return metrics.Stats{}
	}
	return s.cache.GetStats()
}

func statSource(path string) (os.FileInfo, error) {
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return info, nil
}
