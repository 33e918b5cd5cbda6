package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
)

// CacheKey returns the hex MD5 of the source path, target width and target
// height joined by NUL bytes. An omitted height (0) leaves the last field
// empty, so a request without h and a request with an explicit h are cached
// separately.
func CacheKey(path string, width, height int) string {
	var b strings.Builder
	b.WriteString(path)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(width))
	b.WriteByte(0)
	if height > 0 {
		b.WriteString(strconv.Itoa(height))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// DiskCache stores encoded thumbnails under
// <root>/image/<key[0:2]>/<key[2:4]>/<key>.jpg.
//
// Entries are published by writing a temporary file in the target directory
// and renaming it into place, so readers never see a partial file. Concurrent
// writers of the same key race harmlessly: the last rename wins.
type DiskCache struct {
	root string
}

// NewDiskCache creates a cache rooted at <cacheRoot>/image.
func NewDiskCache(cacheRoot string) *DiskCache {
	return &DiskCache{root: filepath.Join(cacheRoot, "image")}
}

// Root returns the directory holding the sharded entries.
func (c *DiskCache) Root() string {
	return c.root
}

// Path returns the file path for key.
func (c *DiskCache) Path(key string) string {
	if len(key) < 4 {
		return filepath.Join(c.root, key+".jpg")
	}
	return filepath.Join(c.root, key[0:2], key[2:4], key+".jpg")
}

// Get returns the entry for key and the time it was written.
func (c *DiskCache) Get(key string) ([]byte, time.Time, error) {
	path := c.Path(key)
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	return data, info.ModTime(), nil
}

// Put atomically writes data as the entry for key.
func (c *DiskCache) Put(key string, data []byte) error {
	path := c.Path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache entry: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		logging.Debug("failed to chmod cache entry %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish cache entry: %w", err)
	}

	return nil
}

// GetStats walks the cache and reports entry count and total size. Temporary
// files from in-flight writes are not counted.
func (c *DiskCache) GetStats() metrics.Stats {
	var stats metrics.Stats
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".jpg") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		stats.Entries++
		stats.SizeBytes += info.Size()
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk thumbnail cache %s: %v", c.root, err)
	}
	return stats
}
