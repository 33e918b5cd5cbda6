package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gallery-viewer/internal/filesystem"
	"gallery-viewer/internal/layout"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
	"gallery-viewer/internal/workers"

	"golang.org/x/sync/errgroup"
)

// maxProbeWorkers caps concurrent header reads per collection.
const maxProbeWorkers = 16

// Collection is the result of probing a set of files: the images in scan
// order, their ratio keys, and the images grouped by key.
type Collection struct {
	// Keys holds one ratio key per image, in scan order.
	Keys []layout.RatioKey
	// Images is parallel to Keys.
	Images []ImageRef

	byKey map[layout.RatioKey][]int
}

func newCollection(images []ImageRef) *Collection {
	c := &Collection{
		Keys:   make([]layout.RatioKey, 0, len(images)),
		Images: images,
		byKey:  make(map[layout.RatioKey][]int),
	}
	for i, img := range images {
		key := img.Key()
		c.Keys = append(c.Keys, key)
		c.byKey[key] = append(c.byKey[key], i)
	}
	return c
}

// Len returns the number of images collected.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Images)
}

// Empty reports whether no image was found. An empty collection means there
// is no gallery to render.
func (c *Collection) Empty() bool {
	return c.Len() == 0
}

// Files returns the images sharing key, in scan order.
func (c *Collection) Files(key layout.RatioKey) []ImageRef {
	idx := c.byKey[key]
	out := make([]ImageRef, len(idx))
	for i, j := range idx {
		out[i] = c.Images[j]
	}
	return out
}

// Cursor hands out the images of a collection by ratio key, each key's
// images in scan order. Walking a partition of c.Keys row by row with a
// cursor yields every image exactly once.
type Cursor struct {
	c    *Collection
	next map[layout.RatioKey]int
}

// Cursor returns a new cursor positioned at the first image of every key.
func (c *Collection) Cursor() *Cursor {
	return &Cursor{c: c, next: make(map[layout.RatioKey]int)}
}

// Next returns the next unused image with the given key.
func (cur *Cursor) Next(key layout.RatioKey) (ImageRef, bool) {
	idx := cur.c.byKey[key]
	n := cur.next[key]
	if n >= len(idx) {
		return ImageRef{}, false
	}
	cur.next[key] = n + 1
	return cur.c.Images[idx[n]], true
}

// Collect probes paths for image dimensions. Entries that are directories,
// unreadable, or not decodable images are skipped without error. The order of
// paths is preserved. Probing runs concurrently; the only error returned is
// ctx's.
func Collect(ctx context.Context, paths []string) (*Collection, error) {
	probed := make([]*ImageRef, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForIO(maxProbeWorkers))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ref, err := probe(path)
			if err != nil {
				// Pages and other companions are expected; a broken image is not
				if ImageExtensions[strings.ToLower(filepath.Ext(path))] {
					logging.Warn("Collector: skipping unreadable image %s: %v", path, err)
				} else {
					logging.Debug("Collector: skipping %s: %v", path, err)
				}
				metrics.CollectorSkippedTotal.Inc()
				return nil
			}
			probed[i] = ref
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	images := make([]ImageRef, 0, len(paths))
	for _, ref := range probed {
		if ref != nil {
			images = append(images, *ref)
		}
	}

	return newCollection(images), nil
}

// CollectDir collects the entries of dir in filename order.
func CollectDir(ctx context.Context, dir string) (*Collection, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read gallery directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	return Collect(ctx, paths)
}

func probe(path string) (*ImageRef, error) {
	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("is a directory")
	}

	dims, err := GetImageDimensions(path)
	if err != nil {
		return nil, err
	}

	return &ImageRef{
		Path:    path,
		Name:    filepath.Base(path),
		Width:   dims.Width,
		Height:  dims.Height,
		Format:  dims.Format,
		ModTime: info.ModTime(),
	}, nil
}
