package gallery

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"gallery-viewer/internal/layout"
	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
	"gallery-viewer/internal/metrics"
)

// ErrOutsideContent is returned when an image does not live under the
// content root and therefore has no URL.
var ErrOutsideContent = errors.New("path is outside the content directory")

// DefaultImageRoute is the path the image endpoint is mounted on.
const DefaultImageRoute = "/image"

// Config holds what the renderer needs to build links and default layouts.
type Config struct {
	ContentDir   string
	BaseURL      string
	ImageRoute   string
	DisplayWidth int
	IdealHeight  int
}

// Renderer builds gallery layouts and markup.
type Renderer struct {
	contentDir string
	imageBase  string
	defaults   layout.Engine
}

// NewRenderer creates a renderer from cfg.
func NewRenderer(cfg Config) *Renderer {
	route := cfg.ImageRoute
	if route == "" {
		route = DefaultImageRoute
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	contentDir, err := filepath.Abs(cfg.ContentDir)
	if err != nil {
		contentDir = filepath.Clean(cfg.ContentDir)
	}

	return &Renderer{
		contentDir: contentDir,
		imageBase:  strings.TrimSuffix(cfg.BaseURL, "/") + strings.TrimSuffix(route, "/"),
		defaults: layout.Engine{
			DisplayWidth: cfg.DisplayWidth,
			IdealHeight:  cfg.IdealHeight,
		},
	}
}

// ContentDir returns the absolute content root.
func (r *Renderer) ContentDir() string {
	return r.contentDir
}

// Gallery is a computed layout: rows top to bottom, images left to right.
type Gallery struct {
	DisplayWidth int   `json:"displayWidth"`
	IdealHeight  int   `json:"idealHeight"`
	Rows         []Row `json:"rows"`
}

// Row is one gallery line. Widths of its images sum to the display width.
type Row struct {
	Height int         `json:"height"`
	Images []Placement `json:"images"`
}

// Placement is one image at its computed size.
type Placement struct {
	Path   string          `json:"path"`
	URL    string          `json:"url"`
	Ratio  layout.RatioKey `json:"ratio"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

// Empty reports whether the gallery has no images.
func (g *Gallery) Empty() bool {
	return g == nil || len(g.Rows) == 0
}

// ImageCount returns the number of placed images.
func (g *Gallery) ImageCount() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, row := range g.Rows {
		n += len(row.Images)
	}
	return n
}

// ImageURL returns the image endpoint URL for a file under the content root.
func (r *Renderer) ImageURL(path string) (string, error) {
	rel, err := r.relative(path)
	if err != nil {
		return "", err
	}
	return r.imageBase + (&url.URL{Path: "/" + rel}).EscapedPath(), nil
}

func (r *Renderer) relative(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(r.contentDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideContent, path)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Renderer) engine(width, height int) layout.Engine {
	e := r.defaults
	if width > 0 {
		e.DisplayWidth = width
	}
	if height > 0 {
		e.IdealHeight = height
	}
	return e
}

// MaxDimension bounds the display width and ideal height of a gallery. Row
// images are requested as thumbnails, so it matches the thumbnail limit.
const MaxDimension = media.MaxThumbnailDimension

// Layout collects the images of dir and lays them out at width x height.
// Zero dimensions fall back to the configured defaults; dimensions above
// MaxDimension are rejected with media.ErrInvalidSize. A directory without
// images yields an empty gallery, not an error.
func (r *Renderer) Layout(ctx context.Context, dir string, width, height int) (*Gallery, error) {
	start := time.Now()
	eng := r.engine(width, height)
	if eng.DisplayWidth <= 0 || eng.IdealHeight <= 0 ||
		eng.DisplayWidth > MaxDimension || eng.IdealHeight > MaxDimension {
		return nil, fmt.Errorf("%w: gallery %dx%d", media.ErrInvalidSize, eng.DisplayWidth, eng.IdealHeight)
	}

	collection, err := media.CollectDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	g := &Gallery{DisplayWidth: eng.DisplayWidth, IdealHeight: eng.IdealHeight}
	if collection.Empty() {
		logging.Debug("Gallery %s has no images", dir)
		return g, nil
	}

	cursor := collection.Cursor()
	for _, rl := range eng.Compute(collection.Keys) {
		row := Row{Height: rl.Height, Images: make([]Placement, 0, len(rl.Keys))}
		for i, key := range rl.Keys {
			img, ok := cursor.Next(key)
			if !ok {
				return nil, fmt.Errorf("no image left for ratio %d in %s", key, dir)
			}
			u, err := r.ImageURL(img.Path)
			if err != nil {
				return nil, err
			}
			rel, _ := r.relative(img.Path)
			row.Images = append(row.Images, Placement{
				Path:   rel,
				URL:    u,
				Ratio:  key,
				Width:  rl.Widths[i],
				Height: rl.Height,
			})
		}
		g.Rows = append(g.Rows, row)
	}

	metrics.GalleryRenderDuration.Observe(time.Since(start).Seconds())
	metrics.GalleryRows.Observe(float64(len(g.Rows)))
	metrics.GalleryImages.Observe(float64(collection.Len()))
	logging.Debug("Gallery %s: %d images in %d rows at %dx%d (%v)",
		dir, collection.Len(), len(g.Rows), eng.DisplayWidth, eng.IdealHeight, time.Since(start))

	return g, nil
}

// HTML renders the gallery fragment. An empty gallery renders nothing.
func (g *Gallery) HTML() string {
	if g.Empty() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="gallery" style="width:%dpx"><ul>`, g.DisplayWidth)
	for _, row := range g.Rows {
		for _, img := range row.Images {
			u := html.EscapeString(img.URL)
			fmt.Fprintf(&b,
				`<li style="width:%f%%"><a href="%s"><img src="%s?w=%d&amp;h=%d" alt=""/></a></li>`,
				float64(img.Width)/float64(g.DisplayWidth)*100, u, u, img.Width, img.Height)
		}
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}

// Render lays out dir and returns its HTML fragment.
func (r *Renderer) Render(ctx context.Context, dir string, width, height int) (string, error) {
	g, err := r.Layout(ctx, dir, width, height)
	if err != nil {
		return "", err
	}
	return g.HTML(), nil
}
