package gallery

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/media"
)

var (
	galleryPattern = regexp.MustCompile(`(?:<p>)?\{gallery:([0-9]+)x([0-9]+)\}(?:</p>)?`)

	// ![alt](src "title")[ 300x200 ]
	markdownImagePattern = regexp.MustCompile(
		`(?:<p>)?!\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)` +
			`(?:\[( ?)([0-9]+)(?:x([0-9]+))?( ?)\])?(?:</p>)?`)

	// The same token after a markdown pass has already turned it into HTML.
	htmlImagePattern = regexp.MustCompile(
		`(?:<p>)?<img src="([^"]+)" alt="([^"]*)" (?:title="([^"]+)" )?/>` +
			`(?:\[( ?)([0-9]+)(?:x([0-9]+))?( ?)\])?(?:</p>)?`)

	externalSource = regexp.MustCompile(`^(https?:/|ftp:/|/)?/`)
)

const contentScheme = "content://"

// Process expands the gallery placeholder and inline image tokens of a page
// whose source file lives in pageDir.
func (r *Renderer) Process(ctx context.Context, content, pageDir string) (string, error) {
	content, err := r.SubstituteGallery(ctx, content, pageDir)
	if err != nil {
		return "", err
	}
	return r.SubstituteImages(content, pageDir), nil
}

// SubstituteGallery replaces the first {gallery:WxH} placeholder with the
// gallery of pageDir. Identical copies of that placeholder are replaced too;
// placeholders with other dimensions are left alone. Content without a
// placeholder is returned unchanged.
func (r *Renderer) SubstituteGallery(ctx context.Context, content, pageDir string) (string, error) {
	m := galleryPattern.FindStringSubmatch(content)
	if m == nil {
		return content, nil
	}

	width, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("%w: gallery width %q", media.ErrInvalidSize, m[1])
	}
	height, err := strconv.Atoi(m[2])
	if err != nil {
		return "", fmt.Errorf("%w: gallery height %q", media.ErrInvalidSize, m[2])
	}

	fragment, err := r.Render(ctx, pageDir, width, height)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(content, m[0], fragment), nil
}

// imageToken is one inline image reference.
type imageToken struct {
	src    string
	alt    string
	title  string
	lead   string
	width  int
	height int
	trail  string
}

func (t imageToken) align() string {
	switch {
	case t.lead == " " && t.trail == "":
		return "right"
	case t.lead == "" && t.trail == " ":
		return "left"
	default:
		return "center"
	}
}

// SubstituteImages rewrites inline image tokens that reference local files
// so they point at the image endpoint. Sources starting with http://,
// https://, ftp://, // or / are left untouched. content://x resolves against
// the content root; anything else against pageDir. A token with a width
// becomes a captioned thumbnail linking to the full image.
func (r *Renderer) SubstituteImages(content, pageDir string) string {
	content = markdownImagePattern.ReplaceAllStringFunc(content, func(tag string) string {
		m := markdownImagePattern.FindStringSubmatch(tag)
		tok := newImageToken(m[2], m[1], m[3], m[4:8])
		tok.alt = html.EscapeString(tok.alt)
		tok.title = html.EscapeString(tok.title)
		return r.expandImage(tag, tok, pageDir)
	})

	return htmlImagePattern.ReplaceAllStringFunc(content, func(tag string) string {
		m := htmlImagePattern.FindStringSubmatch(tag)
		return r.expandImage(tag, newImageToken(html.UnescapeString(m[1]), m[2], m[3], m[4:8]), pageDir)
	})
}

func newImageToken(src, alt, title string, size []string) imageToken {
	tok := imageToken{src: src, alt: alt, title: title, lead: size[0], trail: size[3]}
	tok.width, _ = strconv.Atoi(size[1])
	tok.height, _ = strconv.Atoi(size[2])
	return tok
}

func (r *Renderer) expandImage(tag string, tok imageToken, pageDir string) string {
	if externalSource.MatchString(tok.src) {
		return tag
	}

	var path string
	if rest, ok := strings.CutPrefix(tok.src, contentScheme); ok {
		path = filepath.Join(r.contentDir, filepath.FromSlash(rest))
	} else {
		path = filepath.Join(pageDir, filepath.FromSlash(tok.src))
	}

	u, err := r.ImageURL(path)
	if err != nil {
		logging.Debug("Leaving image token %q untouched: %v", tok.src, err)
		return tag
	}
	u = html.EscapeString(u)

	if tok.width == 0 {
		return fmt.Sprintf(`<img src="%s" alt="%s" title="%s"/>`, u, tok.alt, tok.title)
	}

	thumb := fmt.Sprintf("%s?w=%d", u, tok.width)
	if tok.height > 0 {
		thumb += fmt.Sprintf("&amp;h=%d", tok.height)
	}

	caption := ""
	if tok.title != "" {
		caption = "<figcaption>" + tok.title + "</figcaption>"
	}

	return fmt.Sprintf(
		`<figure class="%s" style="width:%dpx;"><a href="%s"><img src="%s" alt="%s"/></a>%s</figure>`,
		tok.align(), tok.width, u, thumb, tok.alt, caption)
}
