package gallery

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery-viewer/internal/media"
)

func TestSubstituteGallery(t *testing.T) {
	r, dir := newScenario(t)

	page := "<h1>Trip</h1>\n<p>{gallery:900x200}</p>\n<p>Bye</p>"
	out, err := r.SubstituteGallery(context.Background(), page, dir)
	require.NoError(t, err)

	assert.NotContains(t, out, "{gallery:")
	assert.NotContains(t, out, "<p><div")
	assert.True(t, strings.HasPrefix(out, "<h1>Trip</h1>\n<div class=\"gallery\" style=\"width:900px\">"))
	assert.True(t, strings.HasSuffix(out, "</ul></div>\n<p>Bye</p>"))
}

func TestSubstituteGalleryOnlyFirstPlaceholder(t *testing.T) {
	r, dir := newScenario(t)

	page := "{gallery:900x200} {gallery:600x100}"
	out, err := r.SubstituteGallery(context.Background(), page, dir)
	require.NoError(t, err)

	assert.Contains(t, out, `style="width:900px"`)
	assert.Contains(t, out, "{gallery:600x100}")
}

func TestSubstituteGalleryInvalidSize(t *testing.T) {
	r, dir := newScenario(t)

	pages := []string{
		"{gallery:99999999999999999999x200}",
		"{gallery:900x99999999999999999999}",
		"{gallery:1000000000000000x200}",
	}
	for _, page := range pages {
		t.Run(page, func(t *testing.T) {
			_, err := r.SubstituteGallery(context.Background(), page, dir)
			assert.ErrorIs(t, err, media.ErrInvalidSize)
		})
	}
}

func TestSubstituteGalleryWithoutPlaceholder(t *testing.T) {
	r, dir := newScenario(t)

	page := "<p>No gallery here</p>"
	out, err := r.SubstituteGallery(context.Background(), page, dir)
	require.NoError(t, err)
	assert.Equal(t, page, out)
}

func TestSubstituteImages(t *testing.T) {
	r, dir := newScenario(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain image",
			in:   `![A cat](cat.jpg)`,
			want: `<img src="/image/gal/cat.jpg" alt="A cat" title=""/>`,
		},
		{
			name: "thumbnail with caption",
			in:   `<p>![A cat](cat.jpg "On the sofa")[300x200]</p>`,
			want: `<figure class="center" style="width:300px;"><a href="/image/gal/cat.jpg">` +
				`<img src="/image/gal/cat.jpg?w=300&amp;h=200" alt="A cat"/></a>` +
				`<figcaption>On the sofa</figcaption></figure>`,
		},
		{
			name: "aligned right",
			in:   `![x](cat.jpg)[ 300]`,
			want: `<figure class="right" style="width:300px;"><a href="/image/gal/cat.jpg">` +
				`<img src="/image/gal/cat.jpg?w=300" alt="x"/></a></figure>`,
		},
		{
			name: "aligned left",
			in:   `![x](cat.jpg)[300 ]`,
			want: `<figure class="left" style="width:300px;"><a href="/image/gal/cat.jpg">` +
				`<img src="/image/gal/cat.jpg?w=300" alt="x"/></a></figure>`,
		},
		{
			name: "both spaces center",
			in:   `![x](cat.jpg)[ 300 ]`,
			want: `<figure class="center" style="width:300px;"><a href="/image/gal/cat.jpg">` +
				`<img src="/image/gal/cat.jpg?w=300" alt="x"/></a></figure>`,
		},
		{
			name: "content scheme",
			in:   `![x](content://shared/logo.png)`,
			want: `<img src="/image/shared/logo.png" alt="x" title=""/>`,
		},
		{
			name: "escapes markdown text",
			in:   `![a<b](cat.jpg "x & y")`,
			want: `<img src="/image/gal/cat.jpg" alt="a&lt;b" title="x &amp; y"/>`,
		},
		{
			name: "rendered html token",
			in:   `<p><img src="cat.jpg" alt="A cat" title="Sofa" />[200x100]</p>`,
			want: `<figure class="center" style="width:200px;"><a href="/image/gal/cat.jpg">` +
				`<img src="/image/gal/cat.jpg?w=200&amp;h=100" alt="A cat"/></a>` +
				`<figcaption>Sofa</figcaption></figure>`,
		},
		{
			name: "absolute url untouched",
			in:   `![x](https://example.org/cat.jpg)[300]`,
			want: `![x](https://example.org/cat.jpg)[300]`,
		},
		{
			name: "protocol relative untouched",
			in:   `![x](//cdn.example.org/cat.jpg)`,
			want: `![x](//cdn.example.org/cat.jpg)`,
		},
		{
			name: "rooted path untouched",
			in:   `<img src="/static/cat.jpg" alt="x" />`,
			want: `<img src="/static/cat.jpg" alt="x" />`,
		},
		{
			name: "escaping the content root untouched",
			in:   `![x](../../../etc/cat.jpg)`,
			want: `![x](../../../etc/cat.jpg)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SubstituteImages(tt.in, dir))
		})
	}
}

func TestProcess(t *testing.T) {
	r, dir := newScenario(t)

	page := "<p>{gallery:900x200}</p>\n<p>![cover](a.jpg \"Cover\")[ 150]</p>"
	out, err := r.Process(context.Background(), page, dir)
	require.NoError(t, err)

	assert.Contains(t, out, `<div class="gallery" style="width:900px"><ul>`)
	assert.Contains(t, out, `<figure class="right" style="width:150px;">`)
	assert.Contains(t, out, `<figcaption>Cover</figcaption>`)
	// Gallery thumbnails are rooted URLs and survive the image pass unchanged.
	assert.Equal(t, 6, strings.Count(out, `alt=""/>`))
	assert.NotContains(t, out, filepath.Join(dir, "a.jpg"))
}
