// Package gallery turns a directory of images into a balanced, gap-less
// gallery fragment.
//
// A Renderer collects the images of a directory, partitions their aspect
// ratios into rows of near-equal width, scales every row to the display
// width, and emits markup referencing the thumbnail endpoint. It never reads
// pixel data beyond image headers; thumbnails are produced on request by the
// media package.
//
// Page content can carry two kinds of tokens, expanded by Process:
//
//	{gallery:900x200}
//	![alt](photo.jpg "caption")[300x200]
package gallery
