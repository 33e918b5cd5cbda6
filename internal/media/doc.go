// Package media reads image metadata and produces thumbnails.
//
// It has three parts:
//   - Collect and CollectDir probe a set of files for their dimensions and
//     group them by quantized aspect ratio, skipping anything that is not a
//     readable raster image.
//   - ThumbnailService resizes a source image to a requested box and encodes
//     it as JPEG, keeping results in a DiskCache that is invalidated lazily by
//     comparing entry and source modification times.
//   - ImageServer is the capability set the HTTP layer dispatches to, with
//     FullImageRequest passing the source through untouched and
//     ThumbnailRequest going through the cache.
package media
