// Package handlers provides the HTTP handlers of the gallery viewer.
//
// It includes handlers for:
//   - Images and thumbnails, with conditional request support
//   - Gallery fragments and layouts for a content directory
//   - Rendering page content that carries gallery and image tokens
//   - Health checks and build information
package handlers
