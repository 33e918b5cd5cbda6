// Package middleware provides HTTP middleware for the gallery viewer.
//
// It includes:
//   - Request logging in W3C Extended Log Format, with image and health
//     check requests optionally filtered out
//   - Prometheus request metrics labelled by route template
//   - gzip compression of HTML and JSON responses
package middleware
