// Package memory keeps image decoding inside the container's memory budget.
//
// Decoding a large JPEG or PNG allocates the full bitmap before it can be
// shrunk, so a burst of cold thumbnail requests can push the heap far past
// its steady state. The package offers two tools:
//
//   - [ConfigureFromEnv] sets GOMEMLIMIT from the container limit so the
//     garbage collector works harder before the kernel OOM-kills the process.
//   - [Monitor] samples heap usage and pauses thumbnail generation while usage
//     is above a critical mark. It satisfies media.Gate.
//
// # Environment Variables
//
//   - GOMEMLIMIT: standard Go variable; takes precedence when set.
//   - MEMORY_LIMIT: container limit in bytes, typically from the Kubernetes
//     Downward API (resourceFieldRef: limits.memory).
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, 0.0-1.0
//     (default 0.85). Lower it when RESIZE_BACKEND=vips, since libvips
//     allocates outside the Go heap.
package memory
