// Package logging provides a small leveled logging interface for the gallery
// viewer.
//
// Levels, from most to least verbose:
//   - DEBUG: per-request decisions (cache hits, skipped files, chosen rows)
//   - INFO: lifecycle and configuration
//   - WARN: degraded but recoverable conditions (cache not writable)
//   - ERROR: failed requests
//   - FATAL: startup failures that terminate the process
//
// The level comes from the DEBUG or LOG_LEVEL environment variables and can be
// overridden at runtime with SetLevel.
package logging
