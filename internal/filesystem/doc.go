/*
Package filesystem wraps the filesystem calls made while serving galleries
(os.Stat, os.Open, os.ReadDir) with retry logic for NFS stale file handle
errors.

Content and cache directories are frequently NFS mounts. An ESTALE error on
such a mount is usually transient, so the operation is retried with
exponential backoff (50ms, 100ms, 200ms by default, capped at 500ms). Every
other error is returned immediately.

	info, err := filesystem.StatWithRetry(path, filesystem.DefaultRetryConfig())

Each call reports its duration and retry outcome to the package Observer,
labelled with the volume the path lives on (see VolumeResolver). The metrics
package installs the Prometheus-backed observer at startup; tests run without
one.
*/
package filesystem
