/*
Package workers sizes worker pools in a container-aware way.

runtime.NumCPU reports the host's CPUs, while GOMAXPROCS follows the
container's CPU quota (Go 1.19+). Worker counts here are derived from
GOMAXPROCS and a per-workload multiplier:

	// Probing image headers is I/O-bound: 2 workers per CPU, at most 16.
	n := workers.ForIO(16)

	// Resizing images is CPU-bound: 1 worker per CPU, at most 8.
	n := workers.ForCPU(8)

GALLERY_WORKERS overrides the computed value (still capped by the limit).
*/
package workers
