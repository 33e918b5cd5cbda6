package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"gallery-viewer/internal/startup"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Error   string `json:"error,omitempty"`

	// Thumbnail service
	ResizeBackend string `json:"resizeBackend"`
	CacheEnabled  bool   `json:"cacheEnabled"`
	CacheHits     int64  `json:"cacheHits"`
	CacheMisses   int64  `json:"cacheMisses"`
	Generations   int64  `json:"generations"`
	MemoryPaused  bool   `json:"memoryPaused"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. The service is ready
// when the content root is readable; paused thumbnail generation degrades it
// without failing the probe.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.thumbs.Stats()

	response := HealthResponse{
		Status:        statusHealthy,
		Ready:         true,
		Version:       startup.Version,
		Uptime:        time.Since(h.started).Round(time.Second).String(),
		ResizeBackend: h.thumbs.Backend(),
		CacheEnabled:  h.thumbs.CacheEnabled(),
		CacheHits:     stats.Hits,
		CacheMisses:   stats.Misses + stats.Stale,
		Generations:   stats.Generations,
		GoVersion:     runtime.Version(),
		NumCPU:        runtime.NumCPU(),
		NumGoroutine:  runtime.NumGoroutine(),
	}

	if info, err := os.Stat(h.contentDir); err != nil || !info.IsDir() {
		response.Status = statusUnhealthy
		response.Ready = false
		response.Error = "content directory is not accessible"
	} else if h.memory != nil && h.memory.IsPaused() {
		response.Status = statusDegraded
		response.MemoryPaused = true
	}

	w.Header().Set("Content-Type", "application/json")
	if !response.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck reports whether the content root can be served.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	info, err := os.Stat(h.contentDir)
	if err != nil || !info.IsDir() {
		w.WriteHeader(http.StatusServiceUnavailable)
		if r.Method != http.MethodHead {
			writeJSON(w, map[string]string{
				"status": "not ready",
				"error":  "content directory is not accessible",
			})
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	}
}
