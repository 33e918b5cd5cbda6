package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"gallery-viewer/internal/logging"
	"gallery-viewer/internal/metrics"
)

// Config controls a Monitor.
type Config struct {
	// LimitBytes overrides the limit; 0 uses GOMEMLIMIT.
	LimitBytes int64
	// ResumeMark is the usage ratio below which paused generation resumes.
	ResumeMark float64
	// PauseMark is the usage ratio at which generation pauses.
	PauseMark float64
	// CheckInterval is how often heap usage is sampled.
	CheckInterval time.Duration
	// MaxWait bounds how long WaitIfPaused holds a caller.
	MaxWait time.Duration
}

// DefaultConfig returns the settings used by the server.
func DefaultConfig() Config {
	return Config{
		ResumeMark:    0.7,
		PauseMark:     0.85,
		CheckInterval: 5 * time.Second,
		MaxWait:       5 * time.Second,
	}
}

// Monitor samples heap usage and holds back thumbnail generation while it is
// above the pause mark. Without a limit it never pauses.
type Monitor struct {
	cfg   Config
	limit int64

	mu      sync.RWMutex
	alloc   uint64
	paused  bool
	resumed chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a monitor. Start must be called for sampling to begin.
func NewMonitor(cfg Config) *Monitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultConfig().CheckInterval
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultConfig().MaxWait
	}

	limit := cfg.LimitBytes
	if limit == 0 {
		if l := debug.SetMemoryLimit(-1); l > 0 && l < 1<<62 {
			limit = l
		}
	}
	if limit > 0 {
		logging.Info("Memory monitor limit: %s (pause at %.0f%%, resume at %.0f%%)",
			FormatBytes(limit), cfg.PauseMark*100, cfg.ResumeMark*100)
	} else {
		logging.Debug("Memory monitor: no limit configured, thumbnail backpressure disabled")
	}

	return &Monitor{
		cfg:     cfg,
		limit:   limit,
		resumed: make(chan struct{}),
		stop:    make(chan struct{}),
	}
}

// Start begins sampling. It does nothing when no limit is configured.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go m.loop()
}

// Stop ends sampling and releases any waiters. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			m.observe(stats.Alloc)
		case <-m.stop:
			return
		}
	}
}

// observe records a heap sample and updates the paused state.
func (m *Monitor) observe(alloc uint64) {
	if m.limit == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.alloc = alloc
	usage := float64(alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case !m.paused && usage >= m.cfg.PauseMark:
		logging.Warn("Memory critical (%.1f%% of limit), pausing thumbnail generation", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case m.paused && usage < m.cfg.ResumeMark:
		logging.Info("Memory recovered (%.1f%% of limit), resuming thumbnail generation", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resumed)
		m.resumed = make(chan struct{})
	}
}

// WaitIfPaused blocks while generation is paused, for at most MaxWait. It
// returns false if the pause outlasts MaxWait or the monitor is stopped while
// waiting.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return true
	}
	resumed := m.resumed
	m.mu.RUnlock()

	timer := time.NewTimer(m.cfg.MaxWait)
	defer timer.Stop()

	select {
	case <-resumed:
		return true
	case <-timer.C:
		logging.Debug("Memory still critical after %v, refusing thumbnail generation", m.cfg.MaxWait)
		return false
	case <-m.stop:
		return false
	}
}

// IsPaused reports whether generation is currently held back.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// Usage returns the last sampled heap usage as a ratio of the limit, or 0
// without a limit.
func (m *Monitor) Usage() float64 {
	if m.limit == 0 {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.alloc) / float64(m.limit)
}

// Limit returns the byte limit the monitor compares against.
func (m *Monitor) Limit() int64 {
	return m.limit
}
