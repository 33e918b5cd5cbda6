package metrics

import (
	"sync"
	"time"

	"gallery-viewer/internal/logging"
)

// StatsProvider reports the current state of the thumbnail cache.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current cache statistics
type Stats struct {
	Entries   int
	SizeBytes int64
}

// Collector periodically collects and updates cache metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection. It is safe to call more than once.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	ThumbnailCacheCount.Set(float64(stats.Entries))
	ThumbnailCacheSize.Set(float64(stats.SizeBytes))

	logging.Debug("Metrics collected: cache entries=%d, size=%d bytes", stats.Entries, stats.SizeBytes)
}
