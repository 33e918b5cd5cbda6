package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	stats Stats
	calls int
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestCollectorCollectSetsGauges(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{Entries: 12, SizeBytes: 4096}}
	c := NewCollector(provider, time.Hour)

	c.collect()

	if got := testutil.ToFloat64(ThumbnailCacheCount); got != 12 {
		t.Errorf("ThumbnailCacheCount = %v, want 12", got)
	}
	if got := testutil.ToFloat64(ThumbnailCacheSize); got != 4096 {
		t.Errorf("ThumbnailCacheSize = %v, want 4096", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect()
}

func TestNewCollectorDefaultInterval(t *testing.T) {
	c := NewCollector(nil, 0)
	if c.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", c.interval)
	}
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{}
	c := NewCollector(provider, 10*time.Millisecond)

	c.Start()
	deadline := time.Now().Add(2 * time.Second)
	for provider.callCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Stop()
	c.Stop()

	if provider.callCount() < 2 {
		t.Errorf("collector ran %d times, want at least 2", provider.callCount())
	}
}

func TestFilesystemObserver(t *testing.T) {
	obs := NewFilesystemObserver()

	before := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("content", "stat"))
	obs.ObserveOperation("content", "stat", 0.001, nil)
	obs.ObserveOperation("content", "stat", 0.001, errors.New("boom"))
	after := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("content", "stat"))

	if after-before != 1 {
		t.Errorf("FilesystemOperationErrors delta = %v, want 1", after-before)
	}

	retryBefore := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "cache"))
	obs.ObserveRetryAttempt("open", "cache")
	if got := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "cache")); got-retryBefore != 1 {
		t.Errorf("FilesystemRetryAttempts delta = %v, want 1", got-retryBefore)
	}
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics()

	if n := testutil.CollectAndCount(ThumbnailGenerationsTotal); n < 8 {
		t.Errorf("ThumbnailGenerationsTotal series = %d, want at least 8", n)
	}
	if n := testutil.CollectAndCount(FilesystemOperationDuration); n < 9 {
		t.Errorf("FilesystemOperationDuration series = %d, want at least 9", n)
	}
}
