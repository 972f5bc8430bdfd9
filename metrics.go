package collgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting allocation and growth metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAcquire is called after each acquisition attempt.
	// granted is 0 if the allocator refused the request.
	RecordAcquire(requested, granted int, duration time.Duration)

	// RecordRelease is called after a live allocation is released.
	RecordRelease(bytes int)

	// RecordGrow is called when a container changes its element capacity.
	RecordGrow(container string, from, to int)

	// RecordRebuild is called after a hash table rebuild.
	RecordRebuild(from, to int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAcquire(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRelease(int)                     {}
func (NoopMetricsCollector) RecordGrow(string, int, int)           {}
func (NoopMetricsCollector) RecordRebuild(int, int)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	AcquireCount    atomic.Int64
	AcquireFailures atomic.Int64
	AcquireNanos    atomic.Int64
	BytesRequested  atomic.Int64
	BytesGranted    atomic.Int64
	ReleaseCount    atomic.Int64
	BytesReleased   atomic.Int64
	GrowCount       atomic.Int64
	RebuildCount    atomic.Int64
}

// RecordAcquire implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAcquire(requested, granted int, duration time.Duration) {
	b.AcquireCount.Add(1)
	b.AcquireNanos.Add(duration.Nanoseconds())
	b.BytesRequested.Add(int64(requested))
	if granted == 0 {
		b.AcquireFailures.Add(1)
		return
	}
	b.BytesGranted.Add(int64(granted))
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes int) {
	b.ReleaseCount.Add(1)
	b.BytesReleased.Add(int64(bytes))
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(string, int, int) {
	b.GrowCount.Add(1)
}

// RecordRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRebuild(int, int) {
	b.RebuildCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AcquireCount:    b.AcquireCount.Load(),
		AcquireFailures: b.AcquireFailures.Load(),
		AcquireAvgNanos: b.getAvgAcquireNanos(),
		BytesRequested:  b.BytesRequested.Load(),
		BytesGranted:    b.BytesGranted.Load(),
		ReleaseCount:    b.ReleaseCount.Load(),
		BytesReleased:   b.BytesReleased.Load(),
		GrowCount:       b.GrowCount.Load(),
		RebuildCount:    b.RebuildCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgAcquireNanos() int64 {
	count := b.AcquireCount.Load()
	if count == 0 {
		return 0
	}
	return b.AcquireNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AcquireCount    int64
	AcquireFailures int64
	AcquireAvgNanos int64
	BytesRequested  int64
	BytesGranted    int64
	ReleaseCount    int64
	BytesReleased   int64
	GrowCount       int64
	RebuildCount    int64
}

// Live returns the number of bytes granted and not yet released.
func (s BasicMetricsStats) Live() int64 {
	return s.BytesGranted - s.BytesReleased
}
