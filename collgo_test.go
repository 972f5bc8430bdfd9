package collgo

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViolation(t *testing.T) {
	v := NewViolation("collection-safe-access", "array.at", ErrOutOfRange)
	assert.Equal(t, "collection-safe-access: array.at: index out of range", v.Error())
	assert.ErrorIs(t, v, ErrOutOfRange)
	assert.NotErrorIs(t, v, ErrEmpty)

	var target *Violation
	wrapped := errors.Join(errors.New("context"), v)
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "array.at", target.Op)
}

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	m.RecordAcquire(100, 128, 2*time.Microsecond)
	m.RecordAcquire(64, 0, 4*time.Microsecond)
	m.RecordRelease(128)
	m.RecordGrow("array", 4, 8)
	m.RecordRebuild(64, 128)

	s := m.GetStats()
	assert.Equal(t, int64(2), s.AcquireCount)
	assert.Equal(t, int64(1), s.AcquireFailures)
	assert.Equal(t, int64(3000), s.AcquireAvgNanos)
	assert.Equal(t, int64(164), s.BytesRequested)
	assert.Equal(t, int64(128), s.BytesGranted)
	assert.Equal(t, int64(1), s.GrowCount)
	assert.Equal(t, int64(1), s.RebuildCount)
	assert.Zero(t, s.Live())
}

func TestBasicMetricsCollector_Concurrent(t *testing.T) {
	m := &BasicMetricsCollector{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.RecordAcquire(8, 8, 0)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(8000), m.GetStats().AcquireCount)
	assert.Equal(t, int64(64000), m.GetStats().Live())
}

func TestNoopMetricsCollector(t *testing.T) {
	var m MetricsCollector = NoopMetricsCollector{}
	assert.NotPanics(t, func() {
		m.RecordAcquire(1, 1, 0)
		m.RecordRelease(1)
		m.RecordGrow("x", 0, 1)
		m.RecordRebuild(0, 1)
	})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	l.WithKind("arena").LogAcquire(ctx, "arena", 64, 64)
	l.LogAcquire(ctx, "fixed", 128, 0)
	l.WithContainer("ring").LogGrow(ctx, "ring", 4, 8)
	l.LogRebuild(ctx, 64, 128, 3)
	l.LogRelease(ctx, "heap", 32)

	out := buf.String()
	assert.Contains(t, out, `msg="acquire completed" kind=arena kind=arena requested=64 granted=64`)
	assert.Contains(t, out, `level=WARN msg="acquire failed" kind=fixed requested=128`)
	assert.Contains(t, out, `msg="capacity changed" container=ring container=ring from=4 to=8`)
	assert.Contains(t, out, "tombstones=3")
	assert.Contains(t, out, `msg="release completed" kind=heap bytes=32`)
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
