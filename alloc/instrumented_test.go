package alloc

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/collgo"
)

func TestInstrumented(t *testing.T) {
	var buf bytes.Buffer
	logger := collgo.NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	metrics := &collgo.BasicMetricsCollector{}

	h := NewInstrumented(NewLimiter(NewHeap(), 0, 64),
		WithName("heap"),
		WithLogger(logger),
		WithMetrics(metrics),
	)

	require.Equal(t, 32, h.Acquire(32, LayoutOf[byte]()))
	h.Release()
	assert.Zero(t, h.Acquire(128, LayoutOf[byte]()))

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.AcquireCount)
	assert.Equal(t, int64(1), stats.AcquireFailures)
	assert.Equal(t, int64(32), stats.BytesGranted)
	assert.Equal(t, int64(1), stats.ReleaseCount)
	assert.Zero(t, stats.Live())

	out := buf.String()
	assert.Contains(t, out, "acquire completed")
	assert.Contains(t, out, "release completed")
	assert.Contains(t, out, "acquire failed")
	assert.Contains(t, out, "kind=heap")

	c := h.Clone()
	require.Positive(t, c.Acquire(8, LayoutOf[byte]()))
	assert.Equal(t, int64(3), metrics.GetStats().AcquireCount, "clones share the collector")
}

func TestInstrumented_Defaults(t *testing.T) {
	h := NewInstrumented(NewHeap())
	assert.Equal(t, "*alloc.Heap", h.name)
	require.Positive(t, h.Acquire(8, LayoutOf[byte]()))
	h.Release()
}
