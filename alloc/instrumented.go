package alloc

import (
	"context"
	"fmt"
	"time"
	"unsafe"

	"github.com/hupe1980/collgo"
)

// Instrumented logs and records metrics around an inner allocator.
type Instrumented struct {
	inner   Allocator
	name    string
	logger  *collgo.Logger
	metrics collgo.MetricsCollector
}

// InstrumentOption configures an Instrumented handle.
type InstrumentOption func(*Instrumented)

// WithName sets the kind name used in log records. Defaults to the inner type name.
func WithName(name string) InstrumentOption {
	return func(i *Instrumented) {
		i.name = name
	}
}

// WithLogger sets the logger. Defaults to collgo.NoopLogger.
func WithLogger(l *collgo.Logger) InstrumentOption {
	return func(i *Instrumented) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithMetrics sets the metrics collector. Defaults to collgo.NoopMetricsCollector.
func WithMetrics(m collgo.MetricsCollector) InstrumentOption {
	return func(i *Instrumented) {
		if m != nil {
			i.metrics = m
		}
	}
}

// NewInstrumented wraps inner.
func NewInstrumented(inner Allocator, opts ...InstrumentOption) *Instrumented {
	i := &Instrumented{
		inner:   inner,
		name:    fmt.Sprintf("%T", inner),
		logger:  collgo.NoopLogger(),
		metrics: collgo.NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Instrumented) Nullable() bool    { return i.inner.Nullable() }
func (i *Instrumented) MinCapacity() int  { return i.inner.MinCapacity() }
func (i *Instrumented) MaxCapacity() int  { return i.inner.MaxCapacity() }
func (i *Instrumented) Relocatable() bool { return i.inner.Relocatable() }

func (i *Instrumented) Acquire(bytes int, l Layout) int {
	start := time.Now()
	g := i.inner.Acquire(bytes, l)
	i.metrics.RecordAcquire(bytes, g, time.Since(start))
	i.logger.LogAcquire(context.Background(), i.name, bytes, g)
	return g
}

// Extend forwards to the inner allocator when it can grow in place.
func (i *Instrumented) Extend(bytes int) int {
	ext, ok := i.inner.(Extender)
	if !ok {
		return 0
	}
	before := i.inner.Granted()
	g := ext.Extend(bytes)
	if g > 0 {
		i.metrics.RecordAcquire(bytes-before, g-before, 0)
		i.logger.LogAcquire(context.Background(), i.name+"/extend", bytes, g)
	}
	return g
}

func (i *Instrumented) Release() {
	bytes := i.inner.Granted()
	i.inner.Release()
	i.metrics.RecordRelease(bytes)
	i.logger.LogRelease(context.Background(), i.name, bytes)
}

func (i *Instrumented) Data() unsafe.Pointer { return i.inner.Data() }
func (i *Instrumented) Granted() int         { return i.inner.Granted() }

// Clone clones the inner allocator and shares the logger and collector.
func (i *Instrumented) Clone() Allocator {
	return &Instrumented{
		inner:   i.inner.Clone(),
		name:    i.name,
		logger:  i.logger,
		metrics: i.metrics,
	}
}
