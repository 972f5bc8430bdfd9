// Package container holds the configuration shared by every collgo container.
package container

import (
	"context"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/growth"
)

// Default configuration values.
const (
	DefaultArrayCapacity = 4
	DefaultRingCapacity  = 16
	DefaultHashCapacity  = 64
	DefaultSlackRatio    = 3
)

// Config is the resolved configuration of a container.
type Config struct {
	// Allocator is the handle the container owns. Apply stores a null clone of
	// the prototype passed to WithAllocator.
	Allocator       alloc.Allocator
	Growth          growth.Func
	InitialCapacity int
	// SlackRatio is the load-factor ratio R of hash-based containers.
	SlackRatio int
	// Probe is the probing strategy of hash-based containers: the offset from the
	// home slot tried on the k-th check.
	Probe func(k int) int
	// Name identifies the container in logs and metrics.
	Name    string
	Logger  *collgo.Logger
	Metrics collgo.MetricsCollector
}

// Option configures a container.
type Option func(*Config)

// Apply resolves opts over defaults.
func Apply(defaults Config, opts ...Option) Config {
	c := defaults
	for _, opt := range opts {
		opt(&c)
	}
	if c.Allocator == nil {
		c.Allocator = alloc.NewHeap()
	} else {
		c.Allocator = c.Allocator.Clone()
	}
	if c.Growth == nil {
		c.Growth = growth.Default
	}
	if c.SlackRatio <= 0 {
		c.SlackRatio = DefaultSlackRatio
	}
	if c.Metrics == nil {
		c.Metrics = collgo.NoopMetricsCollector{}
	}
	return c
}

// WithAllocator sets the allocator prototype. Every container configured with
// it owns a null clone, so one prototype can configure many containers.
func WithAllocator(a alloc.Allocator) Option {
	return func(c *Config) {
		c.Allocator = a
	}
}

// WithGrowth sets the growth policy. Defaults to growth.Default.
func WithGrowth(g growth.Func) Option {
	return func(c *Config) {
		c.Growth = g
	}
}

// WithInitialCapacity sets the element count of the first allocation.
func WithInitialCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.InitialCapacity = n
		}
	}
}

// WithSlackRatio sets the hash load-factor ratio R: n elements occupy
// n + n/R + 1 slots. Defaults to DefaultSlackRatio.
func WithSlackRatio(r int) Option {
	return func(c *Config) {
		c.SlackRatio = r
	}
}

// WithProbe sets the hash probing strategy.
func WithProbe(p func(k int) int) Option {
	return func(c *Config) {
		c.Probe = p
	}
}

// WithName sets the name used in logs and metrics.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithLogger enables capacity-change logging.
func WithLogger(l *collgo.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m collgo.MetricsCollector) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// ObserveGrow reports a capacity change.
func (c *Config) ObserveGrow(from, to int) {
	c.Metrics.RecordGrow(c.Name, from, to)
	if c.Logger != nil {
		c.Logger.LogGrow(context.Background(), c.Name, from, to)
	}
}

// ObserveRebuild reports a hash table rebuild.
func (c *Config) ObserveRebuild(from, to, tombstones int) {
	c.Metrics.RecordRebuild(from, to)
	if c.Logger != nil {
		c.Logger.LogRebuild(context.Background(), from, to, tombstones)
	}
}
