package testutil

import (
	"sync/atomic"
	"testing"
)

var (
	constructed atomic.Int64
	destroyed   atomic.Int64
)

// Tracked is an element type that counts its lifecycle events.
type Tracked struct {
	V    int
	live bool
}

// NewTracked constructs a live element.
func NewTracked(v int) Tracked {
	constructed.Add(1)
	return Tracked{V: v, live: true}
}

// Init implements bulk.Initializer.
func (t *Tracked) Init() {
	constructed.Add(1)
	t.live = true
}

// Destroy implements bulk.Destroyer. Destroying a dead element panics.
func (t *Tracked) Destroy() {
	if !t.live {
		panic("testutil: tracked element destroyed twice or never constructed")
	}
	t.live = false
	destroyed.Add(1)
}

// Clone implements bulk.Cloner.
func (t *Tracked) Clone() Tracked {
	return NewTracked(t.V)
}

// Live reports whether the element has been constructed and not destroyed.
func (t Tracked) Live() bool { return t.live }

// Lifecycle observes Tracked events since it was created.
type Lifecycle struct {
	constructed int64
	destroyed   int64
}

// Track starts observing Tracked events and fails tb at cleanup when the number
// of constructions and destructions differ.
func Track(tb testing.TB) *Lifecycle {
	tb.Helper()

	l := &Lifecycle{
		constructed: constructed.Load(),
		destroyed:   destroyed.Load(),
	}
	tb.Cleanup(func() {
		if n := l.Live(); n != 0 {
			tb.Errorf("lifecycle imbalance: %d constructed, %d destroyed", l.Constructed(), l.Destroyed())
		}
	})
	return l
}

// Constructed returns the number of constructions observed.
func (l *Lifecycle) Constructed() int {
	return int(constructed.Load() - l.constructed)
}

// Destroyed returns the number of destructions observed.
func (l *Lifecycle) Destroyed() int {
	return int(destroyed.Load() - l.destroyed)
}

// Live returns constructions minus destructions.
func (l *Lifecycle) Live() int {
	return l.Constructed() - l.Destroyed()
}
