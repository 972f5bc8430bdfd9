package alloc

import (
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Side identifies which allocator of a Polymorphic handle holds the live allocation.
type Side uint8

const (
	// SideNone means no live allocation.
	SideNone Side = iota
	// SidePrimary means the primary allocator granted the live allocation.
	SidePrimary
	// SideFallback means the fallback allocator granted the live allocation.
	SideFallback
)

func (s Side) String() string {
	switch s {
	case SidePrimary:
		return "primary"
	case SideFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Polymorphic tries a primary allocator first and a fallback on failure.
// Whichever side granted the live allocation serves Data, Release and Relocatable.
type Polymorphic struct {
	primary  Allocator
	fallback Allocator
	active   Side
}

// NewPolymorphic composes primary and fallback.
func NewPolymorphic(primary, fallback Allocator) *Polymorphic {
	return &Polymorphic{primary: primary, fallback: fallback}
}

// Active reports which side holds the live allocation.
func (p *Polymorphic) Active() Side { return p.active }

func (p *Polymorphic) Nullable() bool { return true }

func (p *Polymorphic) MinCapacity() int {
	return min(p.primary.MinCapacity(), p.fallback.MinCapacity())
}

func (p *Polymorphic) MaxCapacity() int {
	return max(p.primary.MaxCapacity(), p.fallback.MaxCapacity())
}

// Relocatable reports the relocatability of the active side. Without a live
// allocation there is nothing bound to the handle.
func (p *Polymorphic) Relocatable() bool {
	if a := p.side(); a != nil {
		return a.Relocatable()
	}
	return true
}

func (p *Polymorphic) Acquire(bytes int, l Layout) int {
	check.That(check.AllocatorSafety, p.active == SideNone, "polymorphic.acquire", collgo.ErrInvalidState)
	if bytes <= p.primary.MaxCapacity() {
		// Small requests are raised to the primary's minimum, as a Limiter would.
		if g := p.primary.Acquire(max(bytes, p.primary.MinCapacity()), l); g > 0 {
			p.active = SidePrimary
			return g
		}
	}
	if g := p.fallback.Acquire(bytes, l); g > 0 {
		p.active = SideFallback
		return g
	}
	return 0
}

// Extend forwards to the active side when it can grow in place.
func (p *Polymorphic) Extend(bytes int) int {
	if ext, ok := p.side().(Extender); ok {
		return ext.Extend(bytes)
	}
	return 0
}

func (p *Polymorphic) Release() {
	a := p.side()
	check.That(check.AllocatorSafety, a != nil, "polymorphic.release", collgo.ErrInvalidState)
	if a == nil {
		return
	}
	a.Release()
	p.active = SideNone
}

func (p *Polymorphic) Data() unsafe.Pointer {
	if a := p.side(); a != nil {
		return a.Data()
	}
	return nil
}

func (p *Polymorphic) Granted() int {
	if a := p.side(); a != nil {
		return a.Granted()
	}
	return 0
}

// Clone copies both bindings; the clone starts with no live allocation.
func (p *Polymorphic) Clone() Allocator {
	return NewPolymorphic(p.primary.Clone(), p.fallback.Clone())
}

func (p *Polymorphic) side() Allocator {
	switch p.active {
	case SidePrimary:
		return p.primary
	case SideFallback:
		return p.fallback
	default:
		return nil
	}
}
