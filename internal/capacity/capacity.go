// Package capacity reconciles requested element counts with allocator bounds
// and growth policies.
package capacity

import (
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/growth"
	"github.com/hupe1980/collgo/internal/conv"
)

// minGrowthInput keeps growth policies inside their preconditions.
const minGrowthInput = 4

// Helper turns "at least n elements" into "the allocator granted m elements".
type Helper struct {
	Layout  alloc.Layout
	Min     int // bytes
	Max     int // bytes
	Default int // elements
	Growth  growth.Func
}

// New binds a helper to the bounds of a.
func New(l alloc.Layout, a alloc.Allocator, def int, g growth.Func) Helper {
	if g == nil {
		g = growth.Default
	}
	return Helper{
		Layout:  l,
		Min:     a.MinCapacity(),
		Max:     a.MaxCapacity(),
		Default: def,
		Growth:  g,
	}
}

// Init returns the initial capacity for requested elements:
// max(requested, clamp(Default, Min/S, Max/S)).
func (h Helper) Init(requested int) int {
	s := h.Layout.ElemSize()
	d := min(max(h.Default, h.Min/s), h.Max/s)
	return max(requested, d)
}

// Next returns the capacity to grow to from current: max(requested, g(current)).
func (h Helper) Next(current, requested int) int {
	return max(requested, h.Growth(max(current, minGrowthInput)))
}

// Planned returns the element count Allocate would request for requested
// elements, before any rounding the allocator itself applies.
func (h Helper) Planned(requested int) int {
	s := h.Layout.ElemSize()
	bytes, ok := conv.MulInt(conv.NextPow2(requested), s)
	if !ok || bytes == 0 {
		return requested
	}
	return min(max(bytes, h.Min), h.Max) / s
}

// Allocate acquires room for at least requested elements on a and returns the
// granted element count, or 0 on failure (the handle is left null).
//
// The byte request is nextPow2(requested) elements, clamped into the allocator
// bounds so that fixed-size allocators are asked for exactly their size.
func (h Helper) Allocate(a alloc.Allocator, requested int) int {
	if requested <= 0 {
		return 0
	}
	s := h.Layout.ElemSize()
	need, ok := conv.MulInt(requested, s)
	if !ok || need > h.Max {
		return 0
	}

	bytes := need
	if p := conv.NextPow2(requested); p != 0 {
		if b, ok := conv.MulInt(p, s); ok {
			bytes = b
		}
	}
	bytes = min(max(bytes, h.Min), h.Max)

	g := a.Acquire(bytes, h.Layout)
	if g == 0 {
		return 0
	}
	granted := g / s
	if granted < requested {
		a.Release()
		return 0
	}
	return granted
}

// AllocatePow2 is Allocate with the granted count floored to a power of two.
// requested must be a power of two.
func (h Helper) AllocatePow2(a alloc.Allocator, requested int) int {
	granted := h.Allocate(a, requested)
	if granted == 0 {
		return 0
	}
	return conv.PrevPow2(granted)
}

// Extend tries to grow the live allocation of a in place to hold requested
// elements. It returns the new element count, or 0 if a cannot extend.
func (h Helper) Extend(a alloc.Allocator, requested int) int {
	ext, ok := a.(alloc.Extender)
	if !ok {
		return 0
	}
	s := h.Layout.ElemSize()
	bytes, ok := conv.MulInt(requested, s)
	if !ok || bytes > h.Max {
		return 0
	}
	return ext.Extend(bytes) / s
}
