package alloc

import "unsafe"

// Limiter bounds the byte requests reaching an inner allocator: requests below
// min are raised to min, requests above max are rejected.
type Limiter struct {
	inner    Allocator
	min, max int
}

// NewLimiter wraps inner with the given bounds.
func NewLimiter(inner Allocator, min, max int) *Limiter {
	return &Limiter{inner: inner, min: min, max: max}
}

func (l *Limiter) Nullable() bool    { return l.inner.Nullable() }
func (l *Limiter) MinCapacity() int  { return max(l.min, l.inner.MinCapacity()) }
func (l *Limiter) MaxCapacity() int  { return min(l.max, l.inner.MaxCapacity()) }
func (l *Limiter) Relocatable() bool { return l.inner.Relocatable() }

func (l *Limiter) Acquire(bytes int, lay Layout) int {
	if bytes > l.max {
		return 0
	}
	if bytes < l.min {
		bytes = l.min
	}
	return l.inner.Acquire(bytes, lay)
}

// Extend forwards to the inner allocator when it can grow in place.
func (l *Limiter) Extend(bytes int) int {
	ext, ok := l.inner.(Extender)
	if !ok || bytes > l.max {
		return 0
	}
	return ext.Extend(bytes)
}

func (l *Limiter) Release()             { l.inner.Release() }
func (l *Limiter) Data() unsafe.Pointer { return l.inner.Data() }
func (l *Limiter) Granted() int         { return l.inner.Granted() }
func (l *Limiter) Clone() Allocator     { return NewLimiter(l.inner.Clone(), l.min, l.max) }
