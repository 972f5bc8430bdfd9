// Package span provides a non-owning view over contiguous elements.
package span

import (
	"iter"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/pull"
)

// Span is a (pointer, count) view. It never owns or frees its elements.
type Span[T any] struct {
	s []T
}

// Of returns a span over s.
func Of[T any](s []T) Span[T] {
	return Span[T]{s: s}
}

// FromRaw returns a span over n elements starting at p. p may be nil only when n is 0.
func FromRaw[T any](p unsafe.Pointer, n int) Span[T] {
	if n == 0 {
		return Span[T]{}
	}
	check.That(check.SafeAccess, p != nil && n > 0, "span.from-raw", collgo.ErrInvalidArgument)
	return Span[T]{s: unsafe.Slice((*T)(p), n)}
}

// Len returns the number of elements.
func (s Span[T]) Len() int { return len(s.s) }

// IsEmpty reports whether the span has no elements.
func (s Span[T]) IsEmpty() bool { return len(s.s) == 0 }

// Data returns a pointer to the first element, or nil for an empty span.
func (s Span[T]) Data() unsafe.Pointer {
	if len(s.s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s.s[0])
}

// At returns a pointer to element i.
func (s Span[T]) At(i int) *T {
	check.Index(i, len(s.s), "span.at")
	return &s.s[i]
}

// Get returns element i.
func (s Span[T]) Get(i int) T {
	return *s.At(i)
}

// Values returns the elements as a slice sharing the span's storage.
func (s Span[T]) Values() []T { return s.s }

// Sub returns the span of elements [lo, hi).
func (s Span[T]) Sub(lo, hi int) Span[T] {
	check.That(check.SafeAccess, 0 <= lo && lo <= hi && hi <= len(s.s), "span.sub", collgo.ErrOutOfRange)
	return Span[T]{s: s.s[lo:hi:hi]}
}

// Pull returns a raw puller over the span with exact size hints.
func (s Span[T]) Pull() *pull.Cursor[T] {
	return pull.FromSlice(s.s)
}

// All iterates over index-element pairs.
func (s Span[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.s {
			if !yield(i, v) {
				return
			}
		}
	}
}
