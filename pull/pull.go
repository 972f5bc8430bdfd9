package pull

import (
	"iter"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Hint conservatively brackets the number of remaining elements.
// Upper is meaningful only when Bounded is true.
type Hint struct {
	Lower   int
	Upper   int
	Bounded bool
}

// Exact returns a hint of exactly n remaining elements.
func Exact(n int) Hint { return Hint{Lower: n, Upper: n, Bounded: true} }

// AtLeast returns an unbounded hint with lower bound n.
func AtLeast(n int) Hint { return Hint{Lower: n} }

// IsExact reports whether the hint pins down the remaining count.
func (h Hint) IsExact() bool { return h.Bounded && h.Lower == h.Upper }

// Reserve returns the element count a collector should reserve up front.
func (h Hint) Reserve() int {
	if h.Bounded {
		return h.Upper
	}
	return h.Lower
}

// Puller is a single-pass forward-only producer.
type Puller[T any] interface {
	// Valid reports whether there is a current element.
	Valid() bool
	// Current returns the current element. Valid must be true.
	Current() T
	// Next advances to the next element. Valid must be true.
	Next()
	// SizeHint brackets the number of remaining elements, the current one included.
	SizeHint() Hint
}

// RefPuller is a puller over addressable storage.
type RefPuller[T any] interface {
	Puller[T]
	// Ptr returns a pointer to the current element's storage.
	Ptr() *T
}

// Cursor pulls from a slice.
type Cursor[T any] struct {
	s []T
	i int
}

// FromSlice returns a cursor over s.
func FromSlice[T any](s []T) *Cursor[T] {
	return &Cursor[T]{s: s}
}

func (c *Cursor[T]) Valid() bool { return c.i < len(c.s) }

func (c *Cursor[T]) Current() T { return *c.Ptr() }

func (c *Cursor[T]) Ptr() *T {
	check.That(check.IteratorSafety, c.i < len(c.s), "cursor.current", collgo.ErrEmpty)
	return &c.s[c.i]
}

func (c *Cursor[T]) Next() {
	check.That(check.IteratorSafety, c.i < len(c.s), "cursor.next", collgo.ErrEmpty)
	c.i++
}

func (c *Cursor[T]) SizeHint() Hint { return Exact(len(c.s) - c.i) }

// RangePuller pulls consecutive integers.
type RangePuller struct {
	cur, end int
}

// Range returns a puller over the integers [start, end).
func Range(start, end int) *RangePuller {
	return &RangePuller{cur: start, end: max(start, end)}
}

func (r *RangePuller) Valid() bool    { return r.cur < r.end }
func (r *RangePuller) Current() int   { return r.cur }
func (r *RangePuller) Next()          { r.cur++ }
func (r *RangePuller) SizeHint() Hint { return Exact(r.end - r.cur) }

// FuncPuller pulls from a generator function.
type FuncPuller[T any] struct {
	next  func() (T, bool)
	cur   T
	valid bool
}

// FromFunc returns a puller that calls next until it reports false.
// The size hint is unbounded.
func FromFunc[T any](next func() (T, bool)) *FuncPuller[T] {
	f := &FuncPuller[T]{next: next}
	f.cur, f.valid = next()
	return f
}

func (f *FuncPuller[T]) Valid() bool { return f.valid }

func (f *FuncPuller[T]) Current() T {
	check.That(check.IteratorSafety, f.valid, "func.current", collgo.ErrEmpty)
	return f.cur
}

func (f *FuncPuller[T]) Next() {
	check.That(check.IteratorSafety, f.valid, "func.next", collgo.ErrEmpty)
	f.cur, f.valid = f.next()
}

func (f *FuncPuller[T]) SizeHint() Hint {
	if !f.valid {
		return Exact(0)
	}
	return AtLeast(1)
}

// Seq adapts p to a range-over-func iterator. The iterator drains p.
func Seq[T any](p Puller[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for ; p.Valid(); p.Next() {
			if !yield(p.Current()) {
				return
			}
		}
	}
}
