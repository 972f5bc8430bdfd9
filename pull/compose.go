package pull

import (
	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Projection yields f applied to each element of an inner puller.
type Projection[T, U any] struct {
	inner Puller[T]
	f     func(T) U
}

// Select projects every element of p through f.
func Select[T, U any](p Puller[T], f func(T) U) *Projection[T, U] {
	return &Projection[T, U]{inner: p, f: f}
}

func (s *Projection[T, U]) Valid() bool    { return s.inner.Valid() }
func (s *Projection[T, U]) Current() U     { return s.f(s.inner.Current()) }
func (s *Projection[T, U]) Next()          { s.inner.Next() }
func (s *Projection[T, U]) SizeHint() Hint { return s.inner.SizeHint() }

// Filter yields the elements of an inner puller that satisfy a predicate.
type Filter[T any] struct {
	inner Puller[T]
	pred  func(T) bool
}

// Where keeps the elements of p for which pred holds.
func Where[T any](p Puller[T], pred func(T) bool) *Filter[T] {
	f := &Filter[T]{inner: p, pred: pred}
	f.skip()
	return f
}

func (f *Filter[T]) skip() {
	for f.inner.Valid() && !f.pred(f.inner.Current()) {
		f.inner.Next()
	}
}

func (f *Filter[T]) Valid() bool { return f.inner.Valid() }
func (f *Filter[T]) Current() T  { return f.inner.Current() }

func (f *Filter[T]) Next() {
	f.inner.Next()
	f.skip()
}

func (f *Filter[T]) SizeHint() Hint {
	h := f.inner.SizeHint()
	return Hint{Upper: h.Upper, Bounded: h.Bounded}
}

// Ptr returns the current element's storage. The inner puller must be a RefPuller.
func (f *Filter[T]) Ptr() *T {
	r, ok := f.inner.(RefPuller[T])
	if !ok {
		check.Fatal(check.IteratorSafety, "where.ptr", collgo.ErrInvalidState)
	}
	return r.Ptr()
}
