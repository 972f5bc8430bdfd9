package pull

import (
	"cmp"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Number is the set of element types the arithmetic sinks accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Count drains p and returns the number of elements.
func Count[T any](p Puller[T]) int {
	n := 0
	for ; p.Valid(); p.Next() {
		n++
	}
	return n
}

// Contains reports whether p yields v. It stops at the first match.
func Contains[T comparable](p Puller[T], v T) bool {
	for ; p.Valid(); p.Next() {
		if p.Current() == v {
			return true
		}
	}
	return false
}

// ContainsPtr reports whether p yields *v.
func ContainsPtr[T comparable](p Puller[T], v *T) bool {
	return Contains(p, *v)
}

// ContainsFunc reports whether p yields an element equal to v under eq.
func ContainsFunc[T any](p Puller[T], v T, eq func(a, b T) bool) bool {
	for ; p.Valid(); p.Next() {
		if eq(p.Current(), v) {
			return true
		}
	}
	return false
}

// Any reports whether pred holds for some element. It stops at the first match.
func Any[T any](p Puller[T], pred func(T) bool) bool {
	for ; p.Valid(); p.Next() {
		if pred(p.Current()) {
			return true
		}
	}
	return false
}

// All reports whether pred holds for every element. It stops at the first miss.
func All[T any](p Puller[T], pred func(T) bool) bool {
	for ; p.Valid(); p.Next() {
		if !pred(p.Current()) {
			return false
		}
	}
	return true
}

// First returns the first element.
func First[T any](p Puller[T]) (T, bool) {
	if !p.Valid() {
		var zero T
		return zero, false
	}
	return p.Current(), true
}

// Last drains p and returns the last element.
func Last[T any](p Puller[T]) (T, bool) {
	var (
		v  T
		ok bool
	)
	for ; p.Valid(); p.Next() {
		v, ok = p.Current(), true
	}
	return v, ok
}

// FirstRef returns a pointer to the first element's storage, or nil.
func FirstRef[T any](p RefPuller[T]) *T {
	if !p.Valid() {
		return nil
	}
	return p.Ptr()
}

// LastRef drains p and returns a pointer to the last element's storage, or nil.
func LastRef[T any](p RefPuller[T]) *T {
	var last *T
	for ; p.Valid(); p.Next() {
		last = p.Ptr()
	}
	return last
}

// Sum adds all elements. It returns 0 for an empty puller.
func Sum[T Number](p Puller[T]) T {
	var s T
	for ; p.Valid(); p.Next() {
		s += p.Current()
	}
	return s
}

// Min returns the smallest element, or false when p is empty.
func Min[T cmp.Ordered](p Puller[T]) (T, bool) {
	return fold(p, func(a, b T) bool { return b < a })
}

// Max returns the largest element, or false when p is empty.
func Max[T cmp.Ordered](p Puller[T]) (T, bool) {
	return fold(p, func(a, b T) bool { return a < b })
}

func fold[T any](p Puller[T], replace func(cur, next T) bool) (T, bool) {
	if !p.Valid() {
		var zero T
		return zero, false
	}
	best := p.Current()
	for p.Next(); p.Valid(); p.Next() {
		if v := p.Current(); replace(best, v) {
			best = v
		}
	}
	return best, true
}

// Average returns the arithmetic mean in T's arithmetic. p must not be empty.
func Average[T Number](p Puller[T]) T {
	var (
		s T
		n int
	)
	for ; p.Valid(); p.Next() {
		s += p.Current()
		n++
	}
	check.That(check.SafeAccess, n > 0, "pull.average", collgo.ErrEmpty)
	if n == 0 {
		return s
	}
	return s / T(n)
}

// Rss returns the residual sum of squares of two pullers of equal remaining length.
func Rss[T Number](a, b Puller[T]) T {
	var s T
	for a.Valid() && b.Valid() {
		d := a.Current() - b.Current()
		s += d * d
		a.Next()
		b.Next()
	}
	check.That(check.IteratorSafety, a.Valid() == b.Valid(), "pull.rss", collgo.ErrInvalidArgument)
	return s
}

// ToSlice drains p into a new slice sized from its hint.
func ToSlice[T any](p Puller[T]) []T {
	out := make([]T, 0, p.SizeHint().Reserve())
	for ; p.Valid(); p.Next() {
		out = append(out, p.Current())
	}
	return out
}
