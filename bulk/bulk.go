package bulk

import (
	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// DefaultConstruct zeroes dst and runs Init on every element.
func DefaultConstruct[T any](dst []T) {
	clear(dst)
	if !TraitsOf[T]().Inits {
		return
	}
	for i := range dst {
		any(&dst[i]).(Initializer).Init()
	}
}

// Construct default-constructs the single slot p.
func Construct[T any](p *T) {
	var zero T
	*p = zero
	if TraitsOf[T]().Inits {
		any(p).(Initializer).Init()
	}
}

// Move relocates src into dst. The two runs must not overlap.
// The source slots become raw storage.
func Move[T any](dst, src []T) {
	check.That(check.CollectionIntegrity, len(dst) == len(src), "bulk.move", collgo.ErrInvalidArgument)
	copy(dst, src)
	if scrub(TraitsOf[T]()) {
		clear(src)
	}
}

// MoveOne relocates *src into *dst and leaves *src as raw storage.
func MoveOne[T any](dst, src *T) {
	*dst = *src
	if scrub(TraitsOf[T]()) {
		var zero T
		*src = zero
	}
}

// Take moves the element out of p and leaves the slot as raw storage.
func Take[T any](p *T) T {
	v := *p
	if scrub(TraitsOf[T]()) {
		var zero T
		*p = zero
	}
	return v
}

// Copy copy-constructs src into dst, using Clone when T provides it.
func Copy[T any](dst, src []T) {
	check.That(check.CollectionIntegrity, len(dst) == len(src), "bulk.copy", collgo.ErrInvalidArgument)
	if !TraitsOf[T]().Clones {
		copy(dst, src)
		return
	}
	for i := range src {
		dst[i] = any(&src[i]).(Cloner[T]).Clone()
	}
}

// CopyOne returns a copy of *src, using Clone when T provides it.
func CopyOne[T any](src *T) T {
	if TraitsOf[T]().Clones {
		return any(src).(Cloner[T]).Clone()
	}
	return *src
}

// Destroy runs Destroy on every element of s and returns the slots to raw storage.
func Destroy[T any](s []T) {
	tr := TraitsOf[T]()
	if tr.Destroys {
		for i := range s {
			any(&s[i]).(Destroyer).Destroy()
		}
	}
	if scrub(tr) {
		clear(s)
	}
}

// DestroyOne destroys the element at p.
func DestroyOne[T any](p *T) {
	tr := TraitsOf[T]()
	if tr.Destroys {
		any(p).(Destroyer).Destroy()
	}
	if scrub(tr) {
		var zero T
		*p = zero
	}
}

// ShiftRight moves the live elements s[i:n] to s[i+1:n+1]. Slot i becomes raw storage.
// s must have room for n+1 elements.
func ShiftRight[T any](s []T, i, n int) {
	check.That(check.CollectionIntegrity, 0 <= i && i <= n && n < len(s), "bulk.shift-right", collgo.ErrOutOfRange)
	copy(s[i+1:n+1], s[i:n])
	if scrub(TraitsOf[T]()) {
		var zero T
		s[i] = zero
	}
}

// ShiftLeft moves the live elements s[i+1:n] to s[i:n-1]. Slot i must already be
// raw storage; slot n-1 becomes raw storage.
func ShiftLeft[T any](s []T, i, n int) {
	check.That(check.CollectionIntegrity, 0 <= i && i < n && n <= len(s), "bulk.shift-left", collgo.ErrOutOfRange)
	copy(s[i:n-1], s[i+1:n])
	if scrub(TraitsOf[T]()) {
		var zero T
		s[n-1] = zero
	}
}
