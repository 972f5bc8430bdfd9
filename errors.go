package collgo

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocationFailed is returned (or trapped) when an allocator cannot grant the requested bytes.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrOutOfRange indicates an index outside the live range of a container.
	ErrOutOfRange = errors.New("index out of range")

	// ErrEmpty indicates an access that requires at least one element.
	ErrEmpty = errors.New("container is empty")

	// ErrNotRelocatable indicates an attempt to move storage that is bound to its handle.
	ErrNotRelocatable = errors.New("allocation is not relocatable")

	// ErrHashChanged indicates a stored key whose hash changed while it was stored.
	ErrHashChanged = errors.New("hash of stored key changed")

	// ErrKeyNotFound indicates a lookup of an absent key through an accessor that requires presence.
	ErrKeyNotFound = errors.New("key not found")

	// ErrBorrowConflict indicates a read/write borrow rule violation.
	ErrBorrowConflict = errors.New("borrow conflict")

	// ErrInvalidArgument indicates an argument outside the accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates an operation that is illegal in the handle's current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrCorrupt indicates malformed encoded data.
	ErrCorrupt = errors.New("corrupt data")

	// ErrCodecUnknown indicates an encoded payload that names an unsupported codec.
	ErrCodecUnknown = errors.New("unknown codec")
)

// Violation is the value a trapped precondition panics with.
//
// The underlying sentinel can be matched with errors.Is.
type Violation struct {
	Level string
	Op    string
	cause error
}

// NewViolation returns a Violation for op at the given assertion level.
func NewViolation(level, op string, cause error) *Violation {
	return &Violation{Level: level, Op: op, cause: cause}
}

func (e *Violation) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Level, e.Op, e.cause)
}

func (e *Violation) Unwrap() error { return e.cause }
