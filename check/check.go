package check

import (
	"sync/atomic"

	"github.com/hupe1980/collgo"
)

// Level is a set of assertion gates.
type Level uint32

const (
	AllocatorSafety Level = 1 << iota
	CollectionIntegrity
	SafeModification
	SafeAccess
	IteratorSafety

	// All enables every gate.
	All = AllocatorSafety | CollectionIntegrity | SafeModification | SafeAccess | IteratorSafety
)

var enabled atomic.Uint32

func init() {
	enabled.Store(uint32(defaultLevels))
}

// Enable turns the given gates on.
func Enable(l Level) {
	for {
		cur := enabled.Load()
		if enabled.CompareAndSwap(cur, cur|uint32(l)) {
			return
		}
	}
}

// Disable turns the given gates off.
func Disable(l Level) {
	for {
		cur := enabled.Load()
		if enabled.CompareAndSwap(cur, cur&^uint32(l)) {
			return
		}
	}
}

// Set replaces the enabled gates and returns the previous set.
func Set(l Level) Level {
	return Level(enabled.Swap(uint32(l)))
}

// Enabled reports whether every gate in l is on.
func Enabled(l Level) bool {
	return Level(enabled.Load())&l == l
}

// That traps with err when the gate is enabled and cond is false.
func That(l Level, cond bool, op string, err error) {
	if cond || !Enabled(l) {
		return
	}
	panic(collgo.NewViolation(l.String(), op, err))
}

// Index traps with collgo.ErrOutOfRange unless 0 <= i < n.
func Index(i, n int, op string) {
	if uint(i) < uint(n) || !Enabled(SafeAccess) {
		return
	}
	panic(collgo.NewViolation(SafeAccess.String(), op, collgo.ErrOutOfRange))
}

// Fatal always traps. It is used for conditions a container cannot continue from,
// such as a failed growth through a non-Try method.
func Fatal(l Level, op string, err error) {
	panic(collgo.NewViolation(l.String(), op, err))
}

func (l Level) String() string {
	switch l {
	case AllocatorSafety:
		return "allocator-safety"
	case CollectionIntegrity:
		return "collection-integrity"
	case SafeModification:
		return "collection-safe-modification"
	case SafeAccess:
		return "collection-safe-access"
	case IteratorSafety:
		return "iterator-safety"
	case All:
		return "all"
	default:
		return "mixed"
	}
}
