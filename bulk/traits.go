package bulk

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/collgo/alloc"
)

// Initializer is implemented by element types that need work after zeroing.
type Initializer interface {
	Init()
}

// Destroyer is implemented by element types that release resources on destruction.
type Destroyer interface {
	Destroy()
}

// Cloner is implemented by element types whose copy is deeper than their bits.
type Cloner[T any] interface {
	Clone() T
}

// Traits describes the lifecycle hooks of an element type.
type Traits struct {
	// Trivial means move, copy and destroy are plain memory operations.
	Trivial bool
	// Pointers means the type holds references the garbage collector traces.
	Pointers bool
	Inits    bool
	Destroys bool
	Clones   bool
}

var (
	traitsCache sync.Map // reflect.Type -> Traits
	zeroOnMove  atomic.Bool
)

// TraitsOf returns the traits of T.
func TraitsOf[T any]() Traits {
	t := reflect.TypeFor[T]()
	if v, ok := traitsCache.Load(t); ok {
		return v.(Traits)
	}

	var p any = (*T)(nil)
	_, inits := p.(Initializer)
	_, destroys := p.(Destroyer)
	_, clones := p.(Cloner[T])

	tr := Traits{
		Trivial:  !inits && !destroys && !clones,
		Pointers: alloc.HasPointers(t),
		Inits:    inits,
		Destroys: destroys,
		Clones:   clones,
	}
	traitsCache.Store(t, tr)
	return tr
}

// SetZeroOnMove toggles zeroing of moved-from slots for pointer-free types.
// It returns the previous setting.
func SetZeroOnMove(on bool) bool {
	return zeroOnMove.Swap(on)
}

// ZeroOnMove reports whether moved-from slots of pointer-free types are zeroed.
func ZeroOnMove() bool {
	return zeroOnMove.Load()
}

func scrub(tr Traits) bool {
	return tr.Pointers || zeroOnMove.Load()
}
