package alloc

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Layout describes the element type a handle acquires storage for.
type Layout struct {
	Size     uintptr
	Align    uintptr
	Type     reflect.Type
	Pointers bool
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	t := reflect.TypeFor[T]()
	return Layout{
		Size:     t.Size(),
		Align:    uintptr(t.Align()),
		Type:     t,
		Pointers: HasPointers(t),
	}
}

// ElemSize returns the layout size, treating zero-sized types as one byte.
func (l Layout) ElemSize() int {
	if l.Size == 0 {
		return 1
	}
	return int(l.Size)
}

// Allocator is an allocation handle.
type Allocator interface {
	// Nullable reports whether the handle may be in the "no live allocation" state.
	Nullable() bool
	// MinCapacity is the smallest number of bytes a single acquisition grants.
	MinCapacity() int
	// MaxCapacity is the largest number of bytes a single acquisition grants.
	MaxCapacity() int
	// Acquire requests at least bytes bytes for elements of layout l. It returns the
	// number of bytes granted, or 0 on failure, in which case the handle stays null.
	Acquire(bytes int, l Layout) int
	// Release drops the live allocation.
	Release()
	// Relocatable reports whether the live bytes may be transferred by moving the handle alone.
	Relocatable() bool
	// Data returns the start of the live allocation, or nil.
	Data() unsafe.Pointer
	// Granted returns the size in bytes of the live allocation, or 0.
	Granted() int
	// Clone returns a null handle with the same binding.
	Clone() Allocator
}

// Extender is implemented by handles that can grow their live allocation in place.
type Extender interface {
	// Extend resizes the live allocation to bytes without moving it. It returns the
	// new granted size, or 0 if the allocation cannot be extended.
	Extend(bytes int) int
}

// Live reports whether a holds a live allocation.
func Live(a Allocator) bool {
	return a.Data() != nil
}

// Transfer moves the live allocation out of *a and leaves a null clone behind.
// The handle must be relocatable.
func Transfer(a *Allocator) Allocator {
	h := *a
	check.That(check.AllocatorSafety, !Live(h) || h.Relocatable(), "alloc.transfer", collgo.ErrNotRelocatable)
	*a = h.Clone()
	return h
}

var pointerCache sync.Map // reflect.Type -> bool

// HasPointers reports whether values of t contain anything the garbage collector must trace.
func HasPointers(t reflect.Type) bool {
	if v, ok := pointerCache.Load(t); ok {
		return v.(bool)
	}
	p := hasPointers(t)
	pointerCache.Store(t, p)
	return p
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
