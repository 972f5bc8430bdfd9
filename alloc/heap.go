package alloc

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/internal/conv"
)

var byteType = reflect.TypeFor[byte]()

// Heap allocates typed storage on the Go heap.
//
// The allocation is created with the element type of the layout, so the garbage
// collector scans it like any slice of that type.
type Heap struct {
	data    unsafe.Pointer
	granted int
}

// NewHeap returns a null heap handle.
func NewHeap() *Heap { return &Heap{} }

func (h *Heap) Nullable() bool    { return true }
func (h *Heap) MinCapacity() int  { return 0 }
func (h *Heap) MaxCapacity() int  { return math.MaxInt }
func (h *Heap) Relocatable() bool { return true }

func (h *Heap) Acquire(bytes int, l Layout) int {
	check.That(check.AllocatorSafety, h.data == nil, "heap.acquire", collgo.ErrInvalidState)
	if bytes <= 0 {
		return 0
	}

	size := l.ElemSize()
	count := (bytes + size - 1) / size
	granted, ok := conv.MulInt(count, size)
	if !ok {
		return 0
	}

	typ := l.Type
	if typ == nil {
		typ = byteType
		count = granted
	}

	v := reflect.MakeSlice(reflect.SliceOf(typ), count, count)
	h.data = v.UnsafePointer()
	h.granted = granted
	return granted
}

func (h *Heap) Release() {
	check.That(check.AllocatorSafety, h.data != nil, "heap.release", collgo.ErrInvalidState)
	h.data = nil
	h.granted = 0
}

func (h *Heap) Data() unsafe.Pointer { return h.data }
func (h *Heap) Granted() int         { return h.granted }
func (h *Heap) Clone() Allocator     { return &Heap{} }
