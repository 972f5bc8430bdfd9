package alloc

import (
	"math"
	"os"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/internal/mmap"
)

// Mapped allocates each acquisition as its own anonymous memory mapping.
//
// The storage lives outside the Go heap, so only pointer-free layouts are
// accepted. Requests are rounded up to whole pages.
type Mapped struct {
	m *mmap.Mapping
}

// NewMapped returns a null mapped handle.
func NewMapped() *Mapped { return &Mapped{} }

func (h *Mapped) Nullable() bool    { return true }
func (h *Mapped) MinCapacity() int  { return 0 }
func (h *Mapped) MaxCapacity() int  { return math.MaxInt &^ (os.Getpagesize() - 1) }
func (h *Mapped) Relocatable() bool { return true }

func (h *Mapped) Acquire(bytes int, l Layout) int {
	check.That(check.AllocatorSafety, h.m == nil, "mapped.acquire", collgo.ErrInvalidState)
	if bytes <= 0 || l.Pointers {
		return 0
	}
	m, err := mmap.MapAnon(alignUp(bytes, os.Getpagesize()))
	if err != nil {
		return 0
	}
	h.m = m
	return m.Size()
}

func (h *Mapped) Release() {
	check.That(check.AllocatorSafety, h.m != nil, "mapped.release", collgo.ErrInvalidState)
	if h.m == nil {
		return
	}
	_ = h.m.Close()
	h.m = nil
}

func (h *Mapped) Data() unsafe.Pointer {
	if h.m == nil {
		return nil
	}
	return unsafe.Pointer(&h.m.Bytes()[0])
}

func (h *Mapped) Granted() int {
	if h.m == nil {
		return 0
	}
	return h.m.Size()
}

func (h *Mapped) Clone() Allocator { return &Mapped{} }
