package alloc

import (
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/internal/mem"
)

// Fixed is a handle that owns one aligned buffer of exactly Size bytes.
//
// The buffer belongs to the handle for its whole lifetime: Release only marks it
// unused, and the storage can never change owner (Relocatable is false). Containers
// moving out of a Fixed handle relocate their elements instead.
type Fixed struct {
	buf   []byte
	align int
	live  bool
}

// NewFixed returns a fixed handle with a buffer of size bytes aligned to align.
func NewFixed(size, align int) *Fixed {
	if size <= 0 {
		check.Fatal(check.AllocatorSafety, "fixed.new", collgo.ErrInvalidArgument)
	}
	if align <= 0 {
		align = int(unsafe.Alignof(uint64(0)))
	}
	buf := mem.AllocAligned(size, align)
	if buf == nil {
		check.Fatal(check.AllocatorSafety, "fixed.new", collgo.ErrInvalidArgument)
	}
	return &Fixed{buf: buf, align: align}
}

func (f *Fixed) Nullable() bool    { return false }
func (f *Fixed) MinCapacity() int  { return len(f.buf) }
func (f *Fixed) MaxCapacity() int  { return len(f.buf) }
func (f *Fixed) Relocatable() bool { return false }

// Size returns the buffer size in bytes.
func (f *Fixed) Size() int { return len(f.buf) }

// Acquire grants the whole buffer for a request of exactly Size bytes.
func (f *Fixed) Acquire(bytes int, l Layout) int {
	if bytes != len(f.buf) || l.Pointers || int(l.Align) > f.align {
		return 0
	}
	f.live = true
	return len(f.buf)
}

func (f *Fixed) Release() {
	check.That(check.AllocatorSafety, f.live, "fixed.release", collgo.ErrInvalidState)
	f.live = false
}

func (f *Fixed) Data() unsafe.Pointer {
	if !f.live {
		return nil
	}
	return unsafe.Pointer(&f.buf[0])
}

func (f *Fixed) Granted() int {
	if !f.live {
		return 0
	}
	return len(f.buf)
}

// Clone returns a fixed handle with its own buffer of the same size and alignment.
func (f *Fixed) Clone() Allocator { return NewFixed(len(f.buf), f.align) }
