package alloc

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/internal/mem"
	"github.com/hupe1980/collgo/internal/mmap"
)

// ArenaStats tracks arena usage.
//
//   - BytesUsed: bytes handed out since the last Reset (including extensions)
//   - BytesWasted: alignment padding since the last Reset
//   - Acquisitions: cumulative successful acquisitions
//   - Failures: cumulative acquisitions that did not fit
//   - Extensions: cumulative successful in-place extensions
type ArenaStats struct {
	BytesReserved int
	BytesUsed     int
	BytesWasted   int
	Acquisitions  uint64
	Failures      uint64
	Extensions    uint64
}

// Arena is a caller-owned bump region shared by every Bump handle bound to it.
//
// An arena must outlive every handle and container bound to it. It is not safe
// for concurrent use.
type Arena struct {
	buf     []byte
	cursor  int
	last    int // offset of the most recent acquisition, -1 if none
	live    int // handles currently holding an allocation
	mapping *mmap.Mapping
	stats   ArenaStats
}

// NewArena creates an arena over a heap buffer of size bytes.
func NewArena(size int) *Arena {
	return NewArenaFromBytes(mem.AllocAligned(size, mem.CacheLine))
}

// NewArenaFromBytes creates an arena over buf. The arena takes ownership of buf.
func NewArenaFromBytes(buf []byte) *Arena {
	a := &Arena{buf: buf, last: -1}
	a.stats.BytesReserved = len(buf)
	return a
}

// NewMappedArena creates an arena over an anonymous off-heap mapping of size bytes.
// Close releases the mapping.
func NewMappedArena(size int) (*Arena, error) {
	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("arena: map %d bytes: %w", size, err)
	}
	a := NewArenaFromBytes(m.Bytes())
	a.mapping = m
	return a, nil
}

// Handle returns a null bump handle bound to the arena.
func (a *Arena) Handle() *Bump { return &Bump{arena: a} }

// Len returns the number of bytes consumed, including padding.
func (a *Arena) Len() int { return a.cursor }

// Cap returns the arena size in bytes.
func (a *Arena) Cap() int { return len(a.buf) }

// Remaining returns the number of bytes that can still be handed out.
func (a *Arena) Remaining() int { return len(a.buf) - a.cursor }

// Stats returns the current arena statistics.
func (a *Arena) Stats() ArenaStats { return a.stats }

// Reset rewinds the arena. No handle may hold a live allocation.
func (a *Arena) Reset() {
	check.That(check.AllocatorSafety, a.live == 0, "arena.reset", collgo.ErrInvalidState)
	a.cursor = 0
	a.last = -1
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0
}

// Close releases an off-heap mapping. The arena cannot be used afterwards.
func (a *Arena) Close() error {
	check.That(check.AllocatorSafety, a.live == 0, "arena.close", collgo.ErrInvalidState)
	a.buf = nil
	a.cursor = 0
	a.last = -1
	a.stats.BytesReserved = 0
	if a.mapping != nil {
		return a.mapping.Close()
	}
	return nil
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{reserved: %d, used: %d, wasted: %d, remaining: %d, acquisitions: %d, failures: %d}",
		a.stats.BytesReserved, a.stats.BytesUsed, a.stats.BytesWasted, a.Remaining(),
		a.stats.Acquisitions, a.stats.Failures,
	)
}

func (a *Arena) bump(bytes int, align int) (int, bool) {
	if len(a.buf) == 0 {
		a.stats.Failures++
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&a.buf[0]))
	addr := base + uintptr(a.cursor)
	pad := int(uintptr(alignUp(int(addr), align)) - addr)
	start := a.cursor + pad
	if bytes > len(a.buf)-start {
		a.stats.Failures++
		return 0, false
	}

	a.cursor = start + bytes
	a.last = start
	a.stats.BytesUsed += bytes
	a.stats.BytesWasted += pad
	a.stats.Acquisitions++
	return start, true
}

// Bump is an allocation handle bound to an Arena.
//
// Releasing a bump handle only detaches it; the bytes are reclaimed by Arena.Reset.
// The bytes stay valid in the arena when the handle changes owner, so Bump
// handles are relocatable.
type Bump struct {
	arena *Arena
	off   int
	size  int
	live  bool
}

// Arena returns the arena the handle is bound to.
func (b *Bump) Arena() *Arena { return b.arena }

func (b *Bump) Nullable() bool    { return true }
func (b *Bump) MinCapacity() int  { return 0 }
func (b *Bump) MaxCapacity() int  { return len(b.arena.buf) }
func (b *Bump) Relocatable() bool { return true }

func (b *Bump) Acquire(bytes int, l Layout) int {
	check.That(check.AllocatorSafety, !b.live, "bump.acquire", collgo.ErrInvalidState)
	if bytes <= 0 || l.Pointers {
		return 0
	}
	off, ok := b.arena.bump(bytes, int(l.Align))
	if !ok {
		return 0
	}
	b.off, b.size, b.live = off, bytes, true
	b.arena.live++
	return bytes
}

// Extend grows the live allocation in place. It succeeds only while the
// allocation is the most recent one in the arena and the arena has room.
func (b *Bump) Extend(bytes int) int {
	a := b.arena
	if !b.live || a.last != b.off || bytes < b.size || bytes > len(a.buf)-b.off {
		return 0
	}
	a.cursor = b.off + bytes
	a.stats.BytesUsed += bytes - b.size
	a.stats.Extensions++
	b.size = bytes
	return bytes
}

// Relocate is Extend under the arena vocabulary.
func (b *Bump) Relocate(bytes int) int { return b.Extend(bytes) }

func (b *Bump) Release() {
	check.That(check.AllocatorSafety, b.live, "bump.release", collgo.ErrInvalidState)
	b.live = false
	b.off, b.size = 0, 0
	b.arena.live--
}

func (b *Bump) Data() unsafe.Pointer {
	if !b.live {
		return nil
	}
	return unsafe.Pointer(&b.arena.buf[b.off])
}

func (b *Bump) Granted() int     { return b.size }
func (b *Bump) Clone() Allocator { return &Bump{arena: b.arena} }
