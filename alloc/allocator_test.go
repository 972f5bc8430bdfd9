package alloc

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int32
}

type named struct {
	ID   int
	Name string
}

func TestLayoutOf(t *testing.T) {
	l := LayoutOf[point]()
	assert.Equal(t, uintptr(8), l.Size)
	assert.Equal(t, uintptr(4), l.Align)
	assert.False(t, l.Pointers)
	assert.Equal(t, reflect.TypeFor[point](), l.Type)

	assert.True(t, LayoutOf[named]().Pointers)
	assert.True(t, LayoutOf[*int]().Pointers)
	assert.True(t, LayoutOf[[]byte]().Pointers)
	assert.False(t, LayoutOf[[4]uint64]().Pointers)
	assert.False(t, LayoutOf[[0]*int]().Pointers)
	assert.Equal(t, 1, LayoutOf[struct{}]().ElemSize())
}

func TestHeap(t *testing.T) {
	h := NewHeap()
	assert.True(t, h.Nullable())
	assert.True(t, h.Relocatable())
	assert.Nil(t, h.Data())

	g := h.Acquire(100, LayoutOf[named]())
	require.Equal(t, 120, g) // rounded up to whole elements
	require.NotNil(t, h.Data())
	assert.Equal(t, 120, h.Granted())

	items := unsafe.Slice((*named)(h.Data()), g/int(unsafe.Sizeof(named{})))
	for _, it := range items {
		assert.Zero(t, it)
	}
	items[0].Name = "kept alive by the typed allocation"

	assert.Panics(t, func() { h.Acquire(8, LayoutOf[int]()) })

	h.Release()
	assert.Nil(t, h.Data())
	assert.Zero(t, h.Granted())
	assert.Panics(t, h.Release)

	assert.Zero(t, h.Acquire(0, LayoutOf[int]()))
	assert.Nil(t, h.Data())
}

func TestHeap_CloneStartsNull(t *testing.T) {
	h := NewHeap()
	require.Positive(t, h.Acquire(64, LayoutOf[uint64]()))

	c := h.Clone()
	assert.Nil(t, c.Data())
	assert.NotNil(t, h.Data())
}

func TestTransfer(t *testing.T) {
	var a Allocator = NewHeap()
	require.Positive(t, a.Acquire(32, LayoutOf[uint64]()))
	data := a.Data()

	moved := Transfer(&a)
	assert.Equal(t, data, moved.Data())
	assert.Nil(t, a.Data())
	assert.False(t, Live(a))
	assert.True(t, Live(moved))
}

func TestTransfer_NotRelocatableTraps(t *testing.T) {
	var a Allocator = NewFixed(32, 8)
	moved := Transfer(&a)
	assert.False(t, Live(moved), "a null fixed handle may change owner")

	require.Equal(t, 32, a.Acquire(32, LayoutOf[uint64]()))
	assert.PanicsWithError(t, "allocator-safety: alloc.transfer: allocation is not relocatable", func() {
		Transfer(&a)
	})
	assert.True(t, Live(a))
}

func TestFixed(t *testing.T) {
	f := NewFixed(64, 16)
	assert.False(t, f.Nullable())
	assert.False(t, f.Relocatable())
	assert.Equal(t, 64, f.MinCapacity())
	assert.Equal(t, 64, f.MaxCapacity())

	assert.Zero(t, f.Acquire(32, LayoutOf[uint64]()), "only exactly Size is granted")
	assert.Zero(t, f.Acquire(128, LayoutOf[uint64]()))
	assert.Zero(t, f.Acquire(64, LayoutOf[named]()), "pointerful layouts are refused")
	assert.Nil(t, f.Data())

	require.Equal(t, 64, f.Acquire(64, LayoutOf[uint64]()))
	p := f.Data()
	require.NotNil(t, p)
	assert.Zero(t, uintptr(p)%16)

	f.Release()
	assert.Nil(t, f.Data())
	require.Equal(t, 64, f.Acquire(64, LayoutOf[uint64]()))
	assert.Equal(t, p, f.Data(), "the buffer is bound to the handle")

	c := f.Clone().(*Fixed)
	require.Equal(t, 64, c.Acquire(64, LayoutOf[uint64]()))
	assert.NotEqual(t, p, c.Data())
}

func TestArena_Bump(t *testing.T) {
	a := NewArena(256)
	h1 := a.Handle()
	h2 := a.Handle()

	require.Equal(t, 10, h1.Acquire(10, LayoutOf[byte]()))
	require.Equal(t, 16, h2.Acquire(16, LayoutOf[uint64]()))

	assert.Zero(t, uintptr(h2.Data())%8)
	assert.Equal(t, 32, a.Len())
	assert.Equal(t, 6, a.Stats().BytesWasted)
	assert.Equal(t, uint64(2), a.Stats().Acquisitions)

	h3 := a.Handle()
	assert.Zero(t, h3.Acquire(512, LayoutOf[byte]()))
	assert.Nil(t, h3.Data())
	assert.Equal(t, uint64(1), a.Stats().Failures)

	assert.Zero(t, h3.Acquire(8, LayoutOf[named]()), "pointerful layouts are refused")
}

func TestArena_ExtendMostRecent(t *testing.T) {
	a := NewArena(128)
	h1 := a.Handle()
	h2 := a.Handle()

	require.Positive(t, h1.Acquire(16, LayoutOf[uint64]()))
	require.Positive(t, h2.Acquire(16, LayoutOf[uint64]()))

	assert.Zero(t, h1.Extend(32), "only the most recent acquisition can grow")
	assert.Equal(t, 48, h2.Relocate(48))
	assert.Equal(t, 48, h2.Granted())
	assert.Equal(t, 64, a.Len())
	assert.Zero(t, h2.Extend(1024))
}

func TestArena_ResetRequiresDetachedHandles(t *testing.T) {
	a := NewArena(64)
	h := a.Handle()
	require.Positive(t, h.Acquire(32, LayoutOf[byte]()))

	assert.Panics(t, a.Reset)

	h.Release()
	a.Reset()
	assert.Zero(t, a.Len())
	assert.Equal(t, 64, a.Remaining())
}

func TestArena_BumpIsRelocatable(t *testing.T) {
	a := NewArena(64)
	var h Allocator = a.Handle()
	require.Positive(t, h.Acquire(16, LayoutOf[uint32]()))
	data := h.Data()

	moved := Transfer(&h)
	assert.Equal(t, data, moved.Data())
	assert.Nil(t, h.Data())
	assert.Same(t, a, h.(*Bump).Arena())
}

func TestMappedArena(t *testing.T) {
	a, err := NewMappedArena(1 << 16)
	require.NoError(t, err)

	h := a.Handle()
	require.Equal(t, 4096, h.Acquire(4096, LayoutOf[uint64]()))
	s := unsafe.Slice((*uint64)(h.Data()), 512)
	s[511] = 42
	assert.Equal(t, uint64(42), s[511])

	h.Release()
	require.NoError(t, a.Close())
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(NewHeap(), 64, 256)
	assert.Equal(t, 64, l.MinCapacity())
	assert.Equal(t, 256, l.MaxCapacity())
	assert.True(t, l.Nullable())
	assert.True(t, l.Relocatable())

	assert.Equal(t, 64, l.Acquire(8, LayoutOf[byte]()), "small requests are raised to min")
	l.Release()

	assert.Zero(t, l.Acquire(512, LayoutOf[byte]()), "requests above max are rejected")
	assert.Nil(t, l.Data())

	fixed := NewLimiter(NewFixed(32, 8), 0, 1024)
	assert.False(t, fixed.Nullable())
	assert.False(t, fixed.Relocatable())
	assert.Equal(t, 32, fixed.MaxCapacity())
}

func TestPolymorphic(t *testing.T) {
	p := NewPolymorphic(NewFixed(64, 8), NewHeap())
	assert.True(t, p.Nullable())
	assert.Equal(t, SideNone, p.Active())
	assert.True(t, p.Relocatable())

	require.Equal(t, 64, p.Acquire(64, LayoutOf[uint64]()))
	assert.Equal(t, SidePrimary, p.Active())
	assert.False(t, p.Relocatable())
	p.Release()
	assert.Equal(t, SideNone, p.Active())

	require.Equal(t, 128, p.Acquire(128, LayoutOf[uint64]()))
	assert.Equal(t, SideFallback, p.Active())
	assert.True(t, p.Relocatable())
	p.Release()

	require.Equal(t, 64, p.Acquire(8, LayoutOf[uint64]()), "small requests fill the fixed buffer")
	assert.Equal(t, SidePrimary, p.Active())
	p.Release()

	require.Positive(t, p.Acquire(64, LayoutOf[named]()))
	assert.Equal(t, SideFallback, p.Active(), "pointerful layouts skip the fixed buffer")
	assert.Equal(t, "fallback", p.Active().String())

	c := p.Clone().(*Polymorphic)
	assert.Equal(t, SideNone, c.Active())
	assert.Nil(t, c.Data())
}

func TestPolymorphic_BothFail(t *testing.T) {
	a := NewArena(16)
	p := NewPolymorphic(NewFixed(8, 8), a.Handle())
	assert.Zero(t, p.Acquire(64, LayoutOf[byte]()))
	assert.Equal(t, SideNone, p.Active())
	assert.Panics(t, p.Release)
}

func TestMapped(t *testing.T) {
	m := NewMapped()
	g := m.Acquire(100, LayoutOf[uint32]())
	require.GreaterOrEqual(t, g, 100)
	require.NotNil(t, m.Data())

	s := unsafe.Slice((*uint32)(m.Data()), 25)
	s[24] = 7
	assert.Equal(t, uint32(7), s[24])

	m.Release()
	assert.Nil(t, m.Data())
	assert.Zero(t, m.Acquire(64, LayoutOf[named]()))
}

func TestBudgeted(t *testing.T) {
	b := NewBudget(256)
	h1 := NewBudgeted(NewHeap(), b)
	h2 := h1.Clone()

	require.Equal(t, 128, h1.Acquire(128, LayoutOf[byte]()))
	assert.Equal(t, int64(128), b.Used())
	assert.Equal(t, 256, h1.MaxCapacity())

	require.Equal(t, 128, h2.Acquire(128, LayoutOf[byte]()))
	assert.Equal(t, int64(256), b.Used())

	h3 := h1.Clone()
	assert.Zero(t, h3.Acquire(1, LayoutOf[byte]()), "budget exhausted")
	assert.Nil(t, h3.Data())

	h1.Release()
	assert.Equal(t, int64(128), b.Used())
	assert.Equal(t, 64, h3.Acquire(64, LayoutOf[byte]()))
}

func TestBudgeted_Extend(t *testing.T) {
	b := NewBudget(100)
	a := NewArena(1024)
	h := NewBudgeted(a.Handle(), b)

	require.Equal(t, 40, h.Acquire(40, LayoutOf[byte]()))
	assert.Equal(t, 80, h.Extend(80))
	assert.Equal(t, int64(80), b.Used())
	assert.Zero(t, h.Extend(200))
	assert.Equal(t, int64(80), b.Used())

	h.Release()
	assert.Zero(t, b.Used())
}
