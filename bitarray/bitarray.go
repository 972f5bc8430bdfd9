package bitarray

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/borrow"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/internal/capacity"
)

// BitArray is a growable sequence of bits packed into blocks of type B.
//
// The zero value is an empty bit array on the heap allocator.
type BitArray[B Block] struct {
	cfg    container.Config
	helper capacity.Helper
	blocks []B // len(blocks) == BlockCap()
	n      int
	refs   borrow.Counter
}

// New returns an empty, unallocated bit array.
func New[B Block](opts ...container.Option) *BitArray[B] {
	a := &BitArray[B]{}
	a.configure(opts...)
	return a
}

// Of returns a bit array holding values.
func Of[B Block](values ...bool) *BitArray[B] {
	a := New[B]()
	a.Reserve(len(values))
	for _, v := range values {
		a.Add(v)
	}
	return a
}

func (a *BitArray[B]) configure(opts ...container.Option) {
	a.cfg = container.Apply(container.Config{
		InitialCapacity: container.DefaultArrayCapacity,
		Name:            "bitarray",
	}, opts...)
	a.helper = capacity.New(alloc.LayoutOf[B](), a.cfg.Allocator, a.cfg.InitialCapacity, a.cfg.Growth)
}

func (a *BitArray[B]) lazy() {
	if a.cfg.Allocator == nil {
		a.configure()
	}
}

// Len returns the number of bits.
func (a *BitArray[B]) Len() int { return a.n }

// BlockCap returns the number of allocated blocks.
func (a *BitArray[B]) BlockCap() int { return len(a.blocks) }

// Cap returns the number of bits the storage holds.
func (a *BitArray[B]) Cap() int { return len(a.blocks) * bitsPer[B]() }

// IsEmpty reports whether the bit array has no bits.
func (a *BitArray[B]) IsEmpty() bool { return a.n == 0 }

// IsAllocated reports whether the bit array holds a live allocation.
func (a *BitArray[B]) IsAllocated() bool { return len(a.blocks) > 0 }

// Allocator returns the handle owning the blocks.
func (a *BitArray[B]) Allocator() alloc.Allocator {
	a.lazy()
	return a.cfg.Allocator
}

// Blocks returns the used blocks. Bits at or above Len in the last block are
// zero.
func (a *BitArray[B]) Blocks() []B {
	return a.blocks[:blocksFor[B](a.n):blocksFor[B](a.n)]
}

// Get returns bit i.
func (a *BitArray[B]) Get(i int) bool {
	check.Index(i, a.n, "bitarray.get")
	return getBit(a.blocks, i)
}

// Set assigns bit i.
func (a *BitArray[B]) Set(i int, v bool) {
	check.Index(i, a.n, "bitarray.set")
	setBit(a.blocks, i, v)
}

// At returns a mutable reference to bit i. The reference is invalidated by
// growth.
func (a *BitArray[B]) At(i int) Ref[B] {
	check.Index(i, a.n, "bitarray.at")
	return refTo(a.blocks, i)
}

// SetAll assigns v to every bit.
func (a *BitArray[B]) SetAll(v bool) {
	if a.n == 0 {
		return
	}
	fill(a.blocks, a.n, v)
}

// Count returns the number of set bits.
func (a *BitArray[B]) Count() int {
	return onesCount(a.Blocks())
}

// Reserve guarantees Cap() >= bits. It traps when the allocator refuses.
func (a *BitArray[B]) Reserve(bits int) {
	if err := a.TryReserve(bits); err != nil {
		check.Fatal(check.AllocatorSafety, "bitarray.reserve", err)
	}
}

// TryReserve guarantees Cap() >= bits. On failure the bit array is unchanged.
func (a *BitArray[B]) TryReserve(bits int) error {
	need := blocksFor[B](bits)
	if need <= len(a.blocks) {
		return nil
	}
	a.lazy()
	a.refs.Mutate("bitarray.reserve")

	var target int
	if len(a.blocks) == 0 {
		target = a.helper.Init(need)
	} else {
		target = a.helper.Next(len(a.blocks), need)
		if a.extend(target) || a.extend(need) {
			return nil
		}
	}
	if !a.relocate(target) && (target == need || !a.relocate(need)) {
		return fmt.Errorf("bitarray: reserve %d bits: %w", bits, collgo.ErrAllocationFailed)
	}
	return nil
}

func (a *BitArray[B]) extend(target int) bool {
	g := a.helper.Extend(a.cfg.Allocator, target)
	if g < target {
		return false
	}
	from := len(a.blocks)
	a.blocks = unsafe.Slice((*B)(a.cfg.Allocator.Data()), g)
	clear(a.blocks[from:])
	a.cfg.ObserveGrow(from, g)
	return true
}

// relocate copies the used blocks into a zeroed allocation of at least target
// blocks on a null clone of the handle.
func (a *BitArray[B]) relocate(target int) bool {
	fresh := a.cfg.Allocator.Clone()
	granted := a.helper.Allocate(fresh, target)
	if granted == 0 {
		return false
	}
	blocks := unsafe.Slice((*B)(fresh.Data()), granted)
	used := copy(blocks, a.Blocks())
	clear(blocks[used:])

	from := len(a.blocks)
	if alloc.Live(a.cfg.Allocator) {
		a.cfg.Allocator.Release()
	}
	a.cfg.Allocator, a.blocks = fresh, blocks
	a.cfg.ObserveGrow(from, granted)
	return true
}

// Compact shrinks the storage toward the initial capacity for Len() bits. An
// empty bit array releases its blocks. A refused allocation keeps the storage.
func (a *BitArray[B]) Compact() {
	if len(a.blocks) == 0 {
		return
	}
	a.refs.Mutate("bitarray.compact")
	if a.n == 0 {
		a.release()
		return
	}
	target := a.helper.Init(blocksFor[B](a.n))
	if a.helper.Planned(target) >= len(a.blocks) {
		return
	}
	a.relocate(target)
}

// Add appends bit v.
func (a *BitArray[B]) Add(v bool) {
	a.refs.Mutate("bitarray.add")
	if a.n == a.Cap() {
		a.Reserve(a.n + 1)
	}
	if a.n%bitsPer[B]() == 0 {
		a.blocks[a.n/bitsPer[B]()] = 0
	}
	a.n++
	setBit(a.blocks, a.n-1, v)
}

// TryAdd is Add that reports allocation failure instead of trapping.
func (a *BitArray[B]) TryAdd(v bool) error {
	if err := a.TryReserve(a.n + 1); err != nil {
		return err
	}
	a.Add(v)
	return nil
}

// InsertAtStable inserts v at position i, shifting bits [i, Len) up by one.
// i may equal Len().
func (a *BitArray[B]) InsertAtStable(i int, v bool) {
	check.Index(i, a.n+1, "bitarray.insert-at-stable")
	a.Add(false)
	shiftUp(a.blocks, i, a.n-1)
	setBit(a.blocks, i, v)
}

// RemoveAtStable removes bit i, shifting bits (i, Len) down by one.
func (a *BitArray[B]) RemoveAtStable(i int) {
	check.Index(i, a.n, "bitarray.remove-at-stable")
	a.refs.Mutate("bitarray.remove-at-stable")
	shiftDown(a.blocks, i, a.n)
	a.n--
}

// RemoveBack removes and returns the last bit.
func (a *BitArray[B]) RemoveBack() bool {
	check.That(check.SafeAccess, a.n > 0, "bitarray.remove-back", collgo.ErrEmpty)
	a.refs.Mutate("bitarray.remove-back")
	v := getBit(a.blocks, a.n-1)
	setBit(a.blocks, a.n-1, false)
	a.n--
	return v
}

// Clear removes every bit and keeps the blocks.
func (a *BitArray[B]) Clear() {
	a.refs.Mutate("bitarray.clear")
	clear(a.Blocks())
	a.n = 0
}

// Reset removes every bit and releases the blocks.
func (a *BitArray[B]) Reset() {
	a.Clear()
	a.release()
}

func (a *BitArray[B]) release() {
	if len(a.blocks) == 0 {
		return
	}
	from := len(a.blocks)
	a.cfg.Allocator.Release()
	a.blocks = nil
	a.cfg.ObserveGrow(from, 0)
}

// Pull returns a puller over the bits.
func (a *BitArray[B]) Pull() *Cursor[B] {
	return newCursor(a.blocks, a.n)
}

// All iterates over position-bit pairs. The bit array must not be mutated
// during the iteration.
func (a *BitArray[B]) All() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		a.refs.BeginRead()
		defer a.refs.EndRead()
		for i := 0; i < a.n; i++ {
			if !yield(i, getBit(a.blocks, i)) {
				return
			}
		}
	}
}

// MoveFrom replaces the contents of a with those of src and leaves src empty.
func (a *BitArray[B]) MoveFrom(src *BitArray[B]) {
	if a == src {
		return
	}
	src.lazy()
	a.Reset()
	a.refs.Mutate("bitarray.move-from")

	a.cfg, a.helper = src.cfg, src.helper
	if src.cfg.Allocator.Relocatable() || len(src.blocks) == 0 {
		a.cfg.Allocator = alloc.Transfer(&src.cfg.Allocator)
		a.blocks, a.n = src.blocks, src.n
		src.blocks, src.n = nil, 0
		return
	}

	a.cfg.Allocator = src.cfg.Allocator.Clone()
	a.blocks, a.n = nil, 0
	if !a.relocate(a.helper.Init(blocksFor[B](src.n))) {
		check.Fatal(check.AllocatorSafety, "bitarray.move-from", collgo.ErrAllocationFailed)
	}
	copy(a.blocks, src.Blocks())
	a.n = src.n
	src.n = 0
	src.release()
}

// Clone returns a copy of a on a clone of its handle.
func (a *BitArray[B]) Clone() *BitArray[B] {
	a.lazy()
	c := &BitArray[B]{cfg: a.cfg, helper: a.helper}
	c.cfg.Allocator = a.cfg.Allocator.Clone()
	if a.n == 0 {
		return c
	}
	if !c.relocate(c.helper.Init(blocksFor[B](a.n))) {
		check.Fatal(check.AllocatorSafety, "bitarray.clone", collgo.ErrAllocationFailed)
	}
	copy(c.blocks, a.Blocks())
	c.n = a.n
	return c
}

// Equal reports whether a and b hold the same bits.
func (a *BitArray[B]) Equal(b *BitArray[B]) bool {
	if a.n != b.n {
		return false
	}
	x, y := a.Blocks(), b.Blocks()
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// String renders the bits low to high, e.g. "01101".
func (a *BitArray[B]) String() string {
	return render(a.blocks, a.n)
}

func render[B Block](blocks []B, n int) string {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if getBit(blocks, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
