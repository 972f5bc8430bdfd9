// Package ring provides a double-ended queue on a single wrapping buffer.
package ring

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/borrow"
	"github.com/hupe1980/collgo/bulk"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/internal/capacity"
	"github.com/hupe1980/collgo/pull"
)

// Ring is a double-ended queue. Elements occupy [head, tail) when that run is
// contiguous, and [head, Cap) followed by [0, tail) otherwise. tail is the next
// free slot at the back. Emptiness is tracked by the count, since a full ring
// has head == tail as well.
//
// The zero value is an empty ring on the heap allocator.
type Ring[T any] struct {
	cfg    container.Config
	helper capacity.Helper
	data   []T
	head   int
	tail   int
	n      int
	refs   borrow.Counter
}

// New returns an empty, unallocated ring.
func New[T any](opts ...container.Option) *Ring[T] {
	r := &Ring[T]{}
	r.configure(opts...)
	return r
}

func (r *Ring[T]) configure(opts ...container.Option) {
	r.cfg = container.Apply(container.Config{
		InitialCapacity: container.DefaultRingCapacity,
		Name:            "ring",
	}, opts...)
	r.helper = capacity.New(alloc.LayoutOf[T](), r.cfg.Allocator, r.cfg.InitialCapacity, r.cfg.Growth)
}

func (r *Ring[T]) lazy() {
	if r.cfg.Allocator == nil {
		r.configure()
	}
}

// Cap returns the number of slots.
func (r *Ring[T]) Cap() int { return len(r.data) }

// Len returns the number of elements.
func (r *Ring[T]) Len() int { return r.n }

// IsEmpty reports whether the ring has no elements.
func (r *Ring[T]) IsEmpty() bool { return r.n == 0 }

// IsAllocated reports whether the ring holds a live allocation.
func (r *Ring[T]) IsAllocated() bool { return len(r.data) > 0 }

// IsWrapped reports whether the elements run past the end of the storage and
// continue at slot 0.
func (r *Ring[T]) IsWrapped() bool {
	return r.n > 0 && r.tail > 0 && r.head >= r.tail
}

// Allocator returns the handle owning the storage.
func (r *Ring[T]) Allocator() alloc.Allocator {
	r.lazy()
	return r.cfg.Allocator
}

func (r *Ring[T]) phys(i int) int {
	i += r.head
	if i >= len(r.data) {
		i -= len(r.data)
	}
	return i
}

// At returns a pointer to the element i positions after the head.
func (r *Ring[T]) At(i int) *T {
	check.Index(i, r.n, "ring.at")
	return &r.data[r.phys(i)]
}

// Get returns the element i positions after the head.
func (r *Ring[T]) Get(i int) T { return *r.At(i) }

// PeekFront returns a pointer to the front element.
func (r *Ring[T]) PeekFront() *T {
	check.That(check.SafeAccess, r.n > 0, "ring.peek-front", collgo.ErrEmpty)
	return &r.data[r.head]
}

// PeekBack returns a pointer to the back element.
func (r *Ring[T]) PeekBack() *T {
	check.That(check.SafeAccess, r.n > 0, "ring.peek-back", collgo.ErrEmpty)
	return &r.data[r.dec(r.tail)]
}

func (r *Ring[T]) inc(i int) int {
	if i++; i == len(r.data) {
		return 0
	}
	return i
}

func (r *Ring[T]) dec(i int) int {
	if i == 0 {
		return len(r.data) - 1
	}
	return i - 1
}

func (r *Ring[T]) grow() {
	if r.n == len(r.data) {
		r.Reserve(len(r.data) + 1)
	}
}

// PushBack appends v at the back and returns a pointer to its slot.
func (r *Ring[T]) PushBack(v T) *T {
	r.refs.Mutate("ring.push-back")
	r.grow()
	p := &r.data[r.tail]
	*p = v
	r.tail = r.inc(r.tail)
	r.n++
	return p
}

// PushFront prepends v at the front and returns a pointer to its slot.
func (r *Ring[T]) PushFront(v T) *T {
	r.refs.Mutate("ring.push-front")
	r.grow()
	r.head = r.dec(r.head)
	p := &r.data[r.head]
	*p = v
	r.n++
	return p
}

// TryPushBack is PushBack that reports allocation failure instead of trapping.
func (r *Ring[T]) TryPushBack(v T) (*T, error) {
	if r.n == len(r.data) {
		if err := r.TryReserve(len(r.data) + 1); err != nil {
			return nil, err
		}
	}
	return r.PushBack(v), nil
}

// PopFront destroys the front element.
func (r *Ring[T]) PopFront() {
	v := r.TakeFront()
	bulk.DestroyOne(&v)
}

// PopBack destroys the back element.
func (r *Ring[T]) PopBack() {
	v := r.TakeBack()
	bulk.DestroyOne(&v)
}

// TakeFront moves the front element out of the ring.
func (r *Ring[T]) TakeFront() T {
	check.That(check.SafeAccess, r.n > 0, "ring.take-front", collgo.ErrEmpty)
	r.refs.Mutate("ring.take-front")
	v := bulk.Take(&r.data[r.head])
	r.head = r.inc(r.head)
	r.n--
	return v
}

// TakeBack moves the back element out of the ring.
func (r *Ring[T]) TakeBack() T {
	check.That(check.SafeAccess, r.n > 0, "ring.take-back", collgo.ErrEmpty)
	r.refs.Mutate("ring.take-back")
	r.tail = r.dec(r.tail)
	r.n--
	return bulk.Take(&r.data[r.tail])
}

// runs returns the live elements as at most two physical runs in logical order.
func (r *Ring[T]) runs() (first, second []T) {
	if r.n == 0 {
		return nil, nil
	}
	if end := r.head + r.n; end <= len(r.data) {
		return r.data[r.head:end], nil
	}
	return r.data[r.head:], r.data[:r.tail]
}

// Reserve guarantees Cap() >= n. It traps when the allocator refuses.
func (r *Ring[T]) Reserve(n int) {
	if err := r.TryReserve(n); err != nil {
		check.Fatal(check.AllocatorSafety, "ring.reserve", err)
	}
}

// TryReserve guarantees Cap() >= n. On failure the ring is unchanged and the
// returned error wraps collgo.ErrAllocationFailed.
func (r *Ring[T]) TryReserve(n int) error {
	if n <= len(r.data) {
		return nil
	}
	r.lazy()
	r.refs.Mutate("ring.reserve")

	var target int
	if len(r.data) == 0 {
		target = r.helper.Init(n)
	} else {
		target = r.helper.Next(len(r.data), n)
		if r.extend(target) || r.extend(n) {
			return nil
		}
	}
	if !r.relocate(target) && (target == n || !r.relocate(n)) {
		return fmt.Errorf("ring: reserve %d elements: %w", n, collgo.ErrAllocationFailed)
	}
	return nil
}

// extend grows the live allocation in place. Only contiguous contents survive
// an in-place extension unchanged.
func (r *Ring[T]) extend(target int) bool {
	if r.head+r.n > len(r.data) {
		return false
	}
	g := r.helper.Extend(r.cfg.Allocator, target)
	if g < target {
		return false
	}
	from := len(r.data)
	r.data = unsafe.Slice((*T)(r.cfg.Allocator.Data()), g)
	r.tail = r.head + r.n
	if r.tail == g {
		r.tail = 0
	}
	r.cfg.ObserveGrow(from, g)
	return true
}

// relocate moves the elements to [0, n) of a fresh allocation.
func (r *Ring[T]) relocate(target int) bool {
	fresh := r.cfg.Allocator.Clone()
	granted := r.helper.Allocate(fresh, target)
	if granted == 0 {
		return false
	}
	data := unsafe.Slice((*T)(fresh.Data()), granted)
	first, second := r.runs()
	bulk.Move(data[:len(first)], first)
	bulk.Move(data[len(first):len(first)+len(second)], second)

	from := len(r.data)
	if alloc.Live(r.cfg.Allocator) {
		r.cfg.Allocator.Release()
	}
	r.cfg.Allocator, r.data = fresh, data
	r.head, r.tail = 0, r.n
	if r.tail == granted {
		r.tail = 0
	}
	r.cfg.ObserveGrow(from, granted)
	return true
}

// ShrinkToFit shrinks the storage toward the initial capacity for Len()
// elements. An empty ring releases its allocation.
func (r *Ring[T]) ShrinkToFit() {
	if len(r.data) == 0 {
		return
	}
	r.refs.Mutate("ring.shrink-to-fit")
	if r.n == 0 {
		r.release()
		return
	}
	target := r.helper.Init(r.n)
	if r.helper.Planned(target) >= len(r.data) {
		return
	}
	r.relocate(target)
}

// Clear destroys every element and keeps the allocation.
func (r *Ring[T]) Clear() {
	r.refs.Mutate("ring.clear")
	first, second := r.runs()
	bulk.Destroy(first)
	bulk.Destroy(second)
	r.head, r.tail, r.n = 0, 0, 0
}

// Reset destroys every element and releases the allocation.
func (r *Ring[T]) Reset() {
	r.Clear()
	r.release()
}

func (r *Ring[T]) release() {
	if len(r.data) == 0 {
		return
	}
	from := len(r.data)
	r.cfg.Allocator.Release()
	r.data = nil
	r.head, r.tail = 0, 0
	r.cfg.ObserveGrow(from, 0)
}

// Values returns a copy of the elements in logical order.
func (r *Ring[T]) Values() []T {
	first, second := r.runs()
	out := make([]T, 0, r.n)
	out = append(out, first...)
	return append(out, second...)
}

// Pull returns a puller over the elements in logical order.
func (r *Ring[T]) Pull() *Cursor[T] {
	return &Cursor[T]{r: r}
}

// All iterates over logical index-element pairs. The ring must not be mutated
// during the iteration.
func (r *Ring[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		r.refs.BeginRead()
		defer r.refs.EndRead()
		for i := 0; i < r.n; i++ {
			if !yield(i, r.data[r.phys(i)]) {
				return
			}
		}
	}
}

// MoveFrom replaces the contents of r with those of src and leaves src empty.
// Storage changes owner only when src's handle is relocatable; otherwise the
// elements are relocated into fresh storage on a clone of src's handle.
func (r *Ring[T]) MoveFrom(src *Ring[T]) {
	if r == src {
		return
	}
	src.lazy()
	r.Reset()
	r.refs.Mutate("ring.move-from")

	r.cfg, r.helper = src.cfg, src.helper
	if src.cfg.Allocator.Relocatable() || len(src.data) == 0 {
		r.cfg.Allocator = alloc.Transfer(&src.cfg.Allocator)
		r.data, r.head, r.tail, r.n = src.data, src.head, src.tail, src.n
		src.data, src.head, src.tail, src.n = nil, 0, 0, 0
		return
	}

	r.cfg.Allocator = src.cfg.Allocator.Clone()
	fresh := r.cfg.Allocator
	granted := r.helper.Allocate(fresh, r.helper.Init(src.n))
	if granted == 0 {
		check.Fatal(check.AllocatorSafety, "ring.move-from", collgo.ErrAllocationFailed)
	}
	r.data = unsafe.Slice((*T)(fresh.Data()), granted)
	first, second := src.runs()
	bulk.Move(r.data[:len(first)], first)
	bulk.Move(r.data[len(first):src.n], second)
	r.head, r.tail, r.n = 0, src.n%granted, src.n

	src.head, src.tail, src.n = 0, 0, 0
	src.release()
}

// Clone returns a copy of r on a clone of its handle. The copy is not wrapped.
func (r *Ring[T]) Clone() *Ring[T] {
	r.lazy()
	c := &Ring[T]{cfg: r.cfg, helper: r.helper}
	c.cfg.Allocator = r.cfg.Allocator.Clone()
	if r.n == 0 {
		return c
	}
	granted := c.helper.Allocate(c.cfg.Allocator, c.helper.Init(r.n))
	if granted == 0 {
		check.Fatal(check.AllocatorSafety, "ring.clone", collgo.ErrAllocationFailed)
	}
	c.data = unsafe.Slice((*T)(c.cfg.Allocator.Data()), granted)
	first, second := r.runs()
	bulk.Copy(c.data[:len(first)], first)
	bulk.Copy(c.data[len(first):r.n], second)
	c.tail, c.n = r.n%granted, r.n
	return c
}

func (r *Ring[T]) String() string {
	return fmt.Sprintf("Ring{len: %d, cap: %d, head: %d, tail: %d}", r.n, len(r.data), r.head, r.tail)
}

// Cursor pulls the elements of a ring in logical order.
type Cursor[T any] struct {
	r *Ring[T]
	i int
}

func (c *Cursor[T]) Valid() bool { return c.i < c.r.n }

func (c *Cursor[T]) Current() T { return *c.Ptr() }

func (c *Cursor[T]) Ptr() *T {
	check.That(check.IteratorSafety, c.i < c.r.n, "ring.cursor", collgo.ErrEmpty)
	return &c.r.data[c.r.phys(c.i)]
}

func (c *Cursor[T]) Next() {
	check.That(check.IteratorSafety, c.i < c.r.n, "ring.cursor", collgo.ErrEmpty)
	c.i++
}

func (c *Cursor[T]) SizeHint() pull.Hint { return pull.Exact(c.r.n - c.i) }
