// Package array provides a growable stack-shaped sequence on a pluggable allocator.
package array

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
	"github.com/hupe1980/collgo/span"
)

// Array is a dynamic array. Elements live in positions [0, Len); positions
// [Len, Cap) are raw storage.
//
// The zero value is an empty array on the heap allocator. An Array must not be
// copied after first use; use MoveFrom or Clone.
type Array[T any] struct {
	cfg    container.Config
	helper capacity.Helper
	data   []T // len(data) == Cap()
	n      int
	refs   borrow.Counter
}

// New returns an empty, unallocated array.
func New[T any](opts ...container.Option) *Array[T] {
	a := &Array[T]{}
	a.configure(opts...)
	return a
}

// Of returns an array holding a copy of values, sized to their count.
func Of[T any](values ...T) *Array[T] {
	a := New[T]()
	if len(values) == 0 {
		return a
	}
	if !a.relocate(len(values)) {
		check.Fatal(check.AllocatorSafety, "array.of", collgo.ErrAllocationFailed)
	}
	bulk.Copy(a.data[:len(values)], values)
	a.n = len(values)
	return a
}

// Collect drains p into a new array. It reserves the upper size hint when p
// has one, otherwise the lower bound.
func Collect[T any](p pull.Puller[T], opts ...container.Option) *Array[T] {
	a := New[T](opts...)
	if n := p.SizeHint().Reserve(); n > 0 {
		a.Reserve(n)
	}
	for ; p.Valid(); p.Next() {
		a.Add(p.Current())
	}
	return a
}

func (a *Array[T]) configure(opts ...container.Option) {
	a.cfg = container.Apply(container.Config{
		InitialCapacity: container.DefaultArrayCapacity,
		Name:            "array",
	}, opts...)
	a.helper = capacity.New(alloc.LayoutOf[T](), a.cfg.Allocator, a.cfg.InitialCapacity, a.cfg.Growth)
}

func (a *Array[T]) lazy() {
	if a.cfg.Allocator == nil {
		a.configure()
	}
}

// Cap returns the number of elements the storage holds.
func (a *Array[T]) Cap() int { return len(a.data) }

// Len returns the number of elements.
func (a *Array[T]) Len() int { return a.n }

// Slack returns Cap() - Len().
func (a *Array[T]) Slack() int { return len(a.data) - a.n }

// IsEmpty reports whether the array has no elements.
func (a *Array[T]) IsEmpty() bool { return a.n == 0 }

// IsAllocated reports whether the array holds a live allocation.
func (a *Array[T]) IsAllocated() bool { return len(a.data) > 0 }

// Data returns the start of the storage, or nil when unallocated.
func (a *Array[T]) Data() unsafe.Pointer {
	if len(a.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&a.data[0])
}

// Allocator returns the handle owning the storage.
func (a *Array[T]) Allocator() alloc.Allocator {
	a.lazy()
	return a.cfg.Allocator
}

// At returns a pointer to element i. The pointer is invalidated by growth.
func (a *Array[T]) At(i int) *T {
	check.Index(i, a.n, "array.at")
	return &a.data[i]
}

// Get returns element i.
func (a *Array[T]) Get(i int) T { return *a.At(i) }

// Set overwrites element i, destroying the previous value.
func (a *Array[T]) Set(i int, v T) {
	p := a.At(i)
	bulk.DestroyOne(p)
	*p = v
}

// Back returns a pointer to the last element.
func (a *Array[T]) Back() *T {
	check.That(check.SafeAccess, a.n > 0, "array.back", collgo.ErrEmpty)
	return &a.data[a.n-1]
}

// Reserve guarantees Cap() >= n. It traps when the allocator refuses.
func (a *Array[T]) Reserve(n int) {
	if err := a.TryReserve(n); err != nil {
		check.Fatal(check.AllocatorSafety, "array.reserve", err)
	}
}

// TryReserve guarantees Cap() >= n. On failure the array is unchanged and the
// returned error wraps collgo.ErrAllocationFailed.
func (a *Array[T]) TryReserve(n int) error {
	if n <= len(a.data) {
		return nil
	}
	a.lazy()
	a.refs.Mutate("array.reserve")

	var target int
	if len(a.data) == 0 {
		target = a.helper.Init(n)
	} else {
		target = a.helper.Next(len(a.data), n)
		if a.extend(target) || a.extend(n) {
			return nil
		}
	}
	if !a.relocate(target) && (target == n || !a.relocate(n)) {
		return fmt.Errorf("array: reserve %d elements: %w", n, collgo.ErrAllocationFailed)
	}
	return nil
}

// extend grows the live allocation in place.
func (a *Array[T]) extend(target int) bool {
	g := a.helper.Extend(a.cfg.Allocator, target)
	if g < target {
		return false
	}
	from := len(a.data)
	a.data = unsafe.Slice((*T)(a.cfg.Allocator.Data()), g)
	a.cfg.ObserveGrow(from, g)
	return true
}

// relocate moves the elements into a fresh allocation of at least target
// elements obtained from a null clone of the handle.
func (a *Array[T]) relocate(target int) bool {
	fresh := a.cfg.Allocator.Clone()
	granted := a.helper.Allocate(fresh, target)
	if granted == 0 {
		return false
	}
	data := unsafe.Slice((*T)(fresh.Data()), granted)
	bulk.Move(data[:a.n], a.data[:a.n])

	from := len(a.data)
	if alloc.Live(a.cfg.Allocator) {
		a.cfg.Allocator.Release()
	}
	a.cfg.Allocator, a.data = fresh, data
	a.cfg.ObserveGrow(from, granted)
	return true
}

// Compact shrinks the storage toward the initial capacity for Len() elements.
// An empty array releases its allocation. Compact is best effort: if the
// smaller allocation is refused the array keeps its storage.
func (a *Array[T]) Compact() {
	if len(a.data) == 0 {
		return
	}
	a.refs.Mutate("array.compact")
	if a.n == 0 {
		a.release()
		return
	}
	target := a.helper.Init(a.n)
	if a.helper.Planned(target) >= len(a.data) {
		return
	}
	a.relocate(target)
}

func (a *Array[T]) grow() {
	if a.n == len(a.data) {
		a.Reserve(len(a.data) + 1)
	}
}

// Add appends v and returns a pointer to its slot.
func (a *Array[T]) Add(v T) *T {
	a.refs.Mutate("array.add")
	a.grow()
	p := &a.data[a.n]
	*p = v
	a.n++
	return p
}

// TryAdd is Add that reports allocation failure instead of trapping.
func (a *Array[T]) TryAdd(v T) (*T, error) {
	if a.n == len(a.data) {
		if err := a.TryReserve(len(a.data) + 1); err != nil {
			return nil, err
		}
	}
	return a.Add(v), nil
}

// Emplace appends a default-constructed element, passes it to init when init is
// not nil, and returns a pointer to it.
func (a *Array[T]) Emplace(init func(*T)) *T {
	a.refs.Mutate("array.emplace")
	a.grow()
	p := &a.data[a.n]
	bulk.Construct(p)
	if init != nil {
		init(p)
	}
	a.n++
	return p
}

// InsertAt places v at index i, moving the element previously there to the end.
// Order is not preserved. i may equal Len().
func (a *Array[T]) InsertAt(i int, v T) *T {
	check.Index(i, a.n+1, "array.insert-at")
	a.refs.Mutate("array.insert-at")
	a.grow()
	if i < a.n {
		bulk.MoveOne(&a.data[a.n], &a.data[i])
	}
	a.data[i] = v
	a.n++
	return &a.data[i]
}

// InsertAtStable places v at index i, shifting [i, Len) right by one.
func (a *Array[T]) InsertAtStable(i int, v T) *T {
	check.Index(i, a.n+1, "array.insert-at-stable")
	a.refs.Mutate("array.insert-at-stable")
	a.grow()
	bulk.ShiftRight(a.data, i, a.n)
	a.data[i] = v
	a.n++
	return &a.data[i]
}

// RemoveAt destroys element i and moves the last element into its place.
// Order is not preserved.
func (a *Array[T]) RemoveAt(i int) {
	check.Index(i, a.n, "array.remove-at")
	a.refs.Mutate("array.remove-at")
	last := a.n - 1
	bulk.DestroyOne(&a.data[i])
	if i != last {
		bulk.MoveOne(&a.data[i], &a.data[last])
	}
	a.n--
}

// RemoveAtStable destroys element i and shifts (i, Len) left by one.
func (a *Array[T]) RemoveAtStable(i int) {
	check.Index(i, a.n, "array.remove-at-stable")
	a.refs.Mutate("array.remove-at-stable")
	bulk.DestroyOne(&a.data[i])
	bulk.ShiftLeft(a.data, i, a.n)
	a.n--
}

// TakeBack moves the last element out of the array.
func (a *Array[T]) TakeBack() T {
	check.That(check.SafeAccess, a.n > 0, "array.take-back", collgo.ErrEmpty)
	a.refs.Mutate("array.take-back")
	a.n--
	return bulk.Take(&a.data[a.n])
}

// Clear destroys every element and keeps the allocation.
func (a *Array[T]) Clear() {
	a.refs.Mutate("array.clear")
	bulk.Destroy(a.data[:a.n])
	a.n = 0
}

// Reset destroys every element and releases the allocation.
func (a *Array[T]) Reset() {
	a.Clear()
	a.release()
}

func (a *Array[T]) release() {
	if len(a.data) == 0 {
		return
	}
	from := len(a.data)
	a.cfg.Allocator.Release()
	a.data = nil
	a.cfg.ObserveGrow(from, 0)
}

// AddElements appends copies of src with at most one allocation.
func (a *Array[T]) AddElements(src []T) {
	a.refs.Mutate("array.add-elements")
	a.Reserve(a.n + len(src))
	bulk.Copy(a.data[a.n:a.n+len(src)], src)
	a.n += len(src)
}

// AddRepetitions appends k copies of v with at most one allocation.
func (a *Array[T]) AddRepetitions(v T, k int) {
	a.refs.Mutate("array.add-repetitions")
	a.Reserve(a.n + k)
	for i := a.n; i < a.n+k; i++ {
		a.data[i] = bulk.CopyOne(&v)
	}
	a.n += k
}

// AsSpan returns a span over the live elements.
func (a *Array[T]) AsSpan() span.Span[T] {
	return span.Of(a.data[:a.n:a.n])
}

// Values returns the live elements as a slice sharing the array's storage.
func (a *Array[T]) Values() []T { return a.data[:a.n:a.n] }

// Pull returns a raw puller over the live elements.
func (a *Array[T]) Pull() *pull.Cursor[T] {
	return pull.FromSlice(a.data[:a.n])
}

// All iterates over index-element pairs. The array must not be mutated during
// the iteration.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		a.refs.BeginRead()
		defer a.refs.EndRead()
		for i := 0; i < a.n; i++ {
			if !yield(i, a.data[i]) {
				return
			}
		}
	}
}

// MoveFrom replaces the contents of a with those of src and leaves src empty.
//
// When src's handle is relocatable the storage changes owner together with the
// handle. Otherwise a allocates fresh storage on a clone of src's handle and
// relocates the elements.
func (a *Array[T]) MoveFrom(src *Array[T]) {
	if a == src {
		return
	}
	src.lazy()
	a.Reset()
	a.refs.Mutate("array.move-from")

	if src.cfg.Allocator.Relocatable() || len(src.data) == 0 {
		a.cfg, a.helper = src.cfg, src.helper
		a.cfg.Allocator = alloc.Transfer(&src.cfg.Allocator)
		a.data, a.n = src.data, src.n
		src.data, src.n = nil, 0
		return
	}

	a.cfg, a.helper = src.cfg, src.helper
	a.cfg.Allocator = src.cfg.Allocator.Clone()
	a.data, a.n = nil, 0
	if !a.relocate(a.helper.Init(src.n)) {
		check.Fatal(check.AllocatorSafety, "array.move-from", collgo.ErrAllocationFailed)
	}
	bulk.Move(a.data[:src.n], src.data[:src.n])
	a.n = src.n
	src.n = 0
	src.release()
}

// Clone returns a copy of a on a clone of its handle.
func (a *Array[T]) Clone() *Array[T] {
	a.lazy()
	c := &Array[T]{cfg: a.cfg, helper: a.helper}
	c.cfg.Allocator = a.cfg.Allocator.Clone()
	if a.n == 0 {
		return c
	}
	if !c.relocate(c.helper.Init(a.n)) {
		check.Fatal(check.AllocatorSafety, "array.clone", collgo.ErrAllocationFailed)
	}
	bulk.Copy(c.data[:a.n], a.data[:a.n])
	c.n = a.n
	return c
}

func (a *Array[T]) String() string {
	return fmt.Sprintf("Array{len: %d, cap: %d}", a.n, len(a.data))
}
