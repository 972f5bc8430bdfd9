// Package box provides an owning single-slot container on a pluggable
// allocator.
package box

import (
	"fmt"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/bulk"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/internal/capacity"
)

// Box owns at most one T in storage obtained from its allocator. The slot is
// allocated on first Set or Emplace and released by Take and Reset.
//
// The zero value is an empty box on the heap allocator.
type Box[T any] struct {
	cfg    container.Config
	helper capacity.Helper
	p      *T
}

// New returns an empty box.
func New[T any](opts ...container.Option) *Box[T] {
	b := &Box[T]{}
	b.configure(opts...)
	return b
}

// Of returns a box holding v.
func Of[T any](v T, opts ...container.Option) *Box[T] {
	b := New[T](opts...)
	b.Set(v)
	return b
}

func (b *Box[T]) configure(opts ...container.Option) {
	b.cfg = container.Apply(container.Config{InitialCapacity: 1, Name: "box"}, opts...)
	b.helper = capacity.New(alloc.LayoutOf[T](), b.cfg.Allocator, 1, b.cfg.Growth)
}

func (b *Box[T]) lazy() {
	if b.cfg.Allocator == nil {
		b.configure()
	}
}

// Has reports whether the box holds a value.
func (b *Box[T]) Has() bool { return b.p != nil }

// Allocator returns the handle owning the slot.
func (b *Box[T]) Allocator() alloc.Allocator {
	b.lazy()
	return b.cfg.Allocator
}

// Get returns a pointer to the held value. The box must not be empty.
func (b *Box[T]) Get() *T {
	check.That(check.SafeAccess, b.p != nil, "box.get", collgo.ErrEmpty)
	return b.p
}

// TryGet returns a pointer to the held value, or nil.
func (b *Box[T]) TryGet() *T { return b.p }

// Set stores v, destroying any previously held value.
func (b *Box[T]) Set(v T) {
	if err := b.TrySet(v); err != nil {
		check.Fatal(check.AllocatorSafety, "box.set", err)
	}
}

// TrySet is Set that reports allocation failure instead of trapping.
func (b *Box[T]) TrySet(v T) error {
	if b.p != nil {
		bulk.DestroyOne(b.p)
		*b.p = v
		return nil
	}
	if err := b.acquire(); err != nil {
		return err
	}
	*b.p = v
	return nil
}

// Emplace replaces the held value with a default-constructed one, passes it to
// init when init is not nil and returns a pointer to it.
func (b *Box[T]) Emplace(init func(*T)) *T {
	if b.p != nil {
		bulk.DestroyOne(b.p)
	} else if err := b.acquire(); err != nil {
		check.Fatal(check.AllocatorSafety, "box.emplace", err)
	}
	bulk.Construct(b.p)
	if init != nil {
		init(b.p)
	}
	return b.p
}

func (b *Box[T]) acquire() error {
	b.lazy()
	if b.helper.Allocate(b.cfg.Allocator, 1) == 0 {
		return fmt.Errorf("box: allocate slot: %w", collgo.ErrAllocationFailed)
	}
	b.p = (*T)(b.cfg.Allocator.Data())
	b.cfg.ObserveGrow(0, 1)
	return nil
}

// Take moves the held value out and releases the slot.
func (b *Box[T]) Take() T {
	check.That(check.SafeAccess, b.p != nil, "box.take", collgo.ErrEmpty)
	v := bulk.Take(b.p)
	b.release()
	return v
}

// Reset destroys the held value and releases the slot.
func (b *Box[T]) Reset() {
	if b.p == nil {
		return
	}
	bulk.DestroyOne(b.p)
	b.release()
}

func (b *Box[T]) release() {
	b.cfg.Allocator.Release()
	b.p = nil
	b.cfg.ObserveGrow(1, 0)
}

// MoveFrom replaces the contents of b with those of src and leaves src empty.
// The slot changes owner only when src's handle is relocatable; otherwise the
// value is moved into a fresh slot on a clone of src's handle.
func (b *Box[T]) MoveFrom(src *Box[T]) {
	if b == src {
		return
	}
	src.lazy()
	b.Reset()

	b.cfg, b.helper = src.cfg, src.helper
	if src.cfg.Allocator.Relocatable() || src.p == nil {
		b.cfg.Allocator = alloc.Transfer(&src.cfg.Allocator)
		b.p, src.p = src.p, nil
		return
	}

	b.cfg.Allocator = src.cfg.Allocator.Clone()
	if err := b.acquire(); err != nil {
		check.Fatal(check.AllocatorSafety, "box.move-from", err)
	}
	bulk.MoveOne(b.p, src.p)
	src.release()
}

// Clone returns a box holding a copy of the value on a clone of b's handle.
func (b *Box[T]) Clone() *Box[T] {
	b.lazy()
	c := &Box[T]{cfg: b.cfg, helper: b.helper}
	c.cfg.Allocator = b.cfg.Allocator.Clone()
	if b.p == nil {
		return c
	}
	if err := c.acquire(); err != nil {
		check.Fatal(check.AllocatorSafety, "box.clone", err)
	}
	*c.p = bulk.CopyOne(b.p)
	return c
}

func (b *Box[T]) String() string {
	if b.p == nil {
		return "Box{}"
	}
	return fmt.Sprintf("Box{%v}", *b.p)
}
