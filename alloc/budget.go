package alloc

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sync/semaphore"
)

// Budget is a byte budget shared by every Budgeted handle bound to it.
//
// Charging is non-blocking: a request that would exceed the limit fails
// immediately. A Budget is safe for concurrent use; the handles bound to it are not.
type Budget struct {
	limit int64
	sem   *semaphore.Weighted
	used  atomic.Int64
}

// NewBudget creates a budget of limit bytes.
func NewBudget(limit int64) *Budget {
	return &Budget{
		limit: limit,
		sem:   semaphore.NewWeighted(limit),
	}
}

// TryCharge reserves n bytes. It reports false if the budget would be exceeded.
func (b *Budget) TryCharge(n int64) bool {
	if n <= 0 {
		return true
	}
	if !b.sem.TryAcquire(n) {
		return false
	}
	b.used.Add(n)
	return true
}

// Refund returns n previously charged bytes.
func (b *Budget) Refund(n int64) {
	if n <= 0 {
		return
	}
	b.sem.Release(n)
	b.used.Add(-n)
}

// Used returns the number of bytes currently charged.
func (b *Budget) Used() int64 { return b.used.Load() }

// Limit returns the budget size in bytes.
func (b *Budget) Limit() int64 { return b.limit }

// Budgeted charges every granted byte of an inner allocator against a Budget.
type Budgeted struct {
	inner   Allocator
	budget  *Budget
	charged int64
}

// NewBudgeted binds inner to budget.
func NewBudgeted(inner Allocator, budget *Budget) *Budgeted {
	return &Budgeted{inner: inner, budget: budget}
}

func (b *Budgeted) Nullable() bool    { return b.inner.Nullable() }
func (b *Budgeted) MinCapacity() int  { return b.inner.MinCapacity() }
func (b *Budgeted) Relocatable() bool { return b.inner.Relocatable() }

func (b *Budgeted) MaxCapacity() int {
	if b.budget.limit < int64(b.inner.MaxCapacity()) {
		return int(b.budget.limit)
	}
	return b.inner.MaxCapacity()
}

func (b *Budgeted) Acquire(bytes int, l Layout) int {
	g := b.inner.Acquire(bytes, l)
	if g == 0 {
		return 0
	}
	if !b.budget.TryCharge(int64(g)) {
		b.inner.Release()
		return 0
	}
	b.charged = int64(g)
	return g
}

// Extend forwards to the inner allocator and charges the difference.
func (b *Budgeted) Extend(bytes int) int {
	ext, ok := b.inner.(Extender)
	if !ok {
		return 0
	}
	delta := int64(bytes) - b.charged
	if !b.budget.TryCharge(delta) {
		return 0
	}
	g := ext.Extend(bytes)
	if g == 0 {
		b.budget.Refund(delta)
		return 0
	}
	b.charged += delta
	return g
}

func (b *Budgeted) Release() {
	b.inner.Release()
	b.budget.Refund(b.charged)
	b.charged = 0
}

func (b *Budgeted) Data() unsafe.Pointer { return b.inner.Data() }
func (b *Budgeted) Granted() int         { return b.inner.Granted() }
func (b *Budgeted) Clone() Allocator     { return NewBudgeted(b.inner.Clone(), b.budget) }
