// Package hashmap provides an open-addressing hash map with power-of-two
// capacity, tombstoned deletion and pluggable probing.
package hashmap

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
	"github.com/hupe1980/collgo/internal/conv"
)

// Slot states.
const (
	stateEmpty uint8 = iota
	stateOccupied
	stateDeleted
)

type slot[K comparable, V any] struct {
	state uint8
	key   K
	val   V
}

// Pair is a key-value pair yielded by Pairs.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Map is an open-addressing hash map.
//
// Capacity is 0 or a power of two. Every slot is Empty, Occupied or Deleted;
// Len counts Occupied slots and CellCount counts Occupied and Deleted ones.
// Iteration order is unspecified and may change after any mutation.
//
// The zero value is an empty map on the heap allocator with default hashing.
type Map[K comparable, V any] struct {
	cfg     container.Config
	helper  capacity.Helper
	hash    Hasher[K]
	probe   Probe
	slots   []slot[K, V]
	n       int
	cells   int
	deleted int
	refs    borrow.Counter
}

// New returns an empty map with the default hasher.
func New[K comparable, V any](opts ...container.Option) *Map[K, V] {
	return NewWithHasher[K, V](nil, opts...)
}

// NewWithHasher returns an empty map that hashes keys with h.
func NewWithHasher[K comparable, V any](h Hasher[K], opts ...container.Option) *Map[K, V] {
	m := &Map[K, V]{}
	m.configure(h, opts...)
	return m
}

func (m *Map[K, V]) configure(h Hasher[K], opts ...container.Option) {
	m.cfg = container.Apply(container.Config{
		InitialCapacity: container.DefaultHashCapacity,
		Probe:           Linear,
		Name:            "hashmap",
	}, opts...)
	if m.cfg.Probe == nil {
		m.cfg.Probe = Linear
	}
	if h == nil {
		h = HashOf[K]()
	}
	m.hash, m.probe = h, m.cfg.Probe
	m.helper = capacity.New(alloc.LayoutOf[slot[K, V]](), m.cfg.Allocator, m.cfg.InitialCapacity, m.cfg.Growth)
}

func (m *Map[K, V]) lazy() {
	if m.cfg.Allocator == nil {
		m.configure(nil)
	}
}

// Len returns the number of keys.
func (m *Map[K, V]) Len() int { return m.n }

// IsEmpty reports whether the map has no keys.
func (m *Map[K, V]) IsEmpty() bool { return m.n == 0 }

// Cap returns the number of slots.
func (m *Map[K, V]) Cap() int { return len(m.slots) }

// CellCount returns the number of Occupied and Deleted slots.
func (m *Map[K, V]) CellCount() int { return m.cells }

// DeletedCount returns the number of tombstones.
func (m *Map[K, V]) DeletedCount() int { return m.deleted }

// IsAllocated reports whether the map holds a live allocation.
func (m *Map[K, V]) IsAllocated() bool { return len(m.slots) > 0 }

// Allocator returns the handle owning the slots.
func (m *Map[K, V]) Allocator() alloc.Allocator {
	m.lazy()
	return m.cfg.Allocator
}

// slotsFor returns the slot count targeted for n elements: n + n/R + 1.
func (m *Map[K, V]) slotsFor(n int) int {
	return n + n/m.cfg.SlackRatio + 1
}

// Lookup walks the probe sequence of k. found is the index of the slot holding
// k, or -1. free is the first Deleted slot seen, else the Empty slot that ended
// the walk, or -1 when neither exists.
func (m *Map[K, V]) Lookup(k K) (found, free int) {
	if len(m.slots) == 0 {
		return -1, -1
	}
	return m.lookup(m.slots, k, m.hash(k))
}

func (m *Map[K, V]) lookup(slots []slot[K, V], k K, h uint32) (found, free int) {
	mask := len(slots) - 1
	home := int(h) & mask
	free = -1
	for i := 0; i < len(slots); i++ {
		idx := (home + m.probe(i)) & mask
		s := &slots[idx]
		switch s.state {
		case stateEmpty:
			if free < 0 {
				free = idx
			}
			return -1, free
		case stateDeleted:
			if free < 0 {
				free = idx
			}
		default:
			if s.key == k {
				return idx, free
			}
		}
	}
	return -1, free
}

// Contains reports whether k is present.
func (m *Map[K, V]) Contains(k K) bool {
	found, _ := m.Lookup(k)
	return found >= 0
}

// TryGet returns a pointer to the value of k, or nil.
func (m *Map[K, V]) TryGet(k K) *V {
	found, _ := m.Lookup(k)
	if found < 0 {
		return nil
	}
	return &m.slots[found].val
}

// Get returns the value of k and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if p := m.TryGet(k); p != nil {
		return *p, true
	}
	var zero V
	return zero, false
}

// At returns a pointer to the value of k. k must be present.
func (m *Map[K, V]) At(k K) *V {
	p := m.TryGet(k)
	if p == nil {
		check.Fatal(check.SafeAccess, "hashmap.at", collgo.ErrKeyNotFound)
	}
	return p
}

// Add inserts or updates k. It reports true when k was inserted and false when
// an existing value was overwritten.
func (m *Map[K, V]) Add(k K, v V) bool {
	inserted, err := m.TryAdd(k, v)
	if err != nil {
		check.Fatal(check.AllocatorSafety, "hashmap.add", err)
	}
	return inserted
}

// TryAdd is Add that reports allocation failure instead of trapping. On
// failure the map is unchanged.
func (m *Map[K, V]) TryAdd(k K, v V) (bool, error) {
	m.lazy()
	m.refs.Mutate("hashmap.add")
	if err := m.headroom(); err != nil {
		return false, err
	}

	h := m.hash(k)
	for {
		found, free := m.lookup(m.slots, k, h)
		if found >= 0 {
			s := &m.slots[found]
			bulk.DestroyOne(&s.val)
			s.val = v
			bulk.DestroyOne(&k)
			return false, nil
		}
		if free >= 0 {
			s := &m.slots[free]
			if s.state == stateDeleted {
				m.deleted--
			} else {
				m.cells++
			}
			s.state, s.key, s.val = stateOccupied, k, v
			m.n++
			return true, nil
		}
		// Probe saturation: no free slot on k's probe sequence.
		if err := m.rebuild(len(m.slots) * 2); err != nil {
			return false, err
		}
	}
}

// headroom makes room for one more cell.
func (m *Map[K, V]) headroom() error {
	if len(m.slots) == 0 {
		return m.rebuild(max(conv.PrevPow2(m.helper.Init(m.slotsFor(1))), m.slotsFor(1)))
	}
	if m.slotsFor(m.cells+1) <= len(m.slots) {
		return nil
	}
	need := m.slotsFor(m.n + 1)
	if need <= len(m.slots) {
		// Tombstones, not live keys, exhausted the headroom.
		return m.rebuild(len(m.slots))
	}
	return m.rebuild(m.helper.Next(len(m.slots), need))
}

// Remove deletes k and reports whether it was present.
func (m *Map[K, V]) Remove(k K) bool {
	found, _ := m.Lookup(k)
	if found < 0 {
		return false
	}
	m.refs.Mutate("hashmap.remove")
	s := &m.slots[found]
	bulk.DestroyOne(&s.key)
	bulk.DestroyOne(&s.val)
	s.state = stateDeleted
	m.n--
	m.deleted++
	m.reclaim()
	return true
}

// reclaim rebuilds at the current size once tombstones exceed Cap()/R.
func (m *Map[K, V]) reclaim() {
	if m.deleted > len(m.slots)/m.cfg.SlackRatio {
		// Same-size rebuilds only need the old capacity, which is always available
		// to relocatable handles; a failure leaves the tombstones in place.
		_ = m.rebuild(len(m.slots))
	}
}

// Take removes k and moves its value out.
func (m *Map[K, V]) Take(k K) (V, bool) {
	found, _ := m.Lookup(k)
	if found < 0 {
		var zero V
		return zero, false
	}
	m.refs.Mutate("hashmap.take")
	s := &m.slots[found]
	v := bulk.Take(&s.val)
	bulk.DestroyOne(&s.key)
	s.state = stateDeleted
	m.n--
	m.deleted++
	m.reclaim()
	return v, true
}

// ModifyKey lets f rewrite the stored key equal to k in place. The rewritten
// key must hash like k; a changed hash traps and the map is not rehashed.
func (m *Map[K, V]) ModifyKey(k K, f func(*K)) {
	found, _ := m.Lookup(k)
	if found < 0 {
		check.Fatal(check.SafeAccess, "hashmap.modify-key", collgo.ErrKeyNotFound)
	}
	before := m.hash(k)
	s := &m.slots[found]
	f(&s.key)
	check.That(check.SafeModification, m.hash(s.key) == before, "hashmap.modify-key", collgo.ErrHashChanged)
}

// ReserveSlots guarantees Cap() >= nextPow2(n).
func (m *Map[K, V]) ReserveSlots(n int) {
	if err := m.TryReserveSlots(n); err != nil {
		check.Fatal(check.AllocatorSafety, "hashmap.reserve-slots", err)
	}
}

// TryReserveSlots is ReserveSlots that reports allocation failure.
func (m *Map[K, V]) TryReserveSlots(n int) error {
	m.lazy()
	if conv.NextPow2(n) <= len(m.slots) {
		return nil
	}
	m.refs.Mutate("hashmap.reserve-slots")
	return m.rebuild(n)
}

// Compact releases an empty map's slots, and otherwise rebuilds at
// nextPow2(n + n/R + 1) slots when that drops tombstones or capacity.
func (m *Map[K, V]) Compact() {
	if len(m.slots) == 0 {
		return
	}
	m.refs.Mutate("hashmap.compact")
	if m.n == 0 {
		m.release()
		return
	}
	target := conv.NextPow2(m.slotsFor(m.n))
	if target >= len(m.slots) && m.deleted == 0 {
		return
	}
	// A failed shrink keeps the current slots.
	_ = m.rebuild(min(target, len(m.slots)))
}

// Rebuild moves every key into fresh slots of a power-of-two capacity of at
// least minSlots, dropping all tombstones. It traps when the allocator refuses.
func (m *Map[K, V]) Rebuild(minSlots int) {
	m.lazy()
	m.refs.Mutate("hashmap.rebuild")
	if err := m.rebuild(minSlots); err != nil {
		check.Fatal(check.AllocatorSafety, "hashmap.rebuild", err)
	}
}

func (m *Map[K, V]) rebuild(minSlots int) error {
	target := conv.NextPow2(max(minSlots, m.slotsFor(m.n)))
	if target == 0 {
		return fmt.Errorf("hashmap: rebuild %d slots: %w", minSlots, collgo.ErrAllocationFailed)
	}
	for {
		fresh, slots, err := m.acquire(target)
		if err != nil {
			return err
		}
		if m.place(slots) {
			from, tombstones := len(m.slots), m.deleted
			clear(m.slots)
			if alloc.Live(m.cfg.Allocator) {
				m.cfg.Allocator.Release()
			}
			m.cfg.Allocator, m.slots = fresh, slots
			m.cells, m.deleted = m.n, 0
			m.cfg.ObserveRebuild(from, len(slots), tombstones)
			if from != len(slots) {
				m.cfg.ObserveGrow(from, len(slots))
			}
			return nil
		}
		// The probe sequence could not place every key; try a larger table.
		clear(slots)
		fresh.Release()
		if target = conv.NextPow2(target * 2); target == 0 {
			return fmt.Errorf("hashmap: rebuild %d slots: %w", minSlots, collgo.ErrAllocationFailed)
		}
	}
}

// acquire allocates target zeroed slots on a null clone of the handle.
func (m *Map[K, V]) acquire(target int) (alloc.Allocator, []slot[K, V], error) {
	fresh := m.cfg.Allocator.Clone()
	granted := m.helper.AllocatePow2(fresh, target)
	if granted == 0 {
		return nil, nil, fmt.Errorf("hashmap: allocate %d slots: %w", target, collgo.ErrAllocationFailed)
	}
	slots := unsafe.Slice((*slot[K, V])(fresh.Data()), granted)
	clear(slots)
	return fresh, slots, nil
}

// place copies every occupied slot into dst, re-hashing each key. It reports
// false when some key finds no free slot on its probe sequence in dst.
func (m *Map[K, V]) place(dst []slot[K, V]) bool {
	for i := range m.slots {
		s := &m.slots[i]
		if s.state != stateOccupied {
			continue
		}
		_, free := m.lookup(dst, s.key, m.hash(s.key))
		if free < 0 {
			return false
		}
		d := &dst[free]
		d.state = stateOccupied
		d.key, d.val = s.key, s.val
	}
	return true
}

// Clear destroys every pair and keeps the slots.
func (m *Map[K, V]) Clear() {
	m.refs.Mutate("hashmap.clear")
	for i := range m.slots {
		s := &m.slots[i]
		if s.state == stateOccupied {
			bulk.DestroyOne(&s.key)
			bulk.DestroyOne(&s.val)
		}
	}
	clear(m.slots)
	m.n, m.cells, m.deleted = 0, 0, 0
}

// Reset destroys every pair and releases the slots.
func (m *Map[K, V]) Reset() {
	m.Clear()
	m.release()
}

func (m *Map[K, V]) release() {
	if len(m.slots) == 0 {
		return
	}
	from := len(m.slots)
	clear(m.slots)
	m.cfg.Allocator.Release()
	m.slots = nil
	m.n, m.cells, m.deleted = 0, 0, 0
	m.cfg.ObserveGrow(from, 0)
}

// All iterates over the key-value pairs. The map must not be mutated during
// the iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.refs.BeginRead()
		defer m.refs.EndRead()
		for i := range m.slots {
			if s := &m.slots[i]; s.state == stateOccupied {
				if !yield(s.key, s.val) {
					return
				}
			}
		}
	}
}

// MoveFrom replaces the contents of m with those of src and leaves src empty.
// Slots change owner only when src's handle is relocatable; otherwise they are
// copied slot by slot into fresh storage on a clone of src's handle.
func (m *Map[K, V]) MoveFrom(src *Map[K, V]) {
	if m == src {
		return
	}
	src.lazy()
	m.Reset()
	m.refs.Mutate("hashmap.move-from")

	m.cfg, m.helper, m.hash, m.probe = src.cfg, src.helper, src.hash, src.probe
	if src.cfg.Allocator.Relocatable() || len(src.slots) == 0 {
		m.cfg.Allocator = alloc.Transfer(&src.cfg.Allocator)
		m.slots, m.n, m.cells, m.deleted = src.slots, src.n, src.cells, src.deleted
		src.slots, src.n, src.cells, src.deleted = nil, 0, 0, 0
		return
	}

	m.cfg.Allocator = src.cfg.Allocator.Clone()
	fresh, slots, err := m.acquire(len(src.slots))
	if err != nil || len(slots) != len(src.slots) {
		check.Fatal(check.AllocatorSafety, "hashmap.move-from", collgo.ErrAllocationFailed)
	}
	for i := range src.slots {
		slots[i].state = src.slots[i].state
		if src.slots[i].state == stateOccupied {
			bulk.MoveOne(&slots[i], &src.slots[i])
		}
	}
	m.cfg.Allocator, m.slots = fresh, slots
	m.n, m.cells, m.deleted = src.n, src.cells, src.deleted
	src.n, src.cells, src.deleted = 0, 0, 0
	src.release()
}

// Clone returns a copy of m with the same slot layout on a clone of its handle.
func (m *Map[K, V]) Clone() *Map[K, V] {
	m.lazy()
	c := &Map[K, V]{cfg: m.cfg, helper: m.helper, hash: m.hash, probe: m.probe}
	c.cfg.Allocator = m.cfg.Allocator.Clone()
	if len(m.slots) == 0 {
		return c
	}
	fresh, slots, err := c.acquire(len(m.slots))
	if err != nil || len(slots) != len(m.slots) {
		check.Fatal(check.AllocatorSafety, "hashmap.clone", collgo.ErrAllocationFailed)
	}
	for i := range m.slots {
		s := &m.slots[i]
		slots[i].state = s.state
		if s.state == stateOccupied {
			slots[i].key = bulk.CopyOne(&s.key)
			slots[i].val = bulk.CopyOne(&s.val)
		}
	}
	c.cfg.Allocator, c.slots = fresh, slots
	c.n, c.cells, c.deleted = m.n, m.cells, m.deleted
	return c
}

func (m *Map[K, V]) String() string {
	return fmt.Sprintf("Map{len: %d, cap: %d, deleted: %d}", m.n, len(m.slots), m.deleted)
}
