package hashmap

import (
	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
	"github.com/hupe1980/collgo/pull"
)

// cursor walks the occupied slots of a map.
type cursor[K comparable, V any] struct {
	m    *Map[K, V]
	i    int
	left int
}

func newCursor[K comparable, V any](m *Map[K, V]) cursor[K, V] {
	c := cursor[K, V]{m: m, left: m.n}
	c.skip()
	return c
}

func (c *cursor[K, V]) skip() {
	for c.i < len(c.m.slots) && c.m.slots[c.i].state != stateOccupied {
		c.i++
	}
}

func (c *cursor[K, V]) Valid() bool { return c.i < len(c.m.slots) }

func (c *cursor[K, V]) slot() *slot[K, V] {
	check.That(check.IteratorSafety, c.i < len(c.m.slots), "hashmap.cursor", collgo.ErrEmpty)
	return &c.m.slots[c.i]
}

func (c *cursor[K, V]) Next() {
	check.That(check.IteratorSafety, c.i < len(c.m.slots), "hashmap.cursor", collgo.ErrEmpty)
	c.i++
	c.left--
	c.skip()
}

func (c *cursor[K, V]) SizeHint() pull.Hint { return pull.Exact(c.left) }

// KeyCursor pulls the keys of a map.
type KeyCursor[K comparable, V any] struct {
	cursor[K, V]
}

// Keys returns a puller over the keys.
func (m *Map[K, V]) Keys() *KeyCursor[K, V] {
	return &KeyCursor[K, V]{newCursor(m)}
}

func (c *KeyCursor[K, V]) Current() K { return c.slot().key }

// ValueCursor pulls the values of a map by reference.
type ValueCursor[K comparable, V any] struct {
	cursor[K, V]
}

// Values returns a puller over the values.
func (m *Map[K, V]) Values() *ValueCursor[K, V] {
	return &ValueCursor[K, V]{newCursor(m)}
}

func (c *ValueCursor[K, V]) Current() V { return c.slot().val }
func (c *ValueCursor[K, V]) Ptr() *V    { return &c.slot().val }

// PairCursor pulls key-value pairs of a map.
type PairCursor[K comparable, V any] struct {
	cursor[K, V]
}

// Pairs returns a puller over the key-value pairs.
func (m *Map[K, V]) Pairs() *PairCursor[K, V] {
	return &PairCursor[K, V]{newCursor(m)}
}

func (c *PairCursor[K, V]) Current() Pair[K, V] {
	s := c.slot()
	return Pair[K, V]{Key: s.key, Value: s.val}
}
