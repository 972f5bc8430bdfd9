package bitarray

import "github.com/hupe1980/collgo/pull"

// Ref is a mutable reference to one bit: a block pointer and a bit mask.
type Ref[B Block] struct {
	block *B
	mask  B
}

func refTo[B Block](blocks []B, i int) Ref[B] {
	b, m := locate[B](i)
	return Ref[B]{block: &blocks[b], mask: m}
}

// Get returns the referenced bit.
func (r Ref[B]) Get() bool { return *r.block&r.mask != 0 }

// Set assigns the referenced bit.
func (r Ref[B]) Set(v bool) {
	if v {
		*r.block |= r.mask
	} else {
		*r.block &^= r.mask
	}
}

// Flip inverts the referenced bit and returns its new value.
func (r Ref[B]) Flip() bool {
	*r.block ^= r.mask
	return r.Get()
}

// Cursor is a puller over bits. Current yields the bit by value and Ref a
// mutable reference to it.
type Cursor[B Block] struct {
	blocks []B
	i, n   int
}

var _ pull.Puller[bool] = (*Cursor[uint64])(nil)

func newCursor[B Block](blocks []B, n int) *Cursor[B] {
	return &Cursor[B]{blocks: blocks, n: n}
}

func (c *Cursor[B]) Valid() bool { return c.i < c.n }

func (c *Cursor[B]) Current() bool { return getBit(c.blocks, c.i) }

// Ref returns a mutable reference to the current bit.
func (c *Cursor[B]) Ref() Ref[B] { return refTo(c.blocks, c.i) }

// Index returns the position of the current bit.
func (c *Cursor[B]) Index() int { return c.i }

func (c *Cursor[B]) Next() { c.i++ }

func (c *Cursor[B]) SizeHint() pull.Hint { return pull.Exact(c.n - c.i) }
