package bitarray

import (
	"iter"
	"unsafe"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/check"
)

// Static is a bit array whose bit count is fixed at construction. Its blocks
// live in a fixed allocation and never move.
type Static[B Block] struct {
	storage *alloc.Fixed
	blocks  []B
	n       int
}

// NewStatic returns a Static of n cleared bits.
func NewStatic[B Block](n int) *Static[B] {
	check.That(check.SafeAccess, n >= 0, "bitarray.new-static", collgo.ErrOutOfRange)
	l := alloc.LayoutOf[B]()
	nb := max(blocksFor[B](n), 1)
	f := alloc.NewFixed(nb*l.ElemSize(), int(l.Align))
	if f.Acquire(f.Size(), l) == 0 {
		check.Fatal(check.AllocatorSafety, "bitarray.new-static", collgo.ErrAllocationFailed)
	}
	blocks := unsafe.Slice((*B)(f.Data()), nb)
	clear(blocks)
	return &Static[B]{storage: f, blocks: blocks, n: n}
}

// Len returns the fixed number of bits.
func (s *Static[B]) Len() int { return s.n }

// BlockCap returns the number of blocks.
func (s *Static[B]) BlockCap() int { return len(s.blocks) }

// Get returns bit i.
func (s *Static[B]) Get(i int) bool {
	check.Index(i, s.n, "bitarray.static.get")
	return getBit(s.blocks, i)
}

// Set assigns bit i.
func (s *Static[B]) Set(i int, v bool) {
	check.Index(i, s.n, "bitarray.static.set")
	setBit(s.blocks, i, v)
}

// At returns a mutable reference to bit i.
func (s *Static[B]) At(i int) Ref[B] {
	check.Index(i, s.n, "bitarray.static.at")
	return refTo(s.blocks, i)
}

// SetAll assigns v to every bit.
func (s *Static[B]) SetAll(v bool) {
	if s.n > 0 {
		fill(s.blocks, s.n, v)
	}
}

// Count returns the number of set bits.
func (s *Static[B]) Count() int { return onesCount(s.blocks) }

// Pull returns a puller over the bits.
func (s *Static[B]) Pull() *Cursor[B] { return newCursor(s.blocks, s.n) }

// All iterates over position-bit pairs.
func (s *Static[B]) All() iter.Seq2[int, bool] {
	return func(yield func(int, bool) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, getBit(s.blocks, i)) {
				return
			}
		}
	}
}

func (s *Static[B]) String() string { return render(s.blocks, s.n) }
