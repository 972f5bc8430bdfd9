package bitarray

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/container"
)

// ToRoaring returns a compressed bitmap holding the positions of the set bits.
func (a *BitArray[B]) ToRoaring() *roaring.Bitmap {
	return toRoaring(a.blocks, a.n)
}

// ToRoaring returns a compressed bitmap holding the positions of the set bits.
func (s *Static[B]) ToRoaring() *roaring.Bitmap {
	return toRoaring(s.blocks, s.n)
}

func toRoaring[B Block](blocks []B, n int) *roaring.Bitmap {
	bm := roaring.New()
	set := make([]uint32, 0, 64)
	for i := 0; i < n; i++ {
		if getBit(blocks, i) {
			set = append(set, uint32(i))
		}
	}
	bm.AddMany(set)
	return bm
}

// FromRoaring returns a bit array of at least n bits with the positions in bm
// set. The length grows to cover the largest position in bm.
func FromRoaring[B Block](bm *roaring.Bitmap, n int, opts ...container.Option) *BitArray[B] {
	if !bm.IsEmpty() {
		n = max(n, int(bm.Maximum())+1)
	}
	a := New[B](opts...)
	a.grow(n)
	it := bm.Iterator()
	for it.HasNext() {
		setBit(a.blocks, int(it.Next()), true)
	}
	return a
}

// ToBitSet returns an uncompressed bitset of Len bits.
func (a *BitArray[B]) ToBitSet() *bitset.BitSet {
	bs := bitset.New(uint(a.n))
	for i := 0; i < a.n; i++ {
		if getBit(a.blocks, i) {
			bs.Set(uint(i))
		}
	}
	return bs
}

// FromBitSet returns a bit array of bs.Len() bits.
func FromBitSet[B Block](bs *bitset.BitSet, opts ...container.Option) *BitArray[B] {
	a := New[B](opts...)
	a.grow(int(bs.Len()))
	for i, ok := bs.NextSet(0); ok && i < bs.Len(); i, ok = bs.NextSet(i + 1) {
		setBit(a.blocks, int(i), true)
	}
	return a
}

// grow sets the length of an empty bit array to n cleared bits.
func (a *BitArray[B]) grow(n int) {
	a.Reserve(n)
	clear(a.blocks[:blocksFor[B](n)])
	a.n = n
}

// WriteTo writes the bit count followed by the bits as little-endian 64-bit
// words. The encoding does not depend on B.
func (a *BitArray[B]) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, uint64(a.n)); err != nil {
		return 0, err
	}
	n := int64(8)

	per := 64 / bitsPer[B]()
	used := a.Blocks()
	buf := make([]byte, 8)
	for i := 0; i < len(used); i += per {
		var word uint64
		for k := 0; k < per && i+k < len(used); k++ {
			word |= uint64(used[i+k]) << (k * bitsPer[B]())
		}
		binary.LittleEndian.PutUint64(buf, word)
		if _, err := w.Write(buf); err != nil {
			return n, err
		}
		n += 8
	}
	return n, nil
}

// ReadFrom replaces the contents of a with bits written by WriteTo.
func (a *BitArray[B]) ReadFrom(r io.Reader) (int64, error) {
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return 0, err
	}
	if size > math.MaxInt32 {
		return 8, fmt.Errorf("bitarray: bit count %d: %w", size, collgo.ErrCorrupt)
	}
	bits := int(size)
	if err := a.TryReserve(bits); err != nil {
		return 8, err
	}
	a.Clear()

	n := int64(8)
	per := 64 / bitsPer[B]()
	nb := blocksFor[B](bits)
	buf := make([]byte, 8)
	for i := 0; i < nb; i += per {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			clear(a.blocks[:nb])
			return n, err
		}
		n += 8
		word := binary.LittleEndian.Uint64(buf)
		for k := 0; k < per && i+k < nb; k++ {
			a.blocks[i+k] = B(word >> (k * bitsPer[B]()))
		}
	}
	a.n = bits
	trim(a.blocks, a.n)
	return n, nil
}
