package bitarray

import (
	"math/bits"
	"unsafe"
)

// Block is the storage word of a bit array.
type Block interface {
	~uint32 | ~uint64
}

func bitsPer[B Block]() int {
	var b B
	return int(unsafe.Sizeof(b)) * 8
}

// blocksFor returns the number of blocks holding n bits.
func blocksFor[B Block](n int) int {
	bpb := bitsPer[B]()
	return (n + bpb - 1) / bpb
}

func locate[B Block](i int) (block int, mask B) {
	bpb := bitsPer[B]()
	return i / bpb, B(1) << (i % bpb)
}

func getBit[B Block](blocks []B, i int) bool {
	b, m := locate[B](i)
	return blocks[b]&m != 0
}

func setBit[B Block](blocks []B, i int, v bool) {
	b, m := locate[B](i)
	if v {
		blocks[b] |= m
	} else {
		blocks[b] &^= m
	}
}

// fill sets the first n bits to v and clears the rest of the last block.
func fill[B Block](blocks []B, n int, v bool) {
	used := blocks[:blocksFor[B](n)]
	if !v {
		clear(used)
		return
	}
	for i := range used {
		used[i] = ^B(0)
	}
	trim(blocks, n)
}

// trim clears the bits of the last used block at or above n.
func trim[B Block](blocks []B, n int) {
	bpb := bitsPer[B]()
	if r := n % bpb; r != 0 {
		blocks[n/bpb] &= B(1)<<r - 1
	}
}

func onesCount[B Block](blocks []B) int {
	c := 0
	for _, b := range blocks {
		c += bits.OnesCount64(uint64(b))
	}
	return c
}

// shiftUp moves bits [i, n) to [i+1, n+1), carrying the high bit of each block
// into the next one. Bit i keeps its old value. blocks must hold n+1 bits.
func shiftUp[B Block](blocks []B, i, n int) {
	bpb := bitsPer[B]()
	first, off := i/bpb, i%bpb
	for b := n / bpb; b > first; b-- {
		blocks[b] = blocks[b]<<1 | blocks[b-1]>>(bpb-1)
	}
	low := B(1)<<off - 1
	x := blocks[first]
	blocks[first] = x&low | (x&^low)<<1 | x&(B(1)<<off)
}

// shiftDown moves bits [i+1, n) to [i, n-1), carrying the low bit of each
// higher block into the previous one. Bit n-1 is cleared.
func shiftDown[B Block](blocks []B, i, n int) {
	bpb := bitsPer[B]()
	first, off := i/bpb, i%bpb
	last := (n - 1) / bpb
	low := B(1)<<off - 1
	x := blocks[first]
	blocks[first] = x&low | (x>>1)&^low
	for b := first; b < last; b++ {
		blocks[b] |= (blocks[b+1] & 1) << (bpb - 1)
		blocks[b+1] >>= 1
	}
}
