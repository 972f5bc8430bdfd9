// Package bitarray provides packed Boolean sequences stored in 32- or 64-bit
// blocks.
//
// Bits [0, Len) live in the low bits of blocks [0, ceil(Len/bitsPerBlock)).
// Bits of a used block at or above Len are always zero, so whole-block
// operations such as Count and WriteTo need no masking.
//
// BitArray grows on a pluggable allocator like the other containers. Static
// has a bit count fixed at construction.
package bitarray
