// Package mem provides aligned byte buffers.
//
// # Aligned Allocation
//
// Fixed inline allocators hand out storage whose start address must satisfy the
// alignment of the element type placed into it. Go only guarantees the alignment
// of the allocation's own type, so buffers are over-allocated and sliced.
package mem
