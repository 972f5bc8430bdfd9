package mem

import (
	"unsafe"
)

// CacheLine is the default alignment used when callers do not ask for one.
const CacheLine = 64

// AllocAligned allocates a byte slice of the given size whose first byte is
// aligned to align, which must be a power of two (0 selects CacheLine).
//
// The underlying array is kept alive by the returned slice. The slice must
// never hold Go pointers: the garbage collector does not scan byte arrays.
func AllocAligned(size, align int) []byte {
	if size <= 0 {
		return nil
	}
	if align <= 0 {
		align = CacheLine
	}
	if align&(align-1) != 0 {
		return nil
	}

	// We need enough space to shift the start pointer up to align-1 bytes
	buf := make([]byte, size+align-1)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (uintptr(align) - (addr & uintptr(align-1))) & uintptr(align-1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether p is a multiple of align.
func IsAligned(p unsafe.Pointer, align uintptr) bool {
	if align == 0 {
		return true
	}
	return uintptr(p)&(align-1) == 0
}
