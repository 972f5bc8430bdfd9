// Package alloc defines the allocation protocol shared by every collgo container
// and the allocator kinds that implement it.
//
// # Protocol
//
// An Allocator is a handle that owns at most one live allocation. Acquire asks for
// a number of bytes and reports how many were granted (0 on failure, leaving the
// handle null). Release returns the handle to the null state. Clone copies the
// binding of a handle (which arena, which budget, which inner allocator) but never
// its live allocation.
//
// Relocatable reports whether the live bytes stay valid when the handle itself
// changes owner. Containers check it before moving: a relocatable handle is
// transferred as-is, otherwise the destination acquires its own storage and the
// elements are relocated one by one.
//
// # Kinds
//
//   - Heap: typed allocations on the Go heap (the only kind accepting pointerful layouts)
//   - Fixed: one aligned buffer of exactly Size bytes, bound to its handle
//   - Arena / Bump: bump allocation out of a caller-owned arena
//   - Mapped: one anonymous memory mapping per acquisition (off-heap)
//   - Limiter: clamps request sizes of an inner allocator
//   - Polymorphic: primary with fallback
//   - Budgeted: charges granted bytes against a shared Budget
//   - Instrumented: logs and records metrics around an inner allocator
//
// # Garbage Collector Visibility
//
// Storage holding element types with pointers must be scanned by the garbage
// collector. Byte-backed and off-heap kinds refuse layouts with Pointers set by
// granting 0 bytes, which containers treat as an ordinary allocation failure.
//
// Handles are not safe for concurrent use.
package alloc
