// Package collgo provides allocator-aware containers for performance-sensitive Go code.
//
// collgo is a small container toolkit built around a pluggable allocation protocol.
// Every container (dynamic array, ring buffer, open-addressing hash map, bit array,
// single-slot box) works unchanged on the Go heap, on a fixed inline buffer, on a
// caller-owned bump arena, on off-heap anonymous mappings, or on any composition of
// those (limiter, primary+fallback, budgeted, instrumented).
//
// # Quick Start
//
//	a := array.New[int]()
//	for i := 1; i <= 10; i++ {
//	    a.Add(i)
//	}
//
//	evens := array.Collect(pull.Select(
//	    pull.Where(a.Pull(), func(x int) bool { return x%2 == 0 }),
//	    func(x int) int { return x * x },
//	))
//
// # Allocators
//
// Containers take an allocator prototype and clone it, so one prototype can configure
// many containers:
//
//	arena := alloc.NewArena(1 << 20)
//	a := array.New[uint64](container.WithAllocator(arena.Handle()))
//
// Storage for element types that contain pointers must stay visible to the garbage
// collector. Only the heap allocator accepts such layouts; byte-backed and off-heap
// allocators reject them, and a polymorphic allocator falls back accordingly.
//
// # Error Model
//
// Precondition violations are programmer errors. They trap by panicking with a
// *Violation when the matching gate in package check is enabled. Growth operations
// also come in a Try form that returns an error wrapping ErrAllocationFailed and
// leaves the container untouched.
//
// # Concurrency
//
// Nothing in collgo is safe for concurrent use. Containers are single-owner values;
// callers synchronise externally. Arena contexts are shared by every handle bound to
// them and must outlive those handles.
package collgo
