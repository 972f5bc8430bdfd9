// Package mmap provides anonymous memory mappings for off-heap storage.
//
// # Overview
//
// Anonymous mappings live outside the Go heap. The garbage collector neither
// scans nor moves them, which makes them a good backing store for pointer-free
// container elements and arenas that should not add GC pressure.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes()
//	m.Advise(mmap.AccessSequential)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advise is a no-op)
//
// Bytes returned by a mapping must never hold Go pointers.
package mmap
