package collgo_test

import (
	"fmt"

	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/array"
	"github.com/hupe1980/collgo/bitarray"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/hashmap"
	"github.com/hupe1980/collgo/pull"
	"github.com/hupe1980/collgo/ring"
)

// Example_array demonstrates unordered removal from a dynamic array.
func Example_array() {
	a := array.Of(1, 2, 3, 4, 5)
	a.RemoveAt(1) // The last element fills the gap
	fmt.Println(a.Values(), a.Len())
	// Output: [1 5 3 4] 4
}

// Example_pipeline demonstrates a lazy pull pipeline collected into an array.
func Example_pipeline() {
	a := array.Of(1, 2, 3, 4, 5, 6)
	squares := array.Collect(pull.Select(
		pull.Where(a.Pull(), func(x int) bool { return x%2 == 0 }),
		func(x int) int { return x * x },
	))
	fmt.Println(squares.Values())
	// Output: [4 16 36]
}

// Example_ring demonstrates a ring buffer wrapping around its storage.
func Example_ring() {
	r := ring.New[int](container.WithInitialCapacity(4))
	r.PushBack(1)
	r.PushBack(2)
	r.PushBack(3)
	r.PopFront()
	r.PushBack(4)
	r.PushBack(5)

	fmt.Println(r.Values(), r.IsWrapped())
	// Output: [2 3 4 5] true
}

// Example_hashMap demonstrates insertion, removal and update.
func Example_hashMap() {
	m := hashmap.New[int, string]()
	m.Add(1, "a")
	m.Add(2, "b")
	m.Add(3, "c")
	m.Remove(2)
	m.Add(2, "B")

	fmt.Println(*m.At(2), m.Len())
	// Output: B 3
}

// Example_bitArray demonstrates a stable insertion carrying bits across positions.
func Example_bitArray() {
	b := bitarray.Of[uint32](false, true, true, false, true)
	b.InsertAtStable(2, true)
	fmt.Println(b, b.Len())
	// Output: 011101 6
}

// Example_arena demonstrates arrays growing in place on a bump arena.
func Example_arena() {
	arena := alloc.NewArena(1 << 12)
	a := array.New[uint64](container.WithAllocator(arena.Handle()))
	for i := uint64(0); i < 100; i++ {
		a.Add(i)
	}
	fmt.Println(a.Len(), arena.Stats().Extensions > 0)

	a.Reset()
	arena.Reset()
	fmt.Println(arena.Len())
	// Output:
	// 100 true
	// 0
}
