package array

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/alloc"
	"github.com/hupe1980/collgo/container"
	"github.com/hupe1980/collgo/internal/conv"
	"github.com/hupe1980/collgo/pull"
	"github.com/hupe1980/collgo/testutil"
)

func TestArray_Growth(t *testing.T) {
	var a Array[int]
	assert.False(t, a.IsAllocated())
	assert.Nil(t, a.Data())

	for i := 1; i <= 10; i++ {
		a.Add(i)
		assert.LessOrEqual(t, a.Len(), a.Cap())
	}

	assert.Equal(t, 10, a.Len())
	for i := 0; i < 10; i++ {
		assert.Equal(t, i+1, a.Get(i))
	}
	assert.GreaterOrEqual(t, a.Cap(), 10)
	assert.True(t, conv.IsPow2(a.Cap()))
	assert.Equal(t, 16, a.Cap())
	assert.Equal(t, 6, a.Slack())
}

func TestArray_RemoveAtUnstable(t *testing.T) {
	a := Of(1, 2, 3, 4, 5)
	a.RemoveAt(1)

	assert.Equal(t, []int{1, 5, 3, 4}, a.Values())
	assert.Equal(t, 4, a.Len())
}

func TestArray_InsertRemoveBoundaries(t *testing.T) {
	tests := []struct {
		name string
		op   func(a *Array[int])
		want []int
	}{
		{"insert stable at 0", func(a *Array[int]) { a.InsertAtStable(0, 9) }, []int{9, 1, 2, 3, 4}},
		{"insert stable at count", func(a *Array[int]) { a.InsertAtStable(4, 9) }, []int{1, 2, 3, 4, 9}},
		{"insert stable at count-1", func(a *Array[int]) { a.InsertAtStable(3, 9) }, []int{1, 2, 3, 9, 4}},
		{"insert at 0", func(a *Array[int]) { a.InsertAt(0, 9) }, []int{9, 2, 3, 4, 1}},
		{"insert at count", func(a *Array[int]) { a.InsertAt(4, 9) }, []int{1, 2, 3, 4, 9}},
		{"remove stable at 0", func(a *Array[int]) { a.RemoveAtStable(0) }, []int{2, 3, 4}},
		{"remove stable at count/2", func(a *Array[int]) { a.RemoveAtStable(2) }, []int{1, 2, 4}},
		{"remove stable at count-1", func(a *Array[int]) { a.RemoveAtStable(3) }, []int{1, 2, 3}},
		{"remove at 0", func(a *Array[int]) { a.RemoveAt(0) }, []int{4, 2, 3}},
		{"remove at count-1", func(a *Array[int]) { a.RemoveAt(3) }, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Of(1, 2, 3, 4)
			tt.op(a)
			if diff := cmp.Diff(tt.want, a.Values()); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArray_GrowthAtCapacityBoundary(t *testing.T) {
	a := New[int]()
	a.AddRepetitions(7, 4)
	require.Equal(t, 4, a.Cap())
	require.Zero(t, a.Slack())

	a.InsertAtStable(2, 1)
	assert.Equal(t, []int{7, 7, 1, 7, 7}, a.Values())
	assert.Equal(t, 8, a.Cap())
}

func TestArray_IndexTraps(t *testing.T) {
	a := Of(1, 2)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		var v *collgo.Violation
		require.True(t, errors.As(r.(error), &v))
		assert.ErrorIs(t, v, collgo.ErrOutOfRange)
		assert.Equal(t, "array.at", v.Op)
	}()
	a.At(2)
}

func TestArray_EmptyTraps(t *testing.T) {
	var a Array[int]
	assert.Panics(t, func() { a.TakeBack() })
	assert.Panics(t, func() { a.Back() })
	assert.Panics(t, func() { a.RemoveAt(0) })
	assert.Panics(t, func() { a.InsertAt(1, 0) })
}

func TestArray_ReserveCompact(t *testing.T) {
	a := New[int]()
	a.Reserve(100)
	assert.Equal(t, 128, a.Cap())

	a.Reserve(10)
	assert.Equal(t, 128, a.Cap(), "reserve never shrinks")

	a.AddElements(lo.Range(5))
	a.Compact()
	assert.Equal(t, 8, a.Cap())
	assert.Equal(t, lo.Range(5), a.Values())

	data := a.Data()
	a.Compact()
	assert.Equal(t, 8, a.Cap(), "second compact is a no-op")
	assert.Equal(t, data, a.Data())

	a.Clear()
	assert.True(t, a.IsAllocated())
	a.Compact()
	assert.False(t, a.IsAllocated())
}

func TestArray_ResetReplay(t *testing.T) {
	values := testutil.NewRNG(42).Ints(50, 1000)

	a := New[int]()
	a.AddElements(values)
	before := append([]int(nil), a.Values()...)

	a.Reset()
	assert.False(t, a.IsAllocated())
	for _, v := range values {
		a.Add(v)
	}
	assert.Equal(t, before, a.Values())
}

func TestArray_Emplace(t *testing.T) {
	type pair struct{ K, V int }

	a := New[pair]()
	p := a.Emplace(func(p *pair) { p.K, p.V = 1, 2 })
	assert.Equal(t, pair{1, 2}, *p)
	a.Emplace(nil)
	assert.Equal(t, []pair{{1, 2}, {}}, a.Values())
}

func TestArray_Set(t *testing.T) {
	lc := testutil.Track(t)

	a := New[testutil.Tracked]()
	a.Add(testutil.NewTracked(1))
	a.Set(0, testutil.NewTracked(2))
	assert.Equal(t, 2, a.Get(0).V)
	assert.Equal(t, 1, lc.Live())

	a.Reset()
}

func TestArray_Lifecycle(t *testing.T) {
	lc := testutil.Track(t)

	a := New[testutil.Tracked]()
	for i := 0; i < 20; i++ {
		a.Add(testutil.NewTracked(i))
	}
	a.Emplace(nil)
	require.Equal(t, 21, lc.Live())

	a.RemoveAt(3)
	a.RemoveAtStable(0)
	require.Equal(t, 19, lc.Live())

	c := a.Clone()
	require.Equal(t, 38, lc.Live())

	var moved Array[testutil.Tracked]
	moved.MoveFrom(c)
	require.Equal(t, 38, lc.Live())
	assert.Zero(t, c.Len())

	moved.Compact()
	require.Equal(t, 38, lc.Live())

	last := moved.TakeBack()
	last.Destroy()

	moved.Clear()
	require.Equal(t, 19, lc.Live())

	proto := testutil.NewTracked(5)
	a.AddRepetitions(proto, 3)
	require.Equal(t, 19+1+3, lc.Live())

	a.Reset()
	assert.Equal(t, 1, lc.Live(), "the repetition prototype is owned by the caller")
	proto.Destroy()
}

func TestArray_LifecyclePrototype(t *testing.T) {
	lc := testutil.Track(t)

	proto := testutil.NewTracked(5)
	a := New[testutil.Tracked]()
	a.AddRepetitions(proto, 3)
	a.AddElements([]testutil.Tracked{proto})
	assert.Equal(t, 5, lc.Live())

	a.Reset()
	proto.Destroy()
}

func TestArray_Pipeline(t *testing.T) {
	even := func(x int) bool { return x%2 == 0 }
	square := func(x int) int { return x * x }

	got := Collect[int](pull.Select(pull.Where(Of(1, 2, 3, 4, 5, 6).Pull(), even), square))
	assert.Equal(t, []int{4, 16, 36}, got.Values())

	empty := Collect[int](pull.Select(pull.Where(New[int]().Pull(), even), square))
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.IsAllocated())
}

func TestArray_SpanRoundTrip(t *testing.T) {
	a := Of(3, 1, 4, 1, 5, 9, 2, 6)
	b := Collect[int](a.AsSpan().Pull())

	assert.Equal(t, a.Values(), b.Values())
	assert.Equal(t, 8, b.Cap(), "exact hint reserves once")
}

func TestArray_CollectUnboundedHint(t *testing.T) {
	n := 0
	p := pull.FromFunc(func() (int, bool) {
		n++
		return n, n <= 6
	})
	a := Collect[int](p)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, a.Values())
}

func TestArray_FixedAllocator(t *testing.T) {
	a := New[uint64](container.WithAllocator(alloc.NewFixed(64, 8)))
	for i := 0; i < 8; i++ {
		a.Add(uint64(i))
	}
	assert.Equal(t, 8, a.Cap())

	_, err := a.TryAdd(8)
	require.ErrorIs(t, err, collgo.ErrAllocationFailed)
	assert.Equal(t, 8, a.Len(), "failed growth leaves the array unchanged")
	assert.Equal(t, uint64(7), a.Get(7))

	assert.Panics(t, func() { a.Add(8) })
}

func TestArray_FixedMoveRelocatesElements(t *testing.T) {
	src := New[uint32](container.WithAllocator(alloc.NewFixed(32, 4)))
	src.AddElements([]uint32{1, 2, 3})
	srcData := src.Data()

	var dst Array[uint32]
	dst.MoveFrom(src)

	assert.Equal(t, []uint32{1, 2, 3}, dst.Values())
	assert.NotEqual(t, srcData, dst.Data(), "fixed storage never changes owner")
	assert.Zero(t, src.Len())
	assert.False(t, src.IsAllocated())
	assert.IsType(t, &alloc.Fixed{}, dst.Allocator())
}

func TestArray_HeapMoveTransfersStorage(t *testing.T) {
	src := Of("a", "b")
	data := src.Data()

	dst := Of("x")
	dst.MoveFrom(src)

	assert.Equal(t, []string{"a", "b"}, dst.Values())
	assert.Equal(t, data, dst.Data())
	assert.Zero(t, src.Cap())

	src.Add("c")
	assert.Equal(t, []string{"c"}, src.Values(), "the moved-from array stays usable")
}

func TestArray_PolymorphicSpillsToHeap(t *testing.T) {
	a := New[uint64](container.WithAllocator(alloc.NewPolymorphic(alloc.NewFixed(32, 8), alloc.NewHeap())))
	a.AddElements([]uint64{1, 2, 3, 4})
	p := a.Allocator().(*alloc.Polymorphic)
	assert.Equal(t, alloc.SidePrimary, p.Active())

	a.Add(5)
	p = a.Allocator().(*alloc.Polymorphic)
	assert.Equal(t, alloc.SideFallback, p.Active())
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, a.Values())

	pointers := New[string](container.WithAllocator(alloc.NewPolymorphic(alloc.NewFixed(64, 8), alloc.NewHeap())))
	pointers.Add("gc-visible")
	assert.Equal(t, alloc.SideFallback, pointers.Allocator().(*alloc.Polymorphic).Active())
}

func TestArray_PolymorphicFillsFixedBuffer(t *testing.T) {
	a := New[uint64](container.WithAllocator(alloc.NewPolymorphic(alloc.NewFixed(64, 8), alloc.NewHeap())))
	a.Add(1)
	assert.Equal(t, alloc.SidePrimary, a.Allocator().(*alloc.Polymorphic).Active())
	assert.Equal(t, 8, a.Cap())

	for i := uint64(2); i <= 8; i++ {
		a.Add(i)
	}
	assert.Equal(t, alloc.SidePrimary, a.Allocator().(*alloc.Polymorphic).Active())

	a.Add(9)
	assert.Equal(t, alloc.SideFallback, a.Allocator().(*alloc.Polymorphic).Active())
	assert.Equal(t, 16, a.Cap())
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}, a.Values())
}

func TestArray_BumpExtendsInPlace(t *testing.T) {
	arena := alloc.NewArena(1024)
	a := New[uint64](container.WithAllocator(arena.Handle()))
	a.AddElements([]uint64{1, 2, 3, 4})
	data := a.Data()

	a.Add(5)
	assert.Equal(t, data, a.Data())
	assert.Equal(t, 8, a.Cap())
	assert.Equal(t, 64, arena.Len())
	assert.Equal(t, uint64(1), arena.Stats().Extensions)
}

func TestArray_BumpRefusesPointers(t *testing.T) {
	arena := alloc.NewArena(1024)
	a := New[*int](container.WithAllocator(arena.Handle()))

	_, err := a.TryAdd(new(int))
	require.ErrorIs(t, err, collgo.ErrAllocationFailed)
	assert.False(t, a.IsAllocated())
}

func TestArray_BumpMoveKeepsArenaBytes(t *testing.T) {
	arena := alloc.NewArena(256)
	src := New[int32](container.WithAllocator(arena.Handle()))
	src.AddElements([]int32{1, 2, 3})
	data := src.Data()

	var dst Array[int32]
	dst.MoveFrom(src)
	assert.Equal(t, data, dst.Data())
	assert.Same(t, arena, dst.Allocator().(*alloc.Bump).Arena())
}

func TestArray_LimiterFallsBackToExactRequest(t *testing.T) {
	a := New[byte](container.WithAllocator(alloc.NewLimiter(alloc.NewHeap(), 0, 6)))
	a.AddElements([]byte("abcd"))
	assert.Equal(t, 4, a.Cap())

	a.Add('e')
	assert.Equal(t, 6, a.Cap(), "growth target refused, exact request clamped to max")
	a.Add('f')
	_, err := a.TryAdd('g')
	assert.ErrorIs(t, err, collgo.ErrAllocationFailed)
}

func TestArray_AllBorrows(t *testing.T) {
	a := Of(1, 2, 3)

	var sum int
	for _, v := range a.All() {
		sum += v
	}
	assert.Equal(t, 6, sum)

	assert.Panics(t, func() {
		for range a.All() {
			a.Add(4)
		}
	})
	a.Add(4)
	assert.Equal(t, 4, a.Len(), "the read borrow is released after a panic")
}

func TestArray_Metrics(t *testing.T) {
	m := &collgo.BasicMetricsCollector{}
	a := New[int](container.WithMetrics(m), container.WithAllocator(alloc.NewInstrumented(alloc.NewHeap(), alloc.WithMetrics(m))))
	for i := 0; i < 10; i++ {
		a.Add(i)
	}
	a.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(4), stats.GrowCount, "4 -> 8 -> 16 and the final release")
	assert.Equal(t, int64(3), stats.AcquireCount)
	assert.Zero(t, stats.Live())
}

func TestArray_RandomOpsMatchModel(t *testing.T) {
	rng := testutil.NewRNG(7)
	a := New[int]()
	var model []int

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(6); {
		case op <= 1 || len(model) == 0:
			v := rng.Intn(1000)
			a.Add(v)
			model = append(model, v)
		case op == 2:
			i := rng.Intn(len(model) + 1)
			v := rng.Intn(1000)
			a.InsertAtStable(i, v)
			model = append(model[:i], append([]int{v}, model[i:]...)...)
		case op == 3:
			i := rng.Intn(len(model))
			a.RemoveAtStable(i)
			model = append(model[:i], model[i+1:]...)
		case op == 4:
			i := rng.Intn(len(model))
			a.RemoveAt(i)
			model[i] = model[len(model)-1]
			model = model[:len(model)-1]
		default:
			a.Compact()
		}
		require.LessOrEqual(t, a.Len(), a.Cap())
	}
	assert.Equal(t, model, append([]int{}, a.Values()...))
}

func BenchmarkArray_Add(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var a Array[int]
		for j := 0; j < 1024; j++ {
			a.Add(j)
		}
	}
}
