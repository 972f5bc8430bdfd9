package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	assert.Equal(t, a.Ints(16, 100), b.Ints(16, 100))
	assert.Equal(t, a.Perm(8), b.Perm(8))

	a.Reset()
	b.Reset()
	assert.Equal(t, a.Uint64(), b.Uint64())
	assert.Equal(t, int64(4711), a.Seed())
}

func TestRNG_Ranges(t *testing.T) {
	rng := NewRNG(1)

	for _, v := range rng.Ints(256, 10) {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, rng.Perm(5))
	assert.Len(t, rng.Bools(7), 7)
}

func TestTracked(t *testing.T) {
	lc := Track(t)

	a := NewTracked(1)
	b := a.Clone()
	var c Tracked
	c.Init()

	assert.Equal(t, 3, lc.Constructed())
	assert.Equal(t, 3, lc.Live())

	a.Destroy()
	b.Destroy()
	c.Destroy()

	assert.Equal(t, 3, lc.Destroyed())
	assert.Zero(t, lc.Live())
	assert.False(t, a.Live())
}

func TestTracked_DoubleDestroyPanics(t *testing.T) {
	lc := Track(t)

	a := NewTracked(1)
	a.Destroy()
	assert.Panics(t, a.Destroy)
	assert.Zero(t, lc.Live())
}
