package growth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/collgo"
)

func TestPolicies(t *testing.T) {
	tests := []struct {
		name string
		g    Func
		in   int
		want int
	}{
		{"natural", Natural, 2, 3},
		{"natural", Natural, 10, 15},
		{"double", Double, 1, 2},
		{"double", Double, 64, 128},
		{"relaxed", Relaxed, 4, 5},
		{"relaxed", Relaxed, 100, 125},
		{"balanced below threshold", Default, 32, 64},
		{"balanced at threshold", Default, 64, 96},
		{"balanced custom", Balanced(8), 8, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g(tt.in))
		})
	}
}

func TestPolicies_Preconditions(t *testing.T) {
	for name, call := range map[string]func(){
		"natural":  func() { Natural(1) },
		"double":   func() { Double(0) },
		"relaxed":  func() { Relaxed(3) },
		"balanced": func() { Default(1) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, collgo.ErrInvalidArgument))
			}()
			call()
		})
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"natural", "double", "relaxed", "balanced", "default"} {
		g, ok := ByName(name)
		require.True(t, ok, name)
		assert.Greater(t, g(8), 8)
	}
	_, ok := ByName("exponential")
	assert.False(t, ok)
}

func TestSequence(t *testing.T) {
	assert.Equal(t, []int{4, 8, 16, 32, 64, 96, 144}, Sequence(Default, 4, 100))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, Sequence(Relaxed, 4, 8))
	assert.Equal(t, []int{10}, Sequence(Double, 10, 10))
}
