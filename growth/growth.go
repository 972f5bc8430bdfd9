// Package growth provides capacity growth policies.
//
// A policy is a pure function from the current capacity to the next capacity
// hint. The capacity helper rounds the hint to what the allocator grants.
package growth

import (
	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Func returns the next capacity hint for capacity n.
type Func func(n int) int

// DefaultThreshold is the switch-over point of Default.
const DefaultThreshold = 64

// Natural grows by half: n + n/2. Requires n >= 2.
func Natural(n int) int {
	check.That(check.CollectionIntegrity, n >= 2, "growth.natural", collgo.ErrInvalidArgument)
	return n + n/2
}

// Double grows by doubling. Requires n >= 1.
func Double(n int) int {
	check.That(check.CollectionIntegrity, n >= 1, "growth.double", collgo.ErrInvalidArgument)
	return n << 1
}

// Relaxed grows by a quarter: n + n/4. Requires n >= 4.
func Relaxed(n int) int {
	check.That(check.CollectionIntegrity, n >= 4, "growth.relaxed", collgo.ErrInvalidArgument)
	return n + n/4
}

// Balanced doubles below threshold and grows by half from there on. Requires n >= 2.
func Balanced(threshold int) Func {
	return func(n int) int {
		check.That(check.CollectionIntegrity, n >= 2, "growth.balanced", collgo.ErrInvalidArgument)
		if n < threshold {
			return n << 1
		}
		return n + n/2
	}
}

// Default is Balanced(DefaultThreshold).
var Default = Balanced(DefaultThreshold)

// ByName resolves a policy name as used on the command line.
func ByName(name string) (Func, bool) {
	switch name {
	case "natural":
		return Natural, true
	case "double":
		return Double, true
	case "relaxed":
		return Relaxed, true
	case "balanced", "default", "":
		return Default, true
	}
	return nil, false
}

// Sequence returns the capacities visited when growing from start until the
// capacity reaches limit. Growth stalls are treated as a single-step increment.
func Sequence(g Func, start, limit int) []int {
	seq := []int{start}
	for n := start; n < limit; {
		next := g(n)
		if next <= n {
			next = n + 1
		}
		n = next
		seq = append(seq, n)
	}
	return seq
}
