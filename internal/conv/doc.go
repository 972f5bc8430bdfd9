// Package conv provides checked integer arithmetic for capacity computations.
//
// These functions perform bounds checking to prevent overflow when converting
// element counts to byte counts and when rounding capacities to powers of two.
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
