// Package testutil provides testing utilities for collgo.
//
// This package is intended for use in tests and benchmarks only.
//
// # Random Data
//
//	rng := testutil.NewRNG(seed)
//	keys := rng.Ints(1000, 1<<20)
//
// # Lifecycle Tracking
//
// Tracked is an element type that counts its constructions and destructions
// through the bulk hooks. Track checks at the end of a test that every
// constructed element was destroyed exactly once:
//
//	lc := testutil.Track(t)
//	a.Add(testutil.NewTracked(1))
//	require.Equal(t, 1, lc.Live())
package testutil
