// Package check implements the assertion gates that trap precondition violations.
//
// Each gate can be enabled independently:
//
//   - AllocatorSafety: handle state transitions (acquire on a live handle, release of a null one)
//   - CollectionIntegrity: internal invariants (growth inputs, rebuild postconditions)
//   - SafeModification: mutations with preconditions (pop from empty, modifying stored keys)
//   - SafeAccess: indexing and peeking
//   - IteratorSafety: borrow tracking while iterating
//
// A violated check panics with a *collgo.Violation wrapping the matching sentinel error.
// All gates are on by default; building with the collgo_unchecked tag turns them off.
package check
