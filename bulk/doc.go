// Package bulk constructs, moves, copies and destroys runs of elements over
// container storage.
//
// Every Go type relocates by a plain memory copy, so a move is always a copy of
// the element bits. What differs between element types is the lifecycle work
// around it, which a type opts into by implementing hooks on its pointer:
//
//	func (p *T) Init()      // runs after default construction
//	func (p *T) Destroy()   // runs before the slot becomes raw storage
//	func (p *T) Clone() T   // deep copy used by Copy
//
// A type with none of these hooks is trivial and every operation degrades to
// copy or clear. Slots left behind by a move are zeroed when the element type
// holds pointers, so the garbage collector does not see stale references, or
// when SetZeroOnMove(true) is in effect.
package bulk
