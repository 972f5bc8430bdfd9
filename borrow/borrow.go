// Package borrow provides an advisory read/write reference counter.
//
// A Counter never blocks. It only records outstanding references and traps under
// check.IteratorSafety when a write overlaps a read or another write. It is not
// safe for concurrent use.
package borrow

import (
	"github.com/hupe1980/collgo"
	"github.com/hupe1980/collgo/check"
)

// Counter records outstanding reads and writes on one referent.
type Counter struct {
	readers int
	writing bool
}

// BeginRead records a read. No write may be outstanding.
func (c *Counter) BeginRead() {
	check.That(check.IteratorSafety, !c.writing, "borrow.begin-read", collgo.ErrBorrowConflict)
	c.readers++
}

// EndRead releases a read recorded by BeginRead.
func (c *Counter) EndRead() {
	check.That(check.IteratorSafety, c.readers > 0, "borrow.end-read", collgo.ErrInvalidState)
	if c.readers > 0 {
		c.readers--
	}
}

// BeginWrite records the single write. No read or write may be outstanding.
func (c *Counter) BeginWrite() {
	check.That(check.IteratorSafety, !c.writing && c.readers == 0, "borrow.begin-write", collgo.ErrBorrowConflict)
	c.writing = true
}

// EndWrite releases the write recorded by BeginWrite.
func (c *Counter) EndWrite() {
	check.That(check.IteratorSafety, c.writing, "borrow.end-write", collgo.ErrInvalidState)
	c.writing = false
}

// Readers returns the number of outstanding reads.
func (c *Counter) Readers() int { return c.readers }

// Writing reports whether a write is outstanding.
func (c *Counter) Writing() bool { return c.writing }

// Mutate asserts that the referent can be modified right now, i.e. that no
// read is outstanding. It records nothing.
func (c *Counter) Mutate(op string) {
	check.That(check.IteratorSafety, c.readers == 0 && !c.writing, op, collgo.ErrBorrowConflict)
}
