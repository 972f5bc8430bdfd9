package alloc

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Arenas are single-owner; independent arenas may be used from independent goroutines.
func TestArena_IndependentArenasPerGoroutine(t *testing.T) {
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			a := NewArena(1 << 12)
			for round := 0; round < 16; round++ {
				h := a.Handle()
				if h.Acquire(256, LayoutOf[uint64]()) == 0 {
					return errExhausted
				}
				s := unsafe.Slice((*uint64)(h.Data()), 32)
				for i := range s {
					s[i] = uint64(w*1000 + i)
				}
				for i := range s {
					if s[i] != uint64(w*1000+i) {
						return errCorrupted
					}
				}
				h.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

var (
	errExhausted = errors.New("arena exhausted")
	errCorrupted = errors.New("arena contents corrupted")
)
