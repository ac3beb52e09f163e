package ast

import (
	"fmt"

	"fortio.org/safecast"
)

const chunkBits = 10

// Arena hands out 1-based uint32 handles; 0 is the nil handle. Storage is
// split into fixed chunks, so a pointer returned by Get stays valid while
// the parser keeps allocating nodes during a rewrite.
type Arena[T any] struct {
	chunks [][]T
	n      int
}

// NewArena preallocates room for capHint elements.
func NewArena[T any](capHint uint) *Arena[T] {
	a := &Arena[T]{}
	for c := uint(0); c<<chunkBits < capHint; c++ {
		a.chunks = append(a.chunks, make([]T, 0, 1<<chunkBits))
	}
	return a
}

func (a *Arena[T]) Allocate(value T) uint32 {
	c := a.n >> chunkBits
	if c == len(a.chunks) {
		a.chunks = append(a.chunks, make([]T, 0, 1<<chunkBits))
	}
	a.chunks[c] = append(a.chunks[c], value)
	a.n++
	return a.Len()
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > a.n {
		return nil
	}
	i := int(index - 1)
	return &a.chunks[i>>chunkBits][i&(1<<chunkBits-1)]
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](a.n)
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return n
}
