package ast

import "fortio.org/safecast"

// Arena stores nodes contiguously and hands out 1-based indexes, so the zero
// index stays free for "absent".
type Arena[T any] struct {
	data []T
}

// NewArena returns an arena with room for capHint elements.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its index. Arenas are bounded by the
// uint32 index space; a tree that large cannot come from a real file.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return a.Len()
}

// Get returns the element at index, nil for 0.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the storage; callers must not append to it.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(err)
	}
	return n
}

// Truncate drops every element allocated after the first n. The parser uses
// it to discard nodes built during a failed speculative parse.
func (a *Arena[T]) Truncate(n uint32) {
	if int(n) < len(a.data) {
		clear(a.data[n:])
		a.data = a.data[:n]
	}
}
