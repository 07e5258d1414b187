// Package vector implements a growable dynamic array with amortized O(1)
// append. It is the sequence collaborator used by the ordered map for bulk
// erase and the backing store of the stack adapter.
package vector

import (
	"iter"
	"slices"
)

// Vector is a slice-backed dynamic array with value copy semantics: PushBack
// stores a copy, At returns a copy.
type Vector[T any] struct {
	items []T
}

// New returns an empty vector.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// NewWithCapacity returns an empty vector with room for n elements before
// the first reallocation.
func NewWithCapacity[T any](n int) *Vector[T] {
	return &Vector[T]{items: make([]T, 0, n)}
}

// Of returns a vector holding copies of the given elements.
func Of[T any](elems ...T) *Vector[T] {
	v := NewWithCapacity[T](len(elems))
	v.items = append(v.items, elems...)
	return v
}

// PushBack appends a copy of x, reallocating with doubling growth when the
// backing buffer is full.
func (v *Vector[T]) PushBack(x T) {
	v.items = append(v.items, x)
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, bool) {
	if len(v.items) == 0 {
		var zero T
		return zero, false
	}
	x := v.items[len(v.items)-1]
	var zero T
	v.items[len(v.items)-1] = zero
	v.items = v.items[:len(v.items)-1]
	return x, true
}

// At returns the element at index i. Panics when i is out of range, like a
// slice access.
func (v *Vector[T]) At(i int) T {
	return v.items[i]
}

// Set overwrites the element at index i. Panics when i is out of range.
func (v *Vector[T]) Set(i int, x T) {
	v.items[i] = x
}

// Front returns the first element.
func (v *Vector[T]) Front() (T, bool) {
	if len(v.items) == 0 {
		var zero T
		return zero, false
	}
	return v.items[0], true
}

// Back returns the last element.
func (v *Vector[T]) Back() (T, bool) {
	if len(v.items) == 0 {
		var zero T
		return zero, false
	}
	return v.items[len(v.items)-1], true
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.items) }

// Cap returns the current buffer capacity.
func (v *Vector[T]) Cap() int { return cap(v.items) }

// IsEmpty reports whether the vector holds no elements.
func (v *Vector[T]) IsEmpty() bool { return len(v.items) == 0 }

// Reserve grows the buffer so at least n more elements fit without
// reallocation.
func (v *Vector[T]) Reserve(n int) {
	v.items = slices.Grow(v.items, n)
}

// Clip drops unused capacity.
func (v *Vector[T]) Clip() {
	v.items = slices.Clip(v.items)
}

// Clear removes every element, keeping the buffer.
func (v *Vector[T]) Clear() {
	clear(v.items)
	v.items = v.items[:0]
}

// All returns an index-order iterator over the elements.
func (v *Vector[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.items {
			if !yield(x) {
				return
			}
		}
	}
}

// Slice returns a copy of the contents as a plain slice.
func (v *Vector[T]) Slice() []T {
	return slices.Clone(v.items)
}
