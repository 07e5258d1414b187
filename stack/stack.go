// Package stack provides a LIFO adapter over the vector package.
package stack

import "github.com/amzilayoub/ft-container-v2/vector"

// Stack is a last-in-first-out container. The zero value is not usable; call
// New.
type Stack[T any] struct {
	items *vector.Vector[T]
}

// New returns an empty stack.
func New[T any]() *Stack[T] {
	return &Stack[T]{items: vector.New[T]()}
}

// Push places x on top of the stack.
func (s *Stack[T]) Push(x T) {
	s.items.PushBack(x)
}

// Pop removes and returns the top element. The second return is false when
// the stack is empty.
func (s *Stack[T]) Pop() (T, bool) {
	return s.items.PopBack()
}

// Top returns the top element without removing it.
func (s *Stack[T]) Top() (T, bool) {
	return s.items.Back()
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return s.items.Len() }

// IsEmpty reports whether the stack holds no elements.
func (s *Stack[T]) IsEmpty() bool { return s.items.IsEmpty() }

// Clear removes every element.
func (s *Stack[T]) Clear() { s.items.Clear() }
