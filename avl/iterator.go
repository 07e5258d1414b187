package avl

// Iterator is a bidirectional cursor over a tree's in-order sequence. It is
// a small comparable value: two iterators are equal (==) exactly when they
// reference the same node, including the one-past-the-end sentinel.
//
// Iterators stay valid across inserts. Erasing a key invalidates iterators
// referencing that key's node; see Tree.removeRec for the two-child caveat.
type Iterator[K, V any] struct {
	tree *Tree[K, V]
	node *Node[K, V]
}

// Valid reports whether the iterator references a live element rather than
// the one-past-the-end sentinel.
func (it Iterator[K, V]) Valid() bool {
	return it.node != nil && it.node != it.tree.sentinel
}

// Key returns the referenced key. Only meaningful when Valid.
func (it Iterator[K, V]) Key() K {
	return it.node.key
}

// Value returns the referenced mapped value. Only meaningful when Valid.
func (it Iterator[K, V]) Value() V {
	return it.node.value
}

// Pair returns the referenced element. Only meaningful when Valid.
func (it Iterator[K, V]) Pair() Pair[K, V] {
	return Pair[K, V]{Key: it.node.key, Value: it.node.value}
}

// ValueRef returns a pointer to the referenced mapped value, for in-place
// mutation. The key is immutable. Only meaningful when Valid.
func (it Iterator[K, V]) ValueRef() *V {
	return &it.node.value
}

// SetValue overwrites the referenced mapped value in place. Only meaningful
// when Valid.
func (it Iterator[K, V]) SetValue(value V) {
	it.node.value = value
}

// Next returns an iterator advanced to the in-order successor. Advancing
// past the maximum element yields the end position; advancing the end
// position is a no-op.
func (it Iterator[K, V]) Next() Iterator[K, V] {
	if !it.Valid() {
		return it
	}
	return Iterator[K, V]{tree: it.tree, node: it.node.next()}
}

// Prev returns an iterator moved to the in-order predecessor. Decrementing
// the end position yields the maximum element, so reverse iteration starts
// from End. Decrementing the first element yields the end position.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	if it.node == nil {
		return it
	}
	return Iterator[K, V]{tree: it.tree, node: it.node.prev()}
}
