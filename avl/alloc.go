package avl

import "sync"

// NodeAllocator controls node storage for a Tree. NewNode returns a node
// carrying the given pair; DropNode is called exactly once for every node
// the tree stops owning. Implementations may recycle storage, but must not
// hand out a node that is still reachable from a tree.
type NodeAllocator[K, V any] interface {
	NewNode(key K, value V) (*Node[K, V], error)
	DropNode(n *Node[K, V])
}

// heapAllocator is the default: plain heap allocation, reclaimed by the GC.
type heapAllocator[K, V any] struct{}

func (heapAllocator[K, V]) NewNode(key K, value V) (*Node[K, V], error) {
	return &Node[K, V]{key: key, value: value}, nil
}

func (heapAllocator[K, V]) DropNode(n *Node[K, V]) {
	// break links so a leaked iterator cannot wander back into the tree
	n.left, n.right, n.parent = nil, nil, nil
}

// PoolAllocator recycles dropped nodes through a sync.Pool. Useful for trees
// with high erase/insert churn.
type PoolAllocator[K, V any] struct {
	pool sync.Pool
}

// NewPoolAllocator returns an empty pool allocator.
func NewPoolAllocator[K, V any]() *PoolAllocator[K, V] {
	a := &PoolAllocator[K, V]{}
	a.pool.New = func() any { return new(Node[K, V]) }
	return a
}

func (a *PoolAllocator[K, V]) NewNode(key K, value V) (*Node[K, V], error) {
	n := a.pool.Get().(*Node[K, V])
	n.key, n.value = key, value
	return n, nil
}

func (a *PoolAllocator[K, V]) DropNode(n *Node[K, V]) {
	var zero Node[K, V]
	*n = zero
	a.pool.Put(n)
}
