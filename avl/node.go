package avl

// Node is one element of the tree's node graph. The tree exclusively owns
// left and right; parent is a non-owning back-reference used only for
// traversal. Fields are managed by Tree and the node allocator.
type Node[K, V any] struct {
	key    K
	value  V
	height int8
	left   *Node[K, V]
	right  *Node[K, V]
	parent *Node[K, V]
}

// Key returns the node's key.
func (n *Node[K, V]) Key() K { return n.key }

// Value returns the node's mapped value.
func (n *Node[K, V]) Value() V { return n.value }

// height of a possibly absent subtree. A nil child contributes 0, so any
// live node has height >= 1.
func subtreeHeight[K, V any](n *Node[K, V]) int8 {
	if n == nil {
		return 0
	}
	return n.height
}

// balance is left height minus right height.
func (n *Node[K, V]) balance() int8 {
	return subtreeHeight(n.left) - subtreeHeight(n.right)
}

func (n *Node[K, V]) updateHeight() {
	n.height = maxInt8(subtreeHeight(n.left), subtreeHeight(n.right)) + 1
}

func maxInt8(a, b int8) int8 {
	if a > b {
		return a
	}
	return b
}

// minimum follows left children to exhaustion.
func (n *Node[K, V]) minimum() *Node[K, V] {
	for n.left != nil {
		n = n.left
	}
	return n
}

// maximum follows right children to exhaustion.
func (n *Node[K, V]) maximum() *Node[K, V] {
	for n.right != nil {
		n = n.right
	}
	return n
}

// next returns the in-order successor. A node with a right child succeeds to
// that subtree's minimum; otherwise we climb parent links until we arrive
// via a left-child edge. The maximum node's successor is the sentinel, since
// the root hangs off the sentinel's left slot.
func (n *Node[K, V]) next() *Node[K, V] {
	if n.right != nil {
		return n.right.minimum()
	}
	for n.parent != nil && n.parent.right == n {
		n = n.parent
	}
	return n.parent
}

// prev is the mirror of next. Decrementing the minimum node lands on the
// sentinel rather than nil, which keeps reverse iteration composable with
// the one-past-the-end position.
func (n *Node[K, V]) prev() *Node[K, V] {
	if n.left != nil {
		return n.left.maximum()
	}
	for n.parent != nil && n.parent.left == n {
		n = n.parent
	}
	if n.parent == nil {
		// climbed off the top: n is the sentinel
		return n
	}
	return n.parent
}
