// Package avl implements an ordered key/value map backed by a self-balancing
// (AVL) binary search tree with parent back-links, so in-order iteration
// needs no auxiliary stack. Tree is the raw balanced tree; Map is the
// associative-container facade most callers want.
package avl

import (
	"cmp"
	"fmt"
)

// Tree is an AVL tree keyed by an arbitrary comparator. It owns every node
// reachable from its root, plus a sentinel node that stays allocated for the
// tree's whole lifetime. The sentinel's left child always tracks the root,
// which gives iterators a real, stable one-past-the-end position.
//
// Unlike Map, Tree.Set overwrites the value of an existing key.
type Tree[K, V any] struct {
	root     *Node[K, V]
	sentinel *Node[K, V]
	cmp      func(a, b K) int
	alloc    NodeAllocator[K, V]
}

// NewTree returns an empty tree ordered by cmp. cmp must define a strict
// weak order: negative for a<b, zero for equivalent keys, positive for a>b.
func NewTree[K, V any](cmp func(a, b K) int) *Tree[K, V] {
	return NewTreeWithAllocator[K, V](cmp, heapAllocator[K, V]{})
}

// NewOrderedTree returns an empty tree using the standard ordering of K.
func NewOrderedTree[K cmp.Ordered, V any]() *Tree[K, V] {
	return NewTree[K, V](cmp.Compare[K])
}

// NewTreeWithAllocator returns an empty tree whose nodes are managed by
// alloc. The sentinel is not drawn from the allocator; it lives outside the
// key space and outside the allocator's lifecycle.
func NewTreeWithAllocator[K, V any](cmp func(a, b K) int, alloc NodeAllocator[K, V]) *Tree[K, V] {
	return &Tree[K, V]{
		sentinel: &Node[K, V]{},
		cmp:      cmp,
		alloc:    alloc,
	}
}

// linkRoot resyncs the sentinel with the current root. Must be called after
// every structural mutation at the top level.
func (t *Tree[K, V]) linkRoot() {
	t.sentinel.left = t.root
	if t.root != nil {
		t.root.parent = t.sentinel
	}
}

// Set inserts key with value, or overwrites the value in place when an
// equivalent key already exists. It reports whether an existing key was
// updated. A failed node allocation is returned wrapped and leaves the tree
// exactly as it was.
func (t *Tree[K, V]) Set(key K, value V) (updated bool, err error) {
	root, added, err := t.insertRec(t.root, nil, key, value)
	if err != nil {
		return false, err
	}
	t.root = root
	t.linkRoot()
	return !added, nil
}

// insertRec descends to the insertion point, reattaches the mutated child,
// and rebalances on the way back up. It returns the possibly new subtree
// root and whether a node was added. On error the original subtree is
// returned untouched.
func (t *Tree[K, V]) insertRec(n, parent *Node[K, V], key K, value V) (*Node[K, V], bool, error) {
	if n == nil {
		fresh, err := t.alloc.NewNode(key, value)
		if err != nil {
			return nil, false, fmt.Errorf("avl: allocating node: %w", err)
		}
		fresh.parent = parent
		fresh.height = 1
		return fresh, true, nil
	}

	c := t.cmp(key, n.key)
	if c == 0 {
		// equivalent key: overwrite the mapped value, no structural change
		n.value = value
		return n, false, nil
	}

	var (
		child *Node[K, V]
		added bool
		err   error
	)
	if c < 0 {
		child, added, err = t.insertRec(n.left, n, key, value)
		if err != nil {
			return n, false, err
		}
		n.left = child
	} else {
		child, added, err = t.insertRec(n.right, n, key, value)
		if err != nil {
			return n, false, err
		}
		n.right = child
	}
	child.parent = n

	if !added {
		// value update somewhere below: heights are unchanged
		return n, false, nil
	}
	n.updateHeight()
	return t.rebalance(n), true, nil
}

// rebalance restores the AVL invariant at n after one insert or delete below
// it. The four cases are the classic LL/LR/RR/RL rotations.
func (t *Tree[K, V]) rebalance(n *Node[K, V]) *Node[K, V] {
	switch bal := n.balance(); {
	case bal > 1:
		if n.left.balance() >= 0 {
			// left left
			return t.rotateRight(n)
		}
		// left right
		n.left = t.rotateLeft(n.left)
		return t.rotateRight(n)
	case bal < -1:
		if n.right.balance() <= 0 {
			// right right
			return t.rotateLeft(n)
		}
		// right left
		n.right = t.rotateRight(n.right)
		return t.rotateLeft(n)
	default:
		return n
	}
}

// rotateLeft turns (y a (x b c)) into (x (y a b) c). The returned root
// inherits y's old parent pointer; the caller links it into the parent's
// child slot.
func (t *Tree[K, V]) rotateLeft(y *Node[K, V]) *Node[K, V] {
	x := y.right
	b := x.left

	x.left = y
	y.right = b
	if b != nil {
		b.parent = y
	}
	x.parent = y.parent
	y.parent = x

	y.updateHeight()
	x.updateHeight()
	return x
}

// rotateRight turns (y (x a b) c) into (x a (y b c)).
func (t *Tree[K, V]) rotateRight(y *Node[K, V]) *Node[K, V] {
	x := y.left
	b := x.right

	x.right = y
	y.left = b
	if b != nil {
		b.parent = y
	}
	x.parent = y.parent
	y.parent = x

	y.updateHeight()
	x.updateHeight()
	return x
}

// Get returns the value stored under key.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	if n := t.search(key); n != nil {
		return n.value, true
	}
	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held. A missing key is not an
// error; it reports false.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	n := t.search(key)
	if n == nil {
		var zero V
		return zero, false
	}
	value := n.value
	t.root, _ = t.removeRec(t.root, key)
	t.linkRoot()
	return value, true
}

// removeRec deletes key from the subtree rooted at n, rebalancing on the way
// back up. A node with two children is not relocated: the in-order
// successor's pair is copied into it and the successor is deleted from the
// right subtree instead. This keeps every surviving node at its original
// address, at the cost that an iterator parked on the deleted key's node now
// observes the successor's pair.
func (t *Tree[K, V]) removeRec(n *Node[K, V], key K) (*Node[K, V], bool) {
	if n == nil {
		return nil, false
	}

	c := t.cmp(key, n.key)
	switch {
	case c < 0:
		child, removed := t.removeRec(n.left, key)
		if !removed {
			return n, false
		}
		n.left = child
		if child != nil {
			child.parent = n
		}
	case c > 0:
		child, removed := t.removeRec(n.right, key)
		if !removed {
			return n, false
		}
		n.right = child
		if child != nil {
			child.parent = n
		}
	default:
		if n.left == nil || n.right == nil {
			// at most one child: splice it into n's place
			child := n.left
			if child == nil {
				child = n.right
			}
			if child != nil {
				child.parent = n.parent
			}
			t.alloc.DropNode(n)
			return child, true
		}
		// two children: copy the successor's pair up, then delete the
		// successor's original node from the right subtree
		succ := n.right.minimum()
		n.key, n.value = succ.key, succ.value
		child, _ := t.removeRec(n.right, succ.key)
		n.right = child
		if child != nil {
			child.parent = n
		}
	}

	n.updateHeight()
	return t.rebalance(n), true
}

// search is a plain BST descent. Returns nil when key is absent.
func (t *Tree[K, V]) search(key K) *Node[K, V] {
	n := t.root
	for n != nil {
		c := t.cmp(key, n.key)
		if c == 0 {
			return n
		}
		if c < 0 {
			n = n.left
		} else {
			n = n.right
		}
	}
	return nil
}

// lowerBound returns the first node whose key is not ordered before key, or
// nil if every key is smaller. The target may lie off the direct search
// path, so the descent tracks the best candidate seen so far.
func (t *Tree[K, V]) lowerBound(key K) *Node[K, V] {
	var candidate *Node[K, V]
	n := t.root
	for n != nil {
		if t.cmp(n.key, key) < 0 {
			n = n.right
		} else {
			candidate = n
			n = n.left
		}
	}
	return candidate
}

// upperBound returns the first node whose key is ordered strictly after key,
// or nil if none is.
func (t *Tree[K, V]) upperBound(key K) *Node[K, V] {
	var candidate *Node[K, V]
	n := t.root
	for n != nil {
		if t.cmp(key, n.key) < 0 {
			candidate = n
			n = n.left
		} else {
			n = n.right
		}
	}
	return candidate
}

// begin returns the minimum node, or the sentinel when the tree is empty, so
// begin == end holds exactly for an empty tree.
func (t *Tree[K, V]) begin() *Node[K, V] {
	if t.root == nil {
		return t.sentinel
	}
	return t.root.minimum()
}

// Height returns the cached height of the whole tree; 0 when empty.
func (t *Tree[K, V]) Height() int8 {
	return subtreeHeight(t.root)
}

// Clear drops every node in post-order and resyncs the sentinel.
func (t *Tree[K, V]) Clear() {
	t.clearRec(t.root)
	t.root = nil
	t.linkRoot()
}

func (t *Tree[K, V]) clearRec(n *Node[K, V]) {
	if n == nil {
		return
	}
	t.clearRec(n.left)
	t.clearRec(n.right)
	t.alloc.DropNode(n)
}

// Clone builds a new tree holding the same pairs. The copy is produced by
// re-inserting every element from a child-link walk of the source, so the
// clone's shape comes from its own rebalancing rather than from a structural
// copy, and the two trees share no nodes.
func (t *Tree[K, V]) Clone() (*Tree[K, V], error) {
	c := NewTreeWithAllocator[K, V](t.cmp, t.alloc)
	if err := cloneRec(c, t.root); err != nil {
		c.Clear()
		return nil, err
	}
	return c, nil
}

func cloneRec[K, V any](dst *Tree[K, V], n *Node[K, V]) error {
	if n == nil {
		return nil
	}
	if _, err := dst.Set(n.key, n.value); err != nil {
		return err
	}
	if err := cloneRec(dst, n.left); err != nil {
		return err
	}
	return cloneRec(dst, n.right)
}

// Swap exchanges the owning handles of two trees in O(1). Iterators keep
// pointing at their nodes, which now belong to the other tree object.
func (t *Tree[K, V]) Swap(o *Tree[K, V]) {
	t.root, o.root = o.root, t.root
	t.sentinel, o.sentinel = o.sentinel, t.sentinel
	t.cmp, o.cmp = o.cmp, t.cmp
	t.alloc, o.alloc = o.alloc, t.alloc
}

// Validate walks the whole tree checking the structural invariants: sentinel
// sync, parent back-links, cached heights, balance factors in {-1, 0, 1},
// and strict key ordering. A non-nil error always indicates a programming
// error in this package, never bad input.
func (t *Tree[K, V]) Validate() error {
	if t.sentinel == nil {
		return fmt.Errorf("avl: sentinel not allocated")
	}
	if t.sentinel.left != t.root {
		return fmt.Errorf("avl: sentinel out of sync with root")
	}
	if t.root != nil && t.root.parent != t.sentinel {
		return fmt.Errorf("avl: root parent does not point at sentinel")
	}
	var prev *Node[K, V]
	_, err := t.validateRec(t.root, &prev)
	return err
}

func (t *Tree[K, V]) validateRec(n *Node[K, V], prev **Node[K, V]) (int8, error) {
	if n == nil {
		return 0, nil
	}
	lh, err := t.validateRec(n.left, prev)
	if err != nil {
		return 0, err
	}
	if n.left != nil && n.left.parent != n {
		return 0, fmt.Errorf("avl: broken parent link at left child of %v", n.key)
	}
	if *prev != nil && t.cmp((*prev).key, n.key) >= 0 {
		return 0, fmt.Errorf("avl: keys out of order: %v before %v", (*prev).key, n.key)
	}
	*prev = n
	rh, err := t.validateRec(n.right, prev)
	if err != nil {
		return 0, err
	}
	if n.right != nil && n.right.parent != n {
		return 0, fmt.Errorf("avl: broken parent link at right child of %v", n.key)
	}
	if want := maxInt8(lh, rh) + 1; n.height != want {
		return 0, fmt.Errorf("avl: stale height at %v: have %d, want %d", n.key, n.height, want)
	}
	if bal := lh - rh; bal < -1 || bal > 1 {
		return 0, fmt.Errorf("avl: balance factor %d at %v", bal, n.key)
	}
	return n.height, nil
}
