package avl

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/amzilayoub/ft-container-v2/vector"
)

// Map is an ordered associative container: a thin facade over Tree that
// keeps an explicit element count and hands out Iterators instead of raw
// nodes. Keys are unique under the comparator.
//
// The defining contract versus Tree: Map.Insert never changes the value of a
// key that is already present. Only Set, GetOrInsert-with-assignment, or
// remove-and-insert do.
type Map[K, V any] struct {
	tree *Tree[K, V]
	size int
}

// NewMap returns an empty map ordered by cmp.
func NewMap[K, V any](cmp func(a, b K) int) *Map[K, V] {
	return &Map[K, V]{tree: NewTree[K, V](cmp)}
}

// NewOrderedMap returns an empty map using the standard ordering of K.
func NewOrderedMap[K cmp.Ordered, V any]() *Map[K, V] {
	return NewMap[K, V](cmp.Compare[K])
}

// NewMapWithAllocator returns an empty map whose tree nodes are managed by
// alloc.
func NewMapWithAllocator[K, V any](cmp func(a, b K) int, alloc NodeAllocator[K, V]) *Map[K, V] {
	return &Map[K, V]{tree: NewTreeWithAllocator[K, V](cmp, alloc)}
}

// FromSeq builds a map from a key/value sequence. Later occurrences of an
// equivalent key overwrite earlier ones, matching range construction from an
// input stream.
func FromSeq[K, V any](cmp func(a, b K) int, seq iter.Seq2[K, V]) (*Map[K, V], error) {
	m := NewMap[K, V](cmp)
	for k, v := range seq {
		if _, err := m.Set(k, v); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// FromPairs builds a map from a slice of pairs.
func FromPairs[K, V any](cmp func(a, b K) int, pairs []Pair[K, V]) (*Map[K, V], error) {
	m := NewMap[K, V](cmp)
	for _, p := range pairs {
		if _, err := m.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Len returns the number of elements. Kept as an explicit counter so it
// never costs a traversal.
func (m *Map[K, V]) Len() int { return m.size }

// IsEmpty reports whether the map holds no elements.
func (m *Map[K, V]) IsEmpty() bool { return m.size == 0 }

// Height returns the underlying tree's height; 0 when empty.
func (m *Map[K, V]) Height() int8 { return m.tree.Height() }

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	return m.tree.Get(key)
}

// GetOrDefault returns the value stored under key, or def when absent.
func (m *Map[K, V]) GetOrDefault(key K, def V) V {
	if v, ok := m.tree.Get(key); ok {
		return v
	}
	return def
}

// Set inserts key with value, overwriting the stored value when the key is
// already present. It reports whether an existing key was updated.
func (m *Map[K, V]) Set(key K, value V) (updated bool, err error) {
	updated, err = m.tree.Set(key, value)
	if err != nil {
		return false, err
	}
	if !updated {
		m.size++
	}
	return updated, nil
}

// Insert adds key with value only when no equivalent key exists. It returns
// an iterator to the element with that key (the new one, or the preexisting
// one whose value is left intact) and whether an insertion happened.
func (m *Map[K, V]) Insert(key K, value V) (Iterator[K, V], bool, error) {
	if n := m.tree.search(key); n != nil {
		return Iterator[K, V]{tree: m.tree, node: n}, false, nil
	}
	if _, err := m.tree.Set(key, value); err != nil {
		return m.End(), false, err
	}
	m.size++
	return Iterator[K, V]{tree: m.tree, node: m.tree.search(key)}, true, nil
}

// GetOrInsert returns a pointer to the value stored under key, inserting a
// zero value first when the key is absent. Assigning through the pointer is
// the bracket-operator idiom: m.GetOrInsert(k) then *p = v overwrites, while
// Insert never does.
func (m *Map[K, V]) GetOrInsert(key K) (*V, error) {
	n := m.tree.search(key)
	if n == nil {
		var zero V
		if _, err := m.tree.Set(key, zero); err != nil {
			return nil, err
		}
		m.size++
		n = m.tree.search(key)
	}
	return &n.value, nil
}

// Remove deletes key, returning the value it held and whether it existed.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	value, removed := m.tree.Remove(key)
	if removed {
		m.size--
	}
	return value, removed
}

// Delete erases the element the iterator references. It reports false for
// the end position.
func (m *Map[K, V]) Delete(it Iterator[K, V]) bool {
	if !it.Valid() {
		return false
	}
	_, removed := m.Remove(it.Key())
	return removed
}

// DeleteRange erases every element in [from, to) and returns how many were
// removed. The keys are materialized into a vector first, then erased one by
// one, so the walk never advances through an already-invalidated iterator.
func (m *Map[K, V]) DeleteRange(from, to Iterator[K, V]) int {
	keys := vector.New[K]()
	for it := from; it != to && it.Valid(); it = it.Next() {
		keys.PushBack(it.Key())
	}
	removed := 0
	for key := range keys.All() {
		if _, ok := m.Remove(key); ok {
			removed++
		}
	}
	return removed
}

// Find returns an iterator to the element with an equivalent key, or End.
func (m *Map[K, V]) Find(key K) Iterator[K, V] {
	if n := m.tree.search(key); n != nil {
		return Iterator[K, V]{tree: m.tree, node: n}
	}
	return m.End()
}

// Contains reports whether an equivalent key exists.
func (m *Map[K, V]) Contains(key K) bool {
	return m.tree.search(key) != nil
}

// Count returns 1 when key exists and 0 otherwise; keys are unique.
func (m *Map[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// LowerBound returns an iterator to the first element whose key is not
// ordered before key, or End.
func (m *Map[K, V]) LowerBound(key K) Iterator[K, V] {
	if n := m.tree.lowerBound(key); n != nil {
		return Iterator[K, V]{tree: m.tree, node: n}
	}
	return m.End()
}

// UpperBound returns an iterator to the first element whose key is ordered
// strictly after key, or End.
func (m *Map[K, V]) UpperBound(key K) Iterator[K, V] {
	if n := m.tree.upperBound(key); n != nil {
		return Iterator[K, V]{tree: m.tree, node: n}
	}
	return m.End()
}

// EqualRange returns the [LowerBound, UpperBound) pair for key; a range of
// length zero or one, since keys are unique.
func (m *Map[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	return m.LowerBound(key), m.UpperBound(key)
}

// Begin returns an iterator at the smallest element. For an empty map it
// equals End, so Begin == End holds exactly when the map is empty.
func (m *Map[K, V]) Begin() Iterator[K, V] {
	return Iterator[K, V]{tree: m.tree, node: m.tree.begin()}
}

// End returns the one-past-the-end position. It stays valid and comparable
// across mutations; End().Prev() is the largest element.
func (m *Map[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{tree: m.tree, node: m.tree.sentinel}
}

// Min returns the smallest element.
func (m *Map[K, V]) Min() (Pair[K, V], bool) {
	if m.size == 0 {
		return Pair[K, V]{}, false
	}
	n := m.tree.root.minimum()
	return Pair[K, V]{Key: n.key, Value: n.value}, true
}

// Max returns the largest element.
func (m *Map[K, V]) Max() (Pair[K, V], bool) {
	if m.size == 0 {
		return Pair[K, V]{}, false
	}
	n := m.tree.root.maximum()
	return Pair[K, V]{Key: n.key, Value: n.value}, true
}

// All returns an in-order iterator over the map. Mutating the map during
// iteration is undefined.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := m.Begin(); it.Valid(); it = it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Backward returns a reverse-order iterator over the map.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := m.End().Prev(); it.Valid(); it = it.Prev() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Scan returns an in-order iterator over keys k with lo <= k <= hi. An
// inverted range is empty.
func (m *Map[K, V]) Scan(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m.tree.cmp(lo, hi) > 0 {
			return
		}
		end := m.UpperBound(hi)
		for it := m.LowerBound(lo); it != end && it.Valid(); it = it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys returns every key in order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.size)
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns every value, ordered by key.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, m.size)
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

// Entries returns every element in order.
func (m *Map[K, V]) Entries() []Pair[K, V] {
	entries := make([]Pair[K, V], 0, m.size)
	for k, v := range m.All() {
		entries = append(entries, Pair[K, V]{Key: k, Value: v})
	}
	return entries
}

// Clear removes every element.
func (m *Map[K, V]) Clear() {
	m.tree.Clear()
	m.size = 0
}

// Clone returns a deep copy sharing no nodes with m.
func (m *Map[K, V]) Clone() (*Map[K, V], error) {
	tree, err := m.tree.Clone()
	if err != nil {
		return nil, err
	}
	return &Map[K, V]{tree: tree, size: m.size}, nil
}

// Swap exchanges contents with o in O(1). Sizes may differ.
func (m *Map[K, V]) Swap(o *Map[K, V]) {
	m.tree.Swap(o.tree)
	m.size, o.size = o.size, m.size
}

// KeyCompare returns the key comparator.
func (m *Map[K, V]) KeyCompare() func(a, b K) int {
	return m.tree.cmp
}

// PairCompare returns an adapter ordering two elements by key only.
func (m *Map[K, V]) PairCompare() func(a, b Pair[K, V]) int {
	cmpKey := m.tree.cmp
	return func(a, b Pair[K, V]) int {
		return cmpKey(a.Key, b.Key)
	}
}

// Equal reports whether m and o hold equal element sequences: same size,
// and pairwise equivalent keys with eqValue-equal values in order.
func (m *Map[K, V]) Equal(o *Map[K, V], eqValue func(a, b V) bool) bool {
	if m.size != o.size {
		return false
	}
	cmpKey := m.tree.cmp
	oi := o.Begin()
	for it := m.Begin(); it.Valid(); it = it.Next() {
		if cmpKey(it.Key(), oi.Key()) != 0 || !eqValue(it.Value(), oi.Value()) {
			return false
		}
		oi = oi.Next()
	}
	return true
}

// Compare orders m against o lexicographically over the in-order element
// sequences, comparing keys first and values (via cmpValue) second.
func (m *Map[K, V]) Compare(o *Map[K, V], cmpValue func(a, b V) int) int {
	cmpKey := m.tree.cmp
	it, oi := m.Begin(), o.Begin()
	for it.Valid() && oi.Valid() {
		if c := cmpKey(it.Key(), oi.Key()); c != 0 {
			return c
		}
		if c := cmpValue(it.Value(), oi.Value()); c != 0 {
			return c
		}
		it, oi = it.Next(), oi.Next()
	}
	switch {
	case it.Valid():
		return 1
	case oi.Valid():
		return -1
	default:
		return 0
	}
}

// Validate checks the underlying tree's structural invariants and the
// size/node-count cross-invariant.
func (m *Map[K, V]) Validate() error {
	if err := m.tree.Validate(); err != nil {
		return err
	}
	count := 0
	for it := m.Begin(); it.Valid(); it = it.Next() {
		count++
	}
	if count != m.size {
		return fmt.Errorf("avl: map size %d does not match node count %d", m.size, count)
	}
	return nil
}
