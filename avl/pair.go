package avl

// Pair is the element type stored by Map: one key and its mapped value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// MakePair builds a Pair from its two components.
func MakePair[K, V any](key K, value V) Pair[K, V] {
	return Pair[K, V]{Key: key, Value: value}
}

// ComparePairs lifts a key comparator to pairs. Values never participate in
// the ordering.
func ComparePairs[K, V any](cmp func(a, b K) int) func(a, b Pair[K, V]) int {
	return func(a, b Pair[K, V]) int {
		return cmp(a.Key, b.Key)
	}
}
