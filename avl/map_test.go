package avl_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amzilayoub/ft-container-v2/avl"
)

func Test_Map_Basic(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	require.True(t, m.IsEmpty())
	require.Equal(t, 0, m.Len())

	for _, p := range []struct{ k, v int }{{1, 10}, {2, 20}, {3, 30}} {
		updated, err := m.Set(p.k, p.v)
		require.NoError(t, err)
		require.False(t, updated)
	}
	require.Equal(t, 3, m.Len())
	require.False(t, m.IsEmpty())

	v, ok := m.Get(2)
	require.True(t, ok)
	require.Equal(t, 20, v)

	_, ok = m.Get(4)
	require.False(t, ok)
	require.Equal(t, -1, m.GetOrDefault(4, -1))
	require.Equal(t, 30, m.GetOrDefault(3, -1))

	require.Equal(t, []avl.Pair[int, int]{
		{Key: 1, Value: 10},
		{Key: 2, Value: 20},
		{Key: 3, Value: 30},
	}, m.Entries())
	require.NoError(t, m.Validate())
}

func Test_Map_InsertNeverOverwrites(t *testing.T) {
	m := avl.NewOrderedMap[string, int]()

	it, inserted, err := m.Insert("a", 1)
	require.NoError(t, err)
	require.True(t, inserted)
	require.Equal(t, 1, it.Value())

	// second insert of the same key leaves the value intact
	it, inserted, err = m.Insert("a", 99)
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, 1, it.Value())
	require.Equal(t, 1, m.Len())

	// Set does overwrite
	updated, err := m.Set("a", 99)
	require.NoError(t, err)
	require.True(t, updated)
	v, _ := m.Get("a")
	require.Equal(t, 99, v)
	require.Equal(t, 1, m.Len())
}

func Test_Map_GetOrInsert(t *testing.T) {
	m := avl.NewOrderedMap[string, int]()

	p, err := m.GetOrInsert("counter")
	require.NoError(t, err)
	require.Equal(t, 0, *p)
	require.Equal(t, 1, m.Len())

	*p = 7
	v, ok := m.Get("counter")
	require.True(t, ok)
	require.Equal(t, 7, v)

	// present key: same slot, no growth
	p, err = m.GetOrInsert("counter")
	require.NoError(t, err)
	require.Equal(t, 7, *p)
	require.Equal(t, 1, m.Len())
}

func Test_Map_RemoveAndDelete(t *testing.T) {
	m := avl.NewOrderedMap[int, string]()
	for k := 1; k <= 5; k++ {
		_, err := m.Set(k, fmt.Sprintf("v%d", k))
		require.NoError(t, err)
	}

	v, ok := m.Remove(3)
	require.True(t, ok)
	require.Equal(t, "v3", v)
	require.Equal(t, 4, m.Len())

	_, ok = m.Remove(3)
	require.False(t, ok)
	require.Equal(t, 4, m.Len())

	require.True(t, m.Delete(m.Find(1)))
	require.False(t, m.Delete(m.End()))
	require.Equal(t, 3, m.Len())
	require.NoError(t, m.Validate())
}

func Test_Map_DeleteRange(t *testing.T) {
	m := avl.NewOrderedMap[string, int]()
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		_, err := m.Set(k, i)
		require.NoError(t, err)
	}

	// erase [b, d]: b, c, d
	removed := m.DeleteRange(m.LowerBound("b"), m.UpperBound("d"))
	require.Equal(t, 3, removed)
	require.Equal(t, []string{"a", "e"}, m.Keys())
	require.NoError(t, m.Validate())

	// full wipe through iterators
	removed = m.DeleteRange(m.Begin(), m.End())
	require.Equal(t, 2, removed)
	require.True(t, m.IsEmpty())
	require.Equal(t, m.Begin(), m.End())
}

func Test_Map_Bounds(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	for _, k := range []int{20, 40, 60, 80, 100} {
		_, err := m.Set(k, k)
		require.NoError(t, err)
	}

	require.Equal(t, 60, m.LowerBound(41).Key())
	require.Equal(t, 20, m.LowerBound(20).Key())
	require.Equal(t, 80, m.UpperBound(60).Key())
	require.Equal(t, m.End(), m.LowerBound(101))
	require.Equal(t, m.End(), m.UpperBound(100))

	lo, hi := m.EqualRange(60)
	require.Equal(t, 60, lo.Key())
	require.Equal(t, 80, hi.Key())
	require.Equal(t, lo.Next(), hi)

	// absent key: empty range positioned at the first larger element
	lo, hi = m.EqualRange(50)
	require.Equal(t, lo, hi)
	require.Equal(t, 60, lo.Key())

	lo, hi = m.EqualRange(500)
	require.Equal(t, m.End(), lo)
	require.Equal(t, m.End(), hi)
}

func Test_Map_FindContainsCount(t *testing.T) {
	m := avl.NewOrderedMap[string, int]()
	_, err := m.Set("x", 1)
	require.NoError(t, err)

	require.True(t, m.Contains("x"))
	require.False(t, m.Contains("y"))
	require.Equal(t, 1, m.Count("x"))
	require.Equal(t, 0, m.Count("y"))
	require.Equal(t, "x", m.Find("x").Key())
	require.Equal(t, m.End(), m.Find("y"))
}

func Test_Map_MinMax(t *testing.T) {
	m := avl.NewOrderedMap[int, string]()
	_, ok := m.Min()
	require.False(t, ok)
	_, ok = m.Max()
	require.False(t, ok)

	for _, k := range []int{5, 1, 9, 3} {
		_, err := m.Set(k, fmt.Sprintf("v%d", k))
		require.NoError(t, err)
	}
	mn, ok := m.Min()
	require.True(t, ok)
	require.Equal(t, avl.MakePair(1, "v1"), mn)
	mx, ok := m.Max()
	require.True(t, ok)
	require.Equal(t, avl.MakePair(9, "v9"), mx)
}

func Test_Map_IterationOrder(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	perm := rand.New(rand.NewSource(7)).Perm(100)
	for _, k := range perm {
		_, err := m.Set(k, k*2)
		require.NoError(t, err)
	}

	want := 0
	for k, v := range m.All() {
		require.Equal(t, want, k)
		require.Equal(t, k*2, v)
		want++
	}
	require.Equal(t, 100, want)

	want = 99
	for k := range m.Backward() {
		require.Equal(t, want, k)
		want--
	}
	require.Equal(t, -1, want)
}

func Test_Map_Scan(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	for k := 0; k < 100; k += 10 {
		_, err := m.Set(k, k)
		require.NoError(t, err)
	}

	var got []int
	for k := range m.Scan(25, 65) {
		got = append(got, k)
	}
	require.Equal(t, []int{30, 40, 50, 60}, got)

	got = nil
	for k := range m.Scan(30, 30) {
		got = append(got, k)
	}
	require.Equal(t, []int{30}, got)

	// inverted range is empty
	for range m.Scan(65, 25) {
		t.Fatal("inverted range yielded an element")
	}
}

func Test_Map_KeysValuesEntries(t *testing.T) {
	m := avl.NewOrderedMap[string, int]()
	for i, k := range []string{"c", "a", "b"} {
		_, err := m.Set(k, i)
		require.NoError(t, err)
	}
	require.Equal(t, []string{"a", "b", "c"}, m.Keys())
	require.Equal(t, []int{1, 2, 0}, m.Values())
	require.Equal(t, []avl.Pair[string, int]{
		{Key: "a", Value: 1},
		{Key: "b", Value: 2},
		{Key: "c", Value: 0},
	}, m.Entries())
}

func Test_Map_FromSeqAndPairs(t *testing.T) {
	src := avl.NewOrderedMap[int, string]()
	for k := 0; k < 10; k++ {
		_, err := src.Set(k, fmt.Sprintf("v%d", k))
		require.NoError(t, err)
	}

	m, err := avl.FromSeq(src.KeyCompare(), src.All())
	require.NoError(t, err)
	require.True(t, m.Equal(src, func(a, b string) bool { return a == b }))

	m2, err := avl.FromPairs(src.KeyCompare(), src.Entries())
	require.NoError(t, err)
	require.True(t, m2.Equal(src, func(a, b string) bool { return a == b }))

	// later pairs overwrite earlier ones
	m3, err := avl.FromPairs(src.KeyCompare(), []avl.Pair[int, string]{
		{Key: 1, Value: "first"},
		{Key: 1, Value: "second"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, m3.Len())
	v, _ := m3.Get(1)
	require.Equal(t, "second", v)
}

func Test_Map_EqualAndCompare(t *testing.T) {
	eq := func(a, b int) bool { return a == b }
	cmpv := func(a, b int) int { return a - b }

	a := avl.NewOrderedMap[string, int]()
	b := avl.NewOrderedMap[string, int]()
	for _, k := range []string{"x", "y", "z"} {
		_, err := a.Set(k, 1)
		require.NoError(t, err)
		_, err = b.Set(k, 1)
		require.NoError(t, err)
	}
	require.True(t, a.Equal(b, eq))
	require.Equal(t, 0, a.Compare(b, cmpv))

	_, err := b.Set("y", 2)
	require.NoError(t, err)
	require.False(t, a.Equal(b, eq))
	require.Negative(t, a.Compare(b, cmpv))
	require.Positive(t, b.Compare(a, cmpv))

	// a proper prefix orders before the longer sequence
	c := avl.NewOrderedMap[string, int]()
	_, err = c.Set("x", 1)
	require.NoError(t, err)
	require.Negative(t, c.Compare(a, cmpv))
	require.Positive(t, a.Compare(c, cmpv))
}

func Test_PairCompare(t *testing.T) {
	m := avl.NewOrderedMap[int, string]()
	pc := m.PairCompare()
	require.Negative(t, pc(avl.MakePair(1, "z"), avl.MakePair(2, "a")))
	require.Equal(t, 0, pc(avl.MakePair(1, "x"), avl.MakePair(1, "y")), "values must not participate")

	cp := avl.ComparePairs[int, string](m.KeyCompare())
	require.Positive(t, cp(avl.MakePair(3, ""), avl.MakePair(2, "")))
}

func Test_Map_CloneAndSwap(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	for k := 0; k < 20; k++ {
		_, err := m.Set(k, k)
		require.NoError(t, err)
	}

	c, err := m.Clone()
	require.NoError(t, err)
	require.Equal(t, m.Len(), c.Len())
	require.True(t, m.Equal(c, func(a, b int) bool { return a == b }))

	_, ok := c.Remove(0)
	require.True(t, ok)
	require.True(t, m.Contains(0))
	require.Equal(t, 20, m.Len())
	require.Equal(t, 19, c.Len())

	m.Swap(c)
	require.Equal(t, 19, m.Len())
	require.Equal(t, 20, c.Len())
	require.False(t, m.Contains(0))
	require.True(t, c.Contains(0))
	require.NoError(t, m.Validate())
	require.NoError(t, c.Validate())
}

func Test_Map_CustomComparator(t *testing.T) {
	// case-insensitive string keys
	m := avl.NewMap[string, int](func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	_, err := m.Set("Hello", 1)
	require.NoError(t, err)

	updated, err := m.Set("HELLO", 2)
	require.NoError(t, err)
	require.True(t, updated)
	require.Equal(t, 1, m.Len())

	v, ok := m.Get("hello")
	require.True(t, ok)
	require.Equal(t, 2, v)
}

func Test_Map_RoundTripToEmpty(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	const n = 1000
	perm := rand.New(rand.NewSource(3)).Perm(n)
	for _, k := range perm {
		_, err := m.Set(k, k)
		require.NoError(t, err)
	}
	require.Equal(t, n, m.Len())
	require.NoError(t, m.Validate())

	for _, k := range perm {
		_, ok := m.Remove(k)
		require.True(t, ok)
	}
	require.Equal(t, 0, m.Len())
	require.True(t, m.IsEmpty())
	require.Equal(t, m.Begin(), m.End())
	require.NoError(t, m.Validate())
}

func Test_Map_ClearThenReuse(t *testing.T) {
	m := avl.NewOrderedMap[int, int]()
	for k := 0; k < 50; k++ {
		_, err := m.Set(k, k)
		require.NoError(t, err)
	}
	m.Clear()
	require.Equal(t, 0, m.Len())
	require.Equal(t, m.Begin(), m.End())

	_, err := m.Set(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	require.NoError(t, m.Validate())
}
