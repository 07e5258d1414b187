// Package bench generates synthetic ordered-map workloads and replays them
// against a map under test. Workloads are deterministic per seed so runs are
// reproducible and comparable across implementations.
package bench

import (
	"fmt"
	"math/rand"
)

// Op is a single mutation in a generated workload.
type Op struct {
	Version int64
	Key     []byte
	Value   []byte
	Delete  bool
}

// WorkloadGenerator describes a synthetic workload. Key and value lengths are
// drawn from a normal distribution. The live key count grows from InitialSize
// to FinalSize over Versions versions, with ChangePerVersion updates and
// deletes mixed in per version after the first.
type WorkloadGenerator struct {
	Seed             int64
	KeyMean          int
	KeyStdDev        int
	ValueMean        int
	ValueStdDev      int
	InitialSize      int
	FinalSize        int
	Versions         int64
	ChangePerVersion int
	DeleteFraction   float64
}

// BankLikeWorkload sizes keys and values like a bank module state store.
func BankLikeWorkload(seed int64, versions int64) WorkloadGenerator {
	return WorkloadGenerator{
		Seed:             seed,
		KeyMean:          56,
		KeyStdDev:        3,
		ValueMean:        100,
		ValueStdDev:      1200,
		InitialSize:      35_000,
		FinalSize:        2_200_200,
		Versions:         versions,
		ChangePerVersion: int(368_000_000 / versions),
		DeleteFraction:   0.06,
	}
}

// SmallWorkload is sized for tests: a few thousand operations across ten
// versions.
func SmallWorkload(seed int64) WorkloadGenerator {
	return WorkloadGenerator{
		Seed:             seed,
		KeyMean:          16,
		KeyStdDev:        3,
		ValueMean:        32,
		ValueStdDev:      8,
		InitialSize:      200,
		FinalSize:        1_000,
		Versions:         10,
		ChangePerVersion: 150,
		DeleteFraction:   0.1,
	}
}

type opKind int

const (
	opDelete opKind = -1
	opUpdate opKind = 0
	opCreate opKind = 1
)

type deferredKey struct {
	key []byte
	idx int
}

// OpIterator lazily materializes a workload one operation at a time; the
// whole changeset is never held in memory.
type OpIterator struct {
	gen  WorkloadGenerator
	rand *rand.Rand

	version           int64
	keys              [][]byte
	freeList          chan int
	createsPerVersion float64
	createAccumulator float64
	created           int
	deleted           int

	ops []opKind
	// keys created this version, neither deleted nor updated. therefore
	// defer adding to keys until the next version.
	createdKeys []deferredKey

	op *Op
}

// Iterator returns an iterator positioned on the workload's first operation.
func (g WorkloadGenerator) Iterator() (*OpIterator, error) {
	if g.FinalSize < g.InitialSize {
		return nil, fmt.Errorf("bench: final size %d less than initial size %d", g.FinalSize, g.InitialSize)
	}
	if g.Versions < 1 {
		return nil, fmt.Errorf("bench: versions must be at least 1, got %d", g.Versions)
	}

	// pad the frame pool past FinalSize: within one shuffled version the
	// creates can transiently run ahead of the deletes that return frames,
	// never by more than ChangePerVersion
	frames := g.FinalSize + g.ChangePerVersion
	itr := &OpIterator{
		gen:      g,
		rand:     rand.New(rand.NewSource(g.Seed)),
		keys:     make([][]byte, frames),
		freeList: make(chan int, frames),
	}
	if g.Versions > 1 {
		itr.createsPerVersion = float64(g.FinalSize-g.InitialSize) / float64(g.Versions-1)
	}
	for i := 0; i < frames; i++ {
		itr.freeList <- i
	}

	itr.Next()
	return itr, nil
}

// Valid reports whether the iterator is positioned on an operation.
func (itr *OpIterator) Valid() bool {
	return itr.op != nil
}

// Op returns the current operation. Only valid while Valid reports true.
func (itr *OpIterator) Op() *Op {
	return itr.op
}

// Version returns the version of the current operation.
func (itr *OpIterator) Version() int64 {
	return itr.version
}

// Next advances to the following operation, crossing version boundaries as
// needed. When the workload is exhausted the iterator becomes invalid.
func (itr *OpIterator) Next() {
	for len(itr.ops) == 0 {
		if itr.version >= itr.gen.Versions {
			itr.op = nil
			return
		}
		itr.nextVersion()
	}

	kind := itr.ops[0]
	itr.ops = itr.ops[1:]
	itr.op = itr.genOp(kind)
}

func (itr *OpIterator) nextVersion() {
	// keys created last version become visible to updates and deletes now
	for _, dk := range itr.createdKeys {
		itr.keys[dk.idx] = dk.key
	}
	itr.createdKeys = itr.createdKeys[:0]

	itr.version++

	var creates, updates, deletes int
	if itr.version == 1 {
		creates = itr.gen.InitialSize
	} else {
		deletes = int(itr.gen.DeleteFraction * float64(itr.gen.ChangePerVersion))
		updates = itr.gen.ChangePerVersion - deletes
		if itr.version == itr.gen.Versions {
			// the accumulator can round a create away over the run; the last
			// version pins the live key count to FinalSize exactly
			creates = itr.gen.FinalSize - (itr.created - itr.deleted) + deletes
		} else {
			itr.createAccumulator += itr.createsPerVersion
			clamped := int(itr.createAccumulator)
			creates = clamped + deletes
			itr.createAccumulator -= float64(clamped)
		}
	}
	itr.created += creates
	itr.deleted += deletes

	itr.ops = itr.ops[:0]
	for i := 0; i < deletes; i++ {
		itr.ops = append(itr.ops, opDelete)
	}
	for i := 0; i < updates; i++ {
		itr.ops = append(itr.ops, opUpdate)
	}
	for i := 0; i < creates; i++ {
		itr.ops = append(itr.ops, opCreate)
	}
	itr.rand.Shuffle(len(itr.ops), func(i, j int) {
		itr.ops[i], itr.ops[j] = itr.ops[j], itr.ops[i]
	})
}

func (itr *OpIterator) genOp(kind opKind) *Op {
	switch kind {
	case opDelete:
		for {
			i := itr.rand.Intn(len(itr.keys))
			if itr.keys[i] == nil {
				continue
			}
			// return the frame to the free list for a later create
			itr.freeList <- i
			k := itr.keys[i]
			itr.keys[i] = nil
			return &Op{
				Version: itr.version,
				Key:     k,
				Delete:  true,
			}
		}
	case opUpdate:
		for {
			i := itr.rand.Intn(len(itr.keys))
			if itr.keys[i] == nil {
				continue
			}
			return &Op{
				Version: itr.version,
				Key:     itr.keys[i],
				Value:   itr.genBytes(itr.gen.ValueMean, itr.gen.ValueStdDev),
			}
		}
	case opCreate:
		i := <-itr.freeList
		op := &Op{
			Version: itr.version,
			Key:     itr.genBytes(itr.gen.KeyMean, itr.gen.KeyStdDev),
			Value:   itr.genBytes(itr.gen.ValueMean, itr.gen.ValueStdDev),
		}
		itr.createdKeys = append(itr.createdKeys, deferredKey{key: op.Key, idx: i})
		return op
	default:
		panic(fmt.Sprintf("invalid op kind %d", kind))
	}
}

func (itr *OpIterator) genBytes(mean, stdDev int) []byte {
	length := int(itr.rand.NormFloat64()*float64(stdDev) + float64(mean))
	// a large stdDev relative to mean makes negative draws possible. Clamping
	// to 1 would pile mass at the short end, so redraw once with a tighter
	// spread around the mean and only then clamp.
	if length < 1 {
		length = int(itr.rand.NormFloat64()*float64(mean/3) + float64(mean))
		if length < 1 {
			length = 1
		}
	}
	b := make([]byte, length)
	itr.rand.Read(b)
	return b
}
