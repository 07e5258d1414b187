package bench

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/tidwall/btree"

	"github.com/amzilayoub/ft-container-v2/avl"
)

// RunContext carries everything a workload replay needs: the generator, the
// logger, optional metrics, and cancellation via the embedded context.
type RunContext struct {
	context.Context

	Log       zerolog.Logger
	Generator WorkloadGenerator

	// VersionLimit stops the replay after this version when positive.
	VersionLimit int64
	// CheckInterval verifies the map against a reference B-tree every N
	// versions when positive. A full check walks both structures in order,
	// so keep the interval coarse for large workloads.
	CheckInterval int64

	MetricOpCount    prometheus.Counter
	MetricTreeSize   prometheus.Gauge
	MetricTreeHeight prometheus.Gauge
}

// Build replays the generated workload into m. When CheckInterval is set the
// map is diffed against a reference ordered map at version boundaries, and
// always once more at the end along with a structural validation.
func (c *RunContext) Build(m *avl.Map[[]byte, []byte]) error {
	itr, err := c.Generator.Iterator()
	if err != nil {
		return err
	}

	oracle := &btree.Map[string, []byte]{}
	checking := c.CheckInterval > 0

	cnt := 0
	since := time.Now()
	version := itr.Version()

	for ; itr.Valid(); itr.Next() {
		if itr.Version() != version {
			if err := c.Err(); err != nil {
				return err
			}
			if checking && version%c.CheckInterval == 0 {
				if err := c.check(m, oracle, version); err != nil {
					return err
				}
			}
			version = itr.Version()
			if c.VersionLimit > 0 && version > c.VersionLimit {
				break
			}
		}

		op := itr.Op()
		if op.Delete {
			if _, ok := m.Remove(op.Key); !ok {
				return fmt.Errorf("bench: failed to remove key %x; version %d", op.Key, op.Version)
			}
			if checking {
				oracle.Delete(string(op.Key))
			}
		} else {
			if _, err := m.Set(op.Key, op.Value); err != nil {
				return fmt.Errorf("bench: set key %x; version %d: %w", op.Key, op.Version, err)
			}
			if checking {
				oracle.Set(string(op.Key), op.Value)
			}
		}

		cnt++
		if c.MetricOpCount != nil {
			c.MetricOpCount.Inc()
		}
		if cnt%100_000 == 0 {
			c.Log.Info().Msgf("processed %s ops in %s; %s ops/s; version %d; size %s",
				humanize.Comma(int64(cnt)),
				time.Since(since),
				humanize.Comma(int64(100_000/time.Since(since).Seconds())),
				version,
				humanize.Comma(int64(m.Len())))
			since = time.Now()
		}
	}

	if c.MetricTreeSize != nil {
		c.MetricTreeSize.Set(float64(m.Len()))
	}
	if c.MetricTreeHeight != nil {
		c.MetricTreeHeight.Set(float64(m.Height()))
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("bench: validation after version %d: %w", version, err)
	}
	if checking {
		if err := c.check(m, oracle, version); err != nil {
			return err
		}
	}

	c.Log.Info().
		Int("size", m.Len()).
		Int8("height", m.Height()).
		Int64("versions", version).
		Msg("replay complete")
	return nil
}

// check walks the map and the reference B-tree in lockstep and reports the
// first divergence.
func (c *RunContext) check(m *avl.Map[[]byte, []byte], oracle *btree.Map[string, []byte], version int64) error {
	if m.Len() != oracle.Len() {
		return fmt.Errorf("bench: version %d: size %d, reference has %d", version, m.Len(), oracle.Len())
	}

	it := m.Begin()
	var diff error
	oracle.Scan(func(key string, value []byte) bool {
		if !it.Valid() {
			diff = fmt.Errorf("bench: version %d: map exhausted before key %x", version, key)
			return false
		}
		if !bytes.Equal(it.Key(), []byte(key)) {
			diff = fmt.Errorf("bench: version %d: key mismatch: %x != %x", version, it.Key(), key)
			return false
		}
		if !bytes.Equal(it.Value(), value) {
			diff = fmt.Errorf("bench: version %d: value mismatch at key %x", version, key)
			return false
		}
		it = it.Next()
		return true
	})
	if diff != nil {
		return diff
	}
	if it.Valid() {
		return fmt.Errorf("bench: version %d: map has extra key %x", version, it.Key())
	}

	c.Log.Debug().Int64("version", version).Int("size", m.Len()).Msg("reference check passed")
	return nil
}
