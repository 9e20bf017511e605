// Package stats estimates how many rows the two access paths of a sub
// bucket fetch read, from table statistics and distinct id sketches.
package stats

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/axiomhq/hyperloglog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/bucket-filter/domain"
)

const loadParallelism = 4

// Estimator is safe for concurrent use.
type Estimator struct {
	repo domain.StatsRepository

	mu       sync.RWMutex
	tables   map[domain.Bucket]domain.TableStats
	sketches map[domain.Bucket]*hyperloglog.Sketch
}

// NewEstimator creates an estimator. repo may be nil when stats are only set by hand.
func NewEstimator(repo domain.StatsRepository) *Estimator {
	return &Estimator{
		repo:     repo,
		tables:   make(map[domain.Bucket]domain.TableStats),
		sketches: make(map[domain.Bucket]*hyperloglog.Sketch),
	}
}

// Load reads the table statistics of buckets from the repository, at most
// loadParallelism at a time. The first error cancels the remaining reads.
func (e *Estimator) Load(ctx context.Context, buckets ...domain.Bucket) error {
	if e.repo == nil {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadParallelism)
	for _, b := range buckets {
		g.Go(func() error {
			st, err := e.repo.TableStats(ctx, b)
			if err != nil {
				return err
			}
			e.Set(b, st)
			return nil
		})
	}
	return g.Wait()
}

// Set replaces the table statistics of b.
func (e *Estimator) Set(b domain.Bucket, st domain.TableStats) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables[b] = st
}

// Stats returns the table statistics of b.
func (e *Estimator) Stats(b domain.Bucket) (domain.TableStats, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	st, ok := e.tables[b]
	return st, ok
}

// ObserveFullScan replaces the distinct id sketch of b with the ids of a
// full scan. ids must be every id of b: a partial read would shrink the
// distinct count and blow up the rows per id.
func (e *Estimator) ObserveFullScan(b domain.Bucket, ids ...int64) {
	sk := hyperloglog.New()
	var buf [8]byte
	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		sk.Insert(buf[:])
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sketches[b] = sk
}

// Distinct estimates the number of distinct ids in b.
// Without a full scan sketch it falls back to the id span of the table stats.
func (e *Estimator) Distinct(b domain.Bucket) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.distinct(b)
}

func (e *Estimator) distinct(b domain.Bucket) uint64 {
	if sk, ok := e.sketches[b]; ok {
		if n := sk.Estimate(); n > 0 {
			return n
		}
	}
	st, ok := e.tables[b]
	if !ok || st.MaxID < st.MinID {
		return 0
	}
	return uint64(st.MaxID - st.MinID + 1)
}

// SequentialRows is the number of rows a full scan of b reads.
func (e *Estimator) SequentialRows(b domain.Bucket) float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return float32(e.tables[b].Rows)
}

// IndexedRows is the number of rows an index range scan of b reads for f.
func (e *Estimator) IndexedRows(b domain.Bucket, f domain.RangeFilter) float32 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st, ok := e.tables[b]
	if !ok || st.Rows == 0 {
		return 0
	}
	distinct := e.distinct(b)
	if distinct == 0 {
		return 0
	}

	lo, hi := max(f.Lo, st.MinID), min(f.Hi, st.MaxID)
	if hi < lo {
		return 0
	}
	covered := min(uint64(hi-lo+1), distinct)
	rowsPerID := float64(st.Rows) / float64(distinct)
	return float32(rowsPerID * float64(covered))
}

// Estimators binds b, returning the (indexed, sequential) estimator pair
// the pushdown planner works with.
func (e *Estimator) Estimators(b domain.Bucket) (ix, seq domain.RowEstimator[domain.RangeFilter]) {
	ix = func(f domain.RangeFilter) float32 {
		rows := e.IndexedRows(b, f)
		logrus.WithFields(logrus.Fields{"bucket": b.String(), "rows": rows}).Debug("indexed rows estimate")
		return rows
	}
	seq = func(domain.RangeFilter) float32 {
		return e.SequentialRows(b)
	}
	return ix, seq
}
