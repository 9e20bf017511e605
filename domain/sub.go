package domain

import "context"

// SubBucketFetcher gets the sub buckets of b.
// A nil cfg means "return everything"; a non nil cfg asks the source to filter remotely.
type SubBucketFetcher[D, C, S any] func(ctx context.Context, db D, b Bucket, cfg *C) ([]S, error)

// LocalFilter narrows fetched sub buckets using cfg. It must not fail.
type LocalFilter[C, S any] func(subs []S, cfg C) []S

// RowEstimator estimates how many rows an access path scans for cfg.
type RowEstimator[C any] func(cfg C) float32

// PushdownFunc decides whether cfg should be pushed to the slow source.
type PushdownFunc[C any] func(cfg C) bool

// TableStats are the statistics the cost estimators work from.
type TableStats struct {
	Rows  int64
	MinID int64
	MaxID int64
}

// StatsRepository reads table statistics from the slow source.
type StatsRepository interface {
	TableStats(ctx context.Context, b Bucket) (TableStats, error)
}
