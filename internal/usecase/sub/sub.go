// Package sub decides how the sub buckets of a bucket are fetched: filtered
// by the slow source (push down), filtered locally, or both.
//
// # Local filtering
//
//	| push down | double check | local filter | overview                      |
//	|-----------|--------------|--------------|-------------------------------|
//	| false     | false        | true         | gets all -> local filter      |
//	| false     | true         | true         | gets all -> local filter      |
//	| true      | false        | false        | gets filtered                 |
//	| true      | true         | true         | gets filtered -> local filter |
package sub

import (
	"context"

	"github.com/Guyuepp/bucket-filter/domain"
)

// FetchMode is what the sub bucket fetcher is asked for.
type FetchMode int8

const (
	// FetchAll fetches every sub bucket, unfiltered.
	FetchAll FetchMode = iota
	// FetchFiltered sends the filter to the slow source.
	FetchFiltered
)

func (m FetchMode) String() string {
	switch m {
	case FetchAll:
		return "ALL"
	case FetchFiltered:
		return "FILTERED"
	default:
		return "UNKNOWN"
	}
}

// Plan is the combination of the two filtering switches.
type Plan struct {
	PushDown    bool
	DoubleCheck bool
}

// FetchMode is selected by PushDown alone.
func (p Plan) FetchMode() FetchMode {
	if p.PushDown {
		return FetchFiltered
	}
	return FetchAll
}

// LocalFilter reports whether fetched sub buckets are filtered locally:
// always when everything was fetched, and to verify a pushed down filter
// when DoubleCheck is set.
func (p Plan) LocalFilter() bool {
	return !p.PushDown || p.DoubleCheck
}

// GetSubBuckets fetches the sub buckets of b and filters them as the plan
// (pushDown, doubleCheck) requires. fetch is called exactly once, with a nil
// config when everything is fetched. Errors of fetch are returned unchanged.
func GetSubBuckets[D, C, S any](
	ctx context.Context,
	db D,
	b domain.Bucket,
	fetch domain.SubBucketFetcher[D, C, S],
	filter domain.LocalFilter[C, S],
	cfg C,
	pushDown bool,
	doubleCheck bool,
) ([]S, error) {
	plan := Plan{PushDown: pushDown, DoubleCheck: doubleCheck}

	var remote *C
	if plan.FetchMode() == FetchFiltered {
		remote = &cfg
	}
	subs, err := fetch(ctx, db, b, remote)
	if err != nil {
		return nil, err
	}

	if plan.LocalFilter() {
		return filter(subs, cfg), nil
	}
	return subs, nil
}

// Getter gets sub buckets, deciding push down by itself.
type Getter[D, C, S any] func(ctx context.Context, db D, b domain.Bucket, cfg C, doubleCheck bool) ([]S, error)

// NewGetter creates a Getter which asks pushdown whether the remote filter
// should be used and then calls GetSubBuckets.
func NewGetter[D, C, S any](
	fetch domain.SubBucketFetcher[D, C, S],
	filter domain.LocalFilter[C, S],
	pushdown domain.PushdownFunc[C],
) Getter[D, C, S] {
	return func(ctx context.Context, db D, b domain.Bucket, cfg C, doubleCheck bool) ([]S, error) {
		remote := pushdown(cfg)
		return GetSubBuckets(ctx, db, b, fetch, filter, cfg, remote, doubleCheck)
	}
}

// ByIDRange keeps the sub buckets whose id is inside cfg.
func ByIDRange(subs []domain.SubBucket, cfg domain.RangeFilter) []domain.SubBucket {
	res := make([]domain.SubBucket, 0, len(subs))
	for _, s := range subs {
		if cfg.Match(s.ID) {
			res = append(res, s)
		}
	}
	return res
}
