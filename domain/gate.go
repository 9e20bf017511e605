package domain

import "context"

// RefreshReport tells how many entries a refresh inserted for the first time.
type RefreshReport struct {
	Signatures uint64 `json:"signatures"`
	Buckets    uint64 `json:"buckets"`
}

// GateUsecase puts the in-memory stores in front of the slow source.
type GateUsecase interface {
	// Rows gets the items of b matching key, skipping the source when the
	// signature of b proves the key missing.
	Rows(ctx context.Context, b Bucket, key string) ([]Item, error)

	// RowsIfKnown gets the items of b matching key, skipping the source
	// when b is not a known bucket.
	RowsIfKnown(ctx context.Context, b Bucket, key string) ([]Item, error)

	// SubBuckets gets the sub buckets of b in f, letting the cost model
	// decide where the range is applied.
	SubBuckets(ctx context.Context, b Bucket, f RangeFilter, doubleCheck bool) ([]SubBucket, error)

	// Ingest stores items into b and merges their keys into the signature
	// of b. The published stores pick them up on the next refresh.
	Ingest(ctx context.Context, b Bucket, items []Item) ([]Item, error)

	// RebuildSignature replaces the signature of b with one computed from
	// every key of b, returning the number of keys.
	RebuildSignature(ctx context.Context, b Bucket) (int, error)

	// Refresh reloads both stores.
	Refresh(ctx context.Context) (RefreshReport, error)
}
