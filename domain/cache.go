package domain

import "context"

// BucketLister lists the names of the buckets known to exist in the slow source.
type BucketLister[D any] func(ctx context.Context, db D) ([]string, error)

// BucketRepository lists bucket names from a concrete source.
type BucketRepository interface {
	ListBuckets(ctx context.Context) ([]string, error)

	// AddBuckets makes names known. Adding a known bucket is a no-op.
	AddBuckets(ctx context.Context, names ...string) error
}
