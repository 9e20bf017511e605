package domain

import "context"

// Item is a row stored in a bucket of the slow source.
type Item struct {
	ID    int64  // Sub bucket id, unique inside a bucket
	Key   string // Lookup key, hashed into the bucket signature
	Value string // Payload
}

// KeyFilter selects the items of a bucket by key.
type KeyFilter struct {
	Key string
}

// SubBucket is a slice of a bucket addressed by id.
type SubBucket struct {
	ID   int64
	Data []byte
}

// RangeFilter selects the sub buckets whose id is in [Lo, Hi].
type RangeFilter struct {
	Lo int64 `form:"lo" binding:"gte=0"`
	Hi int64 `form:"hi" binding:"gtefield=Lo"`
}

// Match reports whether id is inside the range.
func (f RangeFilter) Match(id int64) bool {
	return f.Lo <= id && id <= f.Hi
}

// Width returns the number of ids covered by the range.
func (f RangeFilter) Width() int64 {
	if f.Hi < f.Lo {
		return 0
	}
	return f.Hi - f.Lo + 1
}

// ItemRepository reads the rows of a bucket from the slow source.
type ItemRepository interface {
	// FetchByKey returns the items of b whose key equals filter.Key.
	FetchByKey(ctx context.Context, b Bucket, filter KeyFilter) ([]Item, error)

	// FetchSubBuckets returns the sub buckets of b. A nil cfg returns all of them.
	FetchSubBuckets(ctx context.Context, b Bucket, cfg *RangeFilter) ([]SubBucket, error)

	// FetchKeys returns the distinct keys of b.
	FetchKeys(ctx context.Context, b Bucket) ([]string, error)

	// Store inserts it into b and fills it.ID.
	Store(ctx context.Context, b Bucket, it *Item) error
}
