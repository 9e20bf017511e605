// Package cache skips reads of the slow source for buckets that are not in
// an exact set of known buckets.
package cache

import (
	"context"

	"github.com/tidwall/btree"

	"github.com/Guyuepp/bucket-filter/domain"
)

func byName(a, b domain.Bucket) bool {
	return a.Less(b)
}

// BucketSet is the ordered set of buckets known to exist in the slow source.
// It is not safe for concurrent use.
type BucketSet struct {
	tree *btree.BTreeG[domain.Bucket]
}

// NewBucketSet creates an empty set.
func NewBucketSet() *BucketSet {
	return &BucketSet{tree: newTree()}
}

func newTree() *btree.BTreeG[domain.Bucket] {
	return btree.NewBTreeGOptions(byName, btree.Options{NoLocks: true})
}

// Contains reports whether b is in the set.
func (s *BucketSet) Contains(b domain.Bucket) bool {
	_, ok := s.tree.Get(b)
	return ok
}

// Insert adds b and reports whether it was not already present.
func (s *BucketSet) Insert(b domain.Bucket) bool {
	_, replaced := s.tree.Set(b)
	return !replaced
}

// Len returns the number of buckets in the set.
func (s *BucketSet) Len() int {
	return s.tree.Len()
}

// Clear removes every bucket.
func (s *BucketSet) Clear() {
	s.tree = newTree()
}

// Scan calls iter for each bucket in order until iter returns false.
func (s *BucketSet) Scan(iter func(b domain.Bucket) bool) {
	s.tree.Scan(iter)
}

// Clone returns an independent copy of the set.
func (s *BucketSet) Clone() *BucketSet {
	return &BucketSet{tree: s.tree.Copy()}
}

// GetOrSkipIfBucketMissing scans the slow db only if cache says b exists.
//
// When b is unknown an empty result is returned without calling getter.
// Otherwise the result and error of getter are returned unchanged.
func GetOrSkipIfBucketMissing[D, F, T any](
	ctx context.Context,
	cache func(b domain.Bucket) bool,
	db D,
	b domain.Bucket,
	getter domain.RowFetcher[D, F, T],
	filter F,
) ([]T, error) {
	if !cache(b) {
		return []T{}, nil
	}
	return getter(ctx, db, b, filter)
}

// Refresh clears set and fills it with the buckets listed from db.
//
// Names are turned into buckets without validation. It returns the number
// of names that were inserted for the first time. When list fails the error
// is returned unchanged and set is left empty.
func Refresh[D any](ctx context.Context, set *BucketSet, db D, list domain.BucketLister[D]) (uint64, error) {
	set.Clear()
	names, err := list(ctx, db)
	if err != nil {
		return 0, err
	}

	var inserted uint64
	for _, name := range names {
		if set.Insert(domain.NewBucket(name)) {
			inserted++
		}
	}
	return inserted, nil
}
