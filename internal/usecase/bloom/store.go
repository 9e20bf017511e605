package bloom

import (
	"github.com/tidwall/btree"

	"github.com/Guyuepp/bucket-filter/domain"
)

type entry[S any] struct {
	bucket    domain.Bucket
	signature S
}

func byBucket[S any](a, b entry[S]) bool {
	return a.bucket.Less(b.bucket)
}

// Store holds one signature per bucket, ordered by bucket name.
// It is not safe for concurrent use; callers serialize access or publish
// whole stores (see Clone).
type Store[S any] struct {
	tree *btree.BTreeG[entry[S]]
}

// NewStore creates an empty signature store.
func NewStore[S any]() *Store[S] {
	return &Store[S]{tree: newTree[S]()}
}

func newTree[S any]() *btree.BTreeG[entry[S]] {
	return btree.NewBTreeGOptions(byBucket[S], btree.Options{NoLocks: true})
}

// Get returns the signature recorded for b.
func (s *Store[S]) Get(b domain.Bucket) (S, bool) {
	e, ok := s.tree.Get(entry[S]{bucket: b})
	return e.signature, ok
}

// Set records sig for b and reports whether b was not in the store before.
// An existing signature is overwritten.
func (s *Store[S]) Set(b domain.Bucket, sig S) bool {
	_, replaced := s.tree.Set(entry[S]{bucket: b, signature: sig})
	return !replaced
}

// Len returns the number of buckets in the store.
func (s *Store[S]) Len() int {
	return s.tree.Len()
}

// Clear removes every entry.
func (s *Store[S]) Clear() {
	s.tree = newTree[S]()
}

// Scan calls iter for each entry in bucket order until iter returns false.
func (s *Store[S]) Scan(iter func(b domain.Bucket, sig S) bool) {
	s.tree.Scan(func(e entry[S]) bool {
		return iter(e.bucket, e.signature)
	})
}

// Clone returns a copy of the store. Writes to either side are not seen by the other.
func (s *Store[S]) Clone() *Store[S] {
	return &Store[S]{tree: s.tree.Copy()}
}
