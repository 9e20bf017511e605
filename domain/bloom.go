package domain

import (
	"context"
	"time"
)

// BloomResult is the answer of a probabilistic membership check.
type BloomResult int8

const (
	// Missing means the values definitely do not exist.
	Missing BloomResult = iota
	// MayExist means the values may exist; the slow source must be asked.
	MayExist
)

func (r BloomResult) String() string {
	switch r {
	case MayExist:
		return "MAY_EXIST"
	case Missing:
		return "MISSING"
	default:
		return "UNKNOWN"
	}
}

// Comparator compares a stored signature with the signature computed from a query.
type Comparator[S any] func(stored, computed S) BloomResult

// HashFunc computes the signature required by a query.
type HashFunc[F, S any] func(filter F) S

// SignaturePair is one (bucket, signature) entry listed from the slow source.
type SignaturePair[S any] struct {
	Bucket    Bucket
	Signature S
}

// SignatureLister lists every (bucket, signature) pair stored under scope.
type SignatureLister[D, S any] func(ctx context.Context, db D, scope Bucket) ([]SignaturePair[S], error)

// RowFetcher gets the values of a bucket that match filter.
type RowFetcher[D, F, T any] func(ctx context.Context, db D, b Bucket, filter F) ([]T, error)

// SignatureRepository is the producer side of a signature source: it keeps
// one signature per bucket under a scope.
type SignatureRepository[S any] interface {
	// ListSignatures returns all the pairs stored under scope.
	// An empty scope yields an empty list, not an error.
	ListSignatures(ctx context.Context, scope Bucket) ([]SignaturePair[S], error)

	// PutSignature replaces the signature of b.
	PutSignature(ctx context.Context, scope, b Bucket, sig S) error

	// MergeSignature ORs sig into the signature already stored for b.
	MergeSignature(ctx context.Context, scope, b Bucket, sig S) error
}

// SnapshotManifest describes the signatures saved locally for one scope.
type SnapshotManifest struct {
	Scope   string    `msgpack:"scope"`
	Count   int       `msgpack:"count"`
	Width   uint64    `msgpack:"width"`
	SavedAt time.Time `msgpack:"saved_at"`
}
