// Package bloom skips reads of the slow source when a per bucket
// probabilistic signature says the values cannot be there.
package bloom

import (
	"context"

	"github.com/Guyuepp/bucket-filter/domain"
)

// Gate decides whether the values selected by filter may exist in b.
type Gate[F any] func(b domain.Bucket, filter F) domain.BloomResult

// Checker is a Gate that still needs the store to consult.
type Checker[S, F any] func(store *Store[S], filter F, b domain.Bucket) domain.BloomResult

// GetOrSkipIfMissing gets values from a slow db only if they may exist.
//
// On Missing an empty result is returned and getter is not called.
// On MayExist the result of getter is returned as is, including an empty
// result (a false positive) and any error.
func GetOrSkipIfMissing[D, F, T any](
	ctx context.Context,
	bloom Gate[F],
	db D,
	b domain.Bucket,
	getter domain.RowFetcher[D, F, T],
	filter F,
) ([]T, error) {
	switch bloom(b, filter) {
	case domain.MayExist:
		return getter(ctx, db, b, filter)
	default:
		return []T{}, nil
	}
}

// Refresh clears store and fills it with the signatures listed under scope.
//
// It returns the number of distinct buckets inserted. A bucket listed more
// than once is counted once and keeps the last listed signature. When list
// fails the error is returned unchanged and store is left empty.
func Refresh[D, S any](
	ctx context.Context,
	store *Store[S],
	db D,
	list domain.SignatureLister[D, S],
	scope domain.Bucket,
) (uint64, error) {
	store.Clear()
	pairs, err := list(ctx, db, scope)
	if err != nil {
		return 0, err
	}

	var inserted uint64
	for _, pair := range pairs {
		if store.Set(pair.Bucket, pair.Signature) {
			inserted++
		}
	}
	return inserted, nil
}

// Check looks up the signature of b and compares it with the signature
// computed from filter. A bucket without a signature is Missing.
func Check[S, F any](
	store *Store[S],
	hash domain.HashFunc[F, S],
	filter F,
	check domain.Comparator[S],
	b domain.Bucket,
) domain.BloomResult {
	stored, ok := store.Get(b)
	if !ok {
		return domain.Missing
	}
	return check(stored, hash(filter))
}

// NewChecker binds hash and check into a Checker.
func NewChecker[S, F any](hash domain.HashFunc[F, S], check domain.Comparator[S]) Checker[S, F] {
	return func(store *Store[S], filter F, b domain.Bucket) domain.BloomResult {
		return Check(store, hash, filter, check, b)
	}
}

// Bind fixes the store a Checker consults, producing a Gate.
func (c Checker[S, F]) Bind(store *Store[S]) Gate[F] {
	return func(b domain.Bucket, filter F) domain.BloomResult {
		return c(store, filter, b)
	}
}
