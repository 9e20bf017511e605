package bloom_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/signature"
	"github.com/Guyuepp/bucket-filter/internal/usecase/bloom"
)

type filterDatabase struct {
	datname string
}

type slowDB struct {
	calls int
}

func bucket(name string) domain.Bucket {
	return domain.NewBucket(name)
}

func queryHash(f filterDatabase) signature.Bits {
	switch f.datname {
	case "postgres":
		return signature.FromWords(0b101)
	case "template0", "templateZ":
		return signature.FromWords(0b010) // collision
	default:
		return signature.FromWords(0b1000)
	}
}

func fixedLister(pairs ...domain.SignaturePair[signature.Bits]) domain.SignatureLister[*slowDB, signature.Bits] {
	return func(_ context.Context, db *slowDB, _ domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
		db.calls++
		return pairs, nil
	}
}

func pair(name string, words ...uint64) domain.SignaturePair[signature.Bits] {
	return domain.SignaturePair[signature.Bits]{Bucket: bucket(name), Signature: signature.FromWords(words...)}
}

func countingGetter(rows []string) domain.RowFetcher[*slowDB, filterDatabase, string] {
	return func(_ context.Context, db *slowDB, _ domain.Bucket, _ filterDatabase) ([]string, error) {
		db.calls++
		return rows, nil
	}
}

func TestCheck_AbsentBucketIsMissing(t *testing.T) {
	store := bloom.NewStore[signature.Bits]()
	store.Set(bucket("X"), signature.FromWords(0b111))

	for i := 0; i < 10; i++ {
		name := faker.Word() + "_absent"
		res := bloom.Check(store, queryHash, filterDatabase{"postgres"}, signature.Contains, bucket(name))
		assert.Equal(t, domain.Missing, res, name)
	}
}

func TestCheck_SupersetMayExist(t *testing.T) {
	store := bloom.NewStore[signature.Bits]()
	store.Set(bucket("X"), signature.FromWords(0b101|0b10000))

	res := bloom.Check(store, queryHash, filterDatabase{"postgres"}, signature.Contains, bucket("X"))
	assert.Equal(t, domain.MayExist, res)

	res = bloom.Check(store, queryHash, filterDatabase{"template0"}, signature.Contains, bucket("X"))
	assert.Equal(t, domain.Missing, res)
}

func TestGetOrSkipIfMissing(t *testing.T) {
	ctx := context.Background()
	store := bloom.NewStore[signature.Bits]()
	db := &slowDB{}

	_, err := bloom.Refresh(ctx, store, db, fixedLister(pair("X", 0b101), pair("Y", 0b111)), bucket("bloom_2022_12_27"))
	require.NoError(t, err)
	db.calls = 0

	gate := bloom.NewChecker(queryHash, signature.Contains).Bind(store)
	query := filterDatabase{"postgres"}

	t.Run("may exist delegates and tolerates false positives", func(t *testing.T) {
		db.calls = 0
		rows, err := bloom.GetOrSkipIfMissing(ctx, gate, db, bucket("X"), countingGetter([]string{}), query)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Equal(t, 1, db.calls)
	})

	t.Run("may exist returns the rows verbatim", func(t *testing.T) {
		db.calls = 0
		rows, err := bloom.GetOrSkipIfMissing(ctx, gate, db, bucket("Y"), countingGetter([]string{"en_US.UTF-8"}), query)
		require.NoError(t, err)
		assert.Equal(t, []string{"en_US.UTF-8"}, rows)
		assert.Equal(t, 1, db.calls)
	})

	t.Run("missing bucket never fetches", func(t *testing.T) {
		db.calls = 0
		rows, err := bloom.GetOrSkipIfMissing(ctx, gate, db, bucket("Z"), countingGetter([]string{"x"}), query)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
		assert.Zero(t, db.calls)
	})

	t.Run("missing bits never fetch", func(t *testing.T) {
		db.calls = 0
		rows, err := bloom.GetOrSkipIfMissing(ctx, gate, db, bucket("X"), countingGetter([]string{"x"}), filterDatabase{"templateZ"})
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Zero(t, db.calls)
	})

	t.Run("fetch errors propagate unchanged", func(t *testing.T) {
		boom := domain.Unexpected("Unable to get strings", errors.New("relation does not exist"))
		failing := func(context.Context, *slowDB, domain.Bucket, filterDatabase) ([]string, error) {
			return nil, boom
		}
		rows, err := bloom.GetOrSkipIfMissing(ctx, gate, db, bucket("X"), failing, query)
		assert.Nil(t, rows)
		assert.Equal(t, boom, err)
		assert.ErrorIs(t, err, domain.ErrUnexpected)
	})
}

func TestRefresh_CountsFirstInsertions(t *testing.T) {
	ctx := context.Background()
	store := bloom.NewStore[signature.Bits]()
	db := &slowDB{}

	// the same bucket twice: counted once, the last signature wins
	lister := fixedLister(
		pair("pg_database", 0x333, 0x634),
		pair("pg_database", 0x333|0x599, 0x634|0x3776),
		pair("pg_class", 0x1),
	)

	n, err := bloom.Refresh(ctx, store, db, lister, bucket("bloom_2022_12_27"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 1, db.calls)

	got, ok := store.Get(bucket("pg_database"))
	require.True(t, ok)
	assert.True(t, got.Equal(signature.FromWords(0x333|0x599, 0x634|0x3776)))
}

func TestRefresh_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := bloom.NewStore[signature.Bits]()
	lister := fixedLister(pair("X", 0b101), pair("Y", 0b111))

	first, err := bloom.Refresh(ctx, store, &slowDB{}, lister, bucket("scope"))
	require.NoError(t, err)
	second, err := bloom.Refresh(ctx, store, &slowDB{}, lister, bucket("scope"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(2), second)

	var names []string
	store.Scan(func(b domain.Bucket, _ signature.Bits) bool {
		names = append(names, b.String())
		return true
	})
	assert.Equal(t, []string{"X", "Y"}, names)
}

func TestRefresh_ErrorLeavesStoreCleared(t *testing.T) {
	ctx := context.Background()
	store := bloom.NewStore[signature.Bits]()
	store.Set(bucket("stale"), signature.FromWords(1))

	boom := domain.UnableToConnect("Unable to connect to mysql", errors.New("connection refused"))
	failing := func(context.Context, *slowDB, domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
		return nil, boom
	}

	n, err := bloom.Refresh(ctx, store, &slowDB{}, failing, bucket("scope"))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, domain.ErrUnableToConnect)
	assert.Zero(t, store.Len())
}

func TestStore_Clone(t *testing.T) {
	store := bloom.NewStore[signature.Bits]()
	store.Set(bucket("a"), signature.FromWords(1))

	clone := store.Clone()
	clone.Set(bucket("b"), signature.FromWords(2))
	store.Clear()

	assert.Zero(t, store.Len())
	assert.Equal(t, 2, clone.Len())
}
