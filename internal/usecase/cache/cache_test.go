package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/usecase/cache"
)

type client struct {
	calls int
}

type filterDatabase struct {
	datname string
}

func lister(names ...string) domain.BucketLister[*client] {
	return func(_ context.Context, c *client) ([]string, error) {
		c.calls++
		return names, nil
	}
}

func getter(rows ...string) domain.RowFetcher[*client, filterDatabase, string] {
	return func(_ context.Context, c *client, _ domain.Bucket, _ filterDatabase) ([]string, error) {
		c.calls++
		return rows, nil
	}
}

func TestGetOrSkipIfBucketMissing(t *testing.T) {
	ctx := context.Background()
	set := cache.NewBucketSet()
	c := &client{}

	_, err := cache.Refresh(ctx, set, c, lister("a", "b"))
	require.NoError(t, err)

	filter := filterDatabase{datname: "template0"}

	t.Run("known bucket delegates", func(t *testing.T) {
		c.calls = 0
		rows, err := cache.GetOrSkipIfBucketMissing(ctx, set.Contains, c, domain.NewBucket("a"), getter("C"), filter)
		require.NoError(t, err)
		assert.Equal(t, []string{"C"}, rows)
		assert.Equal(t, 1, c.calls)
	})

	t.Run("unknown bucket is skipped", func(t *testing.T) {
		c.calls = 0
		rows, err := cache.GetOrSkipIfBucketMissing(ctx, set.Contains, c, domain.NewBucket("c"), getter("C"), filter)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
		assert.Zero(t, c.calls)
	})

	t.Run("errors propagate unchanged", func(t *testing.T) {
		boom := domain.Unexpected("Unable to get a string", errors.New("syntax error"))
		failing := func(context.Context, *client, domain.Bucket, filterDatabase) ([]string, error) {
			return nil, boom
		}
		_, err := cache.GetOrSkipIfBucketMissing(ctx, set.Contains, c, domain.NewBucket("b"), failing, filter)
		assert.Equal(t, boom, err)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	set := cache.NewBucketSet()
	set.Insert(domain.NewBucket("gone"))

	n, err := cache.Refresh(ctx, set, &client{}, lister("pg_database", "pg_class", "pg_database"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)
	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Contains(domain.NewBucket("gone")))

	var names []string
	set.Scan(func(b domain.Bucket) bool {
		names = append(names, b.String())
		return true
	})
	assert.Equal(t, []string{"pg_class", "pg_database"}, names)
}

func TestRefresh_Idempotent(t *testing.T) {
	ctx := context.Background()
	names := []string{faker.Word() + "_1", faker.Word() + "_2", faker.Word() + "_3"}
	set := cache.NewBucketSet()

	first, err := cache.Refresh(ctx, set, &client{}, lister(names...))
	require.NoError(t, err)
	second, err := cache.Refresh(ctx, set, &client{}, lister(names...))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, uint64(3), second)
}

func TestRefresh_ErrorLeavesSetCleared(t *testing.T) {
	set := cache.NewBucketSet()
	set.Insert(domain.NewBucket("a"))

	failing := func(context.Context, *client) ([]string, error) {
		return nil, domain.UnableToConnect("Unable to connect to mysql", nil)
	}
	n, err := cache.Refresh(context.Background(), set, &client{}, failing)

	assert.Zero(t, n)
	assert.ErrorIs(t, err, domain.ErrUnableToConnect)
	assert.Zero(t, set.Len())
}

func TestBucketSet_Clone(t *testing.T) {
	set := cache.NewBucketSet()
	set.Insert(domain.NewBucket("a"))
	clone := set.Clone()

	assert.False(t, clone.Insert(domain.NewBucket("a")))
	assert.True(t, clone.Insert(domain.NewBucket("b")))
	assert.Equal(t, 1, set.Len())
}
