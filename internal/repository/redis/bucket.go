package redis

import (
	"context"
	"errors"
	"net"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/bucket-filter/domain"
)

type bucketRepo struct {
	client *redis.Client
}

var _ domain.BucketRepository = (*bucketRepo)(nil)

func NewBucketRepo(client *redis.Client) *bucketRepo {
	return &bucketRepo{client}
}

// ListBuckets 返回已知桶集合的成员，已排序
func (r *bucketRepo) ListBuckets(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, KeyKnownBucket).Result()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	} else if err != nil {
		return nil, classify("list buckets", err)
	}
	sort.Strings(names)
	return names, nil
}

// AddBuckets 登记已知桶
func (r *bucketRepo) AddBuckets(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	members := make([]any, len(names))
	for i, n := range names {
		members[i] = n
	}
	return classify("add buckets", r.client.SAdd(ctx, KeyKnownBucket, members...).Err())
}

func isConnErr(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
