package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/signature"
)

const (
	KeySignatures  = "sig:%s"
	KeyKnownBucket = "buckets:known"
)

type signatureRepo struct {
	client *redis.Client
}

var _ domain.SignatureRepository[signature.Bits] = (*signatureRepo)(nil)

func NewSignatureRepo(client *redis.Client) *signatureRepo {
	return &signatureRepo{client}
}

// ListSignatures 读取 scope 对应的 hash，结果按桶名排序
func (r *signatureRepo) ListSignatures(ctx context.Context, scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
	fields, err := r.client.HGetAll(ctx, fmt.Sprintf(KeySignatures, scope)).Result()
	if errors.Is(err, redis.Nil) {
		return []domain.SignaturePair[signature.Bits]{}, nil
	} else if err != nil {
		return nil, classify("list signatures", err)
	}

	res := make([]domain.SignaturePair[signature.Bits], 0, len(fields))
	for name, data := range fields {
		sig, err := signature.Decode([]byte(data))
		if err != nil {
			return nil, domain.Unexpected("decode signature of "+name, err)
		}
		res = append(res, domain.SignaturePair[signature.Bits]{
			Bucket:    domain.NewBucket(name),
			Signature: sig,
		})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Bucket.Less(res[j].Bucket)
	})
	return res, nil
}

func (r *signatureRepo) PutSignature(ctx context.Context, scope, b domain.Bucket, sig signature.Bits) error {
	data, err := sig.MarshalBinary()
	if err != nil {
		return domain.Unexpected("encode signature", err)
	}
	err = r.client.HSet(ctx, fmt.Sprintf(KeySignatures, scope), b.String(), string(data)).Err()
	return classify("put signature of "+b.String(), err)
}

// MergeSignature 把 sig 按位或进已有签名
// WATCH 住 hash，并发写入时事务失败而不是丢位
func (r *signatureRepo) MergeSignature(ctx context.Context, scope, b domain.Bucket, sig signature.Bits) error {
	key := fmt.Sprintf(KeySignatures, scope)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		merged := sig
		stored, err := tx.HGet(ctx, key, b.String()).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			old, err := signature.Decode(stored)
			if err != nil {
				return domain.Unexpected("decode signature of "+b.String(), err)
			}
			merged = old.Or(sig)
		}

		data, err := merged.MarshalBinary()
		if err != nil {
			return domain.Unexpected("encode signature", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, b.String(), string(data))
			return nil
		})
		return err
	}, key)
	return classify("merge signature of "+b.String(), err)
}

// classify maps client errors to the domain error kinds.
func classify(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrUnableToConnect) || errors.Is(err, domain.ErrUnexpected) {
		return err
	}
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, redis.ErrPoolTimeout) || isConnErr(err) {
		return domain.UnableToConnect(msg, err)
	}
	return domain.Unexpected(msg, err)
}
