// Package bolt keeps a local snapshot of the published signatures so a
// restarted process can gate queries before the first remote refresh.
package bolt

import (
	"context"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/signature"
)

var (
	bucketManifest = []byte("manifest")
	prefixScope    = "sig:"
)

type SnapshotRepository struct {
	db *bbolt.DB
}

// OpenSnapshot 打开（或创建）path 处的快照文件
func OpenSnapshot(path string) (*SnapshotRepository, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, domain.UnableToConnect("open snapshot "+path, err)
	}
	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	return r.db.Close()
}

// SaveSignatures 整体替换 scope 下保存的签名
func (r *SnapshotRepository) SaveSignatures(ctx context.Context, scope domain.Bucket, pairs []domain.SignaturePair[signature.Bits]) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := domain.SnapshotManifest{Scope: scope.String(), Count: len(pairs), SavedAt: time.Now()}
	if len(pairs) > 0 {
		m.Width = pairs[0].Signature.Width()
	}
	meta, err := msgpack.Marshal(&m)
	if err != nil {
		return domain.Unexpected("encode manifest", err)
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		name := []byte(prefixScope + scope.String())
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		bkt, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			data, err := p.Signature.MarshalBinary()
			if err != nil {
				return err
			}
			if err := bkt.Put([]byte(p.Bucket.String()), data); err != nil {
				return err
			}
		}

		manifests, err := tx.CreateBucketIfNotExists(bucketManifest)
		if err != nil {
			return err
		}
		return manifests.Put([]byte(scope.String()), meta)
	})
	if err != nil {
		return domain.Unexpected("save snapshot of "+scope.String(), err)
	}
	return nil
}

// Manifest returns the manifest of scope, or domain.ErrNotFound if it was never saved.
func (r *SnapshotRepository) Manifest(ctx context.Context, scope domain.Bucket) (domain.SnapshotManifest, error) {
	var m domain.SnapshotManifest
	if err := ctx.Err(); err != nil {
		return m, err
	}
	err := r.db.View(func(tx *bbolt.Tx) error {
		manifests := tx.Bucket(bucketManifest)
		if manifests == nil {
			return domain.ErrNotFound
		}
		data := manifests.Get([]byte(scope.String()))
		if data == nil {
			return domain.ErrNotFound
		}
		return msgpack.Unmarshal(data, &m)
	})
	return m, err
}

// ListSignatures returns the saved pairs of scope in bucket order, or
// domain.ErrNotFound if the scope was never saved.
func (r *SnapshotRepository) ListSignatures(ctx context.Context, scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var res []domain.SignaturePair[signature.Bits]
	err := r.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket([]byte(prefixScope + scope.String()))
		if bkt == nil {
			return domain.ErrNotFound
		}
		res = make([]domain.SignaturePair[signature.Bits], 0, bkt.Stats().KeyN)
		// value 只在事务内有效，Decode 会拷贝
		return bkt.ForEach(func(k, v []byte) error {
			sig, err := signature.Decode(v)
			if err != nil {
				return domain.Unexpected("decode signature of "+string(k), err)
			}
			res = append(res, domain.SignaturePair[signature.Bits]{
				Bucket:    domain.NewBucket(string(k)),
				Signature: sig,
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
