package gate

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/bucket-filter/domain"
	expire "github.com/Guyuepp/bucket-filter/internal/repository/cache"
	"github.com/Guyuepp/bucket-filter/internal/signature"
	"github.com/Guyuepp/bucket-filter/internal/stats"
	"github.com/Guyuepp/bucket-filter/internal/usecase/bloom"
	"github.com/Guyuepp/bucket-filter/internal/usecase/cache"
	"github.com/Guyuepp/bucket-filter/internal/usecase/sub"
)

const (
	DefaultStaleAfter    = 5 * time.Minute
	DefaultIndexScanCost = 4
	DefaultSeqScanCost   = 1
)

type (
	signatureStore = expire.DataWithLogicalExpire[*bloom.Store[signature.Bits]]
	bucketStore    = expire.DataWithLogicalExpire[*cache.BucketSet]
)

// Snapshotter keeps a local copy of the published signatures.
type Snapshotter interface {
	SaveSignatures(ctx context.Context, scope domain.Bucket, pairs []domain.SignaturePair[signature.Bits]) error
	ListSignatures(ctx context.Context, scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error)
	Manifest(ctx context.Context, scope domain.Bucket) (domain.SnapshotManifest, error)
}

type Config struct {
	Scope domain.Bucket
	// Hasher defaults to signature.DefaultOptions when nil.
	Hasher *signature.Hasher
	// Scan costs are used as given; zero is a valid weight.
	IndexScanCost float32
	SeqScanCost   float32
	StaleAfter    time.Duration
	// DoubleCheck forces the local filter on pushed down fetches.
	DoubleCheck bool
}

// Service answers reads through the published stores. Stores are built
// off to the side and swapped in whole, so readers never see a half
// refreshed store.
type Service struct {
	signatures domain.SignatureRepository[signature.Bits]
	buckets    domain.BucketRepository
	items      domain.ItemRepository
	estimator  *stats.Estimator
	snapshot   Snapshotter
	worker     domain.RefreshWorker
	cfg        Config

	check bloom.Checker[signature.Bits, domain.KeyFilter]

	sigStore     atomic.Pointer[signatureStore]
	bucketSet    atomic.Pointer[bucketStore]
	refreshGroup singleflight.Group
}

var (
	_ domain.GateUsecase = (*Service)(nil)
	_ domain.Refresher   = (*Service)(nil)
)

// NewService will create a new gate service object. snapshot may be nil.
func NewService(
	sr domain.SignatureRepository[signature.Bits],
	br domain.BucketRepository,
	ir domain.ItemRepository,
	est *stats.Estimator,
	snapshot Snapshotter,
	cfg Config,
) (*Service, error) {
	if cfg.IndexScanCost < 0 || cfg.SeqScanCost < 0 {
		return nil, fmt.Errorf("%w: scan costs must not be negative", domain.ErrBadParamInput)
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.Hasher == nil {
		h, err := signature.NewHasher(nil)
		if err != nil {
			return nil, err
		}
		cfg.Hasher = h
	}
	if est == nil {
		est = stats.NewEstimator(nil)
	}

	hasher := cfg.Hasher
	hash := func(f domain.KeyFilter) signature.Bits {
		return hasher.SumString(f.Key)
	}
	return &Service{
		signatures: sr,
		buckets:    br,
		items:      ir,
		estimator:  est,
		snapshot:   snapshot,
		cfg:        cfg,
		check:      bloom.NewChecker[signature.Bits, domain.KeyFilter](hash, signature.Contains),
	}, nil
}

// SetWorker makes Ingest ask w for a refresh. Call it before serving.
func (s *Service) SetWorker(w domain.RefreshWorker) {
	s.worker = w
}

func (s *Service) listSignatures(ctx context.Context, r domain.SignatureRepository[signature.Bits], scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
	pairs, err := r.ListSignatures(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.sameWidth(pairs), nil
}

func (s *Service) listSnapshot(ctx context.Context, r Snapshotter, scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
	pairs, err := r.ListSignatures(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.sameWidth(pairs), nil
}

// sameWidth drops the signatures built by a hasher of another width.
// Comparing them would report present keys as missing.
func (s *Service) sameWidth(pairs []domain.SignaturePair[signature.Bits]) []domain.SignaturePair[signature.Bits] {
	width := s.cfg.Hasher.Width()
	res := make([]domain.SignaturePair[signature.Bits], 0, len(pairs))
	for _, p := range pairs {
		if p.Signature.Width() != width {
			logrus.WithFields(logrus.Fields{
				"bucket": p.Bucket.String(),
				"width":  p.Signature.Width(),
				"want":   width,
			}).Warn("signature width mismatch, bucket dropped")
			continue
		}
		res = append(res, p)
	}
	return res
}

func listBuckets(ctx context.Context, r domain.BucketRepository) ([]string, error) {
	return r.ListBuckets(ctx)
}

func fetchByKey(ctx context.Context, r domain.ItemRepository, b domain.Bucket, f domain.KeyFilter) ([]domain.Item, error) {
	return r.FetchByKey(ctx, b, f)
}

// fetchSubBuckets feeds the distinct id sketch from full scans only.
// A ranged fetch sees a part of the ids and would shrink the estimate.
func (s *Service) fetchSubBuckets(ctx context.Context, r domain.ItemRepository, b domain.Bucket, cfg *domain.RangeFilter) ([]domain.SubBucket, error) {
	res, err := r.FetchSubBuckets(ctx, b, cfg)
	if err != nil || cfg != nil {
		return res, err
	}
	ids := make([]int64, len(res))
	for i := range res {
		ids[i] = res[i].ID
	}
	s.estimator.ObserveFullScan(b, ids...)
	return res, nil
}

// Rows gets the items of b with the given key unless the signature of b
// proves the key missing.
func (s *Service) Rows(ctx context.Context, b domain.Bucket, key string) ([]domain.Item, error) {
	env := s.sigStore.Load()
	if env == nil {
		return nil, domain.ErrNotFound
	}

	var verdict domain.BloomResult
	probe := s.check.Bind(env.Data)
	gate := func(b domain.Bucket, f domain.KeyFilter) domain.BloomResult {
		verdict = probe(b, f)
		return verdict
	}

	res, err := bloom.GetOrSkipIfMissing(ctx, gate, s.items, b, fetchByKey, domain.KeyFilter{Key: key})
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"bucket": b.String(), "verdict": verdict.String()})
	switch {
	case verdict == domain.Missing:
		log.Debug("read skipped")
	case len(res) == 0:
		log.Info("signature false positive")
	}
	return res, nil
}

// RowsIfKnown gets the items of b with the given key unless b is not a known bucket.
func (s *Service) RowsIfKnown(ctx context.Context, b domain.Bucket, key string) ([]domain.Item, error) {
	env := s.bucketSet.Load()
	if env == nil {
		return nil, domain.ErrNotFound
	}

	known := func(b domain.Bucket) bool {
		if env.Data.Contains(b) {
			return true
		}
		logrus.WithField("bucket", b.String()).Debug("read skipped, unknown bucket")
		return false
	}
	return cache.GetOrSkipIfBucketMissing(ctx, known, s.items, b, fetchByKey, domain.KeyFilter{Key: key})
}

// SubBuckets gets the sub buckets of b inside f. Whether f is applied by the
// source or locally is decided by comparing the estimated scan costs.
func (s *Service) SubBuckets(ctx context.Context, b domain.Bucket, f domain.RangeFilter, doubleCheck bool) ([]domain.SubBucket, error) {
	if f.Hi < f.Lo {
		return nil, domain.ErrBadParamInput
	}

	ix, seq := s.estimator.Estimators(b)
	pushdown := sub.NewPushdownByStorage(ix, seq, s.cfg.IndexScanCost, s.cfg.SeqScanCost)
	get := sub.NewGetter(s.fetchSubBuckets, sub.ByIDRange, pushdown)
	return get(ctx, s.items, b, f, doubleCheck || s.cfg.DoubleCheck)
}

// Ingest stores items into b, then merges their keys into the signature of
// b. Until the next refresh the published store still misses the new keys,
// so a refresh of both stores is requested from the worker.
func (s *Service) Ingest(ctx context.Context, b domain.Bucket, items []domain.Item) ([]domain.Item, error) {
	if len(items) == 0 {
		return nil, domain.ErrBadParamInput
	}
	keys := make([][]byte, len(items))
	for i := range items {
		if items[i].Key == "" {
			return nil, fmt.Errorf("%w: empty key", domain.ErrBadParamInput)
		}
		keys[i] = []byte(items[i].Key)
	}

	// 先登记桶，MySQL 下桶即表
	if err := s.buckets.AddBuckets(ctx, b.String()); err != nil {
		return nil, err
	}

	stored := make([]domain.Item, len(items))
	for i := range items {
		stored[i] = domain.Item{Key: items[i].Key, Value: items[i].Value}
		if err := s.items.Store(ctx, b, &stored[i]); err != nil {
			return nil, err
		}
	}

	// 行已写入，签名合并失败时这些 key 在刷新前会被误判为不存在
	if err := s.signatures.MergeSignature(ctx, s.cfg.Scope, b, s.cfg.Hasher.SumAll(keys...)); err != nil {
		logrus.Errorf("failed to merge signature of %s: %v", b, err)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"bucket": b.String(), "items": len(stored)}).Info("items ingested")
	if s.worker != nil {
		s.worker.Send(domain.RefreshSignatures)
		s.worker.Send(domain.RefreshBuckets)
	}
	return stored, nil
}

// RebuildSignature replaces the signature of b with one computed from the
// keys stored in b. It drops the bits of deleted keys and adopts the width
// of the current hasher.
func (s *Service) RebuildSignature(ctx context.Context, b domain.Bucket) (int, error) {
	keys, err := s.items.FetchKeys(ctx, b)
	if err != nil {
		return 0, err
	}
	raw := make([][]byte, len(keys))
	for i, k := range keys {
		raw[i] = []byte(k)
	}
	if err := s.signatures.PutSignature(ctx, s.cfg.Scope, b, s.cfg.Hasher.SumAll(raw...)); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{"bucket": b.String(), "keys": len(keys)}).Info("signature rebuilt")
	if s.worker != nil {
		s.worker.Send(domain.RefreshSignatures)
	}
	return len(keys), nil
}

// RefreshSignatures rebuilds the signature store from the signature source.
// A failed refresh still publishes the (empty) store, marked stale.
func (s *Service) RefreshSignatures(ctx context.Context) (uint64, error) {
	v, err, _ := s.refreshGroup.Do("signatures", func() (any, error) {
		store := bloom.NewStore[signature.Bits]()
		n, err := bloom.Refresh(ctx, store, s.signatures, s.listSignatures, s.cfg.Scope)
		if err != nil {
			s.sigStore.Store(expire.NewExpiredData(store))
			logrus.Errorf("failed to refresh signatures of %s: %v", s.cfg.Scope, err)
			return uint64(0), err
		}
		s.sigStore.Store(expire.NewDataWithLogicalExpire(store, s.cfg.StaleAfter))
		logrus.WithFields(logrus.Fields{"scope": s.cfg.Scope.String(), "buckets": n}).Info("signatures refreshed")

		s.saveSnapshot(ctx, store)
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

func (s *Service) saveSnapshot(ctx context.Context, store *bloom.Store[signature.Bits]) {
	if s.snapshot == nil {
		return
	}
	pairs := make([]domain.SignaturePair[signature.Bits], 0, store.Len())
	store.Scan(func(b domain.Bucket, sig signature.Bits) bool {
		pairs = append(pairs, domain.SignaturePair[signature.Bits]{Bucket: b, Signature: sig})
		return true
	})
	if err := s.snapshot.SaveSignatures(ctx, s.cfg.Scope, pairs); err != nil {
		logrus.Warnf("failed to save signature snapshot: %v", err)
	}
}

// RefreshBuckets rebuilds the known bucket set and reloads the table
// statistics of every known bucket. Statistics failures are only logged.
func (s *Service) RefreshBuckets(ctx context.Context) (uint64, error) {
	v, err, _ := s.refreshGroup.Do("buckets", func() (any, error) {
		set := cache.NewBucketSet()
		n, err := cache.Refresh(ctx, set, s.buckets, listBuckets)
		if err != nil {
			s.bucketSet.Store(expire.NewExpiredData(set))
			logrus.Errorf("failed to refresh buckets: %v", err)
			return uint64(0), err
		}
		s.bucketSet.Store(expire.NewDataWithLogicalExpire(set, s.cfg.StaleAfter))
		logrus.WithField("buckets", n).Info("buckets refreshed")

		known := make([]domain.Bucket, 0, set.Len())
		set.Scan(func(b domain.Bucket) bool {
			known = append(known, b)
			return true
		})
		if err := s.estimator.Load(ctx, known...); err != nil {
			logrus.Warnf("failed to load table stats: %v", err)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uint64), nil
}

// Refresh rebuilds both stores concurrently.
func (s *Service) Refresh(ctx context.Context) (domain.RefreshReport, error) {
	var report domain.RefreshReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		report.Signatures, err = s.RefreshSignatures(ctx)
		return err
	})
	g.Go(func() (err error) {
		report.Buckets, err = s.RefreshBuckets(ctx)
		return err
	})
	err := g.Wait()
	return report, err
}

// Stale returns the stores that were never published or are past their expiry.
func (s *Service) Stale() []domain.RefreshTarget {
	var res []domain.RefreshTarget
	if env := s.sigStore.Load(); env == nil || env.IsLogicalExpired() {
		res = append(res, domain.RefreshSignatures)
	}
	if env := s.bucketSet.Load(); env == nil || env.IsLogicalExpired() {
		res = append(res, domain.RefreshBuckets)
	}
	return res
}

// WarmStart publishes the snapshot signatures, marked stale so the next
// refresh replaces them. A missing snapshot, or one saved with a hasher of
// another width, is not an error.
func (s *Service) WarmStart(ctx context.Context) error {
	if s.snapshot == nil || s.sigStore.Load() != nil {
		return nil
	}

	m, err := s.snapshot.Manifest(ctx, s.cfg.Scope)
	if errors.Is(err, domain.ErrNotFound) {
		logrus.Info("no signature snapshot, waiting for the first refresh")
		return nil
	}
	if err != nil {
		return err
	}
	if m.Count > 0 && m.Width != s.cfg.Hasher.Width() {
		logrus.WithFields(logrus.Fields{"width": m.Width, "want": s.cfg.Hasher.Width()}).
			Warn("signature snapshot saved with another width, ignored")
		return nil
	}

	store := bloom.NewStore[signature.Bits]()
	n, err := bloom.Refresh(ctx, store, s.snapshot, s.listSnapshot, s.cfg.Scope)
	if errors.Is(err, domain.ErrNotFound) {
		logrus.Info("no signature snapshot, waiting for the first refresh")
		return nil
	}
	if err != nil {
		return err
	}
	s.sigStore.CompareAndSwap(nil, expire.NewExpiredData(store))
	logrus.WithField("buckets", n).Info("signatures loaded from snapshot")
	return nil
}
