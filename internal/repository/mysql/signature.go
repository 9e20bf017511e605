package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/repository/mysql/model"
	"github.com/Guyuepp/bucket-filter/internal/signature"
)

// signatureRepository keeps signatures in the bucket_signature side table.
type signatureRepository struct {
	DB *gorm.DB
}

var _ domain.SignatureRepository[signature.Bits] = (*signatureRepository)(nil)

func NewSignatureRepository(db *gorm.DB) *signatureRepository {
	return &signatureRepository{db}
}

func (m *signatureRepository) ListSignatures(ctx context.Context, scope domain.Bucket) ([]domain.SignaturePair[signature.Bits], error) {
	var rows []model.BucketSignature
	err := m.DB.WithContext(ctx).
		Where("scope = ?", scope.String()).
		Order("bucket").
		Find(&rows).
		Error
	if err != nil {
		return nil, classify("list signatures", err)
	}

	res := make([]domain.SignaturePair[signature.Bits], 0, len(rows))
	for i := range rows {
		sig, err := signature.Decode(rows[i].Signature)
		if err != nil {
			return nil, domain.Unexpected("decode signature of "+rows[i].Bucket, err)
		}
		res = append(res, domain.SignaturePair[signature.Bits]{
			Bucket:    domain.NewBucket(rows[i].Bucket),
			Signature: sig,
		})
	}
	return res, nil
}

func (m *signatureRepository) PutSignature(ctx context.Context, scope, b domain.Bucket, sig signature.Bits) error {
	return m.put(m.DB.WithContext(ctx), scope, b, sig)
}

// MergeSignature 在行锁下把 sig 按位或进已有签名
func (m *signatureRepository) MergeSignature(ctx context.Context, scope, b domain.Bucket, sig signature.Bits) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.BucketSignature
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope = ? AND bucket = ?", scope.String(), b.String()).
			Find(&rows).
			Error
		if err != nil {
			return classify("lock signature of "+b.String(), err)
		}

		merged := sig
		if len(rows) > 0 {
			stored, err := signature.Decode(rows[0].Signature)
			if err != nil {
				return domain.Unexpected("decode signature of "+b.String(), err)
			}
			merged = stored.Or(sig)
		}
		return m.put(tx, scope, b, merged)
	})
}

func (m *signatureRepository) put(db *gorm.DB, scope, b domain.Bucket, sig signature.Bits) error {
	data, err := sig.MarshalBinary()
	if err != nil {
		return domain.Unexpected("encode signature", err)
	}
	row := model.BucketSignature{
		Scope:     scope.String(),
		Bucket:    b.String(),
		Signature: data,
		UpdatedAt: time.Now(),
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "bucket"}},
		DoUpdates: clause.AssignmentColumns([]string{"signature", "updated_at"}),
	}).Create(&row).Error
	return classify("put signature of "+b.String(), err)
}
