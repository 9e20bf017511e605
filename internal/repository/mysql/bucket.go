package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/repository/mysql/model"
)

type bucketRepository struct {
	DB     *gorm.DB
	Schema string
}

var _ domain.BucketRepository = (*bucketRepository)(nil)

const createBucketTable = "CREATE TABLE IF NOT EXISTS ? (" +
	"id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
	"item_key VARCHAR(255) NOT NULL, " +
	"item_value LONGTEXT, " +
	"INDEX idx_item_key (item_key))"

// NewBucketRepository 以 schema 下的表作为桶

func NewBucketRepository(db *gorm.DB, schema string) *bucketRepository {
	return &bucketRepository{DB: db, Schema: schema}
}

// ListBuckets returns the table names of the schema, signature table excluded.
func (m *bucketRepository) ListBuckets(ctx context.Context) ([]string, error) {
	var names []string
	err := m.DB.WithContext(ctx).
		Table("information_schema.tables").
		Where("table_schema = ? AND table_name <> ?", m.Schema, model.BucketSignature{}.TableName()).
		Order("table_name").
		Pluck("table_name", &names).
		Error
	if err != nil {
		return nil, classify("list buckets", err)
	}
	return names, nil
}

// AddBuckets 为每个桶建表，已存在的表保持不变
func (m *bucketRepository) AddBuckets(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := m.DB.WithContext(ctx).Exec(createBucketTable, clause.Table{Name: name}).Error; err != nil {
			return classify("create bucket "+name, err)
		}
	}
	return nil
}
