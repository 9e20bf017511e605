package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/repository/mysql/model"
)

type itemRepository struct {
	DB *gorm.DB
}

var _ domain.ItemRepository = (*itemRepository)(nil)

// NewItemRepository 创建数据库操作层
func NewItemRepository(db *gorm.DB) *itemRepository {
	return &itemRepository{db}
}

func (m *itemRepository) FetchByKey(ctx context.Context, b domain.Bucket, filter domain.KeyFilter) ([]domain.Item, error) {
	var rows []model.Item
	err := m.DB.WithContext(ctx).
		Table(b.String()).
		Where("item_key = ?", filter.Key).
		Order("id").
		Find(&rows).
		Error
	if err != nil {
		return nil, classify("fetch "+b.String(), err)
	}

	res := make([]domain.Item, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].ToDomain())
	}
	return res, nil
}

// FetchSubBuckets cfg 为 nil 时全表读取，否则把 id 范围下推到 WHERE
func (m *itemRepository) FetchSubBuckets(ctx context.Context, b domain.Bucket, cfg *domain.RangeFilter) ([]domain.SubBucket, error) {
	var rows []model.Item
	q := m.DB.WithContext(ctx).Table(b.String()).Select("id, item_value")
	if cfg != nil {
		q = q.Where("id BETWEEN ? AND ?", cfg.Lo, cfg.Hi)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, classify("fetch sub buckets of "+b.String(), err)
	}

	res := make([]domain.SubBucket, 0, len(rows))
	for i := range rows {
		res = append(res, rows[i].ToSubBucket())
	}
	return res, nil
}

// FetchKeys 读取桶内去重后的 key，用于重建签名
func (m *itemRepository) FetchKeys(ctx context.Context, b domain.Bucket) ([]string, error) {
	var keys []string
	err := m.DB.WithContext(ctx).
		Table(b.String()).
		Distinct("item_key").
		Order("item_key").
		Pluck("item_key", &keys).
		Error
	if err != nil {
		return nil, classify("fetch keys of "+b.String(), err)
	}
	return keys, nil
}

// Store inserts it into b, filling its ID.
func (m *itemRepository) Store(ctx context.Context, b domain.Bucket, it *domain.Item) error {
	row := model.NewItemFromDomain(it)
	if err := m.DB.WithContext(ctx).Table(b.String()).Create(row).Error; err != nil {
		return classify("store into "+b.String(), err)
	}
	it.ID = row.ID
	return nil
}
