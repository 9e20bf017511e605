package mysql

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/Guyuepp/bucket-filter/domain"
)

type statsRepository struct {
	DB     *gorm.DB
	Schema string
}

var _ domain.StatsRepository = (*statsRepository)(nil)

func NewStatsRepository(db *gorm.DB, schema string) *statsRepository {
	return &statsRepository{DB: db, Schema: schema}
}

// TableStats 读取 information_schema 中 InnoDB 的行数估计，以及表的 id 上下界
func (m *statsRepository) TableStats(ctx context.Context, b domain.Bucket) (domain.TableStats, error) {
	var info struct {
		TableRows sql.NullInt64
	}
	res := m.DB.WithContext(ctx).
		Table("information_schema.tables").
		Select("table_rows AS table_rows").
		Where("table_schema = ? AND table_name = ?", m.Schema, b.String()).
		Scan(&info)
	if res.Error != nil {
		return domain.TableStats{}, classify("stats of "+b.String(), res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.TableStats{}, domain.ErrNotFound
	}

	var bounds struct {
		MinID int64
		MaxID int64
	}
	err := m.DB.WithContext(ctx).
		Table(b.String()).
		Select("COALESCE(MIN(id), 0) AS min_id, COALESCE(MAX(id), 0) AS max_id").
		Scan(&bounds).
		Error
	if err != nil {
		return domain.TableStats{}, classify("id bounds of "+b.String(), err)
	}

	return domain.TableStats{
		Rows:  info.TableRows.Int64,
		MinID: bounds.MinID,
		MaxID: bounds.MaxID,
	}, nil
}
