package model

import "github.com/Guyuepp/bucket-filter/domain"

// Item is a row of a bucket table. Every bucket table shares this layout;
// the table name is the bucket name.
type Item struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	ItemKey string `gorm:"column:item_key;type:varchar(255);not null;index"`
	Value   string `gorm:"column:item_value;type:longtext"`
}

func (m *Item) ToDomain() domain.Item {
	return domain.Item{
		ID:    m.ID,
		Key:   m.ItemKey,
		Value: m.Value,
	}
}

func (m *Item) ToSubBucket() domain.SubBucket {
	return domain.SubBucket{
		ID:   m.ID,
		Data: []byte(m.Value),
	}
}

func NewItemFromDomain(it *domain.Item) *Item {
	return &Item{
		ID:      it.ID,
		ItemKey: it.Key,
		Value:   it.Value,
	}
}
