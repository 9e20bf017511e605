package model

import "time"

// BucketSignature stores one encoded bucket signature per (scope, bucket).
type BucketSignature struct {
	Scope     string    `gorm:"primaryKey;type:varchar(64)"`
	Bucket    string    `gorm:"primaryKey;type:varchar(64)"`
	Signature []byte    `gorm:"type:blob;not null"`
	UpdatedAt time.Time `gorm:"type:datetime"`
}

func (BucketSignature) TableName() string {
	return "bucket_signature"
}
