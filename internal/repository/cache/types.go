package cache

import "time"

// DataWithLogicalExpire 支持逻辑过期的数据结构
// 过期后数据仍可读，过期时间只用于判断何时重建
type DataWithLogicalExpire[T any] struct {
	Data      T
	ExpireAt  time.Time // 逻辑过期时间
	CreatedAt time.Time // 创建时间，用于调试
}

// IsLogicalExpired 检查是否逻辑过期
func (d *DataWithLogicalExpire[T]) IsLogicalExpired() bool {
	return d.IsLogicalExpiredAt(time.Now())
}

// IsLogicalExpiredAt is IsLogicalExpired against a given clock.
func (d *DataWithLogicalExpire[T]) IsLogicalExpiredAt(now time.Time) bool {
	return now.After(d.ExpireAt)
}

// Age 距创建过去的时间
func (d *DataWithLogicalExpire[T]) Age() time.Duration {
	return time.Since(d.CreatedAt)
}

// NewDataWithLogicalExpire 创建带逻辑过期的数据
func NewDataWithLogicalExpire[T any](data T, ttl time.Duration) *DataWithLogicalExpire[T] {
	now := time.Now()
	return &DataWithLogicalExpire[T]{
		Data:      data,
		ExpireAt:  now.Add(ttl),
		CreatedAt: now,
	}
}

// NewExpiredData 创建已过期的数据，下次检查即触发重建
func NewExpiredData[T any](data T) *DataWithLogicalExpire[T] {
	now := time.Now()
	return &DataWithLogicalExpire[T]{
		Data:      data,
		ExpireAt:  now.Add(-time.Nanosecond),
		CreatedAt: now,
	}
}
