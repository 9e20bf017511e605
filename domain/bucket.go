package domain

import "strings"

// Bucket identifies a partition of the slow source (a table, a shard, ...).
// Equality and ordering are by name.
type Bucket struct {
	name string
}

// NewBucket creates a bucket from an already checked name.
// No validation is done here; the caller is trusted.
func NewBucket(checked string) Bucket {
	return Bucket{name: checked}
}

// String returns the bucket name.
func (b Bucket) String() string {
	return b.name
}

// Compare returns -1, 0 or +1 comparing the bucket names.
func (b Bucket) Compare(other Bucket) int {
	return strings.Compare(b.name, other.name)
}

// Less reports whether b sorts before other.
func (b Bucket) Less(other Bucket) bool {
	return b.name < other.name
}

// IsZero reports whether the bucket has no name.
func (b Bucket) IsZero() bool {
	return b.name == ""
}
