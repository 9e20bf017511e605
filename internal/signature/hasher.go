package signature

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"

	"github.com/Guyuepp/bucket-filter/domain"
)

// Options sizes a signature for an expected number of keys per bucket.
type Options struct {
	// Capacity is the number of keys intended to be added to one signature (n).
	Capacity int
	// ErrRate is the desired false positive rate, e.g. 0.001 means 1 in 1000.
	ErrRate float64
}

var DefaultOptions = Options{
	Capacity: 1000,
	ErrRate:  0.01,
}

// Hasher maps a key to the k bits it sets in an m bit signature.
type Hasher struct {
	m uint64
	k int
}

// NewHasher derives m and k from opts.
//
//	k = ceil(log2(1/p))
//	m = n * |ln p| / ln(2)^2, rounded up to a whole word
func NewHasher(opts *Options) (*Hasher, error) {
	if opts == nil {
		opts = &DefaultOptions
	}
	if opts.ErrRate <= 0 || opts.ErrRate >= 1 {
		return nil, fmt.Errorf("%w: error rate must be between 0 and 1", domain.ErrBadParamInput)
	}
	if opts.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be greater than 0", domain.ErrBadParamInput)
	}

	k := int(math.Ceil(math.Log2(1.0 / opts.ErrRate)))
	ln22 := math.Ln2 * math.Ln2
	m := uint64(math.Ceil(float64(opts.Capacity) * math.Abs(math.Log(opts.ErrRate)) / ln22))

	return NewHasherMK(m, k), nil
}

// NewHasherMK creates a hasher for an m bit signature with k probes.
func NewHasherMK(m uint64, k int) *Hasher {
	if m < wordBits {
		m = wordBits
	}
	m = (m + wordBits - 1) / wordBits * wordBits
	if k < 1 {
		k = 1
	}
	return &Hasher{m: m, k: k}
}

// Width returns m.
func (h *Hasher) Width() uint64 {
	return h.m
}

// K returns the number of bits set per key.
func (h *Hasher) K() int {
	return h.k
}

// New returns an empty signature of the hasher's width.
func (h *Hasher) New() Bits {
	return New(h.m)
}

// Sum returns the signature of a single key.
func (h *Hasher) Sum(key []byte) Bits {
	b := h.New()
	h.add(b, key)
	return b
}

// SumString is Sum for a string key.
func (h *Hasher) SumString(key string) Bits {
	return h.Sum([]byte(key))
}

// SumAll returns the merged signature of all keys.
func (h *Hasher) SumAll(keys ...[]byte) Bits {
	b := h.New()
	for _, key := range keys {
		h.add(b, key)
	}
	return b
}

func (h *Hasher) add(b Bits, key []byte) {
	for _, idx := range h.candidates(key) {
		b.Set(idx)
	}
}

// candidates uses double hashing to get the k bit indices of key.
func (h *Hasher) candidates(key []byte) []uint64 {
	h1 := xxhash.Sum64(key)
	h2 := murmur3.Sum64(key) | 1
	res := make([]uint64, 0, h.k)
	for i := 0; i < h.k; i++ {
		res = append(res, (h1+uint64(i)*h2)%h.m)
	}
	return res
}
