// Package signature provides the probabilistic signature used by the
// membership-probe gate: a fixed width bit set and the hasher that sets
// k bits per key.
package signature

import (
	"encoding/binary"
	"errors"
	"math/bits"

	"github.com/Guyuepp/bucket-filter/domain"
)

const wordBits = 64

// ErrInvalidEncoding is returned when a binary signature is not a whole number of words.
var ErrInvalidEncoding = errors.New("signature: invalid encoding")

// Bits is a fixed width bit set packed in 64 bit words.
// The zero value is an empty signature of width 0.
type Bits struct {
	words []uint64
}

// New returns an empty signature able to hold width bits.
// width is rounded up to a whole word.
func New(width uint64) Bits {
	return Bits{words: make([]uint64, (width+wordBits-1)/wordBits)}
}

// FromWords builds a signature from raw words, lowest bits first.
func FromWords(words ...uint64) Bits {
	w := make([]uint64, len(words))
	copy(w, words)
	return Bits{words: w}
}

// Width returns the number of bits the signature can hold.
func (b Bits) Width() uint64 {
	return uint64(len(b.words)) * wordBits
}

// Words returns a copy of the underlying words.
func (b Bits) Words() []uint64 {
	w := make([]uint64, len(b.words))
	copy(w, b.words)
	return w
}

// Set sets bit i. Bits outside the width are ignored.
func (b Bits) Set(i uint64) {
	if i >= b.Width() {
		return
	}
	b.words[i/wordBits] |= 1 << (i % wordBits)
}

// Test reports whether bit i is set.
func (b Bits) Test(i uint64) bool {
	if i >= b.Width() {
		return false
	}
	return b.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// And returns the intersection of b and other, with the width of b.
// Words missing from other count as zero.
func (b Bits) And(other Bits) Bits {
	res := make([]uint64, len(b.words))
	for i := range res {
		if i < len(other.words) {
			res[i] = b.words[i] & other.words[i]
		}
	}
	return Bits{words: res}
}

// Or returns the union of b and other, as wide as the wider of the two.
// Every bit set in either contributor stays set in the result.
func (b Bits) Or(other Bits) Bits {
	n := max(len(b.words), len(other.words))
	res := make([]uint64, n)
	copy(res, b.words)
	for i, w := range other.words {
		res[i] |= w
	}
	return Bits{words: res}
}

// Equal reports whether both signatures have the same width and bits.
func (b Bits) Equal(other Bits) bool {
	if len(b.words) != len(other.words) {
		return false
	}
	for i := range b.words {
		if b.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// MarshalBinary encodes the words little endian.
func (b Bits) MarshalBinary() ([]byte, error) {
	buf := make([]byte, len(b.words)*8)
	for i, w := range b.words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return buf, nil
}

// UnmarshalBinary decodes what MarshalBinary produced.
func (b *Bits) UnmarshalBinary(data []byte) error {
	if len(data)%8 != 0 {
		return ErrInvalidEncoding
	}
	words := make([]uint64, len(data)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(data[i*8:])
	}
	b.words = words
	return nil
}

// Decode is UnmarshalBinary as a function.
func Decode(data []byte) (Bits, error) {
	var b Bits
	err := b.UnmarshalBinary(data)
	return b, err
}

// Contains checks that every bit required by computed is also set in stored.
// This is necessary but not sufficient for membership, so false positives
// are possible and false negatives are not.
func Contains(stored, computed Bits) domain.BloomResult {
	if computed.And(stored).Equal(computed) {
		return domain.MayExist
	}
	return domain.Missing
}
