package digest

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/cespare/xxhash/v2"

	apperrors "github.com/agbru/digestagg/internal/errors"
)

const (
	// Width is the number of 64-bit limbs in a Digest.
	Width = 63
	// LimbBits is the size of one limb in bits.
	LimbBits = 64
	// Size is the encoded length of a Digest in bytes.
	Size = Width * 8
)

// Digest is a non-negative integer of Width*LimbBits bits. Index 0 holds the
// least significant limb.
//
// Digest is an array, so assignment and argument passing copy it and two
// digests are equal exactly when == reports them equal.
type Digest [Width]uint64

// Zero returns the all-zero digest, the identity of aggregation.
func Zero() Digest {
	return Digest{}
}

// IsZero reports whether every limb of d is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// FromBytes decodes a little-endian encoding of exactly Size bytes.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Size {
		return d, apperrors.ValidationError{
			Field:   "digest",
			Message: fmt.Sprintf("expected %d bytes, got %d", Size, len(b)),
		}
	}
	for i := range d {
		d[i] = binary.LittleEndian.Uint64(b[i*8 : i*8+8])
	}
	return d, nil
}

// Bytes returns the little-endian encoding of d.
func (d Digest) Bytes() []byte {
	out := make([]byte, Size)
	for i, limb := range d {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], limb)
	}
	return out
}

// modulus is 2^(Width*LimbBits).
var modulus = new(big.Int).Lsh(big.NewInt(1), Width*LimbBits)

// FromBigInt converts x to a Digest, reducing it modulo 2^(Width*LimbBits).
// Negative values wrap the same way unsigned arithmetic does.
func FromBigInt(x *big.Int) Digest {
	r := new(big.Int).Mod(x, modulus)
	var d Digest
	mask := new(big.Int).SetUint64(^uint64(0))
	limb := new(big.Int)
	for i := range d {
		d[i] = limb.And(r, mask).Uint64()
		r.Rsh(r, LimbBits)
	}
	return d
}

// BigInt returns the value of d as a big.Int.
func (d Digest) BigInt() *big.Int {
	x := new(big.Int)
	limb := new(big.Int)
	for i := Width - 1; i >= 0; i-- {
		x.Lsh(x, LimbBits)
		x.Or(x, limb.SetUint64(d[i]))
	}
	return x
}

// String returns the full value as big-endian hexadecimal, zero-padded to
// Width*16 characters.
func (d Digest) String() string {
	var sb strings.Builder
	sb.Grow(Width * 16)
	for i := Width - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%016x", d[i])
	}
	return sb.String()
}

// Fingerprint returns a 64-bit xxhash of the encoded digest. It is meant for
// compact display, not for integrity.
func (d Digest) Fingerprint() uint64 {
	return xxhash.Sum64(d.Bytes())
}
