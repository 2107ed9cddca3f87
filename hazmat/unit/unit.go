// Package unit defines the canonical wire encoding for sponge alphabets.
//
// A sponge can operate over bytes (for Keccak/SHA/BLAKE-style bridges) or over prime-field elements
// (for algebraic hashes like Poseidon or Anemoi). Codec is the seam between the two: it gives the
// guarded hash and the prover/verifier transcripts a uniform way to turn a slice of units into
// canonical bytes and back, without requiring the unit type itself to carry any methods.
package unit

import (
	"errors"

	"github.com/gtank/ristretto255"
)

// ErrShortRead is returned when fewer bytes are available than Codec.Size requires.
var ErrShortRead = errors.New("unit: short read")

// ErrNonCanonical is returned when a decoded representative is not the canonical encoding of a
// valid element (out of range, or not reduced).
var ErrNonCanonical = errors.New("unit: non-canonical encoding")

// Codec is the read/write/zero obligation a unit type must satisfy to back a sponge.
//
// Implementations are stateless and operate on U by value, which lets the zero value of U (or, for
// pointer-shaped U such as *ristretto255.Scalar, the value returned by Zero) stand in for "no
// information" when clearing sponge state.
type Codec[U any] interface {
	// Size is the fixed number of bytes a single unit occupies in its canonical encoding.
	Size() int
	// Zero returns the additive identity / blank unit, used to scrub sponge state.
	Zero() U
	// Encode appends the canonical encoding of u to dst and returns the extended slice.
	Encode(dst []byte, u U) []byte
	// Decode reads exactly Size() bytes from the front of src and returns the decoded unit.
	Decode(src []byte) (U, error)
}

// ByteCodec is the trivial Codec for byte sponges: encode and decode are identity copies.
type ByteCodec struct{}

func (ByteCodec) Size() int { return 1 }

func (ByteCodec) Zero() byte { return 0 }

func (ByteCodec) Encode(dst []byte, u byte) []byte { return append(dst, u) }

func (ByteCodec) Decode(src []byte) (byte, error) {
	if len(src) < 1 {
		return 0, ErrShortRead
	}
	return src[0], nil
}

// ScalarSize is the length, in bytes, of a canonically-encoded Ristretto255 scalar.
const ScalarSize = 32

// ScalarCodec is a Codec for algebraic sponges whose unit is a Ristretto255 scalar, encoded in its
// canonical little-endian compressed form. Decode rejects non-canonical (out-of-range) inputs.
type ScalarCodec struct{}

func (ScalarCodec) Size() int { return ScalarSize }

func (ScalarCodec) Zero() *ristretto255.Scalar { return ristretto255.NewScalar() }

func (ScalarCodec) Encode(dst []byte, u *ristretto255.Scalar) []byte {
	return append(dst, u.Bytes()...)
}

func (ScalarCodec) Decode(src []byte) (*ristretto255.Scalar, error) {
	if len(src) < ScalarSize {
		return nil, ErrShortRead
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(src[:ScalarSize])
	if err != nil || s == nil {
		return nil, ErrNonCanonical
	}
	return s, nil
}
