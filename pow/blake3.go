package pow

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Blake3Strategy grinds a nonce using the high-level Blake3 hash over challenge || nonce_LE ||
// zero-pad(24), matching a standard (non-extended) Blake3 digest so results are portable and
// independently verifiable with any Blake3 implementation.
type Blake3Strategy struct {
	challenge [32]byte
	threshold uint64
}

// NewBlake3Strategy builds a Blake3Strategy for the given challenge and difficulty. bits must be
// below 60, matching the statistical assumptions of the threshold computation.
func NewBlake3Strategy(challenge [32]byte, bits float64) Strategy {
	if bits < 0 || bits >= 60 {
		panic("pow: bits must be in [0, 60)")
	}
	return &Blake3Strategy{challenge: challenge, threshold: Threshold(bits)}
}

// Check hashes challenge||nonce_LE||zero-pad-to-32 and reports whether the first 8 little-endian
// output bytes are below the threshold.
func (b *Blake3Strategy) Check(nonce uint64) bool {
	h := blake3.New(32, nil)
	h.Write(b.challenge[:])
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)
	h.Write(nonceBytes[:])
	var zeroPad [24]byte
	h.Write(zeroPad[:])
	digest := h.Sum(nil)
	return binary.LittleEndian.Uint64(digest[:8]) < b.threshold
}
