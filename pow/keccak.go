package pow

import (
	"encoding/binary"

	"github.com/codahale/spongefish/hazmat/keccak"
)

// KeccakStrategy grinds a nonce by placing the challenge and nonce directly into a Keccak-p[1600,12]
// state and checking the first output lane against the threshold — a single permutation call per
// candidate nonce, with no hashing framing at all.
type KeccakStrategy struct {
	challenge [32]byte
	threshold uint64
}

// NewKeccakStrategy builds a KeccakStrategy for the given challenge and difficulty.
func NewKeccakStrategy(challenge [32]byte, bits float64) Strategy {
	return &KeccakStrategy{challenge: challenge, threshold: Threshold(bits)}
}

// Check runs the permutation once over [challenge(32 bytes) | nonce(8 bytes) | zeros...] and reports
// whether the first little-endian output lane is below the threshold.
func (k *KeccakStrategy) Check(nonce uint64) bool {
	var state [200]byte
	copy(state[:32], k.challenge[:])
	binary.LittleEndian.PutUint64(state[32:40], nonce)
	keccak.P1600(&state)
	return binary.LittleEndian.Uint64(state[:8]) < k.threshold
}
