package duplex

import "github.com/codahale/spongefish/hazmat/keccak"

// KeccakWidth and KeccakRate are the width and rate, in bytes, of the byte sponge used throughout
// the engine: Keccak-p[1600,12] at capacity 64 (rate 136, width 200).
const (
	KeccakWidth = 200
	KeccakRate  = 136
)

// KeccakPermutation is the byte Permutation backing the core duplex sponge, IV derivation, the
// transcript-bound RNG, and PoW grinding. It wraps the Keccak-p[1600,12] permutation; see
// hazmat/keccak for the round count rationale.
type KeccakPermutation struct{}

func (KeccakPermutation) Width() int { return KeccakWidth }

func (KeccakPermutation) Rate() int { return KeccakRate }

// Init places iv into the first 32 bytes of the capacity region (positions R..R+32), leaving the
// rest of the capacity zero.
func (KeccakPermutation) Init(iv [32]byte) []byte {
	state := make([]byte, KeccakWidth)
	copy(state[KeccakRate:KeccakRate+32], iv[:])
	return state
}

func (KeccakPermutation) Permute(state []byte) {
	var arr [200]byte
	copy(arr[:], state)
	keccak.P1600(&arr)
	copy(state, arr[:])
}
