package duplex

import (
	"crypto/sha256"

	"github.com/gtank/ristretto255"
)

// ScalarWidth and ScalarRate are the width and rate, in units, of the illustrative algebraic
// permutation below.
const (
	ScalarWidth = 3
	ScalarRate  = 2
	scalarRounds = 4
)

var scalarRoundConstants [scalarRounds][ScalarWidth]*ristretto255.Scalar

func init() {
	for round := 0; round < scalarRounds; round++ {
		for pos := 0; pos < ScalarWidth; pos++ {
			h := sha256.Sum256([]byte{'s', 'c', 'a', 'l', 'a', 'r', '-', 'p', 'e', 'r', 'm', byte(round), byte(pos)})
			wide := append(h[:], h[:]...)
			s, err := ristretto255.NewScalar().SetUniformBytes(wide)
			if err != nil {
				panic(err)
			}
			scalarRoundConstants[round][pos] = s
		}
	}
}

// ScalarPermutation is a small, illustrative arithmetic permutation over Ristretto255 scalars,
// demonstrating that Sponge is generic over the unit alphabet rather than hardwired to bytes.
//
// It is unaudited and not a serious algebraic hash construction (real ones, like Poseidon or
// Anemoi, are explicitly out of scope for this engine). No other package in this module uses it:
// the codec layer operates on byte sponges only.
type ScalarPermutation struct{}

func (ScalarPermutation) Width() int { return ScalarWidth }

func (ScalarPermutation) Rate() int { return ScalarRate }

// Init interprets iv mod the scalar field and places it in the single capacity position (ScalarRate).
func (ScalarPermutation) Init(iv [32]byte) []*ristretto255.Scalar {
	state := make([]*ristretto255.Scalar, ScalarWidth)
	for i := range state {
		state[i] = ristretto255.NewScalar()
	}
	wide := append(iv[:], make([]byte, 32)...)
	s, err := ristretto255.NewScalar().SetUniformBytes(wide)
	if err != nil {
		panic(err)
	}
	state[ScalarRate] = s
	return state
}

// Permute runs a fixed number of rounds of add-round-constant followed by a cheap mixing layer
// (pairwise sums folded through a multiplication with the next state word).
func (ScalarPermutation) Permute(state []*ristretto255.Scalar) {
	for round := 0; round < scalarRounds; round++ {
		for i := range state {
			state[i] = ristretto255.NewScalar().Add(state[i], scalarRoundConstants[round][i])
		}
		next := make([]*ristretto255.Scalar, len(state))
		for i := range state {
			a := state[i]
			b := state[(i+1)%len(state)]
			next[i] = ristretto255.NewScalar().Add(ristretto255.NewScalar().Multiply(a, b), a)
		}
		copy(state, next)
	}
}
