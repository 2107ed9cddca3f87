// Package duplex implements the overwrite-mode duplex sponge construction used by the rest of the
// engine: absorb replaces rate bytes instead of XOR-ing them, which removes any algebraic
// requirement on the unit type and keeps the construction usable with both byte permutations
// (Keccak) and algebraic ones (a toy scalar permutation lives alongside it, for illustration).
package duplex

import "github.com/codahale/spongefish/hazmat/unit"

// Permutation is a fixed-width permutation over units of type U, with a width N (total state size)
// and a rate R (exposed, absorb/squeeze-able prefix); the remaining N-R units are the capacity and
// are only ever touched by Init, never by Absorb or Squeeze.
type Permutation[U any] interface {
	// Width is the total state size N, in units.
	Width() int
	// Rate is R, the exposed prefix of the state, in units. Capacity is Width()-Rate() and must be > 0.
	Rate() int
	// Init returns a fresh, zeroed state of length Width() with iv folded into the capacity region.
	Init(iv [32]byte) []U
	// Permute applies the permutation in place to a Width()-length state.
	Permute(state []U)
}

// Sponge is a duplex sponge in overwrite mode, built on a Permutation. It satisfies the Duplex
// interface the rest of the engine is written against, so it can be swapped out for any other
// absorb/squeeze/ratchet primitive (such as the legacy block-hash bridge) without the guarded hash
// or the prover/verifier transcripts knowing the difference.
type Sponge[U any] struct {
	perm       Permutation[U]
	codec      unit.Codec[U]
	state      []U
	absorbPos  int
	squeezePos int
}

// New constructs a Sponge from a Permutation, a Codec describing how to scrub units, and a 32-byte
// IV (see the root package's IV derivation for how this is produced from a domain separator).
func New[U any](perm Permutation[U], codec unit.Codec[U], iv [32]byte) *Sponge[U] {
	if perm.Width() <= perm.Rate() {
		panic("duplex: capacity of the sponge must be > 0")
	}
	return &Sponge[U]{
		perm:       perm,
		codec:      codec,
		state:      perm.Init(iv),
		absorbPos:  0,
		squeezePos: perm.Rate(),
	}
}

// Absorb overwrites up to Rate() units of state per permutation call until all of input has been
// consumed, then forces the next Squeeze to permute first.
func (s *Sponge[U]) Absorb(input []U) {
	r := s.perm.Rate()
	for len(input) > 0 {
		if s.absorbPos == r {
			s.perm.Permute(s.state)
			s.absorbPos = 0
		}
		n := min(len(input), r-s.absorbPos)
		copy(s.state[s.absorbPos:s.absorbPos+n], input[:n])
		s.absorbPos += n
		input = input[n:]
	}
	s.squeezePos = r
}

// Squeeze fills output by copying out of the rate region, permuting whenever the rate is exhausted.
func (s *Sponge[U]) Squeeze(output []U) {
	r := s.perm.Rate()
	for len(output) > 0 {
		if s.squeezePos == r {
			s.perm.Permute(s.state)
			s.squeezePos = 0
			s.absorbPos = 0
		}
		n := min(len(output), r-s.squeezePos)
		copy(output[:n], s.state[s.squeezePos:s.squeezePos+n])
		s.squeezePos += n
		output = output[n:]
	}
}

// Ratchet permutes, then zeroes the rate region, so that future squeezes depend on the pre-ratchet
// state only through the (untouched) capacity. This is what gives the transcript-bound RNG and the
// PoW extension forward secrecy across draws.
func (s *Sponge[U]) Ratchet() {
	s.perm.Permute(s.state)
	zero := s.codec.Zero()
	r := s.perm.Rate()
	for i := 0; i < r; i++ {
		s.state[i] = zero
	}
	s.squeezePos = r
}

// Clear zeroes the entire sponge state, including the capacity.
func (s *Sponge[U]) Clear() {
	zero := s.codec.Zero()
	for i := range s.state {
		s.state[i] = zero
	}
}

// Clone returns an independent copy of the sponge, sharing no mutable state with the original.
func (s *Sponge[U]) Clone() *Sponge[U] {
	state := make([]U, len(s.state))
	copy(state, s.state)
	return &Sponge[U]{
		perm:       s.perm,
		codec:      s.codec,
		state:      state,
		absorbPos:  s.absorbPos,
		squeezePos: s.squeezePos,
	}
}
