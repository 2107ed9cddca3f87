// Package pow adds a proof-of-work challenge extension to the transcript engine: a grinding puzzle
// solved by the prover and replayed cheaply by the verifier, raising the cost of a fake transcript
// without relying on external trust.
package pow

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/codahale/spongefish"
	"github.com/codahale/spongefish/codec"
)

// ChallengeDomainSeparator declares a proof-of-work challenge: a 32-byte challenge draw followed by
// an 8-byte nonce absorb. The difficulty (bits) is not encoded in the grammar — callers who vary it
// must fold that into the label or domain tag themselves to preserve transcript uniqueness.
func ChallengeDomainSeparator(ds *spongefish.DomainSeparator, label string) *spongefish.DomainSeparator {
	return ds.Squeeze(32, "pow-challenge:"+label).Absorb(8, "pow-nonce:"+label)
}

// Strategy grinds a 32-byte challenge for a nonce whose hash falls below a difficulty threshold.
// Implementations must be safe to use from multiple goroutines after New returns (Check is called
// concurrently by SolveParallel).
type Strategy interface {
	// Check reports whether nonce satisfies the challenge.
	Check(nonce uint64) bool
}

// Threshold converts a bits-of-work target into the 64-bit threshold a valid nonce's hash output
// must fall below: ceil(2^(64-bits)), saturated to math.MaxUint64 when that exceeds the uint64 range
// (bits <= 0).
func Threshold(bits float64) uint64 {
	t := math.Ceil(math.Exp2(64.0 - bits))
	if t >= math.Exp2(64) {
		return math.MaxUint64
	}
	return uint64(t)
}

// Solve performs a single-threaded linear search for the minimal satisfying nonce.
func Solve(s Strategy) (uint64, bool) {
	for nonce := uint64(0); nonce < math.MaxUint64; nonce++ {
		if s.Check(nonce) {
			return nonce, true
		}
	}
	if s.Check(math.MaxUint64) {
		return math.MaxUint64, true
	}
	return 0, false
}

// SolveParallel shards the nonce space across workers goroutines (0 or negative defaults to 1),
// each checking nonce, nonce+workers, nonce+2*workers, ... A shared atomic minimum lets a worker that
// finds a solution abandon the search once a smaller nonce is already known to satisfy the
// challenge, giving a unique deterministic result regardless of scheduling.
func SolveParallel(s Strategy, workers int) (uint64, bool) {
	if workers <= 0 {
		workers = 1
	}
	if workers == 1 {
		return Solve(s)
	}

	var globalMin atomic.Uint64
	globalMin.Store(math.MaxUint64)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start uint64) {
			defer wg.Done()
			for nonce := start; nonce < math.MaxUint64; nonce += uint64(workers) {
				if nonce >= globalMin.Load() {
					return
				}
				if s.Check(nonce) {
					casMin(&globalMin, nonce)
					return
				}
			}
		}(uint64(w))
	}
	wg.Wait()

	if m := globalMin.Load(); m != math.MaxUint64 {
		return m, true
	}
	if s.Check(math.MaxUint64) {
		return math.MaxUint64, true
	}
	return 0, false
}

// casMin atomically sets *addr to the smaller of its current value and v.
func casMin(addr *atomic.Uint64, v uint64) {
	for {
		cur := addr.Load()
		if v >= cur {
			return
		}
		if addr.CompareAndSwap(cur, v) {
			return
		}
	}
}

// ProveChallengePow draws a 32-byte challenge from the prover's transcript, grinds a solving nonce
// with the given strategy constructor, and absorbs the nonce as an 8-byte big-endian integer.
func ProveChallengePow(p *codec.ProverState, bits float64, newStrategy func(challenge [32]byte, bits float64) Strategy) error {
	var challenge [32]byte
	if err := p.SqueezeUnits(challenge[:]); err != nil {
		return err
	}
	nonce, ok := SolveParallel(newStrategy(challenge, bits), runtime.GOMAXPROCS(0))
	if !ok {
		return &spongefish.ProofError{Kind: spongefish.InvalidProof, Msg: "no proof-of-work solution found"}
	}
	var nonceBytes [8]byte
	putUint64BE(nonceBytes[:], nonce)
	return p.AddUnits(nonceBytes[:])
}

// VerifyChallengePow draws the same 32-byte challenge from the verifier's transcript, reads the
// 8-byte nonce, and checks it against the given strategy.
func VerifyChallengePow(v *codec.VerifierState, bits float64, newStrategy func(challenge [32]byte, bits float64) Strategy) error {
	var challenge [32]byte
	if err := v.FillChallengeUnits(challenge[:]); err != nil {
		return err
	}
	var nonceBytes [8]byte
	if err := v.FillNextUnits(nonceBytes[:]); err != nil {
		return err
	}
	nonce := getUint64BE(nonceBytes[:])
	if !newStrategy(challenge, bits).Check(nonce) {
		return &spongefish.ProofError{Kind: spongefish.InvalidProof, Msg: "proof-of-work check failed"}
	}
	return nil
}

func putUint64BE(dst []byte, v uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(v >> (56 - 8*i))
	}
}

func getUint64BE(src []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(src[i])
	}
	return v
}
