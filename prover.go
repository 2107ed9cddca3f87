package spongefish

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/codahale/spongefish/hazmat/duplex"
	"github.com/codahale/spongefish/hazmat/kt128"
	"github.com/codahale/spongefish/hazmat/unit"
)

// streamDigestSize is the width of the KT128 digest AbsorbReader/AbsorbWriter substitute for a
// streamed input. The domain separator must declare an Absorb of this many units at the matching
// grammar position.
const streamDigestSize = 32

// DuplexFactory builds a Duplex seeded with the given IV. The root package passes the IV it derives
// from a DomainSeparator to this factory, which lets ProverState/VerifierState stay agnostic to
// whether the underlying primitive is a permutation-based Sponge or a legacy.DigestBridge.
type DuplexFactory[U any] func(iv [32]byte) Duplex[U]

// NewKeccakByteDuplex returns the DuplexFactory for the engine's default byte sponge
// (Keccak-p[1600,12], overwrite mode, rate 136).
func NewKeccakByteDuplex() DuplexFactory[byte] {
	return func(iv [32]byte) Duplex[byte] {
		return duplex.New[byte](duplex.KeccakPermutation{}, unit.ByteCodec{}, iv)
	}
}

// ProverState is the prover's half of a transcript: a guarded hash, a growable non-interactive
// argument buffer (narg), and a private, transcript-bound RNG.
type ProverState[U any] struct {
	hash  *guardedHash[U]
	codec unit.Codec[U]
	narg  []byte

	rng    *duplex.Sponge[byte]
	csprng io.Reader
}

// NewProverState builds a ProverState from a DomainSeparator, a Codec for the unit alphabet, a
// DuplexFactory for the main guarded hash, and an external CSPRNG (nil defaults to crypto/rand).
func NewProverState[U any](ds *DomainSeparator, codec unit.Codec[U], newDuplex DuplexFactory[U], csprng io.Reader) (*ProverState[U], error) {
	ops, err := ds.Finalize()
	if err != nil {
		return nil, err
	}
	domBytes := ds.Bytes()
	iv := deriveIV(domBytes)

	// The private RNG is always a separate byte duplex sponge, independent of the main hash's unit
	// type or permutation, seeded at construction by absorbing the entire domain-separator string.
	// This binds per-session randomness to the protocol shape and is intentional even though it
	// means the domain separator bytes are absorbed twice (once here, once into the IV derivation
	// above).
	rng := duplex.New[byte](duplex.KeccakPermutation{}, unit.ByteCodec{}, [32]byte{})
	rng.Absorb(domBytes)

	if csprng == nil {
		csprng = rand.Reader
	}

	return &ProverState[U]{
		hash:   newGuardedHash[U](newDuplex(iv), ops),
		codec:  codec,
		rng:    rng,
		csprng: csprng,
	}, nil
}

// AddUnits absorbs units into the main guarded hash, then — only if that succeeds — appends their
// canonical encoding to the argument buffer and absorbs those same bytes into the private RNG. A
// GrammarMismatch therefore leaves the argument buffer with no partial observable effect.
func (p *ProverState[U]) AddUnits(units []U) error {
	if err := p.hash.absorb(units); err != nil {
		return err
	}
	buf := make([]byte, 0, len(units)*p.codec.Size())
	for _, u := range units {
		buf = p.codec.Encode(buf, u)
	}
	p.narg = append(p.narg, buf...)
	p.rng.Absorb(buf)
	return nil
}

// PublicUnits behaves like AddUnits but truncates the argument buffer back to its pre-call length
// afterward: the units still influence both sponges, but observers of the argument never see them.
func (p *ProverState[U]) PublicUnits(units []U) error {
	before := len(p.narg)
	if err := p.AddUnits(units); err != nil {
		return err
	}
	p.narg = p.narg[:before]
	return nil
}

// SqueezeUnits draws a verifier challenge of len(out) units from the guarded hash.
func (p *ProverState[U]) SqueezeUnits(out []U) error {
	return p.hash.squeeze(out)
}

// Ratchet compresses the main guarded hash's state. It does not touch the private RNG sponge.
func (p *ProverState[U]) Ratchet() error {
	return p.hash.ratchet()
}

// NargString returns the argument buffer accumulated so far. The returned slice aliases internal
// state and must not be modified by the caller.
func (p *ProverState[U]) NargString() []byte {
	return p.narg
}

// FillBytes draws transcript-bound randomness: it seeds the private RNG sponge with up to 32 bytes
// from the external CSPRNG, squeezes len(dest) bytes, then ratchets the sponge. This guarantees
// distinct transcripts yield distinct output streams, that outputs remain unrecoverable from the
// argument alone even with a broken external CSPRNG (the external seed is absorbed), and that past
// draws cannot be recovered from the present state.
func (p *ProverState[U]) FillBytes(dest []byte) error {
	seedLen := min(len(dest), 32)
	seed := make([]byte, seedLen)
	if _, err := io.ReadFull(p.csprng, seed); err != nil {
		return err
	}
	p.rng.Absorb(seed)
	p.rng.Squeeze(dest)
	p.rng.Ratchet()
	return nil
}

// AbsorbReader absorbs the content of r without buffering it whole: it pre-hashes the stream
// through KT128 (customized with label, binding the digest to this call site) and absorbs the
// resulting 32-byte digest as an ordinary message. The domain separator must declare
// Absorb(32, label) at the matching grammar position. Only the byte unit alphabet is supported,
// since the digest KT128 produces is a byte string.
func (p *ProverState[U]) AbsorbReader(label string, r io.Reader) error {
	digest, err := hashStreamKT128(label, r)
	if err != nil {
		return err
	}
	units, ok := any(digest[:]).([]U)
	if !ok {
		return errors.New("spongefish: AbsorbReader requires a ProverState[byte]")
	}
	return p.AddUnits(units)
}

// AbsorbWriter returns a StreamAbsorber for incrementally supplying the input of an AbsorbReader
// operation. Write to it any number of times, then Close it to absorb the accumulated digest.
func (p *ProverState[U]) AbsorbWriter(label string) *StreamAbsorber[U] {
	return &StreamAbsorber[U]{p: p, label: label, kh: kt128.NewCustom([]byte(label))}
}

// StreamAbsorber incrementally accumulates the input of an AbsorbReader operation.
type StreamAbsorber[U any] struct {
	p     *ProverState[U]
	label string
	kh    *kt128.Hasher
}

// Write adds b to the accumulated stream input.
func (sa *StreamAbsorber[U]) Write(b []byte) (int, error) {
	return sa.kh.Write(b)
}

// Close finalizes the accumulated input into a digest and absorbs it into the associated
// ProverState. Close must be called exactly once.
func (sa *StreamAbsorber[U]) Close() error {
	var digest [streamDigestSize]byte
	if _, err := sa.kh.Read(digest[:]); err != nil {
		return err
	}
	units, ok := any(digest[:]).([]U)
	if !ok {
		return errors.New("spongefish: AbsorbWriter requires a ProverState[byte]")
	}
	return sa.p.AddUnits(units)
}

func hashStreamKT128(label string, r io.Reader) ([streamDigestSize]byte, error) {
	var digest [streamDigestSize]byte
	kh := kt128.NewCustom([]byte(label))
	if _, err := io.Copy(kh, r); err != nil {
		return digest, err
	}
	_, err := kh.Read(digest[:])
	return digest, err
}

// Clone returns an independent copy of the prover state, sharing no mutable state with the
// original. Used by protocols that need to explore two continuations of the same transcript prefix
// (for example, folding a challenge into independent "left" and "right" recursions).
func (p *ProverState[U]) Clone() *ProverState[U] {
	sponge, ok := p.hash.sponge.(*duplex.Sponge[U])
	if !ok {
		panic("spongefish: Clone is only supported for the default permutation-based duplex")
	}
	return &ProverState[U]{
		hash:   &guardedHash[U]{sponge: sponge.Clone(), queue: &opQueue{ops: append([]Operation(nil), p.hash.queue.ops...)}},
		codec:  p.codec,
		narg:   append([]byte(nil), p.narg...),
		rng:    p.rng.Clone(),
		csprng: p.csprng,
	}
}

// Clear zeroizes the prover's state. If the operation queue was not fully consumed, it logs a
// diagnostic instead of panicking.
func (p *ProverState[U]) Clear() {
	p.hash.clear()
	p.rng.Clear()
	for i := range p.narg {
		p.narg[i] = 0
	}
}
