// Package legacy adapts fixed-output NIST-style block hashes (SHA-2, BLAKE2) to the same
// absorb/squeeze/ratchet shape the rest of the engine is built on, so a transcript can be driven by
// a hash the caller already trusts instead of the engine's own Keccak-based sponge.
//
// It is grounded in the libsignal poksho "shosha256" construction: three logical random oracles —
// ABSORB (marker block 0x00), SQUEEZE (0x01), and SQUEEZE_END (0x02) — built by prefixing a
// block-sized mask to the running hasher's input, so that streaming absorbs and streaming squeezes
// compose exactly like a real duplex sponge would.
package legacy

import (
	"encoding"
	"encoding/binary"
	"hash"
)

// Hasher is the subset of hash.Hash this bridge needs, plus the ability to snapshot and restore
// state — required to compute a squeeze digest without disturbing the hasher that is still
// accumulating absorbed input. Both crypto/sha256 and golang.org/x/crypto/blake2b's hashers satisfy
// this as of their current stdlib/x/crypto versions.
type Hasher interface {
	hash.Hash
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

type mode int

const (
	modeStart mode = iota
	modeAbsorb
	modeSqueeze
)

// DigestBridge adapts a Hasher to the engine's Duplex interface over bytes.
type DigestBridge struct {
	newHasher func() Hasher
	hasher    Hasher
	cv        []byte
	mode      mode
	squeezeAt int
	leftovers []byte

	blockSize  int
	digestSize int
}

// NewRawDigestBridge returns a bridge with a zeroed chaining value and no tag absorbed. This is the
// bare construction used to validate the bridge directly against the legacy shosha256 test vectors;
// production use goes through NewDigestBridge (or NewSHA256Bridge/NewBLAKE2bBridge), which folds in
// an IV the way the rest of the engine does.
func NewRawDigestBridge(newHasher func() Hasher) *DigestBridge {
	h := newHasher()
	return &DigestBridge{
		newHasher:  newHasher,
		hasher:     h,
		cv:         make([]byte, h.Size()),
		mode:       modeStart,
		blockSize:  h.BlockSize(),
		digestSize: h.Size(),
	}
}

// NewDigestBridge constructs a bridge from a Hasher factory and a 32-byte tag, which is absorbed
// immediately (mirroring how the core sponge folds its IV into the capacity at construction).
func NewDigestBridge(newHasher func() Hasher, tag [32]byte) *DigestBridge {
	h := newHasher()
	b := &DigestBridge{
		newHasher:  newHasher,
		hasher:     h,
		cv:         make([]byte, h.Size()),
		mode:       modeStart,
		blockSize:  h.BlockSize(),
		digestSize: h.Size(),
	}
	b.Absorb(tag[:])
	return b
}

// maskBlock returns a block-sized buffer whose last byte is end, zero elsewhere.
func (b *DigestBridge) maskBlock(end byte) []byte {
	block := make([]byte, b.blockSize)
	block[len(block)-1] = end
	return block
}

// squeezeEnd finalizes a squeeze run, folding the total byte count produced into a fresh cv and
// returning to start mode. It is a no-op outside of squeeze mode.
func (b *DigestBridge) squeezeEnd() {
	if b.mode != modeSqueeze {
		return
	}
	byteCount := uint64(b.squeezeAt)*uint64(b.digestSize) - uint64(len(b.leftovers))
	h := b.newHasher()
	h.Write(b.maskBlock(0x02))
	h.Write(b.cv)
	var cnt [8]byte
	binary.BigEndian.PutUint64(cnt[:], byteCount)
	h.Write(cnt[:])
	b.cv = h.Sum(nil)
	b.mode = modeStart
	b.leftovers = nil
}

// Absorb feeds input into the running hasher, injecting the absorb marker block and the current
// chaining value on the first write after start (or after a squeeze run ends).
func (b *DigestBridge) Absorb(input []byte) {
	b.squeezeEnd()
	if b.mode == modeStart {
		b.mode = modeAbsorb
		b.hasher.Write(b.maskBlock(0x00))
		b.hasher.Write(b.cv)
	}
	b.hasher.Write(input)
}

// Ratchet finalizes the running hasher into a digest, then hashes that digest again (a double hash)
// to produce the next chaining value, and resets the hasher to empty.
func (b *DigestBridge) Ratchet() {
	b.squeezeEnd()
	d1 := b.hasher.Sum(nil)
	h2 := b.newHasher()
	h2.Write(d1)
	b.cv = h2.Sum(nil)
	b.hasher = b.newHasher()
	b.leftovers = nil
	b.mode = modeStart
}

// Squeeze fills output with duplex-style squeeze output. Concatenating two squeezes always equals
// one squeeze of their combined length: output not consumed by a call is cached in leftovers and
// drained first by the next one.
func (b *DigestBridge) Squeeze(output []byte) {
	for {
		switch {
		case b.mode == modeStart:
			b.mode = modeSqueeze
			b.squeezeAt = 0
			b.hasher.Write(b.maskBlock(0x01))
			b.hasher.Write(b.cv)
		case b.mode == modeAbsorb:
			b.Ratchet()
		case len(output) == 0:
			return
		case len(b.leftovers) > 0:
			n := min(len(output), len(b.leftovers))
			copy(output[:n], b.leftovers[:n])
			b.leftovers = b.leftovers[n:]
			output = output[n:]
		default:
			prefix, err := b.clonedHasher()
			if err != nil {
				panic("legacy: hasher snapshot failed: " + err.Error())
			}
			var idx [8]byte
			binary.BigEndian.PutUint64(idx[:], uint64(b.squeezeAt))
			prefix.Write(idx[:])
			digest := prefix.Sum(nil)
			n := min(len(output), b.digestSize)
			copy(output[:n], digest[:n])
			b.leftovers = append(b.leftovers, digest[n:]...)
			b.squeezeAt++
			output = output[n:]
		}
	}
}

func (b *DigestBridge) clonedHasher() (Hasher, error) {
	state, err := b.hasher.MarshalBinary()
	if err != nil {
		return nil, err
	}
	clone := b.newHasher()
	if err := clone.UnmarshalBinary(state); err != nil {
		return nil, err
	}
	return clone, nil
}

// Clear resets the hasher and zeroes the chaining value and any cached squeeze output.
func (b *DigestBridge) Clear() {
	for i := range b.cv {
		b.cv[i] = 0
	}
	for i := range b.leftovers {
		b.leftovers[i] = 0
	}
	b.leftovers = nil
	b.hasher.Reset()
	b.mode = modeStart
}
