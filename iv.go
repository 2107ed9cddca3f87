package spongefish

import (
	"github.com/codahale/spongefish/hazmat/duplex"
	"github.com/codahale/spongefish/hazmat/unit"
)

// deriveIV hashes the raw domain-separator bytes through a fresh-zero byte sponge (Keccak-p[1600,12]
// in overwrite mode, rate 136, capacity 64) and squeezes 32 bytes. This is always done with a byte
// sponge seeded with a zero IV, regardless of what unit type or permutation the "real" per-protocol
// sponge uses — the resulting 32 bytes seed that sponge's capacity, giving domain separation even
// when the same permutation is reused across protocols.
func deriveIV(domSepBytes []byte) [32]byte {
	sponge := duplex.New[byte](duplex.KeccakPermutation{}, unit.ByteCodec{}, [32]byte{})
	sponge.Absorb(domSepBytes)
	var iv [32]byte
	out := make([]byte, 32)
	sponge.Squeeze(out)
	copy(iv[:], out)
	return iv
}
