package legacy

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
)

// NewSHA256Bridge returns a DigestBridge backed by SHA-256.
func NewSHA256Bridge(tag [32]byte) *DigestBridge {
	return NewDigestBridge(func() Hasher {
		return sha256.New().(Hasher)
	}, tag)
}

// NewBLAKE2bBridge returns a DigestBridge backed by unkeyed BLAKE2b-256.
func NewBLAKE2bBridge(tag [32]byte) (*DigestBridge, error) {
	if _, err := blake2b.New256(nil); err != nil {
		return nil, err
	}
	return NewDigestBridge(func() Hasher {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(err)
		}
		return h.(Hasher)
	}, tag), nil
}
