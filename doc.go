// Package spongefish implements a Fiat-Shamir transcript engine for interactive public-coin
// protocols (Sigma-protocols, sumcheck, Bulletproofs, SNARKs).
//
// A protocol's shape — every absorb, squeeze, and ratchet it performs — is declared up front on a
// DomainSeparator. Both sides derive a 32-byte IV from that declaration and use it to seed a
// guarded duplex sponge (see hazmat/duplex): the prover writes messages with ProverState, which
// both absorbs them and appends their canonical encoding to a growable argument buffer; the
// verifier replays the same sequence with VerifierState, reading from that buffer instead of
// producing it. Any divergence between the calls a caller makes and the grammar declared on the
// DomainSeparator is rejected with a GrammarMismatch, which immediately and permanently poisons the
// transcript.
//
// The codec, pow, and legacy subpackages extend this core with field/group element serialization,
// a proof-of-work challenge, and an adapter for NIST-style block hashes, respectively.
package spongefish
