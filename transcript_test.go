package spongefish_test

import (
	"bytes"
	"testing"

	"github.com/codahale/spongefish"
	"github.com/codahale/spongefish/hazmat/unit"
)

func roundTripDS(label string) *spongefish.DomainSeparator {
	return spongefish.NewDomainSeparator(label).
		Absorb(4, "message").
		Squeeze(4, "challenge").
		Ratchet().
		Absorb(4, "response")
}

func TestProverVerifierRoundTrip(t *testing.T) {
	ds := roundTripDS("example.com")
	p, err := spongefish.NewProverState[byte](ds, unit.ByteCodec{}, spongefish.NewKeccakByteDuplex(), nil)
	if err != nil {
		t.Fatalf("NewProverState: %v", err)
	}

	if err := p.AddUnits([]byte("msg!")); err != nil {
		t.Fatalf("AddUnits: %v", err)
	}
	challenge := make([]byte, 4)
	if err := p.SqueezeUnits(challenge); err != nil {
		t.Fatalf("SqueezeUnits: %v", err)
	}
	if err := p.Ratchet(); err != nil {
		t.Fatalf("Ratchet: %v", err)
	}
	if err := p.AddUnits([]byte("resp")); err != nil {
		t.Fatalf("AddUnits: %v", err)
	}

	proof := p.NargString()

	vds := roundTripDS("example.com")
	v, err := spongefish.NewVerifierState[byte](vds, unit.ByteCodec{}, spongefish.NewKeccakByteDuplex(), proof)
	if err != nil {
		t.Fatalf("NewVerifierState: %v", err)
	}

	msg := make([]byte, 4)
	if err := v.FillNextUnits(msg); err != nil {
		t.Fatalf("FillNextUnits: %v", err)
	}
	if !bytes.Equal(msg, []byte("msg!")) {
		t.Errorf("msg = %q, want %q", msg, "msg!")
	}

	vChallenge := make([]byte, 4)
	if err := v.FillChallengeUnits(vChallenge); err != nil {
		t.Fatalf("FillChallengeUnits: %v", err)
	}
	if !bytes.Equal(vChallenge, challenge) {
		t.Errorf("verifier's challenge = %x, prover's = %x, want equal", vChallenge, challenge)
	}

	if err := v.Ratchet(); err != nil {
		t.Fatalf("Ratchet: %v", err)
	}

	resp := make([]byte, 4)
	if err := v.FillNextUnits(resp); err != nil {
		t.Fatalf("FillNextUnits: %v", err)
	}
	if !bytes.Equal(resp, []byte("resp")) {
		t.Errorf("resp = %q, want %q", resp, "resp")
	}

	if v.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", v.Remaining())
	}
}

// TestGrammarMismatchPoisonsTranscript verifies that a single divergence from the declared grammar
// both fails the offending call and permanently poisons every later call on the same state.
func TestGrammarMismatchPoisonsTranscript(t *testing.T) {
	ds := spongefish.NewDomainSeparator("example.com").Absorb(4, "a").Squeeze(4, "b")
	p, err := spongefish.NewProverState[byte](ds, unit.ByteCodec{}, spongefish.NewKeccakByteDuplex(), nil)
	if err != nil {
		t.Fatalf("NewProverState: %v", err)
	}

	// Squeeze declared second, but called first: must fail.
	if err := p.SqueezeUnits(make([]byte, 4)); err == nil {
		t.Fatal("expected a grammar mismatch calling SqueezeUnits out of order")
	}
	var gm *spongefish.GrammarMismatch
	if err := p.SqueezeUnits(make([]byte, 4)); err == nil {
		t.Fatal("expected the queue to remain poisoned on a second call")
	} else if !asGrammarMismatch(err, &gm) {
		t.Fatalf("error = %v, want a *GrammarMismatch", err)
	}

	// Even the originally-correct call now fails, since the queue was cleared.
	if err := p.AddUnits([]byte("msg!")); err == nil {
		t.Fatal("expected the poisoned queue to reject a subsequent, originally-valid call")
	}
}

func asGrammarMismatch(err error, target **spongefish.GrammarMismatch) bool {
	gm, ok := err.(*spongefish.GrammarMismatch)
	if ok {
		*target = gm
	}
	return ok
}

// TestStreamingEquivalence verifies that splitting an absorb or a squeeze into multiple calls
// produces the same transcript-bound outputs as a single call of the combined length.
func TestStreamingEquivalence(t *testing.T) {
	build := func(msg []byte, squeezeLen int) []byte {
		ds := spongefish.NewDomainSeparator("streaming.test").
			Absorb(len(msg), "msg").
			Squeeze(squeezeLen, "out")
		p, err := spongefish.NewProverState[byte](ds, unit.ByteCodec{}, spongefish.NewKeccakByteDuplex(), nil)
		if err != nil {
			t.Fatalf("NewProverState: %v", err)
		}
		if err := p.AddUnits(msg); err != nil {
			t.Fatalf("AddUnits: %v", err)
		}
		out := make([]byte, squeezeLen)
		if err := p.SqueezeUnits(out); err != nil {
			t.Fatalf("SqueezeUnits: %v", err)
		}
		return out
	}

	whole := build([]byte("hello, world"), 40)

	// Equivalent grammar, but the caller splits the absorb and squeeze into smaller calls.
	ds := spongefish.NewDomainSeparator("streaming.test").
		Absorb(5, "msg").
		Absorb(7, "msg").
		Squeeze(17, "out").
		Squeeze(23, "out")
	p, err := spongefish.NewProverState[byte](ds, unit.ByteCodec{}, spongefish.NewKeccakByteDuplex(), nil)
	if err != nil {
		t.Fatalf("NewProverState: %v", err)
	}
	if err := p.AddUnits([]byte("hello")); err != nil {
		t.Fatalf("AddUnits: %v", err)
	}
	if err := p.AddUnits([]byte(", world")); err != nil {
		t.Fatalf("AddUnits: %v", err)
	}
	split := make([]byte, 40)
	if err := p.SqueezeUnits(split[:17]); err != nil {
		t.Fatalf("SqueezeUnits: %v", err)
	}
	if err := p.SqueezeUnits(split[17:]); err != nil {
		t.Fatalf("SqueezeUnits: %v", err)
	}

	if !bytes.Equal(whole, split) {
		t.Errorf("streaming split output %x != combined output %x", split, whole)
	}
}
