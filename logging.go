package spongefish

import "log"

// logIncompleteTranscript warns when a ProverState or VerifierState is cleared with operations
// still pending in its queue — a sign the caller abandoned the transcript mid-protocol. This is a
// diagnostic, not a fault: panicking here would turn an unrelated error path (e.g. a network
// failure mid-proof) into a crash.
func logIncompleteTranscript(pending int) {
	log.Printf("spongefish: transcript cleared with %d pending operation(s); the declared grammar was not fully consumed", pending)
}
