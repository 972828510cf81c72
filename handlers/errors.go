package handlers

import (
	"fmt"
)

// SubmissionError reports a node rejecting an envelope at submission
// time. It aborts the remaining chunks of the run; already-submitted
// envelopes are unaffected and still drained.
type SubmissionError struct {
	Chunk int
	Nonce uint32
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission rejected (chunk: %d, nonce: %d): %v", e.Chunk, e.Nonce, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// FinalityError reports an envelope that was submitted but never
// finalized successfully. It is reported per envelope and does not
// abort the drain of other pending envelopes.
type FinalityError struct {
	Chunk int
	Nonce uint32
	Err   error
}

func (e *FinalityError) Error() string {
	return fmt.Sprintf("envelope not finalized (chunk: %d, nonce: %d): %v", e.Chunk, e.Nonce, e.Err)
}

func (e *FinalityError) Unwrap() error {
	return e.Err
}
