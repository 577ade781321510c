// Package speech captures microphone audio and transcribes it to text.
//
// The listen operation has three explicit outcomes — a transcript, a no-speech
// timeout, or a recognition failure — consumed by a switch at the call site
// instead of exception-style control flow.
package speech

import (
	"context"
	"errors"
	"time"
)

// ErrWaitTimeout is returned by Capture when no speech was detected within
// the listen window. It ends the cycle cleanly; it is not a failure.
var ErrWaitTimeout = errors.New("no speech detected before timeout")

// Outcome discriminates the result of a transcription attempt.
type Outcome int

const (
	// OutcomeTranscript carries recognised text.
	OutcomeTranscript Outcome = iota
	// OutcomeTimeout means no usable speech was heard.
	OutcomeTimeout
	// OutcomeFailure means the recognition backend failed.
	OutcomeFailure
)

// Result is the variant returned by Transcribe.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Transcript wraps text in a success Result.
func Transcript(text string) Result {
	return Result{Outcome: OutcomeTranscript, Text: text}
}

// Timeout is the no-speech Result.
func Timeout() Result {
	return Result{Outcome: OutcomeTimeout}
}

// Failure wraps err in a recognition-failure Result.
func Failure(err error) Result {
	return Result{Outcome: OutcomeFailure, Err: err}
}

// Recognizer is the external speech engine. Capture and Transcribe are
// separate so the caller can observe a pending cancellation between them.
type Recognizer interface {
	// Calibrate measures ambient noise; called once before each listen.
	Calibrate(ctx context.Context) error
	// Capture records one utterance. A zero timeout uses the configured
	// listen window. Returns ErrWaitTimeout when only silence was heard.
	Capture(ctx context.Context, timeout time.Duration) ([]byte, error)
	// Transcribe converts captured audio to text.
	Transcribe(ctx context.Context, audio []byte) Result
}
