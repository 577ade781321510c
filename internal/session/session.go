// Package session holds the per-run conversation state: turn counter, reply
// token budget, speech style, and the cancellation/working flags shared with
// the input loop.
package session

import (
	"fmt"
	"sync/atomic"

	"github.com/neocortex/neocortex/internal/schema"
)

// Token budget bounds accepted by "set tokens to".
const (
	MinReplyTokens = 1
	MaxReplyTokens = 3999
)

// TurnState tracks where the controller is in the listen cycle.
type TurnState int32

const (
	StateIdle TurnState = iota
	StateListening
	StateProcessing
	StateCancelled
)

func (s TurnState) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Session is one running conversation. The turn counter, token budget, and
// speech style are mutated only from the single in-flight listen cycle; the
// cancel and working flags cross goroutines (input loop vs. worker) and are
// therefore atomic.
type Session struct {
	turnCount   int
	replyTokens int
	style       schema.SpeechStyle

	state   atomic.Int32
	cancel  atomic.Bool
	working atomic.Bool
}

// New creates a Session with the given initial reply token budget. An
// out-of-range budget is clamped to the valid range.
func New(replyTokens int) *Session {
	if replyTokens < MinReplyTokens {
		replyTokens = MinReplyTokens
	}
	if replyTokens > MaxReplyTokens {
		replyTokens = MaxReplyTokens
	}
	return &Session{replyTokens: replyTokens}
}

// TurnCount returns the number of completed model exchanges.
func (s *Session) TurnCount() int { return s.turnCount }

// IncrementTurns records one completed model exchange.
func (s *Session) IncrementTurns() { s.turnCount++ }

// ReplyTokens returns the current reply token budget.
func (s *Session) ReplyTokens() int { return s.replyTokens }

// SetReplyTokens updates the budget and returns the previous value. Values
// outside [MinReplyTokens, MaxReplyTokens] are rejected without mutation.
func (s *Session) SetReplyTokens(n int) (old int, err error) {
	if n < MinReplyTokens || n > MaxReplyTokens {
		return s.replyTokens, fmt.Errorf("token count %d out of range %d-%d", n, MinReplyTokens, MaxReplyTokens)
	}
	old = s.replyTokens
	s.replyTokens = n
	return old, nil
}

// Style returns the current speech style.
func (s *Session) Style() schema.SpeechStyle { return s.style }

// SetStyle switches between normal and robotic speech.
func (s *Session) SetStyle(style schema.SpeechStyle) { s.style = style }

// State returns the current turn state.
func (s *Session) State() TurnState { return TurnState(s.state.Load()) }

// SetState records a turn-state transition.
func (s *Session) SetState(state TurnState) { s.state.Store(int32(state)) }

// RequestCancel flags the in-flight cycle for cancellation. Called from the
// input loop; observed cooperatively by the worker.
func (s *Session) RequestCancel() { s.cancel.Store(true) }

// CancelRequested reports whether a cancel is pending.
func (s *Session) CancelRequested() bool { return s.cancel.Load() }

// ClearCancel resets the cancel flag at the start of a listen cycle.
func (s *Session) ClearCancel() { s.cancel.Store(false) }

// BeginWork marks a listen cycle as active. It returns false if one is
// already running, which makes overlapping listen requests a no-op.
func (s *Session) BeginWork() bool { return s.working.CompareAndSwap(false, true) }

// EndWork marks the listen cycle finished and clears the cancel flag.
func (s *Session) EndWork() {
	s.cancel.Store(false)
	s.working.Store(false)
	s.state.Store(int32(StateIdle))
}

// Working reports whether a listen cycle is active.
func (s *Session) Working() bool { return s.working.Load() }
