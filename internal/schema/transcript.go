package schema

import (
	"fmt"
	"strings"
	"time"
)

// Exchange is one completed conversation turn: what the human said and what
// the agent replied.
type Exchange struct {
	Human     string    `json:"human"`
	Agent     string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is the ordered, chronological record of all exchanges in the
// current conversation. It is appended to on every non-command turn and
// persisted verbatim by the memory store.
type Transcript struct {
	Exchanges []Exchange
}

// NewTranscript returns an empty transcript ready for use.
func NewTranscript() *Transcript {
	return &Transcript{Exchanges: make([]Exchange, 0)}
}

// Append records a completed human/agent exchange.
func (t *Transcript) Append(human, agent string) {
	t.Exchanges = append(t.Exchanges, Exchange{
		Human:     human,
		Agent:     agent,
		Timestamp: time.Now(),
	})
}

// Len returns the number of recorded exchanges.
func (t *Transcript) Len() int { return len(t.Exchanges) }

// Replace swaps the transcript contents for those of other.
func (t *Transcript) Replace(other *Transcript) {
	t.Exchanges = append(t.Exchanges[:0], other.Exchanges...)
}

// Clone returns a deep copy with an independent backing slice.
func (t *Transcript) Clone() *Transcript {
	out := make([]Exchange, len(t.Exchanges))
	copy(out, t.Exchanges)
	return &Transcript{Exchanges: out}
}

// Render formats the whole conversation as display text, one speaker per line.
func (t *Transcript) Render(agentName string) string {
	if len(t.Exchanges) == 0 {
		return "(no conversation yet)"
	}
	var sb strings.Builder
	for _, ex := range t.Exchanges {
		fmt.Fprintf(&sb, "Human: %s\n", ex.Human)
		fmt.Fprintf(&sb, "%s: %s\n", agentName, ex.Agent)
	}
	return sb.String()
}

// History converts the transcript into LLM messages, oldest first.
func (t *Transcript) History() Messages {
	out := NewMessages()
	for _, ex := range t.Exchanges {
		out.AddUser(ex.Human)
		out.AddAssistant(ex.Agent)
	}
	return out
}
