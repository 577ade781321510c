// Package mirror forwards completed exchanges to external channels so a
// conversation held by voice can be followed from Telegram or Slack.
package mirror

import (
	"context"
	"log/slog"
)

// Notifier receives one completed exchange. Implementations must not block
// the turn loop for long; delivery failures are logged and dropped.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, human, agent string) error
}

// Manager fans one exchange out to every configured notifier.
type Manager struct {
	notifiers []Notifier
}

func NewManager(notifiers ...Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// Add registers another notifier.
func (m *Manager) Add(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Enabled reports whether any notifier is configured.
func (m *Manager) Enabled() bool { return len(m.notifiers) > 0 }

// Broadcast delivers the exchange to all notifiers. Failures are logged per
// notifier and never propagate to the caller.
func (m *Manager) Broadcast(ctx context.Context, human, agent string) {
	for _, n := range m.notifiers {
		if err := n.Notify(ctx, human, agent); err != nil {
			slog.Warn("mirror delivery failed", "notifier", n.Name(), "err", err)
		}
	}
}
