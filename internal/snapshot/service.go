// Package snapshot periodically journals the rendered conversation into the
// neocortex as numbered memory artifacts.
package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/neocortex/neocortex/internal/neocortex"
)

// Service writes a snapshot artifact on a cron schedule. An empty source is
// skipped so idle sessions do not pile up blank memories.
type Service struct {
	cron   *cron.Cron
	store  *neocortex.Store
	source func() string
	spec   string
}

// NewService creates a Service with the cron spec (e.g. "@hourly") and a
// source that renders the current conversation.
func NewService(spec string, store *neocortex.Store, source func() string) *Service {
	return &Service{
		cron:   cron.New(),
		store:  store,
		source: source,
		spec:   spec,
	}
}

// Start schedules the snapshot job and starts the cron runner.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.snapshot); err != nil {
		return fmt.Errorf("scheduling snapshot %q: %w", s.spec, err)
	}
	s.cron.Start()
	slog.Info("snapshot schedule active", "spec", s.spec)
	return nil
}

// Stop halts the cron runner. Running jobs finish.
func (s *Service) Stop() {
	s.cron.Stop()
}

// Snapshot writes one artifact immediately. Exposed so a save-and-exit can
// force a final snapshot outside the schedule.
func (s *Service) Snapshot() (string, error) {
	content := s.source()
	if content == "" {
		return "", nil
	}
	id, err := s.store.WriteArtifact(content)
	if err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return id, nil
}

func (s *Service) snapshot() {
	id, err := s.Snapshot()
	if err != nil {
		slog.Error("scheduled snapshot failed", "err", err)
		return
	}
	if id == "" {
		slog.Debug("snapshot skipped, conversation empty")
		return
	}
	slog.Info("snapshot written", "artifact", id)
}
