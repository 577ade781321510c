// Package persona owns the agent's identity: its name, base self-concept,
// and the optional transient preset layered on top.
package persona

import (
	"errors"
	"strings"

	"github.com/neocortex/neocortex/internal/neocortex"
)

var (
	// ErrInvalidPreset is returned when a preset is empty after trimming.
	ErrInvalidPreset = errors.New("preset text is empty")
	// ErrInvalidName is returned when a name is empty after trimming.
	ErrInvalidName = errors.New("name is empty")
)

// Manager holds the live persona. At most one preset is active at a time;
// setting a new one replaces any prior preset. The base concept and name are
// only journaled into the store by an explicit save — a preset write touches
// only the preset slot.
//
// All mutation happens from the single in-flight listen cycle, so no locking
// is needed here.
type Manager struct {
	name    string
	base    string
	preset  string
	store   *neocortex.Store
	catalog map[string]string // named presets from presets.yaml; may be nil
}

// NewManager creates a Manager with the bootstrap name and base self-concept.
// If the store already holds a preset (left over from a previous run), it is
// picked up so the override survives restarts the way the preset file did.
func NewManager(name, baseConcept string, store *neocortex.Store, catalog map[string]string) *Manager {
	m := &Manager{
		name:    name,
		base:    baseConcept,
		store:   store,
		catalog: catalog,
	}
	if preset, err := store.ReadPreset(); err == nil && preset != "" {
		m.preset = preset
	}
	return m
}

// Name returns the agent's current name.
func (m *Manager) Name() string { return m.name }

// BaseSelfConcept returns the base disposition without any preset applied.
func (m *Manager) BaseSelfConcept() string { return m.base }

// HasPreset reports whether a preset override is active.
func (m *Manager) HasPreset() bool { return m.preset != "" }

// EffectiveSelfConcept returns the preset override when present, else the
// base self-concept.
func (m *Manager) EffectiveSelfConcept() string {
	if m.preset != "" {
		return m.preset
	}
	return m.base
}

// SetPreset replaces any active preset with text. If text names an entry in
// the preset catalog, the catalog body is used; otherwise the raw text is the
// preset. Empty text fails with ErrInvalidPreset.
func (m *Manager) SetPreset(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidPreset
	}
	if body, ok := m.catalog[strings.ToLower(text)]; ok {
		text = body
	}
	if err := m.store.WritePreset(text); err != nil {
		return err
	}
	m.preset = text
	return nil
}

// ResetPreset deletes the preset slot and reloads the base self-concept from
// the store's last-saved baseline. It reports whether there was a preset to
// reset; resetting with no active preset is a no-op. The caller restores the
// transcript separately.
//
// A reset before any save restores whatever the store holds — possibly an
// empty baseline. That store-dependent behavior is deliberate.
func (m *Manager) ResetPreset() (bool, error) {
	if !m.store.HasPreset() && m.preset == "" {
		return false, nil
	}
	if err := m.store.DeletePreset(); err != nil {
		return false, err
	}
	m.preset = ""
	return true, m.RestoreBase()
}

// RestoreBase reloads the base self-concept from the store's last-saved
// baseline. A missing slot leaves the base unchanged.
func (m *Manager) RestoreBase() error {
	concept, err := m.store.RestoreSelfConcept()
	if err != nil {
		return err
	}
	if concept != "" {
		m.base = concept
	}
	return nil
}

// ChangeName updates the agent's name. Empty input fails with ErrInvalidName.
func (m *Manager) ChangeName(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrInvalidName
	}
	m.name = text
	return nil
}
