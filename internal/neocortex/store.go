// Package neocortex manages the persistent memory store.
//
// On-disk layout:
//
//	<dir>/conversation.jsonl       one exchange per line
//	<dir>/self_concept/base.txt    the agent's base self-concept
//	<dir>/self_concept/preset.txt  optional preset override
//	<dir>/memory_NNN.txt           numbered free-form memory artifacts
//
// The directory is absent until the first save. A missing store is a valid
// "nothing to restore" state, never an error; real filesystem failures are
// surfaced as *StorageError.
package neocortex

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neocortex/neocortex/internal/schema"
)

const (
	conversationFile = "conversation.jsonl"
	selfConceptDir   = "self_concept"
	baseFile         = "base.txt"
	presetFile       = "preset.txt"
)

// StorageError wraps a filesystem failure so callers can distinguish real
// storage faults from the benign missing-store state.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("neocortex %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Artifact is one enumerable memory blob.
type Artifact struct {
	ID      string
	Content string
}

// Store persists conversational memory under a single directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is not created until
// the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Exists reports whether the store directory has been created.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// Save persists the transcript and self-concept, creating the store if
// needed. It is idempotent: both slots are overwritten in full.
func (s *Store) Save(t *schema.Transcript, selfConcept string) error {
	if err := os.MkdirAll(filepath.Join(s.dir, selfConceptDir), 0o755); err != nil {
		return &StorageError{Op: "create", Path: s.dir, Err: err}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, ex := range t.Exchanges {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode exchange: %w", err)
		}
	}

	convPath := filepath.Join(s.dir, conversationFile)
	if err := os.WriteFile(convPath, buf.Bytes(), 0o644); err != nil {
		return &StorageError{Op: "write", Path: convPath, Err: err}
	}

	basePath := filepath.Join(s.dir, selfConceptDir, baseFile)
	if err := os.WriteFile(basePath, []byte(selfConcept), 0o644); err != nil {
		return &StorageError{Op: "write", Path: basePath, Err: err}
	}
	return nil
}

// Restore reads back the transcript and self-concept. Missing slots (or a
// missing store) yield empty values rather than errors.
func (s *Store) Restore() (*schema.Transcript, string, error) {
	t, err := s.RestoreConversation()
	if err != nil {
		return nil, "", err
	}
	concept, err := s.RestoreSelfConcept()
	if err != nil {
		return nil, "", err
	}
	return t, concept, nil
}

// RestoreConversation reads the conversation slot. A missing slot yields an
// empty transcript. Malformed lines are skipped, not fatal.
func (s *Store) RestoreConversation() (*schema.Transcript, error) {
	path := filepath.Join(s.dir, conversationFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.NewTranscript(), nil
		}
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	t := schema.NewTranscript()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1<<20), 1<<20) // 1 MB per line
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ex schema.Exchange
		if err := json.Unmarshal(line, &ex); err != nil {
			slog.Warn("skipping malformed conversation line", "err", err)
			continue
		}
		t.Exchanges = append(t.Exchanges, ex)
	}
	if err := scanner.Err(); err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	return t, nil
}

// RestoreSelfConcept reads the base self-concept slot, or "" if absent.
func (s *Store) RestoreSelfConcept() (string, error) {
	path := filepath.Join(s.dir, selfConceptDir, baseFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &StorageError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// WritePreset stores the preset override, creating the store if needed.
func (s *Store) WritePreset(text string) error {
	if err := os.MkdirAll(filepath.Join(s.dir, selfConceptDir), 0o755); err != nil {
		return &StorageError{Op: "create", Path: s.dir, Err: err}
	}
	path := filepath.Join(s.dir, selfConceptDir, presetFile)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ReadPreset returns the preset override, or "" if none is set.
func (s *Store) ReadPreset() (string, error) {
	path := filepath.Join(s.dir, selfConceptDir, presetFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &StorageError{Op: "read", Path: path, Err: err}
	}
	return string(data), nil
}

// HasPreset reports whether a preset file exists.
func (s *Store) HasPreset() bool {
	_, err := os.Stat(filepath.Join(s.dir, selfConceptDir, presetFile))
	return err == nil
}

// DeletePreset removes the preset slot. Removing an absent preset is a no-op.
func (s *Store) DeletePreset() error {
	path := filepath.Join(s.dir, selfConceptDir, presetFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &StorageError{Op: "remove", Path: path, Err: err}
	}
	return nil
}

// Enumerate returns every memory artifact: the regular files directly under
// the store directory, sorted by name. A store that was never created yields
// an empty slice and no error.
func (s *Store) Enumerate() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StorageError{Op: "list", Path: s.dir, Err: err}
	}

	var out []Artifact
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &StorageError{Op: "read", Path: path, Err: err}
		}
		out = append(out, Artifact{ID: entry.Name(), Content: string(data)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// WriteArtifact stores content as the next free numbered memory file and
// returns its identifier.
func (s *Store) WriteArtifact(content string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &StorageError{Op: "create", Path: s.dir, Err: err}
	}

	n := 0
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", &StorageError{Op: "list", Path: s.dir, Err: err}
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "memory_") && strings.HasSuffix(name, ".txt") {
			n++
		}
	}

	// Scan past collisions left by deleted artifacts.
	var name, path string
	for {
		name = fmt.Sprintf("memory_%03d.txt", n)
		path = filepath.Join(s.dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		n++
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &StorageError{Op: "write", Path: path, Err: err}
	}
	return name, nil
}
