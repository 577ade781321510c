package neocortex

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/neocortex/neocortex/internal/schema"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "neocortex"))
}

func TestSaveRestore_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	tr := schema.NewTranscript()
	tr.Append("hello there", "hi, how can I help?")
	tr.Append("what is the time", "I have no clock, sorry.")

	if err := s.Save(tr, "be concise"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, concept, err := s.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if concept != "be concise" {
		t.Errorf("self-concept mismatch: got %q", concept)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 exchanges, got %d", got.Len())
	}
	if got.Exchanges[0].Human != "hello there" || got.Exchanges[1].Agent != "I have no clock, sorry." {
		t.Errorf("transcript content mismatch: %+v", got.Exchanges)
	}
}

func TestSave_Idempotent(t *testing.T) {
	s := newTestStore(t)

	tr := schema.NewTranscript()
	tr.Append("one", "reply one")
	if err := s.Save(tr, "first"); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	tr.Append("two", "reply two")
	if err := s.Save(tr, "second"); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, concept, err := s.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if concept != "second" {
		t.Errorf("expected overwritten self-concept, got %q", concept)
	}
	if got.Len() != 2 {
		t.Errorf("expected overwritten conversation with 2 exchanges, got %d", got.Len())
	}
}

func TestRestore_MissingStore(t *testing.T) {
	s := newTestStore(t)

	tr, concept, err := s.Restore()
	if err != nil {
		t.Fatalf("expected missing store to restore empty, got: %v", err)
	}
	if tr.Len() != 0 || concept != "" {
		t.Errorf("expected empty state, got %d exchanges, concept %q", tr.Len(), concept)
	}
}

func TestEnumerate_MissingStore(t *testing.T) {
	s := newTestStore(t)

	artifacts, err := s.Enumerate()
	if err != nil {
		t.Fatalf("expected no error for missing store, got: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("expected no artifacts, got %d", len(artifacts))
	}
}

func TestEnumerate_SkipsSelfConceptDir(t *testing.T) {
	s := newTestStore(t)

	tr := schema.NewTranscript()
	tr.Append("hi", "hello")
	if err := s.Save(tr, "base"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.WriteArtifact("a memory"); err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}

	artifacts, err := s.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate failed: %v", err)
	}
	// conversation slot + one artifact; the self_concept dir must not appear.
	if len(artifacts) != 2 {
		t.Fatalf("expected 2 artifacts, got %d: %+v", len(artifacts), artifacts)
	}
	for _, a := range artifacts {
		if a.ID == "self_concept" {
			t.Errorf("self_concept directory leaked into enumeration")
		}
	}
}

func TestWriteArtifact_Numbers(t *testing.T) {
	s := newTestStore(t)

	first, err := s.WriteArtifact("one")
	if err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	second, err := s.WriteArtifact("two")
	if err != nil {
		t.Fatalf("WriteArtifact failed: %v", err)
	}
	if first == second {
		t.Errorf("expected distinct artifact ids, got %q twice", first)
	}
	if first != "memory_000.txt" {
		t.Errorf("expected first artifact memory_000.txt, got %q", first)
	}
}

func TestDeletePreset_NoopWhenAbsent(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeletePreset(); err != nil {
		t.Fatalf("expected no-op delete, got: %v", err)
	}
}

func TestPreset_WriteReadDelete(t *testing.T) {
	s := newTestStore(t)

	if s.HasPreset() {
		t.Fatal("fresh store should have no preset")
	}
	if err := s.WritePreset("talk like a pirate"); err != nil {
		t.Fatalf("WritePreset failed: %v", err)
	}
	if !s.HasPreset() {
		t.Fatal("expected preset to exist")
	}
	got, err := s.ReadPreset()
	if err != nil {
		t.Fatalf("ReadPreset failed: %v", err)
	}
	if got != "talk like a pirate" {
		t.Errorf("preset mismatch: got %q", got)
	}
	if err := s.DeletePreset(); err != nil {
		t.Fatalf("DeletePreset failed: %v", err)
	}
	if s.HasPreset() {
		t.Error("expected preset to be gone")
	}
}

func TestRestoreConversation_SkipsMalformedLines(t *testing.T) {
	s := newTestStore(t)

	tr := schema.NewTranscript()
	tr.Append("keep me", "kept")
	if err := s.Save(tr, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(s.Dir(), "conversation.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{broken json\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := s.RestoreConversation()
	if err != nil {
		t.Fatalf("RestoreConversation failed: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("expected 1 valid exchange, got %d", got.Len())
	}
}

func TestStorageError_Distinguishable(t *testing.T) {
	// Point the store at a file, not a directory, to force a real fs error.
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-dir")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	tr := schema.NewTranscript()
	err := s.Save(tr, "concept")

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *StorageError, got: %v", err)
	}
}
