package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/person"
)

func openMemory(t *testing.T, people ...person.Person) (*Session, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(people...)
	s, err := Open(context.Background(), store, config.DefaultConfig())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return s, store
}

func mustImport(t *testing.T, s *Session, text string) *ImportOutput {
	t.Helper()
	out, err := Import(context.Background(), s, ImportInput{Text: text})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
