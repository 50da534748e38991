package ops

import (
	"context"
	"sync"

	"github.com/hpungsan/roster/internal/person"
)

// Store persists a whole collection. Implementations must treat Save as a
// full overwrite.
type Store interface {
	Load(ctx context.Context) ([]person.Person, error)
	Save(ctx context.Context, people []person.Person) error
}

// MemoryStore keeps the collection in process memory.
// Used for --ephemeral runs and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	people []person.Person
	saves  int

	// LoadErr and SaveErr, when set, are returned by the matching call.
	LoadErr error
	SaveErr error
}

// NewMemoryStore returns a store preloaded with people.
func NewMemoryStore(people ...person.Person) *MemoryStore {
	return &MemoryStore{people: clonePeople(people)}
}

// Load returns a copy of the stored collection.
func (m *MemoryStore) Load(ctx context.Context) ([]person.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return clonePeople(m.people), nil
}

// Save replaces the stored collection with a copy of people.
func (m *MemoryStore) Save(ctx context.Context, people []person.Person) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.people = clonePeople(people)
	m.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func clonePeople(people []person.Person) []person.Person {
	if people == nil {
		return nil
	}
	return append([]person.Person(nil), people...)
}
