package ops

import (
	"context"
	"sync"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/dupes"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// Session owns the working collection. Every mutation goes through one
// locked path that saves the whole collection before it becomes visible.
type Session struct {
	mu      sync.Mutex
	store   Store
	cfg     *config.Config
	ids     *person.IDGenerator
	people  []person.Person
	version uint64
	loadErr error

	ix        *dupes.Index
	ixVersion uint64
}

// Open loads the collection from store once.
//
// A stored payload that cannot be decoded is not fatal: the session starts
// empty and LoadErr reports the failure. Any other store error is returned.
func Open(ctx context.Context, store Store, cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := checkContext(ctx, "load"); err != nil {
		return nil, err
	}

	s := &Session{store: store, cfg: cfg}

	people, err := store.Load(ctx)
	switch {
	case errors.Is(err, errors.ErrLoadFailed):
		logger().Warn("saved data could not be loaded, starting empty", "error", err)
		s.loadErr = err
		people = nil
	case err != nil:
		return nil, err
	}

	s.people = people
	s.ids = person.NewIDGenerator(person.LastSeq(people))
	return s, nil
}

// LoadErr returns the LOAD_FAILED error from Open, if any.
func (s *Session) LoadErr() error {
	return s.loadErr
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// People returns a copy of the collection in display order.
func (s *Session) People() []person.Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePeople(s.people)
}

// Version increases by one on every successful mutation.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Index returns the duplicate index for the current collection.
// It is rebuilt only when the collection version has moved.
func (s *Session) Index() *dupes.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked()
}

// view returns a consistent copy of the collection and its index.
func (s *Session) view() ([]person.Person, *dupes.Index) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePeople(s.people), s.indexLocked()
}

func (s *Session) indexLocked() *dupes.Index {
	if s.ix == nil || s.ixVersion != s.version {
		s.ix = dupes.Build(s.people)
		s.ixVersion = s.version
	}
	return s.ix
}

// mutate runs fn on a copy of the collection, saves the result and makes it
// current. When fn or the save fails the collection is left untouched.
func (s *Session) mutate(ctx context.Context, op string, fn func(cur []person.Person) ([]person.Person, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := checkContext(ctx, op); err != nil {
		return err
	}

	next, err := fn(clonePeople(s.people))
	if err != nil {
		return err
	}

	if err := s.store.Save(ctx, next); err != nil {
		if _, ok := errors.AsRoster(err); ok {
			return err
		}
		if ctx.Err() != nil {
			return errors.NewCancelled(op)
		}
		return errors.NewInternal(err)
	}

	s.people = next
	s.version++
	return nil
}
