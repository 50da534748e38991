package db

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// PeopleKey is the snapshot key holding the person collection.
const PeopleKey = "peopleData"

// Snapshots stores a whole collection as one JSON array under a single key.
// Every Save overwrites the previous payload.
type Snapshots struct {
	db  *sql.DB
	key string
}

// NewSnapshots returns a snapshot store for key. Empty key means PeopleKey.
func NewSnapshots(db *sql.DB, key string) *Snapshots {
	if key == "" {
		key = PeopleKey
	}
	return &Snapshots{db: db, key: key}
}

// Load returns the stored collection, or nil if nothing was saved yet.
// A payload that does not decode yields an ErrLoadFailed error.
func (s *Snapshots) Load(ctx context.Context) ([]person.Person, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, s.key).Scan(&payload)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapContextErr(ctx, "load", err)
	}

	var people []person.Person
	if err := json.Unmarshal([]byte(payload), &people); err != nil {
		return nil, errors.NewLoadFailed(err)
	}
	return people, nil
}

// Save replaces the stored collection.
func (s *Snapshots) Save(ctx context.Context, people []person.Person) error {
	if people == nil {
		people = []person.Person{}
	}
	data, err := json.Marshal(people)
	if err != nil {
		return errors.NewInternal(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, s.key, string(data), time.Now().Unix())
	if err != nil {
		return wrapContextErr(ctx, "save", err)
	}
	return nil
}

// UpdatedAt returns the unix time of the last save, or 0 if never saved.
func (s *Snapshots) UpdatedAt(ctx context.Context) (int64, error) {
	var ts int64
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM snapshots WHERE key = ?`, s.key).Scan(&ts)
	if stderrors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, wrapContextErr(ctx, "load", err)
	}
	return ts, nil
}

func wrapContextErr(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return errors.NewInternal(err)
}
