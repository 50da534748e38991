package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// RemoveInput contains parameters for the Remove operation.
type RemoveInput struct {
	ID string // required
}

// RemoveOutput contains the result of the Remove operation.
type RemoveOutput struct {
	ID        string `json:"id"`
	Remaining int    `json:"remaining"`
}

// Remove deletes one person by id.
func Remove(ctx context.Context, s *Session, input RemoveInput) (*RemoveOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	var remaining int
	err := s.mutate(ctx, "remove", func(cur []person.Person) ([]person.Person, error) {
		for i, p := range cur {
			if p.ID == id {
				next := append(cur[:i:i], cur[i+1:]...)
				remaining = len(next)
				return next, nil
			}
		}
		return nil, errors.NewNotFound(id)
	})
	if err != nil {
		return nil, err
	}

	return &RemoveOutput{ID: id, Remaining: remaining}, nil
}
