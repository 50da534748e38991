package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/roster/internal/dupes"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/person"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Name           string // required
	BirthDate      string // required; normalized to YYYY-MM-DD when possible
	DocumentNumber string // required
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	Person person.Person `json:"person"`
	Flags  dupes.Flags   `json:"duplicates"`
	Total  int           `json:"total"`
}

// Add appends a single manually entered person.
func Add(ctx context.Context, s *Session, input AddInput) (*AddOutput, error) {
	name := strings.TrimSpace(input.Name)
	birthDate := strings.TrimSpace(input.BirthDate)
	doc := strings.TrimSpace(input.DocumentNumber)

	if name == "" || birthDate == "" || doc == "" {
		return nil, errors.NewInvalidRequest("name, birth date and document number are all required")
	}

	p := s.ids.New(name, person.NormalizeDate(birthDate), doc)

	var total int
	err := s.mutate(ctx, "add", func(cur []person.Person) ([]person.Person, error) {
		next := append(cur, p)
		total = len(next)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &AddOutput{
		Person: p,
		Flags:  s.Index().Flags(p),
		Total:  total,
	}, nil
}
