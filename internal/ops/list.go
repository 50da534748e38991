package ops

import (
	"context"

	"github.com/hpungsan/roster/internal/dupes"
	"github.com/hpungsan/roster/internal/person"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit          int  // default: 50, max: 500
	Offset         int  // default: 0
	DuplicatesOnly bool // only rows with at least one duplicated field
}

// Row is one person with its duplicate marks.
type Row struct {
	person.Person
	DisplayBirthDate string      `json:"displayBirthDate"`
	Duplicates       dupes.Flags `json:"duplicates"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []Row         `json:"items"`
	Summary    dupes.Summary `json:"summary"`
	Pagination Pagination    `json:"pagination"`
}

// List returns people in display order with duplicate highlighting.
func List(ctx context.Context, s *Session, input ListInput) (*ListOutput, error) {
	if err := checkContext(ctx, "list"); err != nil {
		return nil, err
	}

	people, ix := s.view()

	rows := make([]Row, 0, len(people))
	for _, p := range people {
		flags := ix.Flags(p)
		if input.DuplicatesOnly && !flags.Any() {
			continue
		}
		rows = append(rows, Row{
			Person:           p,
			DisplayBirthDate: person.DisplayDate(p.BirthDate),
			Duplicates:       flags,
		})
	}

	pg, start, end := page(input.Limit, input.Offset, len(rows))

	return &ListOutput{
		Items:      rows[start:end],
		Summary:    ix.Summary(),
		Pagination: pg,
	}, nil
}
