package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/roster/internal/person"
)

// ClearInput contains parameters for the Clear operation.
type ClearInput struct {
	Confirm bool // without it Clear does nothing
}

// ClearOutput contains the result of the Clear operation.
type ClearOutput struct {
	Confirmed bool   `json:"confirmed"`
	Removed   int    `json:"removed"`
	Message   string `json:"message"`
}

// Clear removes every person. Unconfirmed calls are a no-op.
func Clear(ctx context.Context, s *Session, input ClearInput) (*ClearOutput, error) {
	if !input.Confirm {
		return &ClearOutput{Message: "clear not confirmed; nothing changed"}, nil
	}

	var removed int
	err := s.mutate(ctx, "clear", func(cur []person.Person) ([]person.Person, error) {
		removed = len(cur)
		return []person.Person{}, nil
	})
	if err != nil {
		return nil, err
	}

	logger().Info("collection cleared", "removed", removed)

	return &ClearOutput{
		Confirmed: true,
		Removed:   removed,
		Message:   fmt.Sprintf("removed %d people", removed),
	}, nil
}
