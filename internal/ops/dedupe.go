package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/roster/internal/dupes"
	"github.com/hpungsan/roster/internal/person"
)

// DedupeInput contains parameters for the Dedupe operation.
type DedupeInput struct {
	Confirm bool // without it Dedupe only previews
}

// DedupeOutput contains the result of the Dedupe operation.
// Unconfirmed runs fill RemovedIDs with what would be removed.
type DedupeOutput struct {
	Confirmed  bool     `json:"confirmed"`
	Removed    int      `json:"removed"`
	RemovedIDs []string `json:"removed_ids"`
	Remaining  int      `json:"remaining"`
	Message    string   `json:"message"`
}

// Dedupe drops every record that shares a normalized name, birth date or
// document with a more recently created record.
func Dedupe(ctx context.Context, s *Session, input DedupeInput) (*DedupeOutput, error) {
	if !input.Confirm {
		people, ix := s.view()
		plan := dupes.NewPlan(ix)
		return &DedupeOutput{
			RemovedIDs: nonNil(plan.Removed),
			Remaining:  len(people),
			Message:    fmt.Sprintf("dedupe not confirmed; %d record(s) would be removed", plan.Count()),
		}, nil
	}

	var plan *dupes.Plan
	var remaining int
	err := s.mutate(ctx, "dedupe", func(cur []person.Person) ([]person.Person, error) {
		var next []person.Person
		next, plan = dupes.Dedupe(cur)
		remaining = len(next)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	if plan.Count() > 0 {
		logger().Info("duplicates removed", "removed", plan.Count(), "remaining", remaining)
	}

	msg := "no duplicates found"
	if plan.Count() > 0 {
		msg = fmt.Sprintf("removed %d duplicate record(s)", plan.Count())
	}

	return &DedupeOutput{
		Confirmed:  true,
		Removed:    plan.Count(),
		RemovedIDs: nonNil(plan.Removed),
		Remaining:  remaining,
		Message:    msg,
	}, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
