package ops

import (
	"context"

	"github.com/hpungsan/roster/internal/dupes"
)

// SummaryOutput contains the result of the Summary operation.
type SummaryOutput struct {
	Total   int           `json:"total"`
	Summary dupes.Summary `json:"summary"`
	Groups  []dupes.Group `json:"groups"`
}

// Summary reports duplicate group counts and the groups themselves.
func Summary(ctx context.Context, s *Session) (*SummaryOutput, error) {
	if err := checkContext(ctx, "summary"); err != nil {
		return nil, err
	}

	people, ix := s.view()
	groups := ix.Groups()
	if groups == nil {
		groups = []dupes.Group{}
	}

	return &SummaryOutput{
		Total:   len(people),
		Summary: ix.Summary(),
		Groups:  groups,
	}, nil
}
