package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/roster/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// page clamps limit and offset and returns the [start,end) window over total items.
func page(limit, offset, total int) (Pagination, int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = max(offset, 0)

	start := min(offset, total)
	end := min(start+limit, total)

	return Pagination{
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
		Total:   total,
	}, start, end
}

// checkContext returns a CANCELLED error if ctx is done.
func checkContext(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}

func logger() *slog.Logger {
	return slog.Default().With("component", "ops")
}
