// Package listing loads paginated lists for the application services.
package listing

import (
	"context"

	"github.com/taxprep/backend/internal/domain/shared"
)

// Load fetches one page through repo, counts all matching rows and converts
// each row with conv.
func Load[T, R any](ctx context.Context, repo shared.Lister[T], filter shared.Filter, conv func(*T) R) ([]R, int64, error) {
	filter.Normalize()

	rows, err := repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return Map(rows, conv), total, nil
}

// Map converts every element of rows
func Map[T, R any](rows []T, conv func(*T) R) []R {
	out := make([]R, len(rows))
	for i := range rows {
		out[i] = conv(&rows[i])
	}
	return out
}

// Public narrows an admin filter to what anonymous visitors may see:
// active rows only, ordered by hand unless a sort was requested.
func Public(filter shared.Filter) shared.Filter {
	filter = filter.With("is_active", true)
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
		filter.OrderDir = "asc"
	}
	return filter
}
