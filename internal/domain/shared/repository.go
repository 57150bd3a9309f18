package shared

import (
	"context"

	"github.com/google/uuid"
)

// Lister is the read side shared by every list endpoint
type Lister[T any] interface {
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Repository is the base interface for all repositories
type Repository[T any] interface {
	Lister[T]
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SlugRepository is implemented by repositories of entities addressed by slug
type SlugRepository[T any] interface {
	Repository[T]
	FindBySlug(ctx context.Context, slug string) (*T, error)
	// ExistsBySlug reports whether another row (not excludeID) already uses slug.
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
}

// Pagination defaults shared by every list endpoint
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Filter represents query filter options
type Filter struct {
	Page     int
	Limit    int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Normalize clamps paging values into range
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
}

// Offset returns the row offset for the current page
func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// With returns a copy of the filter with key set. The receiver's map is not modified.
func (f Filter) With(key string, value any) Filter {
	filters := make(map[string]any, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[key] = value
	f.Filters = filters
	return f
}
