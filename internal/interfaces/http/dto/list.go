package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/taxprep/backend/internal/domain/shared"
)

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search" binding:"max=200"`
	SortBy    string `form:"sort_by" binding:"max=50"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// FilterKind says how a query filter value is parsed
type FilterKind int

const (
	FilterString FilterKind = iota
	FilterBool
	FilterInt
	FilterUUID
)

// QueryFilter is one resource-specific query parameter passed through to the repository
type QueryFilter struct {
	Name string
	Kind FilterKind
}

// Common resource filters
var (
	IsActiveFilter = QueryFilter{Name: "is_active", Kind: FilterBool}
	StatusFilter   = QueryFilter{Name: "status"}
)

// ToFilter converts the request into a shared.Filter. Only the listed filters are
// read from query; values that do not parse are reported together. Without
// sort_by the order is left empty so the service or repository default applies.
func (r ListRequest) ToFilter(query url.Values, filters ...QueryFilter) (shared.Filter, error) {
	f := shared.DefaultFilter()
	f.OrderBy, f.OrderDir = "", ""
	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.Limit > 0 {
		f.Limit = r.Limit
	}
	f.Search = strings.TrimSpace(r.Search)
	if r.SortBy != "" {
		f.OrderBy = r.SortBy
		f.OrderDir = strings.ToLower(r.SortOrder)
	}

	var problems shared.Problems
	for _, qf := range filters {
		raw := strings.TrimSpace(query.Get(qf.Name))
		if raw == "" {
			continue
		}
		value, ok := parseFilter(qf.Kind, raw)
		if !ok {
			problems.Add(qf.Name, qf.Name+" has an invalid value")
			continue
		}
		f.Filters[qf.Name] = value
	}
	if len(problems) > 0 {
		return f, &shared.DomainError{
			Code:    shared.CodeInvalidInput,
			Message: "Invalid query parameters",
			Details: problems,
		}
	}
	f.Normalize()
	return f, nil
}

func parseFilter(kind FilterKind, raw string) (any, bool) {
	switch kind {
	case FilterBool:
		b, err := strconv.ParseBool(raw)
		return b, err == nil
	case FilterInt:
		n, err := strconv.Atoi(raw)
		return n, err == nil
	case FilterUUID:
		id, err := uuid.Parse(raw)
		return id, err == nil
	default:
		return raw, true
	}
}
