package dto

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxprep/backend/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestStatusForDomainCode(t *testing.T) {
	tests := []struct {
		domain string
		code   string
		status int
	}{
		{shared.CodeNotFound, ErrCodeNotFound, http.StatusNotFound},
		{shared.CodeAlreadyExists, ErrCodeAlreadyExists, http.StatusConflict},
		{shared.CodeInvalidInput, ErrCodeInvalidInput, http.StatusBadRequest},
		{shared.CodeValidation, ErrCodeValidation, http.StatusUnprocessableEntity},
		{shared.CodeInvalidState, ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{shared.CodeUnauthorized, ErrCodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeForbidden, ErrCodeForbidden, http.StatusForbidden},
		{"SOMETHING_ELSE", "SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			code, status := StatusForDomainCode(tt.domain)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestErrorResponseShape(t *testing.T) {
	data, err := json.Marshal(NewValidationErrorResponse("Request validation failed", []FieldDetail{
		{Field: "email", Message: "email must be a valid email address"},
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"code": "ERR_VALIDATION",
		"message": "Request validation failed",
		"errors": [{"field": "email", "message": "email must be a valid email address"}]
	}`, string(data))
}

func TestListResponseShape(t *testing.T) {
	data, err := json.Marshal(NewListResponse([]string{}, 0, 1, 10))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": [], "pagination": {"total": 0, "page": 1, "limit": 10}}`, string(data))
}

func TestListRequest_ToFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f, err := ListRequest{}.ToFilter(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, shared.DefaultPage, f.Page)
		assert.Equal(t, shared.DefaultLimit, f.Limit)
		assert.Empty(t, f.OrderBy, "the service or repository picks the default order")
		assert.Empty(t, f.OrderDir)
		assert.Empty(t, f.Filters)
	})

	t.Run("paging sorting and filters", func(t *testing.T) {
		id := uuid.New()
		q := url.Values{
			"is_active":   {"true"},
			"category_id": {id.String()},
			"tax_year":    {"2024"},
			"ignored":     {"x"},
		}
		f, err := ListRequest{Page: 3, Limit: 25, Search: "  deduct ", SortBy: "title", SortOrder: "ASC"}.ToFilter(q,
			IsActiveFilter,
			QueryFilter{Name: "category_id", Kind: FilterUUID},
			QueryFilter{Name: "tax_year", Kind: FilterInt},
		)
		require.NoError(t, err)
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 25, f.Limit)
		assert.Equal(t, "deduct", f.Search)
		assert.Equal(t, "title", f.OrderBy)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, map[string]any{"is_active": true, "category_id": id, "tax_year": 2024}, f.Filters)
	})

	t.Run("bad values are reported together", func(t *testing.T) {
		q := url.Values{"is_active": {"maybe"}, "category_id": {"nope"}}
		_, err := ListRequest{}.ToFilter(q, IsActiveFilter, QueryFilter{Name: "category_id", Kind: FilterUUID})
		require.Error(t, err)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeInvalidInput, de.Code)
		assert.Len(t, de.Details, 2)
	})
}
