package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("loading blog: %w", NewDomainError(CodeNotFound, "Blog not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrAlreadyExists))

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Blog not found", de.Message)
}

func TestProblems(t *testing.T) {
	var p Problems
	assert.NoError(t, p.Err("invalid"))

	p.Require("name", "  ")
	p.Require("email", "a@b.c")
	p.Add("rating", "rating must be between 1 and 5")

	err := p.Err("Organizer is incomplete")
	require.Error(t, err)

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, "Organizer is incomplete", de.Message)
	require.Len(t, de.Details, 2)
	assert.Equal(t, "name", de.Details[0].Field)
	assert.Equal(t, "rating", de.Details[1].Field)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, Limit: 500}
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.NotNil(t, f.Filters)

	f = Filter{Page: 3, Limit: 10}
	assert.Equal(t, 20, f.Offset())
}
