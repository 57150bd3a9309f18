package engagement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/shared"
)

func TestNewContactMessage(t *testing.T) {
	t.Run("normalizes email and starts as new", func(t *testing.T) {
		m, err := NewContactMessage(" Ana ", " Ana@Example.COM", "  Need help with my 1040 ")
		require.NoError(t, err)

		assert.Equal(t, "Ana", m.Name)
		assert.Equal(t, "ana@example.com", m.Email)
		assert.Equal(t, "Need help with my 1040", m.Message)
		assert.Equal(t, ContactStatusNew, m.Status)
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		_, err := NewContactMessage("", "nope", "")
		require.Error(t, err)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeValidation, de.Code)
		assert.Len(t, de.Details, 3)
	})
}

func TestContactMessage_ChangeStatus(t *testing.T) {
	m, err := NewContactMessage("Ana", "ana@example.com", "Hi")
	require.NoError(t, err)

	require.NoError(t, m.ChangeStatus(ContactStatusRead))
	require.NoError(t, m.ChangeStatus(ContactStatusRead), "same status is a no-op")
	require.NoError(t, m.ChangeStatus(ContactStatusReplied))

	err = m.ChangeStatus(ContactStatusNew)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	require.NoError(t, m.ChangeStatus(ContactStatusArchived))
	require.NoError(t, m.ChangeStatus(ContactStatusRead))
}

func TestParseContactStatus(t *testing.T) {
	st, ok := ParseContactStatus(" Replied ")
	assert.True(t, ok)
	assert.Equal(t, ContactStatusReplied, st)

	_, ok = ParseContactStatus("deleted")
	assert.False(t, ok)
}

func TestNewsletterSubscriber(t *testing.T) {
	s, err := NewNewsletterSubscriber("Reader@Example.com", "footer")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", s.Email)
	assert.True(t, s.IsSubscribed())
	token := s.Token
	assert.NotEmpty(t, token)

	assert.False(t, s.Resubscribe(), "already subscribed")

	assert.True(t, s.Unsubscribe())
	assert.False(t, s.IsSubscribed())
	assert.NotNil(t, s.UnsubscribedAt)
	assert.False(t, s.Unsubscribe())

	assert.True(t, s.Resubscribe())
	assert.Nil(t, s.UnsubscribedAt)
	assert.NotEqual(t, token, s.Token, "old unsubscribe links stop working")

	_, err = NewNewsletterSubscriber("bad", "")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
