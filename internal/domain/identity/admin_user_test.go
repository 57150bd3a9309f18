package identity

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestNewAdminUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		u, err := NewAdminUser(" Admin@Firm.com ", "Owner", "s3cretpass", RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, "admin@firm.com", u.Email)
		assert.True(t, u.IsActive)
		assert.NotEqual(t, "s3cretpass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cretpass"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewAdminUser("a@firm.com", "A", "s3cretpass", "root")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("enforces password rules", func(t *testing.T) {
		for _, pw := range []string{"short1", "onlyletters", "12345678901"} {
			_, err := NewAdminUser("a@firm.com", "A", pw, RoleEditor)
			assert.Error(t, err, pw)
		}
	})
}

func TestAdminUser_RecordLogin(t *testing.T) {
	u, err := NewAdminUser("a@firm.com", "A", "s3cretpass", RoleEditor)
	require.NoError(t, err)

	at := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	u.RecordLogin("10.0.0.1", at)
	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, at, *u.LastLoginAt)
	assert.Equal(t, "10.0.0.1", u.LastLoginIP)
}
