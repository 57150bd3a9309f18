package identity

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/identity"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/auth"
	"github.com/taxprep/backend/internal/infrastructure/config"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	identity.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type fixture struct {
	svc       *AuthService
	repo      *persistence.GormAdminUserRepository
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	logs      *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	repo := persistence.NewGormAdminUserRepository(testutil.NewTestDB(t))
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 strings.Repeat("a", 32),
		RefreshSecret:          strings.Repeat("b", 32),
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "taxprep-test",
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	return &fixture{
		svc:       NewAuthService(repo, jwtService, blacklist, zap.New(core)),
		repo:      repo,
		jwt:       jwtService,
		blacklist: blacklist,
		logs:      logs,
	}
}

func (f *fixture) addUser(t *testing.T, email string, active bool) *identity.AdminUser {
	t.Helper()
	u, err := identity.NewAdminUser(email, "Owner", "s3cretpass", identity.RoleAdmin)
	require.NoError(t, err)
	u.IsActive = active
	require.NoError(t, f.repo.Save(context.Background(), u))
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.addUser(t, "owner@firm.com", true)

	t.Run("issues tokens and records the login", func(t *testing.T) {
		res, err := f.svc.Login(ctx, LoginInput{Email: "Owner@Firm.com", Password: "s3cretpass", IP: "10.0.0.1"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.Equal(t, u.ID, res.User.ID)
		assert.Equal(t, "admin", res.User.Role)

		claims, err := f.jwt.ValidateAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), claims.UserID)

		stored, err := f.repo.FindByID(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastLoginAt)
		assert.Equal(t, "10.0.0.1", stored.LastLoginIP)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, errPw := f.svc.Login(ctx, LoginInput{Email: "owner@firm.com", Password: "nope"})
		_, errEmail := f.svc.Login(ctx, LoginInput{Email: "ghost@firm.com", Password: "s3cretpass"})
		require.Error(t, errPw)
		require.Error(t, errEmail)
		assert.Equal(t, errPw.Error(), errEmail.Error())
		assert.True(t, errors.Is(errPw, shared.ErrUnauthorized))
	})

	t.Run("deactivated account", func(t *testing.T) {
		f.addUser(t, "gone@firm.com", false)
		_, err := f.svc.Login(ctx, LoginInput{Email: "gone@firm.com", Password: "s3cretpass"})
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}

func TestAuthService_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "owner@firm.com", true)

	first, err := f.svc.Login(ctx, LoginInput{Email: "owner@firm.com", Password: "s3cretpass"})
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, "owner@firm.com", second.User.Email)

	_, err = f.svc.Refresh(ctx, RefreshInput{RefreshToken: first.RefreshToken})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	assert.Contains(t, err.Error(), "revoked")

	_, err = f.svc.Refresh(ctx, RefreshInput{RefreshToken: second.AccessToken})
	assert.True(t, errors.Is(err, shared.ErrUnauthorized), "access tokens cannot refresh")
}

func TestAuthService_ConcurrentRefreshesRotateOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "owner@firm.com", true)

	login, err := f.svc.Login(ctx, LoginInput{Email: "owner@firm.com", Password: "s3cretpass"})
	require.NoError(t, err)

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken}); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins, "a refresh token is exchanged at most once")
}

func TestAuthService_LogoutRevokesBoth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addUser(t, "owner@firm.com", true)

	res, err := f.svc.Login(ctx, LoginInput{Email: "owner@firm.com", Password: "s3cretpass"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, LogoutInput{
		AccessTokenID:  access.ID,
		AccessTokenTTL: access.GetRemainingTTL(),
		RefreshToken:   res.RefreshToken,
	}))

	revoked, err := f.blacklist.IsBlacklisted(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.svc.Refresh(ctx, RefreshInput{RefreshToken: res.RefreshToken})
	assert.True(t, errors.Is(err, shared.ErrUnauthorized))
}

func TestAuthService_Me(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "owner@firm.com", true)

	me, err := f.svc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Owner", me.Name)

	_, err = f.svc.Me(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestAuthService_EnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cfg := config.AdminConfig{Email: "root@firm.com", Name: "Root", Password: "changeme12345"}

	created, err := f.svc.EnsureBootstrapAdmin(ctx, config.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created, "nothing configured")

	created, err = f.svc.EnsureBootstrapAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.EnsureBootstrapAdmin(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created, "only runs on an empty table")
	assert.Equal(t, 1, f.logs.FilterMessage("Bootstrap administrator created").Len())

	_, err = f.svc.Login(ctx, LoginInput{Email: "root@firm.com", Password: "changeme12345"})
	require.NoError(t, err)
}
