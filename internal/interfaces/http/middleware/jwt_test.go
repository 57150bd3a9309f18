package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taxprep/backend/internal/infrastructure/auth"
	"github.com/taxprep/backend/internal/infrastructure/config"
	"github.com/taxprep/backend/internal/infrastructure/logger"
)

func newTestJWTService(accessTTL time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  accessTTL,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "taxprep-test",
	})
}

func issue(t *testing.T, svc *auth.JWTService, role string) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.Subject{UserID: id, Email: "admin@taxprep.test", Role: role})
	require.NoError(t, err)
	return pair, id
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}
func (failingBlacklist) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func authRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.Use(extra...)
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"user_id":  claims.UserID,
			"admin_id": c.GetString(logger.GinAdminIDKey),
		})
	})
	return router
}

func bearer(router http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, id := issue(t, svc, "admin")

	w := bearer(authRouter(JWTMiddlewareConfig{JWTService: svc}), "Bearer "+pair.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"`+id.String()+`","admin_id":"`+id.String()+`"}`, w.Body.String())
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issue(t, svc, "admin")
	expired, _ := issue(t, newTestJWTService(-time.Minute), "admin")

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", `"code":"ERR_UNAUTHORIZED"`},
		{"not bearer", "Basic abc", `"code":"ERR_UNAUTHORIZED"`},
		{"empty token", "Bearer ", `"code":"ERR_UNAUTHORIZED"`},
		{"garbage", "Bearer not-a-jwt", `"code":"ERR_TOKEN_INVALID"`},
		{"refresh token", "Bearer " + pair.RefreshToken, `"code":"ERR_TOKEN_INVALID"`},
		{"expired", "Bearer " + expired.AccessToken, `"code":"ERR_TOKEN_EXPIRED"`},
	}

	router := authRouter(JWTMiddlewareConfig{JWTService: svc})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := bearer(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	pair, _ := issue(t, svc, "admin")
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		w := bearer(authRouter(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist}), "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token has been revoked")
	})

	t.Run("blacklist outage fails open", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		cfg := JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: failingBlacklist{}, Logger: zap.New(core)}

		w := bearer(authRouter(cfg), "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, logs.FilterMessage("Failed to check token blacklist").Len())
	})
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := authRouter(JWTMiddlewareConfig{JWTService: svc}, RequireRole("admin"))

	admin, _ := issue(t, svc, "admin")
	editor, _ := issue(t, svc, "editor")

	assert.Equal(t, http.StatusOK, bearer(router, "Bearer "+admin.AccessToken).Code)

	w := bearer(router, "Bearer "+editor.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_FORBIDDEN"`)
}
