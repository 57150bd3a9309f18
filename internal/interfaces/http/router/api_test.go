package router

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appbilling "github.com/taxprep/backend/internal/application/billing"
	appcontent "github.com/taxprep/backend/internal/application/content"
	"github.com/taxprep/backend/internal/infrastructure/auth"
	"github.com/taxprep/backend/internal/infrastructure/cache"
	"github.com/taxprep/backend/internal/infrastructure/config"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
	"github.com/taxprep/backend/internal/testutil"
)

type apiFixture struct {
	engine *gin.Engine
	jwt    *auth.JWTService
	cache  *cache.InMemoryContentCache
}

func newAPI(t *testing.T, configure ...func(*gin.Engine, *Services, *Options)) *apiFixture {
	t.Helper()
	middleware.SetupValidator()
	db := testutil.NewTestDB(t)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "taxprep-test",
	})
	contentCache := cache.NewInMemoryContentCache(time.Minute)
	t.Cleanup(func() { _ = contentCache.Close() })

	svc := Services{
		Categories: appcontent.NewCategoryService(persistence.NewGormCategoryRepository(db), zap.NewNop()),
		Invoices: appbilling.NewInvoiceService(persistence.NewGormInvoiceRepository(db),
			appbilling.DefaultConfig(), zap.NewNop()),
	}

	engine := gin.New()
	opts := Options{
		Auth:  middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{JWTService: jwtService}),
		Cache: middleware.ContentCacheConfig{Cache: contentCache, TTL: time.Minute},
	}
	for _, fn := range configure {
		fn(engine, &svc, &opts)
	}
	API(engine, svc, opts).Setup()
	return &apiFixture{engine: engine, jwt: jwtService, cache: contentCache}
}

func (f *apiFixture) token(t *testing.T, role string) map[string]string {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(auth.Subject{UserID: uuid.New(), Email: role + "@taxprep.test", Role: role})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + pair.AccessToken}
}

func TestAPI_AdminNeedsAToken(t *testing.T) {
	f := newAPI(t)

	w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/admin/categories"})
	testutil.AssertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)

	w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/admin/categories", Headers: f.token(t, "editor")})
	testutil.AssertSuccess(t, w, http.StatusOK)

	w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/public/categories"})
	testutil.AssertSuccess(t, w, http.StatusOK)
}

func TestAPI_InvoicesAreAdminOnly(t *testing.T) {
	f := newAPI(t)

	w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/admin/invoices", Headers: f.token(t, "editor")})
	testutil.AssertError(t, w, http.StatusForbidden, dto.ErrCodeForbidden)

	w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/admin/invoices", Headers: f.token(t, "admin")})
	testutil.AssertSuccess(t, w, http.StatusOK)
}

func TestAPI_PublicListsAreCachedUntilAnAdminWrite(t *testing.T) {
	f := newAPI(t)
	admin := f.token(t, "admin")

	w := testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/public/categories"})
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
	w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/public/categories"})
	assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))
	assert.Equal(t, int64(0), testutil.AssertSuccess(t, w, http.StatusOK).Pagination.Total)

	w = testutil.Do(t, f.engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/categories",
		Headers: admin, Body: map[string]any{"name": "Tax Tips"}})
	testutil.AssertSuccess(t, w, http.StatusCreated)

	w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/public/categories"})
	assert.Equal(t, "MISS", w.Header().Get(middleware.CacheHeader))
	assert.Equal(t, int64(1), testutil.AssertSuccess(t, w, http.StatusOK).Pagination.Total)

	t.Run("failed writes keep the cache", func(t *testing.T) {
		w := testutil.Do(t, f.engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/categories",
			Headers: admin, Body: map[string]any{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = testutil.Do(t, f.engine, testutil.Request{Path: "/api/v1/public/categories"})
		assert.Equal(t, "HIT", w.Header().Get(middleware.CacheHeader))
	})
}
