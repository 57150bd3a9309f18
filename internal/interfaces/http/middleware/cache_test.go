package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxprep/backend/internal/infrastructure/cache"
)

func TestCachePublicAndInvalidate(t *testing.T) {
	store := cache.NewInMemoryContentCache(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	var (
		calls   int
		lookups []bool
	)
	cfg := ContentCacheConfig{
		Cache:    store,
		TTL:      time.Minute,
		Observer: func(hit bool) { lookups = append(lookups, hit) },
	}

	router := gin.New()
	router.GET("/faqs", CachePublic(cfg, "faqs"), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"success": true, "data": calls})
	})
	router.GET("/broken", CachePublic(cfg, "faqs"), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})
	router.POST("/admin/faqs", InvalidateContent(cfg, "faqs"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	router.POST("/admin/faqs/bad", InvalidateContent(cfg, "faqs"), func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
	})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}
	post := func(path string) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, path, nil))
	}

	first := get("/faqs?page=1")
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))

	second := get("/faqs?page=1")
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	// query is part of the key
	get("/faqs?page=2")
	assert.Equal(t, 2, calls)

	// errors are not cached
	get("/broken")
	get("/broken")
	assert.Equal(t, 4, calls)

	post("/admin/faqs/bad")
	assert.Equal(t, "HIT", get("/faqs?page=1").Header().Get(CacheHeader), "failed writes keep the cache")

	require.NoError(t, store.Set(context.Background(), cache.Key(HomeResource, "/home"), []byte(`{}`), time.Minute))
	post("/admin/faqs")
	assert.Equal(t, "MISS", get("/faqs?page=1").Header().Get(CacheHeader))
	_, hit, err := store.Get(context.Background(), cache.Key(HomeResource, "/home"))
	require.NoError(t, err)
	assert.False(t, hit, "home page is invalidated with every resource")

	assert.Equal(t, []bool{false, true, false, false, false, true, false}, lookups)
}

func TestCachePublic_SkipsStoreAfterConcurrentInvalidation(t *testing.T) {
	store := cache.NewInMemoryContentCache(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	cfg := ContentCacheConfig{Cache: store, TTL: time.Minute, Generations: NewCacheGenerations()}

	router := gin.New()
	writeDuringRender := true
	router.POST("/admin/faqs", InvalidateContent(cfg, "faqs"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})
	router.GET("/faqs", CachePublic(cfg, "faqs"), func(c *gin.Context) {
		if writeDuringRender {
			writeDuringRender = false
			// an admin write lands while this response is still being built
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/faqs", nil))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": "stale"})
	})

	get := func() string {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/faqs", nil))
		return w.Header().Get(CacheHeader)
	}

	assert.Equal(t, "MISS", get())
	_, hit, err := store.Get(context.Background(), cache.Key("faqs", "/faqs"))
	require.NoError(t, err)
	assert.False(t, hit, "a response older than the invalidation is not stored")

	assert.Equal(t, "MISS", get())
	assert.Equal(t, "HIT", get())
}
