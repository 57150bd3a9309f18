package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taxprep/backend/internal/infrastructure/cache"
	"github.com/taxprep/backend/internal/infrastructure/logger"
)

// CacheHeader reports HIT or MISS on cacheable responses
const CacheHeader = "X-Cache"

// HomeResource is the cache resource of the home page aggregate. Every content
// change invalidates it.
const HomeResource = "home"

// CacheObserver is told about every lookup, e.g. to count hits
type CacheObserver func(hit bool)

// ContentCacheConfig configures CachePublic and InvalidateContent
type ContentCacheConfig struct {
	Cache    cache.ContentCache
	TTL      time.Duration
	Observer CacheObserver
	// Generations, when set, keeps a response rendered before an
	// invalidation from being stored after it. Share one value between
	// CachePublic and InvalidateContent.
	Generations *CacheGenerations
}

// CacheGenerations counts invalidations per resource. Stores and invalidations
// of this process are serialized against each other; a store only happens
// while the generation it started under is still current.
type CacheGenerations struct {
	mu  sync.RWMutex
	gen map[string]uint64
}

// NewCacheGenerations returns an empty counter set
func NewCacheGenerations() *CacheGenerations {
	return &CacheGenerations{gen: make(map[string]uint64)}
}

func (g *CacheGenerations) current(resource string) uint64 {
	if g == nil {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.gen[resource]
}

// storeIfCurrent runs store unless resource was invalidated since seen
func (g *CacheGenerations) storeIfCurrent(resource string, seen uint64, store func()) bool {
	if g == nil {
		store()
		return true
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.gen[resource] != seen {
		return false
	}
	store()
	return true
}

func (g *CacheGenerations) invalidate(resource string, drop func()) {
	if g == nil {
		drop()
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen[resource]++
	drop()
}

// bodyRecorder keeps a copy of what the handler writes
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePublic serves GET responses of resource from the content cache, keyed by
// the full request URI. Only 200 responses are stored. Cache errors are logged
// and the request is served from the handler.
func CachePublic(cfg ContentCacheConfig, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := cache.Key(resource, c.Request.URL.RequestURI())

		body, hit, err := cfg.Cache.Get(ctx, key)
		if err != nil {
			logger.GetGinLogger(c).Warn("Content cache read failed", zap.String("key", key), zap.Error(err))
		}
		if cfg.Observer != nil {
			cfg.Observer(hit)
		}
		if hit {
			c.Header(CacheHeader, "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		c.Header(CacheHeader, "MISS")
		seen := cfg.Generations.current(resource)
		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if c.Writer.Status() != http.StatusOK || rec.body.Len() == 0 {
			return
		}
		stored := cfg.Generations.storeIfCurrent(resource, seen, func() {
			if err := cfg.Cache.Set(ctx, key, rec.body.Bytes(), cfg.TTL); err != nil {
				logger.GetGinLogger(c).Warn("Content cache write failed", zap.String("key", key), zap.Error(err))
			}
		})
		if !stored {
			logger.GetGinLogger(c).Debug("Content changed while rendering, not cached", zap.String("key", key))
		}
	}
}

// InvalidateContent drops the cached public responses of resources, and the
// home page, after a successful write.
func InvalidateContent(cfg ContentCacheConfig, resources ...string) gin.HandlerFunc {
	targets := append(append([]string{}, resources...), HomeResource)
	return func(c *gin.Context) {
		c.Next()

		if cfg.Cache == nil || c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		ctx := c.Request.Context()
		for _, r := range targets {
			cfg.Generations.invalidate(r, func() {
				if err := cfg.Cache.InvalidatePrefix(ctx, cache.ResourcePrefix(r)); err != nil {
					logger.GetGinLogger(c).Warn("Content cache invalidation failed",
						zap.String("resource", r),
						zap.Error(err))
				}
			})
		}
	}
}
