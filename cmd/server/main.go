package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appbilling "github.com/taxprep/backend/internal/application/billing"
	appcontent "github.com/taxprep/backend/internal/application/content"
	appengagement "github.com/taxprep/backend/internal/application/engagement"
	appidentity "github.com/taxprep/backend/internal/application/identity"
	"github.com/taxprep/backend/internal/application/media"
	apporganizer "github.com/taxprep/backend/internal/application/organizer"
	appref "github.com/taxprep/backend/internal/application/reference"
	"github.com/taxprep/backend/internal/application/site"
	"github.com/taxprep/backend/internal/infrastructure/auth"
	"github.com/taxprep/backend/internal/infrastructure/cache"
	"github.com/taxprep/backend/internal/infrastructure/config"
	"github.com/taxprep/backend/internal/infrastructure/logger"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/infrastructure/sanitize"
	"github.com/taxprep/backend/internal/infrastructure/scheduler"
	"github.com/taxprep/backend/internal/infrastructure/storage"
	"github.com/taxprep/backend/internal/infrastructure/telemetry"
	"github.com/taxprep/backend/internal/interfaces/http/handler"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
	"github.com/taxprep/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Tax Consultancy API
//	@version		1.0
//	@description	Public site content, client intake forms and the admin panel of a tax consultancy.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting tax consultancy API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Database, with gorm logging through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(gormLog),
		persistence.WithTracing(telemetry.DBTracingConfig{
			Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
			IncludeVars:     !cfg.App.IsProduction(),
			SlowQueryThresh: 200 * time.Millisecond,
		}, log),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver))

	// Redis backs the token blacklist and the content cache when configured
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var blacklist auth.TokenBlacklist
	var contentCache cache.ContentCache
	factory := cache.NewFactory(nilIfUnset(redisClient), cache.WithLogger(log))
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}
	if cfg.Cache.Enabled {
		c, closeCache, err := factory.ContentCache(cfg.Cache.TTL)
		if err != nil {
			log.Fatal("Failed to create content cache", zap.Error(err))
		}
		defer func() { _ = closeCache() }()
		contentCache = c
	}

	// Upload storage
	store, err := storage.New(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	if s3Store, ok := store.(*storage.S3ObjectStorage); ok {
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare upload bucket", zap.Error(err))
		}
	}

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	blogRepo := persistence.NewGormBlogRepository(db.DB)
	faqRepo := persistence.NewGormFaqRepository(db.DB)
	testimonialRepo := persistence.NewGormTestimonialRepository(db.DB)
	whyChooseUsRepo := persistence.NewGormWhyChooseUsRepository(db.DB)
	industryRepo := persistence.NewGormIndustryRepository(db.DB)
	documentTypeRepo := persistence.NewGormDocumentTypeRepository(db.DB)
	incomeSourceTypeRepo := persistence.NewGormIncomeSourceTypeRepository(db.DB)
	returnTypeRepo := persistence.NewGormReturnTypeRepository(db.DB)
	contactRepo := persistence.NewGormContactMessageRepository(db.DB)
	subscriberRepo := persistence.NewGormNewsletterSubscriberRepository(db.DB)
	organizerRepo := persistence.NewGormOrganizerRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	adminUserRepo := persistence.NewGormAdminUserRepository(db.DB)

	// Application services
	clean := sanitize.New()
	jwtService := auth.NewJWTService(cfg.JWT)
	svc := router.Services{
		Auth:              appidentity.NewAuthService(adminUserRepo, jwtService, blacklist, log),
		Categories:        appcontent.NewCategoryService(categoryRepo, log),
		Blogs:             appcontent.NewBlogService(blogRepo, categoryRepo, clean, log),
		Faqs:              appcontent.NewFaqService(faqRepo, clean),
		Testimonials:      appcontent.NewTestimonialService(testimonialRepo, clean),
		WhyChooseUs:       appcontent.NewWhyChooseUsService(whyChooseUsRepo, clean),
		Industries:        appcontent.NewIndustryService(industryRepo, clean),
		DocumentTypes:     appref.NewDocumentTypeService(documentTypeRepo),
		IncomeSourceTypes: appref.NewIncomeSourceTypeService(incomeSourceTypeRepo),
		ReturnTypes:       appref.NewReturnTypeService(returnTypeRepo),
		Contact:           appengagement.NewContactService(contactRepo, clean, log),
		Newsletter:        appengagement.NewNewsletterService(subscriberRepo, log),
		Organizers:        apporganizer.NewService(organizerRepo, clean, log),
		Invoices:          appbilling.NewInvoiceService(invoiceRepo, appbilling.DefaultConfig(), log),
		Media: media.NewService(store, media.Config{
			MaxSize:      cfg.Storage.MaxUploadSize,
			AllowedTypes: cfg.Storage.AllowedTypes,
		}, log),
	}
	svc.Site = site.NewService(site.Sources{
		Testimonials: svc.Testimonials,
		Faqs:         svc.Faqs,
		WhyChooseUs:  svc.WhyChooseUs,
		Industries:   svc.Industries,
		Blogs:        svc.Blogs,
	}, site.DefaultConfig(), log)

	if _, err := svc.Auth.EnsureBootstrapAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal("Failed to create bootstrap administrator", zap.Error(err))
	}

	metrics := telemetry.NewHTTPMetrics(strings.ReplaceAll(cfg.App.Name, "-", "_"))

	// Background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.New(scheduler.Config{JobTimeout: cfg.Scheduler.JobTimeout}, log,
			scheduler.WithObserver(metrics.JobRun))
		err := jobs.Register(scheduler.Job{
			Name:       "invoice_overdue_sweep",
			Interval:   cfg.Scheduler.OverdueSweepInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := svc.Invoices.SweepOverdue(ctx)
				return err
			},
		})
		if err != nil {
			log.Fatal("Failed to register job", zap.Error(err))
		}
		jobs.Start(ctx)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID, panic recovery, tracing, request log,
	// metrics, security headers, CORS, body limit, rate limit.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	if cfg.HTTP.MetricsEnabled {
		engine.Use(middleware.Metrics(metrics))
		engine.GET("/metrics", gin.WrapH(metrics.Handler()))
	}
	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.App.IsProduction()
	engine.Use(middleware.SecureWithConfig(security))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// uploads carry their own, larger limit
	engine.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		MaxBytes: cfg.HTTP.MaxBodySize,
		Skip:     router.IsUploadRoute,
	}))
	// multipart framing on top of the file itself
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxUploadSize + 1<<20)

	var limiters []*middleware.RateLimiter
	var formLimit gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		general := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		forms := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limiters = append(limiters, general, forms)
		engine.Use(middleware.RateLimit(general))
		formLimit = middleware.RateLimit(forms)
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
			zap.Int("form_requests", cfg.HTTP.AuthRateLimitRequests),
		)
	}

	engine.GET("/health", handler.NewSystemHandler(db, version).Health)
	if local, ok := store.(*storage.LocalStorage); ok {
		engine.Static("/uploads", local.Root())
	}

	router.API(engine, svc, router.Options{
		Auth: middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		FormLimit:   formLimit,
		UploadLimit: uploadLimit,
		Cache: middleware.ContentCacheConfig{
			Cache:    contentCache,
			TTL:      cfg.Cache.TTL,
			Observer: metrics.CacheHit,
		},
	}).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if jobs != nil {
		if err := jobs.Stop(shutdownCtx); err != nil {
			log.Error("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	for _, l := range limiters {
		l.Stop()
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// nilIfUnset keeps a nil *redis.Client from becoming a non-nil interface
func nilIfUnset(c *redis.Client) redis.UniversalClient {
	if c == nil {
		return nil
	}
	return c
}
