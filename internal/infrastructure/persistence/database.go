package persistence

import (
	"fmt"
	"strings"
	"time"

	"github.com/taxprep/backend/internal/domain/billing"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/engagement"
	"github.com/taxprep/backend/internal/domain/identity"
	"github.com/taxprep/backend/internal/domain/organizer"
	"github.com/taxprep/backend/internal/domain/reference"
	"github.com/taxprep/backend/internal/infrastructure/config"
	"github.com/taxprep/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB     *gorm.DB
	Driver string
}

// Option customizes NewDatabase
type Option func(*options)

type options struct {
	logger  logger.Interface
	tracing telemetry.DBTracingConfig
	zap     *zap.Logger
}

// WithGormLogger routes gorm's logging through l
func WithGormLogger(l logger.Interface) Option {
	return func(o *options) { o.logger = l }
}

// WithTracing registers otelgorm when cfg.Enabled is set
func WithTracing(cfg telemetry.DBTracingConfig, log *zap.Logger) Option {
	return func(o *options) {
		o.tracing = cfg
		o.zap = log
	}
}

// Models lists every persisted entity in dependency order
func Models() []any {
	return []any{
		&identity.AdminUser{},
		&content.Category{},
		&content.Blog{},
		&content.Faq{},
		&content.Testimonial{},
		&content.WhyChooseUs{},
		&content.Industry{},
		&reference.DocumentType{},
		&reference.IncomeSourceType{},
		&reference.ReturnType{},
		&engagement.ContactMessage{},
		&engagement.NewsletterSubscriber{},
		&organizer.TaxOrganizer{},
		&organizer.Dependent{},
		&organizer.IncomeSource{},
		&organizer.Document{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
	}
}

// NewDatabase opens the configured database. SQLite databases are migrated with
// AutoMigrate when cfg.AutoMigrate is set; Postgres schemas come from cmd/migrate.
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	o := options{logger: logger.Default.LogMode(logger.Silent), zap: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.Path))
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != "sqlite",
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if o.tracing.Enabled {
		if o.tracing.DBSystem == "" {
			o.tracing.DBSystem = dbSystem(cfg.Driver)
		}
		if err := telemetry.RegisterDBTracing(db, o.tracing, o.zap); err != nil {
			return nil, fmt.Errorf("failed to register database tracing: %w", err)
		}
	}

	d := &Database{DB: db, Driver: cfg.Driver}
	if cfg.Driver == "sqlite" && cfg.AutoMigrate {
		if err := d.AutoMigrate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// AutoMigrate creates or updates every table from the entity definitions
func (d *Database) AutoMigrate() error {
	if err := d.DB.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}

func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_foreign_keys=on"
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
