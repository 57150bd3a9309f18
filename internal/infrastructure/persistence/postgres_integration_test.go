//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/taxprep/backend/internal/domain/billing"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/organizer"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/migration"
	"github.com/taxprep/backend/migrations"
)

// newPostgresDB starts a throwaway Postgres container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("taxprep_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.NewEmbedded(sqlDB, migrations.FS, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db
}

func TestPostgres_SchemaMatchesEntities(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()

	t.Run("blog with category round trip", func(t *testing.T) {
		cats := NewGormCategoryRepository(db)
		blogs := NewGormBlogRepository(db)

		cat, err := content.NewCategory("Deductions", "deductions")
		require.NoError(t, err)
		require.NoError(t, cats.Save(ctx, cat))

		post, err := content.NewBlog("Home office rules", "home-office-rules", "<p>Body</p>")
		require.NoError(t, err)
		post.SetCategory(&cat.ID)
		post.SetTags([]string{"home", "office"})
		require.NoError(t, post.Publish(time.Now()))
		require.NoError(t, blogs.Save(ctx, post))

		got, err := blogs.FindBySlug(ctx, "home-office-rules")
		require.NoError(t, err)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Deductions", got.Category.Name)
		assert.Equal(t, []string{"home", "office"}, got.Tags)

		n, err := cats.CountBlogs(ctx, cat.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		dup, err := content.NewCategory("Other", "deductions")
		require.NoError(t, err)
		assert.True(t, errors.Is(cats.Save(ctx, dup), shared.ErrAlreadyExists))
	})

	t.Run("organizer children replaced on save", func(t *testing.T) {
		repo := NewGormOrganizerRepository(db)
		now := time.Now()
		o, err := organizer.NewTaxOrganizer(organizer.Details{
			TaxYear:      now.Year() - 1,
			FilingStatus: organizer.FilingSingle,
			Taxpayer:     organizer.Person{FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com"},
			Dependents:   []organizer.Dependent{{FirstName: "Leo", LastName: "Diaz", Relationship: "son", MonthsInHome: 12}},
			IncomeSources: []organizer.IncomeSource{
				{Description: "Wages", Amount: decimal.RequireFromString("52000.10")},
			},
		}, now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, o))

		require.NoError(t, o.Replace(organizer.Details{
			TaxYear:      now.Year() - 1,
			FilingStatus: organizer.FilingSingle,
			Taxpayer:     o.Taxpayer,
		}, now))
		require.NoError(t, repo.Save(ctx, o))

		got, err := repo.FindByReference(ctx, o.ReferenceNumber)
		require.NoError(t, err)
		assert.Empty(t, got.Dependents)
		assert.Empty(t, got.IncomeSources)
	})

	t.Run("invoice numbering and past due", func(t *testing.T) {
		repo := NewGormInvoiceRepository(db)
		due := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		for _, number := range []string{"INV-2025-0009", "INV-2025-0010"} {
			inv, err := billing.NewInvoice(number, "Ana Diaz", "ana@example.com", due.AddDate(0, 0, -14), due)
			require.NoError(t, err)
			require.NoError(t, inv.Price([]billing.LineInput{
				{Description: "1040", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(250)},
			}, decimal.Zero, decimal.Zero))
			require.NoError(t, inv.Send(due.AddDate(0, 0, -14)))
			require.NoError(t, repo.Save(ctx, inv))
		}

		last, err := repo.LastNumber(ctx, billing.InvoiceNumberPrefix(2025))
		require.NoError(t, err)
		assert.Equal(t, "INV-2025-0010", last)

		past, err := repo.FindPastDue(ctx, due.AddDate(0, 0, 1))
		require.NoError(t, err)
		assert.Len(t, past, 2)
	})
}
