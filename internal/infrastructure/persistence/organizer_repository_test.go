package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/organizer"
	"github.com/taxprep/backend/internal/domain/shared"
)

func organizerDetails() organizer.Details {
	return organizer.Details{
		TaxYear:      2024,
		FilingStatus: organizer.FilingMarriedJoint,
		Taxpayer:     organizer.Person{FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com"},
		Spouse:       organizer.Person{FirstName: "Luis", LastName: "Diaz"},
		Dependents: []organizer.Dependent{
			{FirstName: "Sofia", LastName: "Diaz", Relationship: "daughter", MonthsInHome: 12},
			{FirstName: "Mateo", LastName: "Diaz", Relationship: "son", MonthsInHome: 6},
		},
		IncomeSources: []organizer.IncomeSource{
			{Payer: "Acme", Amount: decimal.RequireFromString("52000.25")},
		},
		Documents: []organizer.Document{{FileName: "w2.pdf", FileURL: "/uploads/w2.pdf"}},
		Signature: organizer.Signature{SignerName: "Ana Diaz", Agreed: true},
	}
}

func TestGormOrganizerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormOrganizerRepository(newTestDB(t))
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	o, err := organizer.NewTaxOrganizer(organizerDetails(), now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, o))

	t.Run("loads nested rows in order", func(t *testing.T) {
		got, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)

		assert.Equal(t, o.ReferenceNumber, got.ReferenceNumber)
		assert.Equal(t, "Luis", got.Spouse.FirstName)
		require.Len(t, got.Dependents, 2)
		assert.Equal(t, "Sofia", got.Dependents[0].FirstName)
		assert.Equal(t, "Mateo", got.Dependents[1].FirstName)
		require.Len(t, got.IncomeSources, 1)
		assert.Equal(t, "52000.25", got.IncomeSources[0].Amount.StringFixed(2))
		require.Len(t, got.Documents, 1)
	})

	t.Run("save replaces nested rows", func(t *testing.T) {
		d := organizerDetails()
		d.Dependents = d.Dependents[:1]
		d.Documents = nil
		require.NoError(t, o.Replace(d, now))
		require.NoError(t, repo.Save(ctx, o))

		got, err := repo.FindByReference(ctx, o.ReferenceNumber)
		require.NoError(t, err)
		assert.Len(t, got.Dependents, 1)
		assert.Empty(t, got.Documents)

		var orphans int64
		require.NoError(t, repo.db.Model(&organizer.Dependent{}).Count(&orphans).Error)
		assert.Equal(t, int64(1), orphans)
	})

	t.Run("lists by status and search", func(t *testing.T) {
		other, err := organizer.NewTaxOrganizer(organizer.Details{
			TaxYear:  2023,
			Taxpayer: organizer.Person{FirstName: "Bo", LastName: "Chen"},
		}, now)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, other))

		got, err := repo.FindAll(ctx, shared.Filter{Search: "chen"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, other.ID, got[0].ID)
		assert.Empty(t, got[0].Dependents, "lists do not load nested rows")

		n, err := repo.Count(ctx, shared.Filter{}.With("tax_year", 2024))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("delete removes nested rows", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, o.ID))
		_, err := repo.FindByID(ctx, o.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		var n int64
		require.NoError(t, repo.db.Model(&organizer.IncomeSource{}).Where("organizer_id = ?", o.ID).Count(&n).Error)
		assert.Zero(t, n)

		assert.True(t, errors.Is(repo.Delete(ctx, uuid.New()), shared.ErrNotFound))
	})
}
