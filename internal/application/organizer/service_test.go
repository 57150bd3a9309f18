package organizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/infrastructure/sanitize"
	"github.com/taxprep/backend/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newService(t *testing.T) (*Service, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(persistence.NewGormOrganizerRepository(testutil.NewTestDB(t)), sanitize.New(), zap.New(core))
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, logs
}

func completeInput() OrganizerInput {
	wages := uuid.New()
	return OrganizerInput{
		TaxYear:      2024,
		FilingStatus: "married_joint",
		Taxpayer: PersonInput{
			FirstName:   "Ana",
			LastName:    "Diaz",
			Email:       "Ana@Example.com",
			DateOfBirth: "1985-04-02",
			SSNLast4:    "1234",
		},
		Spouse:  &PersonInput{FirstName: "Luis", LastName: "Diaz"},
		Address: AddressInput{Line1: "1 Main St", City: "Austin", State: "TX"},
		Dependents: []DependentInput{
			{FirstName: "Leo", LastName: "Diaz", Relationship: "son", DateOfBirth: "2015-06-01", MonthsInHome: 12},
		},
		IncomeSources: []IncomeSourceInput{
			{IncomeSourceTypeID: &wages, Description: "W-2 <b>wages</b>", Amount: decimal.RequireFromString("52000.10")},
			{IncomeSourceTypeID: &wages, Description: "Second job", Amount: decimal.RequireFromString("1000")},
		},
		Documents: []DocumentInput{{FileName: "w2.pdf", FileURL: "/uploads/documents/2025/03/w2.pdf"}},
		Signature: &SignatureInput{SignerName: "Ana Diaz", Agreed: true},
	}
}

func TestService_StartAndSubmit(t *testing.T) {
	ctx := context.Background()
	svc, logs := newService(t)

	in := completeInput()
	in.Submit = true
	o, err := svc.Start(ctx, in, "203.0.113.7")
	require.NoError(t, err)

	assert.Regexp(t, `^ORG-2025-[0-9A-F]{6}$`, o.ReferenceNumber)
	assert.Equal(t, "submitted", o.Status)
	require.NotNil(t, o.SubmittedAt)
	require.NotNil(t, o.Signature.SignedAt)
	assert.Equal(t, "ana@example.com", o.Taxpayer.Email)
	assert.Equal(t, "1985-04-02", o.Taxpayer.DateOfBirth)
	require.NotNil(t, o.Spouse)
	assert.Equal(t, "Luis", o.Spouse.FirstName)
	require.Len(t, o.IncomeSources, 2)
	assert.Equal(t, "W-2 wages", o.IncomeSources[0].Description)
	assert.True(t, o.TotalIncome.Equal(decimal.RequireFromString("53000.10")))
	assert.Equal(t, 1, logs.FilterMessage("Tax organizer received").Len())

	receipt, err := svc.Track(ctx, o.ReferenceNumber)
	require.NoError(t, err)
	assert.Equal(t, "submitted", receipt.Status)

	_, err = svc.Submit(ctx, o.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	_, err = svc.Update(ctx, o.ID, completeInput())
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "submitted organizers are read-only")
}

func TestService_IncompleteSubmitReportsEveryField(t *testing.T) {
	svc, _ := newService(t)

	in := OrganizerInput{
		TaxYear:      2024,
		FilingStatus: "married_joint",
		Dependents:   []DependentInput{{MonthsInHome: 3}},
		Submit:       true,
	}
	_, err := svc.Start(context.Background(), in, "")

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeValidation, de.Code)
	fields := make([]string, len(de.Details))
	for i, d := range de.Details {
		fields[i] = d.Field
	}
	assert.Contains(t, fields, "taxpayer.first_name")
	assert.Contains(t, fields, "taxpayer.email")
	assert.Contains(t, fields, "spouse.first_name")
	assert.Contains(t, fields, "dependents[0].relationship")
	assert.Contains(t, fields, "signature.agreed")

	_, total, err := svc.List(context.Background(), shared.Filter{})
	require.NoError(t, err)
	assert.Zero(t, total, "a rejected submission stores nothing")
}

func TestService_DraftLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, logs := newService(t)

	draft, err := svc.Create(ctx, OrganizerInput{TaxYear: 2024, Taxpayer: PersonInput{FirstName: "Ben"}})
	require.NoError(t, err)
	assert.Equal(t, "draft", draft.Status)
	assert.Nil(t, draft.SubmittedAt)

	updated, err := svc.Update(ctx, draft.ID, completeInput())
	require.NoError(t, err)
	assert.Equal(t, draft.ReferenceNumber, updated.ReferenceNumber)
	assert.Len(t, updated.Dependents, 1)

	in := completeInput()
	in.Dependents = nil
	updated, err = svc.Update(ctx, draft.ID, in)
	require.NoError(t, err)
	assert.Empty(t, updated.Dependents, "each save replaces the nested rows")

	_, err = svc.ChangeStatus(ctx, draft.ID, StatusInput{Status: "completed"})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	submitted, err := svc.ChangeStatus(ctx, draft.ID, StatusInput{Status: "submitted"})
	require.NoError(t, err)
	assert.Equal(t, "submitted", submitted.Status)

	review, err := svc.ChangeStatus(ctx, draft.ID, StatusInput{Status: "in_review"})
	require.NoError(t, err)
	assert.Equal(t, "in_review", review.Status)
	assert.Equal(t, 2, logs.FilterMessage("Tax organizer status changed").Len())

	items, total, err := svc.List(ctx, shared.Filter{}.With("status", "in_review"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Ana Diaz", items[0].TaxpayerName)

	require.NoError(t, svc.Delete(ctx, draft.ID))
	_, err = svc.GetByID(ctx, draft.ID)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestService_RejectsBadDates(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Start(context.Background(), OrganizerInput{
		TaxYear:  2024,
		Taxpayer: PersonInput{DateOfBirth: "04/02/1985"},
	}, "")

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	require.Len(t, de.Details, 1)
	assert.Equal(t, "taxpayer.date_of_birth", de.Details[0].Field)
}

func TestService_StartRetriesTakenReference(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	core, warns := observer.New(zap.WarnLevel)
	svc.logger = zap.New(core)

	refs := []string{"ORG-2025-AAAAAA", "ORG-2025-AAAAAA", "ORG-2025-BBBBBB"}
	svc.newReference = func(time.Time) string {
		ref := refs[0]
		refs = refs[1:]
		return ref
	}

	first, err := svc.Start(ctx, completeInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "ORG-2025-AAAAAA", first.ReferenceNumber)

	second, err := svc.Start(ctx, completeInput(), "")
	require.NoError(t, err)
	assert.Equal(t, "ORG-2025-BBBBBB", second.ReferenceNumber)
	assert.Equal(t, 1, warns.FilterMessage("Organizer reference taken, retrying").Len())

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		svc.newReference = func(time.Time) string { return "ORG-2025-AAAAAA" }
		_, err := svc.Start(ctx, completeInput(), "")
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}
