package engagement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/engagement"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/infrastructure/sanitize"
	"github.com/taxprep/backend/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContactService_SubmitAndStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(persistence.NewGormContactMessageRepository(testutil.NewTestDB(t)), sanitize.New(), zap.NewNop())

	msg, err := svc.Submit(ctx, SubmitContactInput{
		Name:    "Ana <b>Diaz</b>",
		Email:   " Ana@Example.com ",
		Subject: "Quote",
		Message: "Need help with a 1040",
	}, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "Ana Diaz", msg.Name)
	assert.Equal(t, "ana@example.com", msg.Email)
	assert.Equal(t, "new", msg.Status)
	assert.Equal(t, "203.0.113.7", msg.IPAddress)

	got, err := svc.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Status, "reading does not mark the message read")

	read, err := svc.ChangeStatus(ctx, msg.ID, ContactStatusInput{Status: "read"})
	require.NoError(t, err)
	assert.Equal(t, "read", read.Status)

	_, err = svc.ChangeStatus(ctx, msg.ID, ContactStatusInput{Status: "new"})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	_, err = svc.ChangeStatus(ctx, msg.ID, ContactStatusInput{Status: "spam"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	items, total, err := svc.List(ctx, shared.Filter{}.With("status", "read"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestContactService_SubmitReportsAllProblems(t *testing.T) {
	svc := NewContactService(persistence.NewGormContactMessageRepository(testutil.NewTestDB(t)), sanitize.New(), zap.NewNop())

	_, err := svc.Submit(context.Background(), SubmitContactInput{Name: "<i></i>", Email: "nope"}, "")
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, shared.CodeValidation, de.Code)
	assert.Len(t, de.Details, 3)
}

func TestNewsletterService_SubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	repo := persistence.NewGormNewsletterSubscriberRepository(testutil.NewTestDB(t))
	svc := NewNewsletterService(repo, zap.New(core))

	first, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "Ana@Example.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ana@example.com", first.Email)
	assert.Equal(t, DefaultSubscribeSource, first.Source)

	again, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, logs.FilterMessage("Newsletter address subscribed").Len())

	stored, err := repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	token := stored.Token

	require.NoError(t, svc.Unsubscribe(ctx, UnsubscribeInput{Token: token}))
	require.NoError(t, svc.Unsubscribe(ctx, UnsubscribeInput{Token: token}), "unsubscribing twice is fine")

	stored, err = repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, engagement.SubscriberStatusUnsubscribed, stored.Status)

	back, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "ana@example.com", Source: "footer"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "subscribed", back.Status)
	assert.Nil(t, back.UnsubscribedAt)
	assert.Equal(t, 1, logs.FilterMessage("Newsletter address re-subscribed").Len())

	stored, err = repo.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.Token, "re-subscribing issues a new token")
}

// staleLookupRepo misses on the first FindByEmail, as a request does that
// races another subscribe for the same address
type staleLookupRepo struct {
	engagement.NewsletterSubscriberRepository
	missed bool
}

func (r *staleLookupRepo) FindByEmail(ctx context.Context, email string) (*engagement.NewsletterSubscriber, error) {
	if !r.missed {
		r.missed = true
		return nil, shared.ErrNotFound
	}
	return r.NewsletterSubscriberRepository.FindByEmail(ctx, email)
}

func TestNewsletterService_SubscribeLosingTheInsertRace(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewGormNewsletterSubscriberRepository(testutil.NewTestDB(t))
	existing, err := engagement.NewNewsletterSubscriber("ana@example.com", "footer")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, existing))

	svc := NewNewsletterService(&staleLookupRepo{NewsletterSubscriberRepository: repo}, zap.NewNop())
	got, created, err := svc.Subscribe(ctx, SubscribeInput{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, "footer", got.Source)
}

func TestNewsletterService_UnsubscribeByEmailAndErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewNewsletterService(persistence.NewGormNewsletterSubscriberRepository(testutil.NewTestDB(t)), zap.NewNop())

	_, _, err := svc.Subscribe(ctx, SubscribeInput{Email: "ben@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, UnsubscribeInput{Email: "BEN@example.com"}))

	err = svc.Unsubscribe(ctx, UnsubscribeInput{Token: "unknown"})
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	err = svc.Unsubscribe(ctx, UnsubscribeInput{})
	assert.True(t, errors.Is(err, shared.NewDomainError(shared.CodeValidation, "")))
}

func TestNewsletterService_CreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewNewsletterService(persistence.NewGormNewsletterSubscriberRepository(testutil.NewTestDB(t)), zap.NewNop())

	sub, err := svc.Create(ctx, SubscribeInput{Email: "cara@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "admin", sub.Source)

	_, err = svc.Create(ctx, SubscribeInput{Email: "cara@example.com"})
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
}
