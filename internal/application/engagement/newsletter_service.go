package engagement

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/engagement"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultSubscribeSource is recorded when the site does not say where the form was
const DefaultSubscribeSource = "website"

// NewsletterService manages the mailing list
type NewsletterService struct {
	repo   engagement.NewsletterSubscriberRepository
	logger *zap.Logger
}

// NewNewsletterService creates a new NewsletterService
func NewNewsletterService(repo engagement.NewsletterSubscriberRepository, logger *zap.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, logger: logger}
}

// Subscribe adds an address. Subscribing an address that is already on the
// list succeeds without changes; an unsubscribed address is re-subscribed.
// created reports whether a new record was stored.
func (s *NewsletterService) Subscribe(ctx context.Context, in SubscribeInput) (resp *SubscriberResponse, created bool, err error) {
	email := shared.NormalizeEmail(in.Email)
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = DefaultSubscribeSource
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Resubscribe() {
			if err := s.repo.Save(ctx, existing); err != nil {
				return nil, false, err
			}
			s.logger.Info("Newsletter address re-subscribed", zap.String("subscriber_id", existing.ID.String()))
		}
		r := ToSubscriberResponse(existing)
		return &r, false, nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, false, err
	}

	sub, err := engagement.NewNewsletterSubscriber(email, source)
	if err != nil {
		return nil, false, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return nil, false, err
		}
		// a concurrent request for the same address got there first
		winner, findErr := s.repo.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, false, err
		}
		r := ToSubscriberResponse(winner)
		return &r, false, nil
	}
	s.logger.Info("Newsletter address subscribed",
		zap.String("subscriber_id", sub.ID.String()),
		zap.String("source", source),
	)
	r := ToSubscriberResponse(sub)
	return &r, true, nil
}

// Unsubscribe removes an address by its unsubscribe token or by email.
// The token wins when both are given.
func (s *NewsletterService) Unsubscribe(ctx context.Context, in UnsubscribeInput) error {
	var (
		sub *engagement.NewsletterSubscriber
		err error
	)
	switch {
	case strings.TrimSpace(in.Token) != "":
		sub, err = s.repo.FindByToken(ctx, strings.TrimSpace(in.Token))
	case strings.TrimSpace(in.Email) != "":
		sub, err = s.repo.FindByEmail(ctx, shared.NormalizeEmail(in.Email))
	default:
		return shared.NewValidationError("Token or email is required", []shared.FieldError{
			{Field: "token", Message: "token or email is required"},
		})
	}
	if err != nil {
		return err
	}

	if !sub.Unsubscribe() {
		return nil
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return err
	}
	s.logger.Info("Newsletter address unsubscribed", zap.String("subscriber_id", sub.ID.String()))
	return nil
}

// List returns one page of subscribers
func (s *NewsletterService) List(ctx context.Context, filter shared.Filter) ([]SubscriberResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToSubscriberResponse)
}

// GetByID retrieves a subscriber by ID
func (s *NewsletterService) GetByID(ctx context.Context, id uuid.UUID) (*SubscriberResponse, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubscriberResponse(sub)
	return &resp, nil
}

// Create adds an address from the admin. Unlike Subscribe, a duplicate is an error.
func (s *NewsletterService) Create(ctx context.Context, in SubscribeInput) (*SubscriberResponse, error) {
	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "admin"
	}
	sub, err := engagement.NewNewsletterSubscriber(in.Email, source)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, err
	}
	resp := ToSubscriberResponse(sub)
	return &resp, nil
}

// Delete removes a subscriber record entirely
func (s *NewsletterService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
