package engagement

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/engagement"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TextSanitizer strips markup from visitor input
type TextSanitizer interface {
	Text(input string) string
}

// ContactService handles contact form submissions and their follow-up
type ContactService struct {
	repo      engagement.ContactMessageRepository
	sanitizer TextSanitizer
	logger    *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(repo engagement.ContactMessageRepository, sanitizer TextSanitizer, logger *zap.Logger) *ContactService {
	return &ContactService{repo: repo, sanitizer: sanitizer, logger: logger}
}

// Submit stores a message from the public contact form
func (s *ContactService) Submit(ctx context.Context, in SubmitContactInput, ip string) (*ContactMessageResponse, error) {
	m, err := engagement.NewContactMessage(s.sanitizer.Text(in.Name), in.Email, s.sanitizer.Text(in.Message))
	if err != nil {
		return nil, err
	}
	m.Phone = s.sanitizer.Text(in.Phone)
	m.Subject = s.sanitizer.Text(in.Subject)
	m.IPAddress = ip

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Contact message received",
		zap.String("message_id", m.ID.String()),
		zap.String("subject", m.Subject),
	)
	resp := ToContactMessageResponse(m)
	return &resp, nil
}

// List returns one page of messages
func (s *ContactService) List(ctx context.Context, filter shared.Filter) ([]ContactMessageResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToContactMessageResponse)
}

// GetByID retrieves a message. Reading does not change its status.
func (s *ContactService) GetByID(ctx context.Context, id uuid.UUID) (*ContactMessageResponse, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToContactMessageResponse(m)
	return &resp, nil
}

// ChangeStatus moves a message along new, read, replied, archived
func (s *ContactService) ChangeStatus(ctx context.Context, id uuid.UUID, in ContactStatusInput) (*ContactMessageResponse, error) {
	status, ok := engagement.ParseContactStatus(in.Status)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown contact status: "+in.Status)
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToContactMessageResponse(m)
	return &resp, nil
}

// Delete removes a message
func (s *ContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
