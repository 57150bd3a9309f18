package engagement

import (
	"context"

	"github.com/taxprep/backend/internal/domain/shared"
)

// ContactMessageRepository defines persistence operations for contact messages
type ContactMessageRepository interface {
	shared.Repository[ContactMessage]
}

// NewsletterSubscriberRepository defines persistence operations for subscribers
type NewsletterSubscriberRepository interface {
	shared.Repository[NewsletterSubscriber]
	// FindByEmail looks up a normalized address
	FindByEmail(ctx context.Context, email string) (*NewsletterSubscriber, error)
	// FindByToken looks up the subscriber an unsubscribe link points at
	FindByToken(ctx context.Context, token string) (*NewsletterSubscriber, error)
}
