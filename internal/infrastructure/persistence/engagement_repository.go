package persistence

import (
	"context"

	"github.com/taxprep/backend/internal/domain/engagement"
	"github.com/taxprep/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// NewGormContactMessageRepository creates the contact message repository
func NewGormContactMessageRepository(db *gorm.DB) engagement.ContactMessageRepository {
	return newGormRepository[engagement.ContactMessage](db, listSpec{
		name:          "Contact message",
		searchColumns: []string{"name", "email", "subject", "message"},
		sortFields:    ContactSortFields,
		filters: map[string]filterFunc{
			"status": eq("status"),
		},
	})
}

// GormNewsletterSubscriberRepository implements engagement.NewsletterSubscriberRepository
type GormNewsletterSubscriberRepository struct {
	*gormRepository[engagement.NewsletterSubscriber]
}

// NewGormNewsletterSubscriberRepository creates the subscriber repository
func NewGormNewsletterSubscriberRepository(db *gorm.DB) *GormNewsletterSubscriberRepository {
	return &GormNewsletterSubscriberRepository{newGormRepository[engagement.NewsletterSubscriber](db, listSpec{
		name:          "Subscriber",
		searchColumns: []string{"email"},
		sortFields:    SubscriberSortFields,
		filters: map[string]filterFunc{
			"status": eq("status"),
			"source": eq("source"),
		},
	})}
}

// FindByEmail looks up a normalized address
func (r *GormNewsletterSubscriberRepository) FindByEmail(ctx context.Context, email string) (*engagement.NewsletterSubscriber, error) {
	var s engagement.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&s, "email = ?", shared.NormalizeEmail(email)).Error; err != nil {
		return nil, r.translate(err)
	}
	return &s, nil
}

// FindByToken looks up the subscriber an unsubscribe link points at
func (r *GormNewsletterSubscriberRepository) FindByToken(ctx context.Context, token string) (*engagement.NewsletterSubscriber, error) {
	var s engagement.NewsletterSubscriber
	if err := r.db.WithContext(ctx).First(&s, "token = ?", token).Error; err != nil {
		return nil, r.translate(err)
	}
	return &s, nil
}
