package engagement

import (
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
)

// SubscriberStatus is the subscription state of an address
type SubscriberStatus string

const (
	SubscriberStatusSubscribed   SubscriberStatus = "subscribed"
	SubscriberStatusUnsubscribed SubscriberStatus = "unsubscribed"
)

// NewsletterSubscriber is an email address on the mailing list
type NewsletterSubscriber struct {
	shared.BaseEntity
	Email          string           `gorm:"type:varchar(200);not null;uniqueIndex"`
	Status         SubscriberStatus `gorm:"type:varchar(20);not null;index"`
	Source         string           `gorm:"type:varchar(50)"`
	Token          string           `gorm:"type:varchar(64);not null;uniqueIndex"`
	SubscribedAt   time.Time        `gorm:"not null"`
	UnsubscribedAt *time.Time
}

// TableName returns the table name for GORM
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}

// NewNewsletterSubscriber subscribes email. The token is what unsubscribe links carry.
func NewNewsletterSubscriber(email, source string) (*NewsletterSubscriber, error) {
	email = shared.NormalizeEmail(email)
	if !shared.ValidEmail(email) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid email address")
	}
	return &NewsletterSubscriber{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		Status:       SubscriberStatusSubscribed,
		Source:       source,
		Token:        newToken(),
		SubscribedAt: time.Now(),
	}, nil
}

// Resubscribe reactivates an address. It reports false when it was already subscribed.
func (s *NewsletterSubscriber) Resubscribe() bool {
	if s.Status == SubscriberStatusSubscribed {
		return false
	}
	s.Status = SubscriberStatusSubscribed
	s.SubscribedAt = time.Now()
	s.UnsubscribedAt = nil
	s.Token = newToken()
	s.Touch()
	return true
}

// Unsubscribe removes the address from mailings but keeps the record
func (s *NewsletterSubscriber) Unsubscribe() bool {
	if s.Status == SubscriberStatusUnsubscribed {
		return false
	}
	now := time.Now()
	s.Status = SubscriberStatusUnsubscribed
	s.UnsubscribedAt = &now
	s.Touch()
	return true
}

// IsSubscribed reports whether mail may be sent to the address
func (s *NewsletterSubscriber) IsSubscribed() bool {
	return s.Status == SubscriberStatusSubscribed
}

func newToken() string {
	return uuid.NewString()
}
