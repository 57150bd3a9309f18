package engagement

import (
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/engagement"
)

// SubmitContactInput is the body of the public contact form
type SubmitContactInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=30"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactStatusInput changes a message's status
type ContactStatusInput struct {
	Status string `json:"status" binding:"required,oneof=new read replied archived"`
}

// ContactMessageResponse represents a contact message in API responses
type ContactMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToContactMessageResponse converts a domain ContactMessage to ContactMessageResponse
func ToContactMessageResponse(m *engagement.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		Status:    string(m.Status),
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// SubscribeInput is the body of newsletter subscribe requests
type SubscribeInput struct {
	Email  string `json:"email" binding:"required,email,max=200"`
	Source string `json:"source" binding:"max=50"`
}

// UnsubscribeInput identifies the address to remove, by token or email
type UnsubscribeInput struct {
	Token string `json:"token" binding:"required_without=Email,max=64"`
	Email string `json:"email" binding:"required_without=Token,omitempty,email,max=200"`
}

// SubscriberResponse represents a newsletter subscriber in API responses
type SubscriberResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	Source         string     `json:"source"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToSubscriberResponse converts a domain NewsletterSubscriber to SubscriberResponse.
// The unsubscribe token is never exposed.
func ToSubscriberResponse(s *engagement.NewsletterSubscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:             s.ID,
		Email:          s.Email,
		Status:         string(s.Status),
		Source:         s.Source,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: s.UnsubscribedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}
