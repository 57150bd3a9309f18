package content

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a client quote
type Testimonial struct {
	shared.BaseEntity
	shared.Listing
	ClientName  string `gorm:"type:varchar(100);not null"`
	Designation string `gorm:"type:varchar(100)"`
	Company     string `gorm:"type:varchar(150)"`
	Content     string `gorm:"type:text;not null"`
	Rating      int    `gorm:"not null"`
	AvatarURL   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Testimonial) TableName() string {
	return "testimonials"
}

// NewTestimonial creates an active testimonial
func NewTestimonial(clientName, content string, rating int) (*Testimonial, error) {
	t := &Testimonial{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
	}
	if err := t.set(clientName, content, rating); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the quote
func (t *Testimonial) Update(clientName, content string, rating int) error {
	if err := t.set(clientName, content, rating); err != nil {
		return err
	}
	t.Touch()
	return nil
}

func (t *Testimonial) set(clientName, content string, rating int) error {
	if err := shared.RequireText("Client name", clientName, 100); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Testimonial content cannot be empty")
	}
	if rating < MinRating || rating > MaxRating {
		return shared.NewDomainError(shared.CodeInvalidInput, "Rating must be between 1 and 5")
	}
	t.ClientName = strings.TrimSpace(clientName)
	t.Content = content
	t.Rating = rating
	return nil
}
