package content

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// WhyChooseUs is a selling point on the home page
type WhyChooseUs struct {
	shared.BaseEntity
	shared.Listing
	Title       string `gorm:"type:varchar(150);not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (WhyChooseUs) TableName() string {
	return "why_choose_us"
}

// NewWhyChooseUs creates an active item
func NewWhyChooseUs(title, description string) (*WhyChooseUs, error) {
	if err := shared.RequireText("Title", title, 150); err != nil {
		return nil, err
	}
	return &WhyChooseUs{
		BaseEntity:  shared.NewBaseEntity(),
		Listing:     shared.Listing{IsActive: true},
		Title:       strings.TrimSpace(title),
		Description: description,
	}, nil
}

// Update replaces title and description
func (w *WhyChooseUs) Update(title, description string) error {
	if err := shared.RequireText("Title", title, 150); err != nil {
		return err
	}
	w.Title = strings.TrimSpace(title)
	w.Description = description
	w.Touch()
	return nil
}
