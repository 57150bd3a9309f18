package content

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// Industry is a client sector the firm serves
type Industry struct {
	shared.BaseEntity
	shared.Listing
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Industry) TableName() string {
	return "industries"
}

// NewIndustry creates an active industry
func NewIndustry(name, slug string) (*Industry, error) {
	if err := shared.RequireText("Industry name", name, 100); err != nil {
		return nil, err
	}
	return &Industry{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}, nil
}

// Update updates name and description
func (i *Industry) Update(name, description string) error {
	if err := shared.RequireText("Industry name", name, 100); err != nil {
		return err
	}
	i.Name = strings.TrimSpace(name)
	i.Description = description
	i.Touch()
	return nil
}
