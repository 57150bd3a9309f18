// Package reference holds the lookup lists used by the tax organizer: which
// documents clients upload, which income sources they report and which returns
// the firm prepares.
package reference

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// DocumentType is a kind of document a client can attach to an organizer
type DocumentType struct {
	shared.BaseEntity
	shared.Listing
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsRequired  bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentType) TableName() string {
	return "document_types"
}

// NewDocumentType creates an active, optional document type
func NewDocumentType(name, slug string) (*DocumentType, error) {
	if err := shared.RequireText("Document type name", name, 100); err != nil {
		return nil, err
	}
	return &DocumentType{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}, nil
}

// Update updates name and description
func (d *DocumentType) Update(name, description string) error {
	if err := shared.RequireText("Document type name", name, 100); err != nil {
		return err
	}
	d.Name = strings.TrimSpace(name)
	d.Description = description
	d.Touch()
	return nil
}
