package reference

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// IncomeSourceType classifies a line of income (W-2 wages, rental, ...)
type IncomeSourceType struct {
	shared.BaseEntity
	shared.Listing
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (IncomeSourceType) TableName() string {
	return "income_source_types"
}

// NewIncomeSourceType creates an active income source type
func NewIncomeSourceType(name, slug string) (*IncomeSourceType, error) {
	if err := shared.RequireText("Income source type name", name, 100); err != nil {
		return nil, err
	}
	return &IncomeSourceType{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}, nil
}

// Update updates name and description
func (i *IncomeSourceType) Update(name, description string) error {
	if err := shared.RequireText("Income source type name", name, 100); err != nil {
		return err
	}
	i.Name = strings.TrimSpace(name)
	i.Description = description
	i.Touch()
	return nil
}
