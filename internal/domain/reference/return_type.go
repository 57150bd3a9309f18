package reference

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/shared"
)

// ReturnType is a tax return the firm prepares, with its starting price
type ReturnType struct {
	shared.BaseEntity
	shared.Listing
	Name        string          `gorm:"type:varchar(100);not null"`
	Slug        string          `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (ReturnType) TableName() string {
	return "return_types"
}

// NewReturnType creates an active return type
func NewReturnType(name, slug string, basePrice decimal.Decimal) (*ReturnType, error) {
	if err := shared.RequireText("Return type name", name, 100); err != nil {
		return nil, err
	}
	r := &ReturnType{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}
	if err := r.SetBasePrice(basePrice); err != nil {
		return nil, err
	}
	return r, nil
}

// Update updates name and description
func (r *ReturnType) Update(name, description string) error {
	if err := shared.RequireText("Return type name", name, 100); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.Touch()
	return nil
}

// SetBasePrice sets the advertised starting price, rounded to cents
func (r *ReturnType) SetBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Base price cannot be negative")
	}
	r.BasePrice = price.Round(2)
	return nil
}
