package content

import (
	"strings"

	"github.com/taxprep/backend/internal/domain/shared"
)

// Category groups blog posts
type Category struct {
	shared.BaseEntity
	shared.Listing
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "blog_categories"
}

// NewCategory creates an active category. The slug is assigned by the caller
// once it has been checked for uniqueness.
func NewCategory(name, slug string) (*Category, error) {
	if err := shared.RequireText("Category name", name, 100); err != nil {
		return nil, err
	}
	c := &Category{
		BaseEntity: shared.NewBaseEntity(),
		Listing:    shared.Listing{IsActive: true},
		Name:       strings.TrimSpace(name),
		Slug:       slug,
	}
	return c, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	if err := shared.RequireText("Category name", name, 100); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.Touch()
	return nil
}
