package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Listing is embedded by site content that is ordered by hand and can be hidden
// from the public site without being deleted.
type Listing struct {
	IsActive  bool `gorm:"not null;index"`
	SortOrder int  `gorm:"not null;default:0"`
}

// Activate shows the item on the public site
func (l *Listing) Activate() { l.IsActive = true }

// Deactivate hides the item from the public site
func (l *Listing) Deactivate() { l.IsActive = false }

// Apply sets the visibility and position when they were supplied
func (l *Listing) Apply(isActive *bool, sortOrder *int) {
	if isActive != nil {
		l.IsActive = *isActive
	}
	if sortOrder != nil {
		l.SortOrder = *sortOrder
	}
}
