package organizer

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
)

// Repository defines persistence operations for organizers
type Repository interface {
	// FindByID loads the organizer with dependents, income sources and documents
	FindByID(ctx context.Context, id uuid.UUID) (*TaxOrganizer, error)
	// FindByReference loads the organizer a reference number points at
	FindByReference(ctx context.Context, reference string) (*TaxOrganizer, error)
	// FindAll lists organizers without their nested rows
	FindAll(ctx context.Context, filter shared.Filter) ([]TaxOrganizer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save stores the organizer and replaces its nested rows
	Save(ctx context.Context, o *TaxOrganizer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
