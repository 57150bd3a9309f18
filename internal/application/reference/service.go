// Package reference serves the lookup lists behind the tax organizer wizard.
package reference

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/reference"
	"github.com/taxprep/backend/internal/domain/shared"
)

// DocumentTypeService handles document type operations
type DocumentTypeService struct {
	repo reference.DocumentTypeRepository
}

// NewDocumentTypeService creates a new DocumentTypeService
func NewDocumentTypeService(repo reference.DocumentTypeRepository) *DocumentTypeService {
	return &DocumentTypeService{repo: repo}
}

// List returns one page of document types
func (s *DocumentTypeService) List(ctx context.Context, filter shared.Filter) ([]DocumentTypeResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToDocumentTypeResponse)
}

// ListPublic returns active document types in display order
func (s *DocumentTypeService) ListPublic(ctx context.Context, filter shared.Filter) ([]DocumentTypeResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves a document type by ID
func (s *DocumentTypeService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentTypeResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDocumentTypeResponse(d)
	return &resp, nil
}

// Create creates a document type
func (s *DocumentTypeService) Create(ctx context.Context, in DocumentTypeInput) (*DocumentTypeResponse, error) {
	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Name, shared.SlugTakenIn(s.repo, uuid.Nil))
	if err != nil {
		return nil, err
	}
	d, err := reference.NewDocumentType(in.Name, slug)
	if err != nil {
		return nil, err
	}
	d.Description = in.Description
	d.IsRequired = in.IsRequired
	d.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDocumentTypeResponse(d)
	return &resp, nil
}

// Update replaces a document type's fields
func (s *DocumentTypeService) Update(ctx context.Context, id uuid.UUID, in DocumentTypeInput) (*DocumentTypeResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := shared.UpdateSlug(ctx, d.Slug, in.Slug, shared.SlugTakenIn(s.repo, d.ID))
	if err != nil {
		return nil, err
	}
	if err := d.Update(in.Name, in.Description); err != nil {
		return nil, err
	}
	d.Slug = slug
	d.IsRequired = in.IsRequired
	d.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDocumentTypeResponse(d)
	return &resp, nil
}

// Delete removes a document type
func (s *DocumentTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// IncomeSourceTypeService handles income source type operations
type IncomeSourceTypeService struct {
	repo reference.IncomeSourceTypeRepository
}

// NewIncomeSourceTypeService creates a new IncomeSourceTypeService
func NewIncomeSourceTypeService(repo reference.IncomeSourceTypeRepository) *IncomeSourceTypeService {
	return &IncomeSourceTypeService{repo: repo}
}

// List returns one page of income source types
func (s *IncomeSourceTypeService) List(ctx context.Context, filter shared.Filter) ([]IncomeSourceTypeResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToIncomeSourceTypeResponse)
}

// ListPublic returns active income source types in display order
func (s *IncomeSourceTypeService) ListPublic(ctx context.Context, filter shared.Filter) ([]IncomeSourceTypeResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves an income source type by ID
func (s *IncomeSourceTypeService) GetByID(ctx context.Context, id uuid.UUID) (*IncomeSourceTypeResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIncomeSourceTypeResponse(i)
	return &resp, nil
}

// Create creates an income source type
func (s *IncomeSourceTypeService) Create(ctx context.Context, in IncomeSourceTypeInput) (*IncomeSourceTypeResponse, error) {
	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Name, shared.SlugTakenIn(s.repo, uuid.Nil))
	if err != nil {
		return nil, err
	}
	i, err := reference.NewIncomeSourceType(in.Name, slug)
	if err != nil {
		return nil, err
	}
	i.Description = in.Description
	i.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIncomeSourceTypeResponse(i)
	return &resp, nil
}

// Update replaces an income source type's fields
func (s *IncomeSourceTypeService) Update(ctx context.Context, id uuid.UUID, in IncomeSourceTypeInput) (*IncomeSourceTypeResponse, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := shared.UpdateSlug(ctx, i.Slug, in.Slug, shared.SlugTakenIn(s.repo, i.ID))
	if err != nil {
		return nil, err
	}
	if err := i.Update(in.Name, in.Description); err != nil {
		return nil, err
	}
	i.Slug = slug
	i.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIncomeSourceTypeResponse(i)
	return &resp, nil
}

// Delete removes an income source type
func (s *IncomeSourceTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ReturnTypeService handles return type operations
type ReturnTypeService struct {
	repo reference.ReturnTypeRepository
}

// NewReturnTypeService creates a new ReturnTypeService
func NewReturnTypeService(repo reference.ReturnTypeRepository) *ReturnTypeService {
	return &ReturnTypeService{repo: repo}
}

// List returns one page of return types
func (s *ReturnTypeService) List(ctx context.Context, filter shared.Filter) ([]ReturnTypeResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToReturnTypeResponse)
}

// ListPublic returns active return types in display order
func (s *ReturnTypeService) ListPublic(ctx context.Context, filter shared.Filter) ([]ReturnTypeResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves a return type by ID
func (s *ReturnTypeService) GetByID(ctx context.Context, id uuid.UUID) (*ReturnTypeResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReturnTypeResponse(r)
	return &resp, nil
}

// Create creates a return type
func (s *ReturnTypeService) Create(ctx context.Context, in ReturnTypeInput) (*ReturnTypeResponse, error) {
	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Name, shared.SlugTakenIn(s.repo, uuid.Nil))
	if err != nil {
		return nil, err
	}
	r, err := reference.NewReturnType(in.Name, slug, in.BasePrice)
	if err != nil {
		return nil, err
	}
	r.Description = in.Description
	r.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReturnTypeResponse(r)
	return &resp, nil
}

// Update replaces a return type's fields
func (s *ReturnTypeService) Update(ctx context.Context, id uuid.UUID, in ReturnTypeInput) (*ReturnTypeResponse, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := shared.UpdateSlug(ctx, r.Slug, in.Slug, shared.SlugTakenIn(s.repo, r.ID))
	if err != nil {
		return nil, err
	}
	if err := r.Update(in.Name, in.Description); err != nil {
		return nil, err
	}
	if err := r.SetBasePrice(in.BasePrice); err != nil {
		return nil, err
	}
	r.Slug = slug
	r.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := ToReturnTypeResponse(r)
	return &resp, nil
}

// Delete removes a return type
func (s *ReturnTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
