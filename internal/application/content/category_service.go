package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles blog category operations
type CategoryService struct {
	categoryRepo content.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo content.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List returns one page of categories
func (s *CategoryService) List(ctx context.Context, filter shared.Filter) ([]CategoryResponse, int64, error) {
	return listing.Load(ctx, s.categoryRepo, filter, ToCategoryResponse)
}

// ListPublic returns active categories for the public site
func (s *CategoryService) ListPublic(ctx context.Context, filter shared.Filter) ([]CategoryResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Create creates a category, deriving the slug from the name when none is given
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*CategoryResponse, error) {
	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Name, shared.SlugTakenIn(s.categoryRepo, uuid.Nil))
	if err != nil {
		return nil, err
	}

	c, err := content.NewCategory(in.Name, slug)
	if err != nil {
		return nil, err
	}
	c.Description = in.Description
	c.Apply(in.IsActive, in.SortOrder)

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", zap.String("category_id", c.ID.String()), zap.String("slug", c.Slug))
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Update replaces a category's fields
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in CategoryInput) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, err := shared.UpdateSlug(ctx, c.Slug, in.Slug, shared.SlugTakenIn(s.categoryRepo, c.ID))
	if err != nil {
		return nil, err
	}
	if err := c.Update(in.Name, in.Description); err != nil {
		return nil, err
	}
	c.Slug = slug
	c.Apply(in.IsActive, in.SortOrder)

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Delete removes a category that no post uses
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.categoryRepo.CountBlogs(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Category is used by %d blog post(s); move or delete them first", n))
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}
