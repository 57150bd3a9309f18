package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Sanitizer cleans markup before it is stored
type Sanitizer interface {
	HTML(input string) string
	Text(input string) string
}

// BlogService handles blog post operations for the admin and the public site
type BlogService struct {
	blogRepo     content.BlogRepository
	categoryRepo content.CategoryRepository
	sanitizer    Sanitizer
	logger       *zap.Logger
	now          func() time.Time
}

// NewBlogService creates a new BlogService
func NewBlogService(
	blogRepo content.BlogRepository,
	categoryRepo content.CategoryRepository,
	sanitizer Sanitizer,
	logger *zap.Logger,
) *BlogService {
	return &BlogService{
		blogRepo:     blogRepo,
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns one page of posts in any status
func (s *BlogService) List(ctx context.Context, filter shared.Filter) ([]BlogResponse, int64, error) {
	return listing.Load(ctx, s.blogRepo, filter, ToBlogResponse)
}

// ListPublished returns published posts, newest first. categorySlug narrows
// the list to one category when set.
func (s *BlogService) ListPublished(ctx context.Context, filter shared.Filter, categorySlug string) ([]BlogResponse, int64, error) {
	filter = filter.With("status", string(content.BlogStatusPublished))
	if categorySlug != "" {
		filter = filter.With("category_slug", categorySlug)
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "published_at"
		filter.OrderDir = "desc"
	}
	return s.List(ctx, filter)
}

// Latest returns the n most recently published posts
func (s *BlogService) Latest(ctx context.Context, n int) ([]BlogResponse, error) {
	items, _, err := s.ListPublished(ctx, shared.Filter{Page: 1, Limit: n}, "")
	return items, err
}

// GetByID retrieves a post by ID
func (s *BlogService) GetByID(ctx context.Context, id uuid.UUID) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBlogResponse(b)
	return &resp, nil
}

// GetPublishedBySlug retrieves a live post. Drafts are reported as not found.
func (s *BlogService) GetPublishedBySlug(ctx context.Context, slug string) (*BlogResponse, error) {
	b, err := s.blogRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !b.IsPublished() {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Blog not found")
	}
	resp := ToBlogResponse(b)
	return &resp, nil
}

// Create creates a post. The slug is derived from the title when none is given.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*BlogResponse, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Title, shared.SlugTakenIn(s.blogRepo, uuid.Nil))
	if err != nil {
		return nil, err
	}

	b, err := content.NewBlog(in.Title, slug, s.sanitizer.HTML(in.Content))
	if err != nil {
		return nil, err
	}
	s.applyInput(b, in)
	if in.Status == string(content.BlogStatusPublished) {
		if err := b.Publish(s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Blog created",
		zap.String("blog_id", b.ID.String()),
		zap.String("slug", b.Slug),
		zap.String("status", string(b.Status)),
	)
	return s.reload(ctx, b.ID)
}

// Update replaces a post's fields. A status in the input publishes or
// unpublishes the post.
func (s *BlogService) Update(ctx context.Context, id uuid.UUID, in BlogInput) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	slug, err := shared.UpdateSlug(ctx, b.Slug, in.Slug, shared.SlugTakenIn(s.blogRepo, b.ID))
	if err != nil {
		return nil, err
	}
	if err := b.Update(in.Title, s.sanitizer.HTML(in.Content)); err != nil {
		return nil, err
	}
	b.Slug = slug
	s.applyInput(b, in)

	switch {
	case in.Status == string(content.BlogStatusPublished) && !b.IsPublished():
		err = b.Publish(s.now())
	case in.Status == string(content.BlogStatusDraft) && b.IsPublished():
		err = b.Unpublish()
	}
	if err != nil {
		return nil, err
	}

	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	return s.reload(ctx, b.ID)
}

// Delete removes a post
func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.blogRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Blog deleted", zap.String("blog_id", id.String()))
	return nil
}

// Publish makes a draft post visible on the public site
func (s *BlogService) Publish(ctx context.Context, id uuid.UUID) (*BlogResponse, error) {
	return s.transition(ctx, id, func(b *content.Blog) error { return b.Publish(s.now()) })
}

// Unpublish takes a post off the public site
func (s *BlogService) Unpublish(ctx context.Context, id uuid.UUID) (*BlogResponse, error) {
	return s.transition(ctx, id, (*content.Blog).Unpublish)
}

func (s *BlogService) transition(ctx context.Context, id uuid.UUID, fn func(*content.Blog) error) (*BlogResponse, error) {
	b, err := s.blogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(b); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("Blog status changed",
		zap.String("blog_id", b.ID.String()),
		zap.String("status", string(b.Status)),
	)
	resp := ToBlogResponse(b)
	return &resp, nil
}

func (s *BlogService) applyInput(b *content.Blog, in BlogInput) {
	b.Excerpt = s.sanitizer.Text(in.Excerpt)
	b.CoverImage = in.CoverImage
	b.Author = s.sanitizer.Text(in.Author)
	b.MetaTitle = s.sanitizer.Text(in.MetaTitle)
	b.MetaDescription = s.sanitizer.Text(in.MetaDescription)
	b.SetCategory(in.CategoryID)
	b.SetTags(in.Tags)
}

func (s *BlogService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	_, err := s.categoryRepo.FindByID(ctx, *id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("Blog is invalid", []shared.FieldError{
			{Field: "category_id", Message: "category does not exist"},
		})
	}
	return err
}

// reload reads the post back so the response carries its category
func (s *BlogService) reload(ctx context.Context, id uuid.UUID) (*BlogResponse, error) {
	return s.GetByID(ctx, id)
}
