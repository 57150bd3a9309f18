package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/sanitize"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)

func newBlogService(blogs *MockBlogRepository, cats *MockCategoryRepository) *BlogService {
	svc := NewBlogService(blogs, cats, sanitize.New(), zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestBlogService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("derives slug, sanitizes and publishes", func(t *testing.T) {
		blogs := new(MockBlogRepository)
		cats := new(MockCategoryRepository)
		svc := newBlogService(blogs, cats)

		catID := uuid.New()
		cat, _ := content.NewCategory("Deductions", "deductions")
		cat.ID = catID
		cats.On("FindByID", ctx, catID).Return(cat, nil)

		blogs.On("ExistsBySlug", ctx, "home-office-deduction", uuid.Nil).Return(true, nil)
		blogs.On("ExistsBySlug", ctx, "home-office-deduction-2", uuid.Nil).Return(false, nil)

		var saved *content.Blog
		blogs.On("Save", ctx, mock.AnythingOfType("*content.Blog")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*content.Blog) }).
			Return(nil)
		blogs.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).
			Return(func(uuid.UUID) *content.Blog { return saved }, nil)

		resp, err := svc.Create(ctx, BlogInput{
			Title:      "Home Office Deduction",
			Content:    `<p>Rules</p><script>alert(1)</script>`,
			Excerpt:    "<b>Short</b> version",
			CategoryID: &catID,
			Tags:       []string{"home", "home", "office"},
			Status:     "published",
		})
		require.NoError(t, err)

		assert.Equal(t, "home-office-deduction-2", resp.Slug)
		assert.Equal(t, "<p>Rules</p>", resp.Content)
		assert.Equal(t, "Short version", resp.Excerpt)
		assert.Equal(t, []string{"home", "office"}, resp.Tags)
		assert.Equal(t, "published", resp.Status)
		require.NotNil(t, resp.PublishedAt)
		assert.Equal(t, fixedNow, *resp.PublishedAt)
		blogs.AssertExpectations(t)
	})

	t.Run("unknown category is a validation error", func(t *testing.T) {
		blogs := new(MockBlogRepository)
		cats := new(MockCategoryRepository)
		svc := newBlogService(blogs, cats)

		catID := uuid.New()
		cats.On("FindByID", ctx, catID).Return(nil, shared.NewDomainError(shared.CodeNotFound, "Category not found"))

		_, err := svc.Create(ctx, BlogInput{Title: "T", Content: "c", CategoryID: &catID})
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.CodeValidation, de.Code)
		assert.Equal(t, "category_id", de.Details[0].Field)
		blogs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("taken explicit slug is rejected", func(t *testing.T) {
		blogs := new(MockBlogRepository)
		svc := newBlogService(blogs, new(MockCategoryRepository))
		blogs.On("ExistsBySlug", ctx, "taken", uuid.Nil).Return(true, nil)

		_, err := svc.Create(ctx, BlogInput{Title: "T", Slug: "taken", Content: "c"})
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	})
}

func TestBlogService_UpdateKeepsSlugAndUnpublishes(t *testing.T) {
	ctx := context.Background()
	blogs := new(MockBlogRepository)
	svc := newBlogService(blogs, new(MockCategoryRepository))

	b, err := content.NewBlog("Old", "old-title", "body")
	require.NoError(t, err)
	require.NoError(t, b.Publish(fixedNow))

	blogs.On("FindByID", ctx, b.ID).Return(b, nil)
	blogs.On("Save", ctx, b).Return(nil)

	resp, err := svc.Update(ctx, b.ID, BlogInput{Title: "New title", Content: "new body", Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, "old-title", resp.Slug)
	assert.Equal(t, "New title", resp.Title)
	assert.Equal(t, "draft", resp.Status)
	blogs.AssertNotCalled(t, "ExistsBySlug", mock.Anything, mock.Anything, mock.Anything)
}

func TestBlogService_PublishTwiceIsInvalidState(t *testing.T) {
	ctx := context.Background()
	blogs := new(MockBlogRepository)
	svc := newBlogService(blogs, new(MockCategoryRepository))

	b, err := content.NewBlog("Title", "title", "body")
	require.NoError(t, err)
	blogs.On("FindByID", ctx, b.ID).Return(b, nil)
	blogs.On("Save", ctx, b).Return(nil).Once()

	_, err = svc.Publish(ctx, b.ID)
	require.NoError(t, err)

	_, err = svc.Publish(ctx, b.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	blogs.AssertNumberOfCalls(t, "Save", 1)
}

func TestBlogService_GetPublishedBySlugHidesDrafts(t *testing.T) {
	ctx := context.Background()
	blogs := new(MockBlogRepository)
	svc := newBlogService(blogs, new(MockCategoryRepository))

	draft, err := content.NewBlog("Draft", "draft", "body")
	require.NoError(t, err)
	blogs.On("FindBySlug", ctx, "draft").Return(draft, nil)

	_, err = svc.GetPublishedBySlug(ctx, "draft")
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestBlogService_ListPublishedFilters(t *testing.T) {
	ctx := context.Background()
	blogs := new(MockBlogRepository)
	svc := newBlogService(blogs, new(MockCategoryRepository))

	matches := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "published" &&
			f.Filters["category_slug"] == "deductions" &&
			f.OrderBy == "published_at" && f.OrderDir == "desc"
	})
	blogs.On("FindAll", ctx, matches).Return([]content.Blog{}, nil)
	blogs.On("Count", ctx, matches).Return(int64(0), nil)

	items, total, err := svc.ListPublished(ctx, shared.Filter{}, "deductions")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
	blogs.AssertExpectations(t)
}

func TestCategoryService_DeleteBlockedWhileInUse(t *testing.T) {
	ctx := context.Background()
	cats := new(MockCategoryRepository)
	svc := NewCategoryService(cats, zap.NewNop())

	c, err := content.NewCategory("Credits", "credits")
	require.NoError(t, err)
	cats.On("FindByID", ctx, c.ID).Return(c, nil)
	cats.On("CountBlogs", ctx, c.ID).Return(int64(2), nil).Once()

	err = svc.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
	assert.Contains(t, err.Error(), "2 blog post(s)")
	cats.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	cats.On("CountBlogs", ctx, c.ID).Return(int64(0), nil)
	cats.On("Delete", ctx, c.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, c.ID))
}

func TestCategoryService_CreateAppliesListing(t *testing.T) {
	ctx := context.Background()
	cats := new(MockCategoryRepository)
	svc := NewCategoryService(cats, zap.NewNop())

	cats.On("ExistsBySlug", ctx, "small-business", uuid.Nil).Return(false, nil)
	cats.On("Save", ctx, mock.AnythingOfType("*content.Category")).Return(nil)

	inactive, order := false, 3
	resp, err := svc.Create(ctx, CategoryInput{Name: "Small Business", IsActive: &inactive, SortOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, "small-business", resp.Slug)
	assert.False(t, resp.IsActive)
	assert.Equal(t, 3, resp.SortOrder)
}

func TestFaqService_ListPublicForcesActive(t *testing.T) {
	ctx := context.Background()
	var seen shared.Filter
	repo := &faqRepoStub{onList: func(f shared.Filter) { seen = f }}
	svc := NewFaqService(repo, passthrough{})

	_, _, err := svc.ListPublic(ctx, shared.Filter{Search: "w-2"})
	require.NoError(t, err)
	assert.Equal(t, true, seen.Filters["is_active"])
	assert.Equal(t, "w-2", seen.Search)
	assert.Equal(t, "sort_order", seen.OrderBy)
}

type faqRepoStub struct {
	content.FaqRepository
	onList func(shared.Filter)
}

func (r *faqRepoStub) FindAll(_ context.Context, f shared.Filter) ([]content.Faq, error) {
	r.onList(f)
	return nil, nil
}

func (r *faqRepoStub) Count(context.Context, shared.Filter) (int64, error) { return 0, nil }
