package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
)

func mustCategory(t *testing.T, repo *GormCategoryRepository, name, slug string, sortOrder int) *content.Category {
	t.Helper()
	c, err := content.NewCategory(name, slug)
	require.NoError(t, err)
	c.SortOrder = sortOrder
	require.NoError(t, repo.Save(context.Background(), c))
	return c
}

func TestGormCategoryRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(newTestDB(t))

	c := mustCategory(t, repo, "Individual Tax", "individual-tax", 0)

	t.Run("finds by id and slug", func(t *testing.T) {
		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Individual Tax", got.Name)
		assert.True(t, got.IsActive)

		got, err = repo.FindBySlug(ctx, "individual-tax")
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
	})

	t.Run("updates existing row", func(t *testing.T) {
		require.NoError(t, c.Update("Individual Taxes", "Everything about 1040s"))
		c.Deactivate()
		require.NoError(t, repo.Save(ctx, c))

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Individual Taxes", got.Name)
		assert.False(t, got.IsActive, "false booleans must persist")
	})

	t.Run("reports slug usage excluding self", func(t *testing.T) {
		used, err := repo.ExistsBySlug(ctx, "individual-tax", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, used)

		used, err = repo.ExistsBySlug(ctx, "individual-tax", c.ID)
		require.NoError(t, err)
		assert.False(t, used)
	})

	t.Run("duplicate slug is already exists", func(t *testing.T) {
		dup, err := content.NewCategory("Other", "individual-tax")
		require.NoError(t, err)

		err = repo.Save(ctx, dup)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists), "got %v", err)
	})

	t.Run("missing rows are not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.EqualError(t, err, "Category not found")

		assert.True(t, errors.Is(repo.Delete(ctx, uuid.New()), shared.ErrNotFound))
	})

	t.Run("deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, c.ID))
		_, err := repo.FindByID(ctx, c.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestGormCategoryRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCategoryRepository(newTestDB(t))

	mustCategory(t, repo, "Business", "business", 2)
	mustCategory(t, repo, "Individual", "individual", 1)
	hidden := mustCategory(t, repo, "Estate Planning", "estate-planning", 3)
	hidden.Deactivate()
	require.NoError(t, repo.Save(ctx, hidden))

	t.Run("default order is sort_order", func(t *testing.T) {
		got, err := repo.FindAll(ctx, shared.Filter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{"individual", "business", "estate-planning"},
			[]string{got[0].Slug, got[1].Slug, got[2].Slug})
	})

	t.Run("filters active only", func(t *testing.T) {
		f := shared.Filter{}.With("is_active", true)
		got, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Len(t, got, 2)

		n, err := repo.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		got, err := repo.FindAll(ctx, shared.Filter{Search: "ESTATE"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Estate Planning", got[0].Name)
	})

	t.Run("paginates with whitelisted sort", func(t *testing.T) {
		page1, err := repo.FindAll(ctx, shared.Filter{Page: 1, Limit: 2, OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)
		page2, err := repo.FindAll(ctx, shared.Filter{Page: 2, Limit: 2, OrderBy: "name", OrderDir: "asc"})
		require.NoError(t, err)

		require.Len(t, page1, 2)
		require.Len(t, page2, 1)
		assert.Equal(t, "Business", page1[0].Name)
		assert.Equal(t, "Individual", page2[0].Name)

		n, err := repo.Count(ctx, shared.Filter{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n, "count ignores pagination")
	})

	t.Run("unknown sort field falls back to default order", func(t *testing.T) {
		got, err := repo.FindAll(ctx, shared.Filter{OrderBy: "name; DROP TABLE blogs"})
		require.NoError(t, err)
		assert.Equal(t, "individual", got[0].Slug)
	})
}

func TestGormBlogRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	categories := NewGormCategoryRepository(db)
	blogs := NewGormBlogRepository(db)

	news := mustCategory(t, categories, "News", "news", 0)
	guides := mustCategory(t, categories, "Guides", "guides", 1)

	post := func(title, slug string, cat *content.Category, published bool) *content.Blog {
		b, err := content.NewBlog(title, slug, "<p>"+title+"</p>")
		require.NoError(t, err)
		b.SetCategory(&cat.ID)
		b.SetTags([]string{"irs", "deadlines"})
		if published {
			require.NoError(t, b.Publish(time.Now()))
		}
		require.NoError(t, blogs.Save(ctx, b))
		return b
	}

	p1 := post("Extension deadlines", "extension-deadlines", news, true)
	post("Draft post", "draft-post", news, false)
	post("Deduction guide", "deduction-guide", guides, true)

	t.Run("find by slug preloads category and tags", func(t *testing.T) {
		got, err := blogs.FindBySlug(ctx, "extension-deadlines")
		require.NoError(t, err)
		assert.Equal(t, p1.ID, got.ID)
		require.NotNil(t, got.Category)
		assert.Equal(t, "news", got.Category.Slug)
		assert.Equal(t, []string{"irs", "deadlines"}, got.Tags)
		require.NotNil(t, got.PublishedAt)
	})

	t.Run("filters published by category slug", func(t *testing.T) {
		f := shared.Filter{}.With("status", content.BlogStatusPublished).With("category_slug", "news")
		got, err := blogs.FindAll(ctx, f)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "extension-deadlines", got[0].Slug)

		n, err := blogs.Count(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("counts blogs per category", func(t *testing.T) {
		n, err := categories.CountBlogs(ctx, news.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
