package site

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appcontent "github.com/taxprep/backend/internal/application/content"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/persistence"
	"github.com/taxprep/backend/internal/infrastructure/sanitize"
	"github.com/taxprep/backend/internal/testutil"
	"go.uber.org/zap"
)

func newSources(t *testing.T) Sources {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	san := sanitize.New()

	faqs := persistence.NewGormFaqRepository(db)
	for i, q := range []string{"Do I need receipts?", "When is the deadline?"} {
		f, err := content.NewFaq(q, "Yes")
		require.NoError(t, err)
		f.SortOrder = i
		require.NoError(t, faqs.Save(ctx, f))
	}
	hidden, err := content.NewFaq("Internal note", "No")
	require.NoError(t, err)
	hidden.Deactivate()
	require.NoError(t, faqs.Save(ctx, hidden))

	testimonials := persistence.NewGormTestimonialRepository(db)
	tm, err := content.NewTestimonial("Ana", "Fast and friendly", 5)
	require.NoError(t, err)
	require.NoError(t, testimonials.Save(ctx, tm))

	blogs := persistence.NewGormBlogRepository(db)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b, err := content.NewBlog(fmt.Sprintf("Post %d", i), fmt.Sprintf("post-%d", i), "<p>x</p>")
		require.NoError(t, err)
		require.NoError(t, b.Publish(base.AddDate(0, 0, i)))
		require.NoError(t, blogs.Save(ctx, b))
	}

	return Sources{
		Testimonials: appcontent.NewTestimonialService(testimonials, san),
		Faqs:         appcontent.NewFaqService(faqs, san),
		WhyChooseUs:  appcontent.NewWhyChooseUsService(persistence.NewGormWhyChooseUsRepository(db), san),
		Industries:   appcontent.NewIndustryService(persistence.NewGormIndustryRepository(db), san),
		Blogs:        appcontent.NewBlogService(blogs, persistence.NewGormCategoryRepository(db), san, zap.NewNop()),
	}
}

func TestService_Home(t *testing.T) {
	svc := NewService(newSources(t), DefaultConfig(), zap.NewNop())

	home, err := svc.Home(context.Background())
	require.NoError(t, err)

	require.Len(t, home.Faqs, 2, "inactive rows stay hidden")
	assert.Equal(t, "Do I need receipts?", home.Faqs[0].Question)
	assert.Len(t, home.Testimonials, 1)
	assert.Empty(t, home.WhyChooseUs)
	assert.Empty(t, home.Industries)

	require.Len(t, home.LatestBlogs, 3)
	assert.Equal(t, "post-4", home.LatestBlogs[0].Slug)
	assert.Equal(t, "post-2", home.LatestBlogs[2].Slug)
}

type brokenFaqs struct{}

func (brokenFaqs) ListPublic(context.Context, shared.Filter) ([]appcontent.FaqResponse, int64, error) {
	return nil, 0, errors.New("connection reset")
}

func TestService_HomeFailsWhenASectionFails(t *testing.T) {
	src := newSources(t)
	src.Faqs = brokenFaqs{}
	svc := NewService(src, DefaultConfig(), zap.NewNop())

	_, err := svc.Home(context.Background())
	assert.EqualError(t, err, "connection reset")
}
