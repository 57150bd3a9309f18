package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
)

// CategoryRepository defines persistence operations for blog categories
type CategoryRepository interface {
	shared.SlugRepository[Category]
	// CountBlogs returns how many posts reference the category
	CountBlogs(ctx context.Context, categoryID uuid.UUID) (int64, error)
}

// BlogRepository defines persistence operations for blog posts.
// FindByID, FindBySlug and FindAll preload the category.
type BlogRepository interface {
	shared.SlugRepository[Blog]
}

// FaqRepository defines persistence operations for FAQs
type FaqRepository interface {
	shared.Repository[Faq]
}

// TestimonialRepository defines persistence operations for testimonials
type TestimonialRepository interface {
	shared.Repository[Testimonial]
}

// WhyChooseUsRepository defines persistence operations for why-choose-us items
type WhyChooseUsRepository interface {
	shared.Repository[WhyChooseUs]
}

// IndustryRepository defines persistence operations for industries
type IndustryRepository interface {
	shared.SlugRepository[Industry]
}
