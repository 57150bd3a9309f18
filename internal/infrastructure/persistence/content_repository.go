package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/content"
	"gorm.io/gorm"
)

var listingFilters = map[string]filterFunc{
	"is_active": eq("is_active"),
}

// GormCategoryRepository implements content.CategoryRepository using GORM
type GormCategoryRepository struct {
	*gormRepository[content.Category]
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{newGormRepository[content.Category](db, listSpec{
		name:          "Category",
		searchColumns: []string{"name", "description"},
		sortFields:    CategorySortFields,
		defaultOrder:  listingOrder,
		filters:       listingFilters,
	})}
}

// CountBlogs returns how many posts reference the category
func (r *GormCategoryRepository) CountBlogs(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&content.Blog{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NewGormBlogRepository creates the blog repository. Reads preload the category.
func NewGormBlogRepository(db *gorm.DB) content.BlogRepository {
	return newGormRepository[content.Blog](db, listSpec{
		name:          "Blog",
		searchColumns: []string{"title", "excerpt", "content"},
		sortFields:    BlogSortFields,
		filters: map[string]filterFunc{
			"status":      eq("status"),
			"category_id": eq("category_id"),
			"category_slug": func(q *gorm.DB, value any) *gorm.DB {
				return q.Where("category_id IN (?)",
					q.Session(&gorm.Session{NewDB: true}).Model(&content.Category{}).Select("id").Where("slug = ?", value))
			},
		},
		preload: []string{"Category"},
	})
}

// NewGormFaqRepository creates the FAQ repository
func NewGormFaqRepository(db *gorm.DB) content.FaqRepository {
	return newGormRepository[content.Faq](db, listSpec{
		name:          "FAQ",
		searchColumns: []string{"question", "answer"},
		sortFields:    FaqSortFields,
		defaultOrder:  listingOrder,
		filters: map[string]filterFunc{
			"is_active": eq("is_active"),
			"topic":     eq("topic"),
		},
	})
}

// NewGormTestimonialRepository creates the testimonial repository
func NewGormTestimonialRepository(db *gorm.DB) content.TestimonialRepository {
	return newGormRepository[content.Testimonial](db, listSpec{
		name:          "Testimonial",
		searchColumns: []string{"client_name", "company", "content"},
		sortFields:    TestimonialSortFields,
		defaultOrder:  listingOrder,
		filters: map[string]filterFunc{
			"is_active": eq("is_active"),
			"rating":    eq("rating"),
		},
	})
}

// NewGormWhyChooseUsRepository creates the why-choose-us repository
func NewGormWhyChooseUsRepository(db *gorm.DB) content.WhyChooseUsRepository {
	return newGormRepository[content.WhyChooseUs](db, listSpec{
		name:          "Why choose us item",
		searchColumns: []string{"title", "description"},
		sortFields:    WhyChooseUsSortFields,
		defaultOrder:  listingOrder,
		filters:       listingFilters,
	})
}

// NewGormIndustryRepository creates the industry repository
func NewGormIndustryRepository(db *gorm.DB) content.IndustryRepository {
	return newGormRepository[content.Industry](db, listSpec{
		name:          "Industry",
		searchColumns: []string{"name", "description"},
		sortFields:    IndustrySortFields,
		defaultOrder:  listingOrder,
		filters:       listingFilters,
	})
}
