package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/content"
)

// CategoryInput is the body of category create and update requests
type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=120"`
	Description string `json:"description" binding:"max=2000"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *content.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// BlogInput is the body of blog create and update requests. Status is optional;
// "published" publishes the post, "draft" takes it offline.
type BlogInput struct {
	Title           string     `json:"title" binding:"required,max=200"`
	Slug            string     `json:"slug" binding:"max=120"`
	Excerpt         string     `json:"excerpt" binding:"max=500"`
	Content         string     `json:"content" binding:"required"`
	CoverImage      string     `json:"cover_image" binding:"omitempty,max=500"`
	Author          string     `json:"author" binding:"max=100"`
	CategoryID      *uuid.UUID `json:"category_id"`
	Tags            []string   `json:"tags" binding:"max=20,dive,max=50"`
	Status          string     `json:"status" binding:"omitempty,oneof=draft published"`
	MetaTitle       string     `json:"meta_title" binding:"max=200"`
	MetaDescription string     `json:"meta_description" binding:"max=500"`
}

// CategorySummary is the category embedded in blog responses
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// BlogResponse represents a blog post in API responses
type BlogResponse struct {
	ID              uuid.UUID        `json:"id"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Excerpt         string           `json:"excerpt"`
	Content         string           `json:"content"`
	CoverImage      string           `json:"cover_image"`
	Author          string           `json:"author"`
	CategoryID      *uuid.UUID       `json:"category_id"`
	Category        *CategorySummary `json:"category,omitempty"`
	Tags            []string         `json:"tags"`
	Status          string           `json:"status"`
	PublishedAt     *time.Time       `json:"published_at"`
	MetaTitle       string           `json:"meta_title"`
	MetaDescription string           `json:"meta_description"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToBlogResponse converts a domain Blog to BlogResponse
func ToBlogResponse(b *content.Blog) BlogResponse {
	resp := BlogResponse{
		ID:              b.ID,
		Title:           b.Title,
		Slug:            b.Slug,
		Excerpt:         b.Excerpt,
		Content:         b.Content,
		CoverImage:      b.CoverImage,
		Author:          b.Author,
		CategoryID:      b.CategoryID,
		Tags:            b.Tags,
		Status:          string(b.Status),
		PublishedAt:     b.PublishedAt,
		MetaTitle:       b.MetaTitle,
		MetaDescription: b.MetaDescription,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if b.Category != nil {
		resp.Category = &CategorySummary{ID: b.Category.ID, Name: b.Category.Name, Slug: b.Category.Slug}
	}
	return resp
}

// FaqInput is the body of FAQ create and update requests
type FaqInput struct {
	Question  string `json:"question" binding:"required,max=500"`
	Answer    string `json:"answer" binding:"required"`
	Topic     string `json:"topic" binding:"max=100"`
	IsActive  *bool  `json:"is_active"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// FaqResponse represents a FAQ in API responses
type FaqResponse struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Topic     string    `json:"topic"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToFaqResponse converts a domain Faq to FaqResponse
func ToFaqResponse(f *content.Faq) FaqResponse {
	return FaqResponse{
		ID:        f.ID,
		Question:  f.Question,
		Answer:    f.Answer,
		Topic:     f.Topic,
		IsActive:  f.IsActive,
		SortOrder: f.SortOrder,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// TestimonialInput is the body of testimonial create and update requests
type TestimonialInput struct {
	ClientName  string `json:"client_name" binding:"required,max=100"`
	Designation string `json:"designation" binding:"max=100"`
	Company     string `json:"company" binding:"max=150"`
	Content     string `json:"content" binding:"required,max=5000"`
	Rating      int    `json:"rating" binding:"required,min=1,max=5"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,max=500"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// TestimonialResponse represents a testimonial in API responses
type TestimonialResponse struct {
	ID          uuid.UUID `json:"id"`
	ClientName  string    `json:"client_name"`
	Designation string    `json:"designation"`
	Company     string    `json:"company"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	AvatarURL   string    `json:"avatar_url"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTestimonialResponse converts a domain Testimonial to TestimonialResponse
func ToTestimonialResponse(t *content.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:          t.ID,
		ClientName:  t.ClientName,
		Designation: t.Designation,
		Company:     t.Company,
		Content:     t.Content,
		Rating:      t.Rating,
		AvatarURL:   t.AvatarURL,
		IsActive:    t.IsActive,
		SortOrder:   t.SortOrder,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// WhyChooseUsInput is the body of why-choose-us create and update requests
type WhyChooseUsInput struct {
	Title       string `json:"title" binding:"required,max=150"`
	Description string `json:"description" binding:"max=2000"`
	Icon        string `json:"icon" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// WhyChooseUsResponse represents a why-choose-us item in API responses
type WhyChooseUsResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToWhyChooseUsResponse converts a domain WhyChooseUs to WhyChooseUsResponse
func ToWhyChooseUsResponse(w *content.WhyChooseUs) WhyChooseUsResponse {
	return WhyChooseUsResponse{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Icon:        w.Icon,
		IsActive:    w.IsActive,
		SortOrder:   w.SortOrder,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

// IndustryInput is the body of industry create and update requests
type IndustryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=120"`
	Description string `json:"description" binding:"max=2000"`
	Icon        string `json:"icon" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// IndustryResponse represents an industry in API responses
type IndustryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToIndustryResponse converts a domain Industry to IndustryResponse
func ToIndustryResponse(i *content.Industry) IndustryResponse {
	return IndustryResponse{
		ID:          i.ID,
		Name:        i.Name,
		Slug:        i.Slug,
		Description: i.Description,
		Icon:        i.Icon,
		IsActive:    i.IsActive,
		SortOrder:   i.SortOrder,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}
