package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
)

// BlogStatus is the publication state of a post
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// Blog is an article shown on the public site once published
type Blog struct {
	shared.BaseEntity
	Title           string     `gorm:"type:varchar(200);not null"`
	Slug            string     `gorm:"type:varchar(120);not null;uniqueIndex"`
	Excerpt         string     `gorm:"type:varchar(500)"`
	Content         string     `gorm:"type:text;not null"`
	CoverImage      string     `gorm:"type:varchar(500)"`
	Author          string     `gorm:"type:varchar(100)"`
	CategoryID      *uuid.UUID `gorm:"type:uuid;index"`
	Category        *Category  `gorm:"foreignKey:CategoryID"`
	Tags            []string   `gorm:"serializer:json;type:text"`
	Status          BlogStatus `gorm:"type:varchar(20);not null;index"`
	PublishedAt     *time.Time `gorm:"index"`
	MetaTitle       string     `gorm:"type:varchar(200)"`
	MetaDescription string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Blog) TableName() string {
	return "blogs"
}

// NewBlog creates a draft post
func NewBlog(title, slug, content string) (*Blog, error) {
	if err := validateBlog(title, content); err != nil {
		return nil, err
	}
	return &Blog{
		BaseEntity: shared.NewBaseEntity(),
		Title:      strings.TrimSpace(title),
		Slug:       slug,
		Content:    content,
		Status:     BlogStatusDraft,
		Tags:       []string{},
	}, nil
}

// Update replaces the title and body
func (b *Blog) Update(title, content string) error {
	if err := validateBlog(title, content); err != nil {
		return err
	}
	b.Title = strings.TrimSpace(title)
	b.Content = content
	b.Touch()
	return nil
}

// SetTags stores trimmed, de-duplicated tags in their original order
func (b *Blog) SetTags(tags []string) {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	b.Tags = out
}

// SetCategory moves the post to another category, nil clears it
func (b *Blog) SetCategory(id *uuid.UUID) {
	b.CategoryID = id
	b.Category = nil
}

// Publish makes the post visible on the public site. The original publish date is
// kept when a post is unpublished and published again.
func (b *Blog) Publish(now time.Time) error {
	if b.Status == BlogStatusPublished {
		return shared.NewDomainError(shared.CodeInvalidState, "Blog is already published")
	}
	b.Status = BlogStatusPublished
	if b.PublishedAt == nil {
		b.PublishedAt = &now
	}
	b.Touch()
	return nil
}

// Unpublish moves the post back to draft
func (b *Blog) Unpublish() error {
	if b.Status != BlogStatusPublished {
		return shared.NewDomainError(shared.CodeInvalidState, "Blog is not published")
	}
	b.Status = BlogStatusDraft
	b.Touch()
	return nil
}

// IsPublished reports whether the post is live
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

func validateBlog(title, content string) error {
	if err := shared.RequireText("Blog title", title, 200); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Blog content cannot be empty")
	}
	return nil
}
