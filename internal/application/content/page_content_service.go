package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/content"
	"github.com/taxprep/backend/internal/domain/shared"
)

// FaqService handles FAQ operations
type FaqService struct {
	faqRepo   content.FaqRepository
	sanitizer Sanitizer
}

// NewFaqService creates a new FaqService
func NewFaqService(faqRepo content.FaqRepository, sanitizer Sanitizer) *FaqService {
	return &FaqService{faqRepo: faqRepo, sanitizer: sanitizer}
}

// List returns one page of FAQs
func (s *FaqService) List(ctx context.Context, filter shared.Filter) ([]FaqResponse, int64, error) {
	return listing.Load(ctx, s.faqRepo, filter, ToFaqResponse)
}

// ListPublic returns active FAQs in display order
func (s *FaqService) ListPublic(ctx context.Context, filter shared.Filter) ([]FaqResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves a FAQ by ID
func (s *FaqService) GetByID(ctx context.Context, id uuid.UUID) (*FaqResponse, error) {
	f, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToFaqResponse(f)
	return &resp, nil
}

// Create creates a FAQ
func (s *FaqService) Create(ctx context.Context, in FaqInput) (*FaqResponse, error) {
	f, err := content.NewFaq(s.sanitizer.Text(in.Question), s.sanitizer.HTML(in.Answer))
	if err != nil {
		return nil, err
	}
	f.Topic = s.sanitizer.Text(in.Topic)
	f.Apply(in.IsActive, in.SortOrder)
	if err := s.faqRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFaqResponse(f)
	return &resp, nil
}

// Update replaces a FAQ's fields
func (s *FaqService) Update(ctx context.Context, id uuid.UUID, in FaqInput) (*FaqResponse, error) {
	f, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := f.Update(s.sanitizer.Text(in.Question), s.sanitizer.HTML(in.Answer)); err != nil {
		return nil, err
	}
	f.Topic = s.sanitizer.Text(in.Topic)
	f.Apply(in.IsActive, in.SortOrder)
	if err := s.faqRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFaqResponse(f)
	return &resp, nil
}

// Delete removes a FAQ
func (s *FaqService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.faqRepo.Delete(ctx, id)
}

// TestimonialService handles testimonial operations
type TestimonialService struct {
	testimonialRepo content.TestimonialRepository
	sanitizer       Sanitizer
}

// NewTestimonialService creates a new TestimonialService
func NewTestimonialService(testimonialRepo content.TestimonialRepository, sanitizer Sanitizer) *TestimonialService {
	return &TestimonialService{testimonialRepo: testimonialRepo, sanitizer: sanitizer}
}

// List returns one page of testimonials
func (s *TestimonialService) List(ctx context.Context, filter shared.Filter) ([]TestimonialResponse, int64, error) {
	return listing.Load(ctx, s.testimonialRepo, filter, ToTestimonialResponse)
}

// ListPublic returns active testimonials in display order
func (s *TestimonialService) ListPublic(ctx context.Context, filter shared.Filter) ([]TestimonialResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves a testimonial by ID
func (s *TestimonialService) GetByID(ctx context.Context, id uuid.UUID) (*TestimonialResponse, error) {
	t, err := s.testimonialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTestimonialResponse(t)
	return &resp, nil
}

// Create creates a testimonial
func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (*TestimonialResponse, error) {
	t, err := content.NewTestimonial(s.sanitizer.Text(in.ClientName), s.sanitizer.Text(in.Content), in.Rating)
	if err != nil {
		return nil, err
	}
	s.apply(t, in)
	if err := s.testimonialRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTestimonialResponse(t)
	return &resp, nil
}

// Update replaces a testimonial's fields
func (s *TestimonialService) Update(ctx context.Context, id uuid.UUID, in TestimonialInput) (*TestimonialResponse, error) {
	t, err := s.testimonialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Update(s.sanitizer.Text(in.ClientName), s.sanitizer.Text(in.Content), in.Rating); err != nil {
		return nil, err
	}
	s.apply(t, in)
	if err := s.testimonialRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTestimonialResponse(t)
	return &resp, nil
}

func (s *TestimonialService) apply(t *content.Testimonial, in TestimonialInput) {
	t.Designation = s.sanitizer.Text(in.Designation)
	t.Company = s.sanitizer.Text(in.Company)
	t.AvatarURL = in.AvatarURL
	t.Apply(in.IsActive, in.SortOrder)
}

// Delete removes a testimonial
func (s *TestimonialService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.testimonialRepo.Delete(ctx, id)
}

// WhyChooseUsService handles why-choose-us item operations
type WhyChooseUsService struct {
	repo      content.WhyChooseUsRepository
	sanitizer Sanitizer
}

// NewWhyChooseUsService creates a new WhyChooseUsService
func NewWhyChooseUsService(repo content.WhyChooseUsRepository, sanitizer Sanitizer) *WhyChooseUsService {
	return &WhyChooseUsService{repo: repo, sanitizer: sanitizer}
}

// List returns one page of items
func (s *WhyChooseUsService) List(ctx context.Context, filter shared.Filter) ([]WhyChooseUsResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToWhyChooseUsResponse)
}

// ListPublic returns active items in display order
func (s *WhyChooseUsService) ListPublic(ctx context.Context, filter shared.Filter) ([]WhyChooseUsResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves an item by ID
func (s *WhyChooseUsService) GetByID(ctx context.Context, id uuid.UUID) (*WhyChooseUsResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWhyChooseUsResponse(w)
	return &resp, nil
}

// Create creates an item
func (s *WhyChooseUsService) Create(ctx context.Context, in WhyChooseUsInput) (*WhyChooseUsResponse, error) {
	w, err := content.NewWhyChooseUs(s.sanitizer.Text(in.Title), s.sanitizer.Text(in.Description))
	if err != nil {
		return nil, err
	}
	w.Icon = in.Icon
	w.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWhyChooseUsResponse(w)
	return &resp, nil
}

// Update replaces an item's fields
func (s *WhyChooseUsService) Update(ctx context.Context, id uuid.UUID, in WhyChooseUsInput) (*WhyChooseUsResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.Update(s.sanitizer.Text(in.Title), s.sanitizer.Text(in.Description)); err != nil {
		return nil, err
	}
	w.Icon = in.Icon
	w.Apply(in.IsActive, in.SortOrder)
	if err := s.repo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWhyChooseUsResponse(w)
	return &resp, nil
}

// Delete removes an item
func (s *WhyChooseUsService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// IndustryService handles industry operations
type IndustryService struct {
	industryRepo content.IndustryRepository
	sanitizer    Sanitizer
}

// NewIndustryService creates a new IndustryService
func NewIndustryService(industryRepo content.IndustryRepository, sanitizer Sanitizer) *IndustryService {
	return &IndustryService{industryRepo: industryRepo, sanitizer: sanitizer}
}

// List returns one page of industries
func (s *IndustryService) List(ctx context.Context, filter shared.Filter) ([]IndustryResponse, int64, error) {
	return listing.Load(ctx, s.industryRepo, filter, ToIndustryResponse)
}

// ListPublic returns active industries in display order
func (s *IndustryService) ListPublic(ctx context.Context, filter shared.Filter) ([]IndustryResponse, int64, error) {
	return s.List(ctx, listing.Public(filter))
}

// GetByID retrieves an industry by ID
func (s *IndustryService) GetByID(ctx context.Context, id uuid.UUID) (*IndustryResponse, error) {
	i, err := s.industryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Create creates an industry
func (s *IndustryService) Create(ctx context.Context, in IndustryInput) (*IndustryResponse, error) {
	slug, err := shared.ResolveSlug(ctx, in.Slug, in.Name, shared.SlugTakenIn(s.industryRepo, uuid.Nil))
	if err != nil {
		return nil, err
	}
	i, err := content.NewIndustry(s.sanitizer.Text(in.Name), slug)
	if err != nil {
		return nil, err
	}
	i.Description = s.sanitizer.Text(in.Description)
	i.Icon = in.Icon
	i.Apply(in.IsActive, in.SortOrder)
	if err := s.industryRepo.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Update replaces an industry's fields
func (s *IndustryService) Update(ctx context.Context, id uuid.UUID, in IndustryInput) (*IndustryResponse, error) {
	i, err := s.industryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	slug, err := shared.UpdateSlug(ctx, i.Slug, in.Slug, shared.SlugTakenIn(s.industryRepo, i.ID))
	if err != nil {
		return nil, err
	}
	if err := i.Update(s.sanitizer.Text(in.Name), s.sanitizer.Text(in.Description)); err != nil {
		return nil, err
	}
	i.Slug = slug
	i.Icon = in.Icon
	i.Apply(in.IsActive, in.SortOrder)
	if err := s.industryRepo.Save(ctx, i); err != nil {
		return nil, err
	}
	resp := ToIndustryResponse(i)
	return &resp, nil
}

// Delete removes an industry
func (s *IndustryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.industryRepo.Delete(ctx, id)
}
