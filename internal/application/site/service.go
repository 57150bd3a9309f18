// Package site assembles the public home page.
package site

import (
	"context"

	"github.com/taxprep/backend/internal/application/content"
	"github.com/taxprep/backend/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PublicLister lists the active rows of one content type
type PublicLister[R any] interface {
	ListPublic(ctx context.Context, filter shared.Filter) ([]R, int64, error)
}

// LatestPosts returns the newest published posts
type LatestPosts interface {
	Latest(ctx context.Context, n int) ([]content.BlogResponse, error)
}

// Sources are the services the home page draws from
type Sources struct {
	Testimonials PublicLister[content.TestimonialResponse]
	Faqs         PublicLister[content.FaqResponse]
	WhyChooseUs  PublicLister[content.WhyChooseUsResponse]
	Industries   PublicLister[content.IndustryResponse]
	Blogs        LatestPosts
}

// Config sizes each section
type Config struct {
	SectionLimit int
	LatestPosts  int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{SectionLimit: 20, LatestPosts: 3}
}

// HomeResponse is everything the landing page renders
type HomeResponse struct {
	Testimonials []content.TestimonialResponse `json:"testimonials"`
	Faqs         []content.FaqResponse         `json:"faqs"`
	WhyChooseUs  []content.WhyChooseUsResponse `json:"why_choose_us"`
	Industries   []content.IndustryResponse    `json:"industries"`
	LatestBlogs  []content.BlogResponse        `json:"latest_blogs"`
}

// Service builds the home page
type Service struct {
	src    Sources
	config Config
	logger *zap.Logger
}

// NewService creates a new site Service
func NewService(src Sources, config Config, logger *zap.Logger) *Service {
	return &Service{src: src, config: config, logger: logger}
}

// Home loads every section concurrently. Any failing section fails the page.
func (s *Service) Home(ctx context.Context) (*HomeResponse, error) {
	var home HomeResponse
	filter := shared.Filter{Page: 1, Limit: s.config.SectionLimit}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, _, err := s.src.Testimonials.ListPublic(ctx, filter)
		home.Testimonials = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.src.Faqs.ListPublic(ctx, filter)
		home.Faqs = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.src.WhyChooseUs.ListPublic(ctx, filter)
		home.WhyChooseUs = rows
		return err
	})
	g.Go(func() error {
		rows, _, err := s.src.Industries.ListPublic(ctx, filter)
		home.Industries = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.src.Blogs.Latest(ctx, s.config.LatestPosts)
		home.LatestBlogs = rows
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load home page", zap.Error(err))
		return nil, err
	}
	return &home, nil
}
