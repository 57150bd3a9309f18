package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	appbilling "github.com/taxprep/backend/internal/application/billing"
	appcontent "github.com/taxprep/backend/internal/application/content"
	appengagement "github.com/taxprep/backend/internal/application/engagement"
	appidentity "github.com/taxprep/backend/internal/application/identity"
	"github.com/taxprep/backend/internal/application/media"
	apporganizer "github.com/taxprep/backend/internal/application/organizer"
	appref "github.com/taxprep/backend/internal/application/reference"
	"github.com/taxprep/backend/internal/application/site"
	"github.com/taxprep/backend/internal/domain/identity"
	"github.com/taxprep/backend/internal/interfaces/http/handler"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
)

// Cache resources of the public content lists
const (
	ResourceCategories        = "categories"
	ResourceBlogs             = "blogs"
	ResourceFaqs              = "faqs"
	ResourceTestimonials      = "testimonials"
	ResourceWhyChooseUs       = "why-choose-us"
	ResourceIndustries        = "industries"
	ResourceDocumentTypes     = "document-types"
	ResourceIncomeSourceTypes = "income-source-types"
	ResourceReturnTypes       = "return-types"
)

// Services are the application services behind the API
type Services struct {
	Auth              *appidentity.AuthService
	Site              *site.Service
	Categories        *appcontent.CategoryService
	Blogs             *appcontent.BlogService
	Faqs              *appcontent.FaqService
	Testimonials      *appcontent.TestimonialService
	WhyChooseUs       *appcontent.WhyChooseUsService
	Industries        *appcontent.IndustryService
	DocumentTypes     *appref.DocumentTypeService
	IncomeSourceTypes *appref.IncomeSourceTypeService
	ReturnTypes       *appref.ReturnTypeService
	Contact           *appengagement.ContactService
	Newsletter        *appengagement.NewsletterService
	Organizers        *apporganizer.Service
	Invoices          *appbilling.InvoiceService
	Media             *media.Service
}

// Options configure the cross-cutting middleware of the API groups
type Options struct {
	// Auth guards /admin and the session endpoints of /auth
	Auth gin.HandlerFunc
	// FormLimit, when set, throttles sign-in and the public forms harder than
	// the engine-wide limiter
	FormLimit gin.HandlerFunc
	// UploadLimit, when set, bounds the body of the upload routes. The
	// engine-wide body limit should skip them, see IsUploadRoute.
	UploadLimit gin.HandlerFunc
	Cache       middleware.ContentCacheConfig
}

// IsUploadRoute reports whether c matched one of the multipart upload routes
func IsUploadRoute(c *gin.Context) bool {
	return c.Request.Method == "POST" && strings.HasSuffix(c.FullPath(), "/uploads")
}

// API builds the /api/v1 router: public site content and forms, the auth
// endpoints and the admin panel.
func API(engine *gin.Engine, svc Services, opts Options) *Router {
	if opts.Cache.Generations == nil {
		opts.Cache.Generations = middleware.NewCacheGenerations()
	}
	blogs := handler.NewBlogHandler(svc.Blogs)

	return NewRouter(engine).
		Register(publicRoutes(svc, blogs, opts)).
		Register(authRoutes(svc, opts)).
		Register(adminRoutes(svc, blogs, opts))
}

func publicRoutes(svc Services, blogs *handler.BlogHandler, opts Options) *DomainGroup {
	cached := func(resource string) gin.HandlerFunc {
		return middleware.CachePublic(opts.Cache, resource)
	}
	organizers := handler.NewOrganizerHandler(svc.Organizers)
	contact := handler.NewContactHandler(svc.Contact)
	newsletter := handler.NewNewsletterHandler(svc.Newsletter)

	g := NewDomainGroup("public", "/public")
	g.GET("/home", cached(middleware.HomeResource), handler.NewHomeHandler(svc.Site).Home)
	g.GET("/categories", cached(ResourceCategories),
		handler.NewPublicListHandler[appcontent.CategoryResponse](svc.Categories).List)
	g.GET("/blogs", cached(ResourceBlogs), blogs.ListPublished)
	g.GET("/blogs/:slug", cached(ResourceBlogs), blogs.GetPublished)
	g.GET("/faqs", cached(ResourceFaqs),
		handler.NewPublicListHandler[appcontent.FaqResponse](svc.Faqs, handler.PublicFaqFilters...).List)
	g.GET("/testimonials", cached(ResourceTestimonials),
		handler.NewPublicListHandler[appcontent.TestimonialResponse](svc.Testimonials).List)
	g.GET("/why-choose-us", cached(ResourceWhyChooseUs),
		handler.NewPublicListHandler[appcontent.WhyChooseUsResponse](svc.WhyChooseUs).List)
	g.GET("/industries", cached(ResourceIndustries),
		handler.NewPublicListHandler[appcontent.IndustryResponse](svc.Industries).List)
	g.GET("/document-types", cached(ResourceDocumentTypes),
		handler.NewPublicListHandler[appref.DocumentTypeResponse](svc.DocumentTypes).List)
	g.GET("/income-source-types", cached(ResourceIncomeSourceTypes),
		handler.NewPublicListHandler[appref.IncomeSourceTypeResponse](svc.IncomeSourceTypes).List)
	g.GET("/return-types", cached(ResourceReturnTypes),
		handler.NewPublicListHandler[appref.ReturnTypeResponse](svc.ReturnTypes).List)

	g.POST("/contact", chain(opts.FormLimit, contact.Submit)...)
	g.POST("/newsletter/subscribe", chain(opts.FormLimit, newsletter.Subscribe)...)
	g.POST("/newsletter/unsubscribe", chain(opts.FormLimit, newsletter.Unsubscribe)...)
	g.POST("/tax-organizers", chain(opts.FormLimit, organizers.Start)...)
	g.GET("/tax-organizers/:reference", chain(opts.FormLimit, organizers.Track)...)
	g.POST("/uploads", chain(opts.FormLimit, opts.UploadLimit, handler.NewUploadHandler(svc.Media).PublicUpload)...)
	return g
}

func authRoutes(svc Services, opts Options) *DomainGroup {
	h := handler.NewAuthHandler(svc.Auth)

	g := NewDomainGroup("auth", "/auth")
	g.POST("/login", chain(opts.FormLimit, h.Login)...)
	g.POST("/refresh", chain(opts.FormLimit, h.Refresh)...)
	g.GET("/me", opts.Auth, h.Me)
	g.POST("/logout", opts.Auth, h.Logout)
	return g
}

func adminRoutes(svc Services, blogs *handler.BlogHandler, opts Options) *DomainGroup {
	invalidate := func(resources ...string) gin.HandlerFunc {
		return middleware.InvalidateContent(opts.Cache, resources...)
	}

	g := NewDomainGroup("admin", "/admin").Use(opts.Auth)
	// category names are embedded in blog responses
	g.Mount("/categories", handler.NewCategoryHandler(svc.Categories).Register,
		invalidate(ResourceCategories, ResourceBlogs))
	g.Mount("/blogs", blogs.Register, invalidate(ResourceBlogs))
	g.Mount("/faqs", handler.NewFaqHandler(svc.Faqs).Register, invalidate(ResourceFaqs))
	g.Mount("/testimonials", handler.NewTestimonialHandler(svc.Testimonials).Register,
		invalidate(ResourceTestimonials))
	g.Mount("/why-choose-us", handler.NewWhyChooseUsHandler(svc.WhyChooseUs).Register,
		invalidate(ResourceWhyChooseUs))
	g.Mount("/industries", handler.NewIndustryHandler(svc.Industries).Register,
		invalidate(ResourceIndustries))
	g.Mount("/document-types", handler.NewDocumentTypeHandler(svc.DocumentTypes).Register,
		invalidate(ResourceDocumentTypes))
	g.Mount("/income-source-types", handler.NewIncomeSourceTypeHandler(svc.IncomeSourceTypes).Register,
		invalidate(ResourceIncomeSourceTypes))
	g.Mount("/return-types", handler.NewReturnTypeHandler(svc.ReturnTypes).Register,
		invalidate(ResourceReturnTypes))

	g.Mount("/contact-messages", handler.NewContactHandler(svc.Contact).Register)
	g.Mount("/newsletter-subscribers", handler.NewNewsletterHandler(svc.Newsletter).Register)
	g.Mount("/tax-organizers", handler.NewOrganizerHandler(svc.Organizers).Register)
	g.Mount("/invoices", handler.NewInvoiceHandler(svc.Invoices).Register,
		middleware.RequireRole(string(identity.RoleAdmin)))
	g.POST("/uploads", chain(opts.UploadLimit, handler.NewUploadHandler(svc.Media).Upload)...)
	return g
}

// chain returns a new handler chain of the non-nil handlers
func chain(hs ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(hs))
	for _, h := range hs {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}
