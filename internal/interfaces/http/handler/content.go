package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appcontent "github.com/taxprep/backend/internal/application/content"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
	"github.com/taxprep/backend/pkg/slug"
)

// Query filters accepted by the content lists
var (
	blogFilters = []dto.QueryFilter{
		dto.StatusFilter,
		{Name: "category_id", Kind: dto.FilterUUID},
	}
	faqFilters         = []dto.QueryFilter{dto.IsActiveFilter, {Name: "topic"}}
	testimonialFilters = []dto.QueryFilter{dto.IsActiveFilter, {Name: "rating", Kind: dto.FilterInt}}
)

// NewCategoryHandler serves /admin/categories
func NewCategoryHandler(svc *appcontent.CategoryService) *CRUDHandler[appcontent.CategoryInput, appcontent.CategoryResponse] {
	return NewCRUDHandler[appcontent.CategoryInput, appcontent.CategoryResponse]("Category", svc, dto.IsActiveFilter)
}

// NewFaqHandler serves /admin/faqs
func NewFaqHandler(svc *appcontent.FaqService) *CRUDHandler[appcontent.FaqInput, appcontent.FaqResponse] {
	return NewCRUDHandler[appcontent.FaqInput, appcontent.FaqResponse]("FAQ", svc, faqFilters...)
}

// NewTestimonialHandler serves /admin/testimonials
func NewTestimonialHandler(svc *appcontent.TestimonialService) *CRUDHandler[appcontent.TestimonialInput, appcontent.TestimonialResponse] {
	return NewCRUDHandler[appcontent.TestimonialInput, appcontent.TestimonialResponse]("Testimonial", svc, testimonialFilters...)
}

// NewWhyChooseUsHandler serves /admin/why-choose-us
func NewWhyChooseUsHandler(svc *appcontent.WhyChooseUsService) *CRUDHandler[appcontent.WhyChooseUsInput, appcontent.WhyChooseUsResponse] {
	return NewCRUDHandler[appcontent.WhyChooseUsInput, appcontent.WhyChooseUsResponse]("Item", svc, dto.IsActiveFilter)
}

// NewIndustryHandler serves /admin/industries
func NewIndustryHandler(svc *appcontent.IndustryService) *CRUDHandler[appcontent.IndustryInput, appcontent.IndustryResponse] {
	return NewCRUDHandler[appcontent.IndustryInput, appcontent.IndustryResponse]("Industry", svc, dto.IsActiveFilter)
}

// PublicFaqFilters are the filters visitors may use on /public/faqs
var PublicFaqFilters = []dto.QueryFilter{{Name: "topic"}}

// BlogHandler adds publishing and the public blog to the blog CRUD routes
type BlogHandler struct {
	*CRUDHandler[appcontent.BlogInput, appcontent.BlogResponse]
	blogs *appcontent.BlogService
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(svc *appcontent.BlogService) *BlogHandler {
	return &BlogHandler{
		CRUDHandler: NewCRUDHandler[appcontent.BlogInput, appcontent.BlogResponse]("Blog", svc, blogFilters...),
		blogs:       svc,
	}
}

// Register mounts the admin blog routes
func (h *BlogHandler) Register(rg *gin.RouterGroup) {
	h.CRUDHandler.Register(rg)
	rg.POST("/:id/publish", h.Publish)
	rg.POST("/:id/unpublish", h.Unpublish)
}

// Publish godoc
// @ID           publishBlog
// @Summary      Publish a blog post
// @Tags         blogs
// @Produce      json
// @Param        id path string true "Blog ID" format(uuid)
// @Success      200 {object} dto.Response{data=appcontent.BlogResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/blogs/{id}/publish [post]
func (h *BlogHandler) Publish(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	blog, err := h.blogs.Publish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Blog published", blog)
}

// Unpublish godoc
// @ID           unpublishBlog
// @Summary      Take a blog post offline
// @Tags         blogs
// @Produce      json
// @Param        id path string true "Blog ID" format(uuid)
// @Success      200 {object} dto.Response{data=appcontent.BlogResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/blogs/{id}/unpublish [post]
func (h *BlogHandler) Unpublish(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	blog, err := h.blogs.Unpublish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Blog unpublished", blog)
}

// ListPublished godoc
// @ID           listPublishedBlogs
// @Summary      List published blog posts
// @Description  Newest first unless sort_by is given. category filters by category slug.
// @Tags         public
// @Produce      json
// @Param        page     query int    false "Page"
// @Param        limit    query int    false "Page size"
// @Param        search   query string false "Search"
// @Param        category query string false "Category slug"
// @Success      200 {object} dto.Response{data=[]appcontent.BlogResponse}
// @Router       /public/blogs [get]
func (h *BlogHandler) ListPublished(c *gin.Context) {
	filter, ok := h.bindList(c)
	if !ok {
		return
	}
	rows, total, err := h.blogs.ListPublished(c.Request.Context(), filter, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, rows, total, filter)
}

// GetPublished godoc
// @ID           getPublishedBlog
// @Summary      Get a published blog post by slug
// @Tags         public
// @Produce      json
// @Param        slug path string true "Blog slug"
// @Success      200 {object} dto.Response{data=appcontent.BlogResponse}
// @Failure      404 {object} dto.Response
// @Router       /public/blogs/{slug} [get]
func (h *BlogHandler) GetPublished(c *gin.Context) {
	s := c.Param("slug")
	if !slug.Valid(s) {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Blog not found")
		return
	}
	blog, err := h.blogs.GetPublishedBySlug(c.Request.Context(), s)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, blog)
}
