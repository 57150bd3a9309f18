package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// CRUDService is the admin surface shared by the simple resources
type CRUDService[In, Out any] interface {
	List(ctx context.Context, filter shared.Filter) ([]Out, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Out, error)
	Create(ctx context.Context, in In) (*Out, error)
	Update(ctx context.Context, id uuid.UUID, in In) (*Out, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PublicLister lists the rows visitors may see
type PublicLister[Out any] interface {
	ListPublic(ctx context.Context, filter shared.Filter) ([]Out, int64, error)
}

// CRUDHandler serves list/get/create/update/delete for one resource
type CRUDHandler[In, Out any] struct {
	BaseHandler
	name    string
	service CRUDService[In, Out]
	filters []dto.QueryFilter
}

// NewCRUDHandler creates a CRUDHandler. name is used in delete messages
// ("Category deleted"); filters are the query parameters List passes through.
func NewCRUDHandler[In, Out any](name string, service CRUDService[In, Out], filters ...dto.QueryFilter) *CRUDHandler[In, Out] {
	return &CRUDHandler[In, Out]{name: name, service: service, filters: filters}
}

// Register mounts the five routes on rg
func (h *CRUDHandler[In, Out]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List returns one page of the resource
func (h *CRUDHandler[In, Out]) List(c *gin.Context) {
	filter, ok := h.bindList(c, h.filters...)
	if !ok {
		return
	}
	rows, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, rows, total, filter)
}

// Get returns one row by ID
func (h *CRUDHandler[In, Out]) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	row, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, row)
}

// Create stores a new row
func (h *CRUDHandler[In, Out]) Create(c *gin.Context) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	row, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusCreated, h.name+" created", row)
}

// Update replaces a row's editable fields
func (h *CRUDHandler[In, Out]) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	row, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, h.name+" updated", row)
}

// Delete removes a row
func (h *CRUDHandler[In, Out]) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, h.name+" deleted", nil)
}

// PublicListHandler serves the visitor-facing list of a resource
type PublicListHandler[Out any] struct {
	BaseHandler
	service PublicLister[Out]
	filters []dto.QueryFilter
}

// NewPublicListHandler creates a PublicListHandler
func NewPublicListHandler[Out any](service PublicLister[Out], filters ...dto.QueryFilter) *PublicListHandler[Out] {
	return &PublicListHandler[Out]{service: service, filters: filters}
}

// List returns one page of active rows
func (h *PublicListHandler[Out]) List(c *gin.Context) {
	filter, ok := h.bindList(c, h.filters...)
	if !ok {
		return
	}
	rows, total, err := h.service.ListPublic(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, rows, total, filter)
}
