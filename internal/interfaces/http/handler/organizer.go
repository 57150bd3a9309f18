package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apporganizer "github.com/taxprep/backend/internal/application/organizer"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

var organizerFilters = []dto.QueryFilter{
	dto.StatusFilter,
	{Name: "tax_year", Kind: dto.FilterInt},
	{Name: "filing_status"},
}

// OrganizerHandler handles tax organizer intake and review
type OrganizerHandler struct {
	BaseHandler
	service *apporganizer.Service
}

// NewOrganizerHandler creates a new OrganizerHandler
func NewOrganizerHandler(service *apporganizer.Service) *OrganizerHandler {
	return &OrganizerHandler{service: service}
}

// Register mounts the admin organizer routes
func (h *OrganizerHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.PUT("/:id/status", h.ChangeStatus)
	rg.POST("/:id/submit", h.Submit)
}

// Start godoc
// @ID           startTaxOrganizer
// @Summary      Send a tax organizer from the intake wizard
// @Description  Stores a draft, or submits it when submit is true. Missing required
// @Description  answers are reported together in errors.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request body apporganizer.OrganizerInput true "Wizard payload"
// @Success      201 {object} dto.Response{data=apporganizer.ReceiptResponse}
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /public/tax-organizers [post]
func (h *OrganizerHandler) Start(c *gin.Context) {
	var in apporganizer.OrganizerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.service.Start(c.Request.Context(), in, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	message := "Your tax organizer has been saved"
	if in.Submit {
		message = "Your tax organizer has been submitted"
	}
	h.Message(c, http.StatusCreated, message, apporganizer.ReceiptResponse{
		ReferenceNumber: o.ReferenceNumber,
		TaxYear:         o.TaxYear,
		Status:          o.Status,
		SubmittedAt:     o.SubmittedAt,
	})
}

// Track godoc
// @ID           trackTaxOrganizer
// @Summary      Check the progress of a submitted organizer
// @Tags         public
// @Produce      json
// @Param        reference path string true "Reference number"
// @Success      200 {object} dto.Response{data=apporganizer.ReceiptResponse}
// @Failure      404 {object} dto.Response
// @Router       /public/tax-organizers/{reference} [get]
func (h *OrganizerHandler) Track(c *gin.Context) {
	ref := strings.ToUpper(strings.TrimSpace(c.Param("reference")))
	receipt, err := h.service.Track(c.Request.Context(), ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// List returns one page of organizer summaries
func (h *OrganizerHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c, organizerFilters...)
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

// Get returns a full organizer
func (h *OrganizerHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	o, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Create opens an organizer on a client's behalf
func (h *OrganizerHandler) Create(c *gin.Context) {
	var in apporganizer.OrganizerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusCreated, "Tax organizer created", o)
}

// Update godoc
// @ID           updateTaxOrganizer
// @Summary      Replace the answers of a draft organizer
// @Tags         tax-organizers
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Organizer ID" format(uuid)
// @Param        request body apporganizer.OrganizerInput true "Wizard payload"
// @Success      200 {object} dto.Response{data=apporganizer.OrganizerResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/tax-organizers/{id} [put]
func (h *OrganizerHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var in apporganizer.OrganizerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Tax organizer updated", o)
}

// Submit runs the completeness checks and submits a draft
func (h *OrganizerHandler) Submit(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	o, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Tax organizer submitted", o)
}

// ChangeStatus godoc
// @ID           changeTaxOrganizerStatus
// @Summary      Move an organizer through review
// @Tags         tax-organizers
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Organizer ID" format(uuid)
// @Param        request body apporganizer.StatusInput true "New status"
// @Success      200 {object} dto.Response{data=apporganizer.OrganizerResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/tax-organizers/{id}/status [put]
func (h *OrganizerHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var in apporganizer.StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	o, err := h.service.ChangeStatus(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Status updated", o)
}

// Delete removes an organizer with its nested rows
func (h *OrganizerHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Tax organizer deleted", nil)
}
