package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appengagement "github.com/taxprep/backend/internal/application/engagement"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// ContactHandler handles the contact form and its admin inbox
type ContactHandler struct {
	BaseHandler
	service *appengagement.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(service *appengagement.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Register mounts the admin inbox routes
func (h *ContactHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id/status", h.ChangeStatus)
	rg.DELETE("/:id", h.Delete)
}

// Submit godoc
// @ID           submitContact
// @Summary      Send a message through the contact form
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request body appengagement.SubmitContactInput true "Message"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /public/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var in appengagement.SubmitContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	if _, err := h.service.Submit(c.Request.Context(), in, c.ClientIP()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusCreated, "Thank you for your message. We will get back to you shortly.", nil)
}

// List returns one page of messages
func (h *ContactHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c, dto.StatusFilter)
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

// Get returns one message. Reading it does not change its status.
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	msg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, msg)
}

// ChangeStatus godoc
// @ID           changeContactStatus
// @Summary      Change a contact message's status
// @Tags         contact-messages
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Message ID" format(uuid)
// @Param        request body appengagement.ContactStatusInput true "New status"
// @Success      200 {object} dto.Response{data=appengagement.ContactMessageResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/contact-messages/{id}/status [put]
func (h *ContactHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var in appengagement.ContactStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	msg, err := h.service.ChangeStatus(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Status updated", msg)
}

// Delete removes a message
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Message deleted", nil)
}

// NewsletterHandler handles subscriptions and the subscriber list
type NewsletterHandler struct {
	BaseHandler
	service *appengagement.NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler
func NewNewsletterHandler(service *appengagement.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

// Register mounts the admin subscriber routes
func (h *NewsletterHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.DELETE("/:id", h.Delete)
}

// Subscribe godoc
// @ID           subscribeNewsletter
// @Summary      Subscribe to the newsletter
// @Description  Idempotent. 201 for a new address, 200 when it was already known.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request body appengagement.SubscribeInput true "Subscription"
// @Success      200 {object} dto.Response
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /public/newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var in appengagement.SubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	_, created, err := h.service.Subscribe(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if created {
		h.Message(c, http.StatusCreated, "Subscribed successfully", nil)
		return
	}
	h.Message(c, http.StatusOK, "You are subscribed", nil)
}

// Unsubscribe godoc
// @ID           unsubscribeNewsletter
// @Summary      Unsubscribe by token or email
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        request body appengagement.UnsubscribeInput true "Token or email"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /public/newsletter/unsubscribe [post]
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var in appengagement.UnsubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	if err := h.service.Unsubscribe(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "You have been unsubscribed", nil)
}

// List returns one page of subscribers
func (h *NewsletterHandler) List(c *gin.Context) {
	filter, ok := h.bindList(c, dto.StatusFilter, dto.QueryFilter{Name: "source"})
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

// Get returns one subscriber
func (h *NewsletterHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	sub, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Create adds a subscriber from the admin; an existing address is a conflict
func (h *NewsletterHandler) Create(c *gin.Context) {
	var in appengagement.SubscribeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}
	sub, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusCreated, "Subscriber created", sub)
}

// Delete removes a subscriber
func (h *NewsletterHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, "Subscriber deleted", nil)
}
