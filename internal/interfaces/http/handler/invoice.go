package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appbilling "github.com/taxprep/backend/internal/application/billing"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// InvoiceHandler adds the send/pay/cancel transitions to the invoice CRUD routes
type InvoiceHandler struct {
	*CRUDHandler[appbilling.InvoiceInput, appbilling.InvoiceResponse]
	invoices *appbilling.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(svc *appbilling.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		CRUDHandler: NewCRUDHandler[appbilling.InvoiceInput, appbilling.InvoiceResponse]("Invoice", svc,
			dto.StatusFilter, dto.QueryFilter{Name: "organizer_id", Kind: dto.FilterUUID}),
		invoices: svc,
	}
}

// Register mounts the invoice routes
func (h *InvoiceHandler) Register(rg *gin.RouterGroup) {
	h.CRUDHandler.Register(rg)
	rg.POST("/:id/send", h.Send)
	rg.POST("/:id/pay", h.MarkPaid)
	rg.POST("/:id/cancel", h.Cancel)
}

// Send godoc
// @ID           sendInvoice
// @Summary      Mark a draft invoice as sent
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=appbilling.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	h.transition(c, h.invoices.Send, "Invoice sent")
}

// MarkPaid godoc
// @ID           payInvoice
// @Summary      Record payment of a sent or overdue invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=appbilling.InvoiceResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.invoices.MarkPaid, "Invoice marked as paid")
}

// Cancel godoc
// @ID           cancelInvoice
// @Summary      Cancel an unpaid invoice
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=appbilling.InvoiceResponse}
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /admin/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.invoices.Cancel, "Invoice cancelled")
}

func (h *InvoiceHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*appbilling.InvoiceResponse, error), message string) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	inv, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, http.StatusOK, message, inv)
}
