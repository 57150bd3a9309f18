package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/billing"
)

// DateLayout is the wire format of issue and due dates
const DateLayout = "2006-01-02"

// ItemInput is one invoice line
type ItemInput struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// InvoiceInput creates or replaces a draft invoice
type InvoiceInput struct {
	OrganizerID   *uuid.UUID      `json:"organizer_id"`
	ClientName    string          `json:"client_name" binding:"required,max=200"`
	ClientEmail   string          `json:"client_email" binding:"required,email,max=200"`
	ClientAddress string          `json:"client_address" binding:"max=1000"`
	IssueDate     string          `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate       string          `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	Items         []ItemInput     `json:"items" binding:"required,min=1,max=100,dive"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Discount      decimal.Decimal `json:"discount"`
	Notes         string          `json:"notes" binding:"max=5000"`
}

// ItemResponse is an invoice line in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse is an invoice in API responses. List rows carry no items.
type InvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrganizerID   *uuid.UUID      `json:"organizer_id"`
	ClientName    string          `json:"client_name"`
	ClientEmail   string          `json:"client_email"`
	ClientAddress string          `json:"client_address"`
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Currency      string          `json:"currency"`
	Items         []ItemResponse  `json:"items,omitempty"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Discount      decimal.Decimal `json:"discount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	Notes         string          `json:"notes"`
	SentAt        *time.Time      `json:"sent_at"`
	PaidAt        *time.Time      `json:"paid_at"`
	CancelledAt   *time.Time      `json:"cancelled_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		OrganizerID:   inv.OrganizerID,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientAddress: inv.ClientAddress,
		IssueDate:     inv.IssueDate.Format(DateLayout),
		DueDate:       inv.DueDate.Format(DateLayout),
		Currency:      inv.Currency,
		TaxRate:       inv.TaxRate,
		Discount:      inv.Discount,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Status:        string(inv.Status),
		Notes:         inv.Notes,
		SentAt:        inv.SentAt,
		PaidAt:        inv.PaidAt,
		CancelledAt:   inv.CancelledAt,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, ItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
		})
	}
	return resp
}
