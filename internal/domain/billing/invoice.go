// Package billing holds client invoices. Amounts are computed here; collecting
// payment happens outside the system and is only recorded.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/shared"
)

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// DefaultCurrency is used when an invoice does not name one
const DefaultCurrency = "USD"

var hundred = decimal.NewFromInt(100)

// InvoiceItem is a billed line
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// LineInput describes an item before it is priced
type LineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Invoice is a bill sent to a client
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	OrganizerID   *uuid.UUID      `gorm:"type:uuid;index"`
	ClientName    string          `gorm:"type:varchar(200);not null"`
	ClientEmail   string          `gorm:"type:varchar(200);not null"`
	ClientAddress string          `gorm:"type:text"`
	IssueDate     time.Time       `gorm:"type:date;not null"`
	DueDate       time.Time       `gorm:"type:date;not null;index"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;index"`
	Notes         string          `gorm:"type:text"`
	SentAt        *time.Time
	PaidAt        *time.Time
	CancelledAt   *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// FormatInvoiceNumber renders the number for the seq-th invoice of year
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// InvoiceNumberPrefix is the common prefix of every number issued in year
func InvoiceNumberPrefix(year int) string {
	return fmt.Sprintf("INV-%d-", year)
}

// NewInvoice creates a draft invoice without lines; call Price before saving.
func NewInvoice(number, clientName, clientEmail string, issueDate, dueDate time.Time) (*Invoice, error) {
	inv := &Invoice{
		BaseEntity:    shared.NewBaseEntity(),
		InvoiceNumber: number,
		Currency:      DefaultCurrency,
		Status:        InvoiceStatusDraft,
		TaxRate:       decimal.Zero,
		Discount:      decimal.Zero,
	}
	if err := inv.SetClient(clientName, clientEmail, ""); err != nil {
		return nil, err
	}
	if err := inv.SetDates(issueDate, dueDate); err != nil {
		return nil, err
	}
	inv.recalculate()
	return inv, nil
}

// SetClient sets who is billed
func (i *Invoice) SetClient(name, email, address string) error {
	if err := shared.RequireText("Client name", name, 200); err != nil {
		return err
	}
	email = shared.NormalizeEmail(email)
	if !shared.ValidEmail(email) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid client email")
	}
	i.ClientName = strings.TrimSpace(name)
	i.ClientEmail = email
	i.ClientAddress = address
	return nil
}

// SetDates sets issue and due dates; due may not precede issue
func (i *Invoice) SetDates(issue, due time.Time) error {
	issue, due = truncateDay(issue), truncateDay(due)
	if due.Before(issue) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Due date cannot be before issue date")
	}
	i.IssueDate = issue
	i.DueDate = due
	return nil
}

// SetCurrency sets the ISO 4217 code
func (i *Invoice) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	if len(code) != 3 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Currency must be a 3-letter code")
	}
	i.Currency = code
	return nil
}

// Price replaces all lines and the terms: taxRate is a percentage and discount a
// flat amount off the subtotal. Nothing changes when validation fails.
func (i *Invoice) Price(lines []LineInput, taxRate, discount decimal.Decimal) error {
	if len(lines) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invoice must have at least one item")
	}
	var p shared.Problems
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		p.Add("tax_rate", "tax_rate must be between 0 and 100")
	}
	if discount.IsNegative() {
		p.Add("discount", "discount cannot be negative")
	}
	items := make([]InvoiceItem, len(lines))
	for n, l := range lines {
		field := fmt.Sprintf("items[%d]", n)
		if strings.TrimSpace(l.Description) == "" {
			p.Add(field+".description", "description is required")
		}
		if !l.Quantity.IsPositive() {
			p.Add(field+".quantity", "quantity must be greater than zero")
		}
		if l.UnitPrice.IsNegative() {
			p.Add(field+".unit_price", "unit_price cannot be negative")
		}
		items[n] = InvoiceItem{
			BaseEntity:  shared.NewBaseEntity(),
			InvoiceID:   i.ID,
			Position:    n,
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.Round(2),
			Amount:      l.Quantity.Mul(l.UnitPrice).Round(2),
		}
	}
	if err := p.Err("Invoice is invalid"); err != nil {
		return err
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount)
	}
	discount = discount.Round(2)
	if discount.GreaterThan(subtotal) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Discount cannot exceed the subtotal")
	}

	i.Items = items
	i.TaxRate = taxRate
	i.Discount = discount
	i.recalculate()
	return nil
}

// recalculate derives subtotal, tax and total from items and terms:
// tax is charged on the discounted subtotal and rounded to cents.
func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, it := range i.Items {
		subtotal = subtotal.Add(it.Amount)
	}
	taxable := subtotal.Sub(i.Discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	i.Subtotal = subtotal
	i.TaxAmount = taxable.Mul(i.TaxRate).Div(hundred).Round(2)
	i.Total = taxable.Add(i.TaxAmount)
}

// EnsureEditable rejects changes to invoices that have left draft
func (i *Invoice) EnsureEditable() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState, "Only draft invoices can be edited")
	}
	return nil
}

// Send marks the invoice as delivered to the client
func (i *Invoice) Send(now time.Time) error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState, "Only draft invoices can be sent")
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot send an invoice without items")
	}
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.Touch()
	return nil
}

// MarkPaid records that payment was received
func (i *Invoice) MarkPaid(now time.Time) error {
	if i.Status != InvoiceStatusSent && i.Status != InvoiceStatusOverdue {
		return shared.NewDomainError(shared.CodeInvalidState, "Only sent or overdue invoices can be marked paid")
	}
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.Touch()
	return nil
}

// Cancel voids the invoice
func (i *Invoice) Cancel(now time.Time) error {
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidState, "Paid or cancelled invoices cannot be cancelled")
	}
	i.Status = InvoiceStatusCancelled
	i.CancelledAt = &now
	i.Touch()
	return nil
}

// IsPastDue reports whether a sent invoice has passed its due date on day now
func (i *Invoice) IsPastDue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate.Before(truncateDay(now))
}

// MarkOverdue flags a past-due sent invoice. It reports whether anything changed.
func (i *Invoice) MarkOverdue(now time.Time) bool {
	if !i.IsPastDue(now) {
		return false
	}
	i.Status = InvoiceStatusOverdue
	i.Touch()
	return true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
