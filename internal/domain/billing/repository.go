package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
)

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	// FindByID loads the invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// FindAll lists invoices without items
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save stores the invoice and replaces its items
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	// LastNumber returns the highest invoice number starting with prefix, "" if none
	LastNumber(ctx context.Context, prefix string) (string, error)
	// FindPastDue returns sent invoices whose due date is before day
	FindPastDue(ctx context.Context, day time.Time) ([]Invoice, error)
}
