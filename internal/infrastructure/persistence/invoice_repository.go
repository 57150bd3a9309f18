package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/billing"
	"github.com/taxprep/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	*gormRepository[billing.Invoice]
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{newGormRepository[billing.Invoice](db, listSpec{
		name:          "Invoice",
		searchColumns: []string{"invoice_number", "client_name", "client_email"},
		sortFields:    InvoiceSortFields,
		filters: map[string]filterFunc{
			"status":       eq("status"),
			"organizer_id": eq("organizer_id"),
		},
	})}
}

// FindByID loads the invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	if err := r.db.WithContext(ctx).Preload("Items", byPosition).First(&inv, "id = ?", id).Error; err != nil {
		return nil, r.translate(err)
	}
	return &inv, nil
}

// Save stores the invoice and replaces its items in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&billing.InvoiceItem{}).Error; err != nil {
			return err
		}
		if len(inv.Items) > 0 {
			return tx.Create(&inv.Items).Error
		}
		return nil
	})
	return r.translate(err)
}

// Delete removes the invoice and its items
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.InvoiceItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&billing.Invoice{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeNotFound, "Invoice not found")
		}
		return nil
	})
}

// LastNumber returns the highest invoice number starting with prefix, "" if none.
// Longer numbers sort first so INV-2025-10000 beats INV-2025-9999.
func (r *GormInvoiceRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	var inv billing.Invoice
	err := r.db.WithContext(ctx).
		Select("invoice_number").
		Where("invoice_number LIKE ?", prefix+"%").
		Order("LENGTH(invoice_number) DESC, invoice_number DESC").
		Take(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return inv.InvoiceNumber, nil
}

// FindPastDue returns sent invoices whose due date is before day, with items
// loaded so they survive a Save.
func (r *GormInvoiceRepository) FindPastDue(ctx context.Context, day time.Time) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items", byPosition).
		Where("status = ? AND due_date < ?", billing.InvoiceStatusSent, day).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}
