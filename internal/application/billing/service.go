// Package billing issues client invoices and keeps their status current.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/billing"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Config contains invoice defaults
type Config struct {
	// PaymentTerms is added to the issue date when no due date is given
	PaymentTerms time.Duration

	// NumberAttempts bounds retries when two invoices race for the same number
	NumberAttempts int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		PaymentTerms:   30 * 24 * time.Hour,
		NumberAttempts: 3,
	}
}

// InvoiceService manages invoices
type InvoiceService struct {
	repo   billing.InvoiceRepository
	config Config
	logger *zap.Logger
	now    func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(repo billing.InvoiceRepository, config Config, logger *zap.Logger) *InvoiceService {
	if config.NumberAttempts < 1 {
		config.NumberAttempts = 1
	}
	return &InvoiceService{repo: repo, config: config, logger: logger, now: time.Now}
}

// List returns one page of invoices
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) ([]InvoiceResponse, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToInvoiceResponse)
}

// GetByID retrieves an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// Create prices a new draft invoice and assigns the next number of its issue year
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*InvoiceResponse, error) {
	issue, due, err := s.dates(in)
	if err != nil {
		return nil, err
	}

	var inv *billing.Invoice
	for attempt := 1; ; attempt++ {
		number, err := s.nextNumber(ctx, issue.Year())
		if err != nil {
			return nil, err
		}
		inv, err = billing.NewInvoice(number, in.ClientName, in.ClientEmail, issue, due)
		if err != nil {
			return nil, err
		}
		if err := s.apply(inv, in); err != nil {
			return nil, err
		}

		err = s.repo.Save(ctx, inv)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= s.config.NumberAttempts {
			return nil, err
		}
		s.logger.Warn("Invoice number taken, retrying",
			zap.String("invoice_number", number),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)),
	)
	return s.GetByID(ctx, inv.ID)
}

// Update replaces client, dates, lines and terms of a draft invoice
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, in InvoiceInput) (*InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := inv.EnsureEditable(); err != nil {
		return nil, err
	}
	if err := inv.SetClient(in.ClientName, in.ClientEmail, in.ClientAddress); err != nil {
		return nil, err
	}
	issue, due, err := s.dates(in)
	if err != nil {
		return nil, err
	}
	if err := inv.SetDates(issue, due); err != nil {
		return nil, err
	}
	if err := s.apply(inv, in); err != nil {
		return nil, err
	}
	inv.Touch()
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// Send marks a draft invoice as delivered
func (s *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, "sent", (*billing.Invoice).Send)
}

// MarkPaid records payment of a sent or overdue invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, "paid", (*billing.Invoice).MarkPaid)
}

// Cancel voids an unpaid invoice
func (s *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	return s.transition(ctx, id, "cancelled", (*billing.Invoice).Cancel)
}

// Delete removes an invoice
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SweepOverdue flags every sent invoice whose due date has passed. It returns
// how many invoices changed; one failed save does not stop the rest.
func (s *InvoiceService) SweepOverdue(ctx context.Context) (marked int, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "sweep_overdue")
	defer func() {
		span.SetAttributes(attribute.Int("invoice.marked", marked))
		telemetry.RecordError(span, err)
		span.End()
	}()

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	invoices, err := s.repo.FindPastDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to load past due invoices: %w", err)
	}

	var errs []error
	for i := range invoices {
		inv := &invoices[i]
		if !inv.MarkOverdue(now) {
			continue
		}
		if err := s.repo.Save(ctx, inv); err != nil {
			errs = append(errs, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err))
			continue
		}
		marked++
	}
	if marked > 0 {
		s.logger.Info("Invoices marked overdue", zap.Int("count", marked))
	}
	return marked, errors.Join(errs...)
}

func (s *InvoiceService) transition(ctx context.Context, id uuid.UUID, to string, fn func(*billing.Invoice, time.Time) error) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", to, "invoice.id", id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(inv, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice status changed",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("status", to),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// nextNumber returns the number following the highest one issued in year
func (s *InvoiceService) nextNumber(ctx context.Context, year int) (string, error) {
	prefix := billing.InvoiceNumberPrefix(year)
	last, err := s.repo.LastNumber(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to read last invoice number: %w", err)
	}
	seq := 0
	if last != "" {
		seq, err = strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("unexpected invoice number %q: %w", last, err)
		}
	}
	return billing.FormatInvoiceNumber(year, seq+1), nil
}

func (s *InvoiceService) apply(inv *billing.Invoice, in InvoiceInput) error {
	if err := inv.SetClient(in.ClientName, in.ClientEmail, in.ClientAddress); err != nil {
		return err
	}
	if err := inv.SetCurrency(in.Currency); err != nil {
		return err
	}
	lines := make([]billing.LineInput, len(in.Items))
	for i, it := range in.Items {
		lines[i] = billing.LineInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	if err := inv.Price(lines, in.TaxRate, in.Discount); err != nil {
		return err
	}
	inv.OrganizerID = in.OrganizerID
	inv.Notes = in.Notes
	return nil
}

// dates parses issue and due dates, defaulting to today and the payment terms
func (s *InvoiceService) dates(in InvoiceInput) (time.Time, time.Time, error) {
	var p shared.Problems
	issue := s.now()
	if in.IssueDate != "" {
		t, err := time.Parse(DateLayout, in.IssueDate)
		if err != nil {
			p.Add("issue_date", "issue_date must be a date in YYYY-MM-DD format")
		}
		issue = t
	}
	due := issue.Add(s.config.PaymentTerms)
	if in.DueDate != "" {
		t, err := time.Parse(DateLayout, in.DueDate)
		if err != nil {
			p.Add("due_date", "due_date must be a date in YYYY-MM-DD format")
		}
		due = t
	}
	if err := p.Err("Invoice dates are invalid"); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return issue, due, nil
}
