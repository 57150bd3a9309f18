package organizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/application/listing"
	"github.com/taxprep/backend/internal/domain/organizer"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// TextSanitizer strips markup from free-text answers
type TextSanitizer interface {
	Text(input string) string
}

// referenceAttempts bounds retries when a new reference number is already taken
const referenceAttempts = 5

// Service runs the tax organizer wizard and the admin review workflow
type Service struct {
	repo         organizer.Repository
	sanitizer    TextSanitizer
	logger       *zap.Logger
	now          func() time.Time
	newReference func(time.Time) string
}

// NewService creates a new organizer Service
func NewService(repo organizer.Repository, sanitizer TextSanitizer, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		sanitizer:    sanitizer,
		logger:       logger,
		now:          time.Now,
		newReference: organizer.NewReferenceNumber,
	}
}

// Start stores an organizer sent by a client. With in.Submit set the
// completeness checks run and the organizer is submitted right away; a failed
// check rejects the whole request so nothing half-submitted is kept.
func (s *Service) Start(ctx context.Context, in OrganizerInput, ip string) (_ *OrganizerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "organizer", "start",
		"organizer.tax_year", in.TaxYear, "organizer.submit", in.Submit)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	d, err := s.details(in)
	if err != nil {
		return nil, err
	}
	now := s.now()
	o, err := organizer.NewTaxOrganizer(d, now)
	if err != nil {
		return nil, err
	}
	o.Signature.IPAddress = ip
	if in.Submit {
		if err := o.Submit(now); err != nil {
			return nil, err
		}
	}
	for attempt := 1; ; attempt++ {
		o.ReferenceNumber = s.newReference(now)
		err = s.repo.Save(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= referenceAttempts {
			return nil, err
		}
		s.logger.Warn("Organizer reference taken, retrying",
			zap.String("reference_number", o.ReferenceNumber),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Info("Tax organizer received",
		zap.String("organizer_id", o.ID.String()),
		zap.String("reference_number", o.ReferenceNumber),
		zap.Int("tax_year", o.TaxYear),
		zap.String("status", string(o.Status)),
	)
	return s.reload(ctx, o.ID)
}

// Create opens a draft organizer on a client's behalf
func (s *Service) Create(ctx context.Context, in OrganizerInput) (*OrganizerResponse, error) {
	return s.Start(ctx, in, "")
}

// List returns one page of organizers without their nested rows
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]OrganizerSummary, int64, error) {
	return listing.Load(ctx, s.repo, filter, ToOrganizerSummary)
}

// GetByID retrieves a full organizer
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrganizerResponse, error) {
	return s.reload(ctx, id)
}

// Track returns the progress of the organizer a reference number points at
func (s *Service) Track(ctx context.Context, reference string) (*ReceiptResponse, error) {
	o, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	resp := ToReceiptResponse(o)
	return &resp, nil
}

// Update replaces every step of a draft organizer
func (s *Service) Update(ctx context.Context, id uuid.UUID, in OrganizerInput) (*OrganizerResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := s.details(in)
	if err != nil {
		return nil, err
	}
	// the recorded signing IP survives edits
	d.Signature.IPAddress = o.Signature.IPAddress

	now := s.now()
	if err := o.Replace(d, now); err != nil {
		return nil, err
	}
	if in.Submit {
		if err := o.Submit(now); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// Submit runs the completeness checks and hands the organizer to the firm
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (_ *OrganizerResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "organizer", "submit", "organizer.id", id)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Submit(s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Tax organizer submitted",
		zap.String("organizer_id", o.ID.String()),
		zap.String("reference_number", o.ReferenceNumber),
	)
	return s.reload(ctx, id)
}

// ChangeStatus moves an organizer through the review workflow
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, in StatusInput) (*OrganizerResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.ChangeStatus(organizer.Status(in.Status), s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("Tax organizer status changed",
		zap.String("organizer_id", o.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(o.Status)),
	)
	return s.reload(ctx, id)
}

// Delete removes an organizer and its nested rows
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) reload(ctx context.Context, id uuid.UUID) (*OrganizerResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizerResponse(o)
	return &resp, nil
}

// details maps the wizard payload onto the domain, parsing dates and
// stripping markup from free text.
func (s *Service) details(in OrganizerInput) (organizer.Details, error) {
	var p shared.Problems
	text := s.sanitizer.Text

	person := func(prefix string, in PersonInput) organizer.Person {
		return organizer.Person{
			FirstName:   text(in.FirstName),
			LastName:    text(in.LastName),
			Email:       shared.NormalizeEmail(in.Email),
			Phone:       text(in.Phone),
			DateOfBirth: parseDate(&p, prefix+".date_of_birth", in.DateOfBirth),
			Occupation:  text(in.Occupation),
			SSNLast4:    in.SSNLast4,
		}
	}

	d := organizer.Details{
		TaxYear:      in.TaxYear,
		ReturnTypeID: in.ReturnTypeID,
		FilingStatus: organizer.FilingStatus(in.FilingStatus),
		Taxpayer:     person("taxpayer", in.Taxpayer),
		Address: organizer.Address{
			Line1:      text(in.Address.Line1),
			Line2:      text(in.Address.Line2),
			City:       text(in.Address.City),
			State:      text(in.Address.State),
			PostalCode: text(in.Address.PostalCode),
			Country:    text(in.Address.Country),
		},
		Notes: text(in.Notes),
	}
	if in.Spouse != nil {
		d.Spouse = person("spouse", *in.Spouse)
	}
	for i, dep := range in.Dependents {
		d.Dependents = append(d.Dependents, organizer.Dependent{
			FirstName:    text(dep.FirstName),
			LastName:     text(dep.LastName),
			Relationship: text(dep.Relationship),
			DateOfBirth:  parseDate(&p, fmt.Sprintf("dependents[%d].date_of_birth", i), dep.DateOfBirth),
			MonthsInHome: dep.MonthsInHome,
		})
	}
	for _, inc := range in.IncomeSources {
		d.IncomeSources = append(d.IncomeSources, organizer.IncomeSource{
			IncomeSourceTypeID: inc.IncomeSourceTypeID,
			Description:        text(inc.Description),
			Payer:              text(inc.Payer),
			Amount:             inc.Amount,
		})
	}
	for _, doc := range in.Documents {
		d.Documents = append(d.Documents, organizer.Document{
			DocumentTypeID: doc.DocumentTypeID,
			FileName:       text(doc.FileName),
			FileURL:        doc.FileURL,
		})
	}
	if in.Signature != nil {
		d.Signature = organizer.Signature{
			SignerName: text(in.Signature.SignerName),
			SignedAt:   in.Signature.SignedAt,
			ImageURL:   in.Signature.SignatureURL,
			Agreed:     in.Signature.Agreed,
		}
	}

	if err := p.Err("Organizer contains invalid values"); err != nil {
		return organizer.Details{}, err
	}
	return d, nil
}

func parseDate(p *shared.Problems, field, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		p.Add(field, field+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
