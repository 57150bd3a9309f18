// Package organizer models the tax intake questionnaire: who is filing, who they
// support, what they earned, which documents they attached and their signature.
package organizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/shared"
)

// MinTaxYear is the oldest year an organizer can be opened for
const MinTaxYear = 2000

var ssnLast4Pattern = regexp.MustCompile(`^[0-9]{4}$`)

// Person holds taxpayer or spouse details
type Person struct {
	FirstName   string     `gorm:"type:varchar(100)"`
	LastName    string     `gorm:"type:varchar(100)"`
	Email       string     `gorm:"type:varchar(200)"`
	Phone       string     `gorm:"type:varchar(30)"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Occupation  string     `gorm:"type:varchar(100)"`
	SSNLast4    string     `gorm:"column:ssn_last4;type:varchar(4)"`
}

// IsZero reports whether no field has been filled in
func (p Person) IsZero() bool {
	return p.FirstName == "" && p.LastName == "" && p.Email == "" && p.Phone == "" &&
		p.DateOfBirth == nil && p.Occupation == "" && p.SSNLast4 == ""
}

// Address is the household mailing address
type Address struct {
	Line1      string `gorm:"type:varchar(200)"`
	Line2      string `gorm:"type:varchar(200)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20)"`
	Country    string `gorm:"type:varchar(100)"`
}

// Signature is the client's attestation in the last step
type Signature struct {
	SignerName string `gorm:"type:varchar(200)"`
	SignedAt   *time.Time
	ImageURL   string `gorm:"type:varchar(500)"`
	Agreed     bool   `gorm:"not null"`
	IPAddress  string `gorm:"type:varchar(45)"`
}

// Dependent is a person the taxpayer supports
type Dependent struct {
	shared.BaseEntity
	OrganizerID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Position     int        `gorm:"not null"`
	FirstName    string     `gorm:"type:varchar(100)"`
	LastName     string     `gorm:"type:varchar(100)"`
	Relationship string     `gorm:"type:varchar(50)"`
	DateOfBirth  *time.Time `gorm:"type:date"`
	MonthsInHome int        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Dependent) TableName() string {
	return "organizer_dependents"
}

// IncomeSource is one income line reported by the client
type IncomeSource struct {
	shared.BaseEntity
	OrganizerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position           int             `gorm:"not null"`
	IncomeSourceTypeID *uuid.UUID      `gorm:"type:uuid"`
	Description        string          `gorm:"type:varchar(500)"`
	Payer              string          `gorm:"type:varchar(200)"`
	Amount             decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (IncomeSource) TableName() string {
	return "organizer_income_sources"
}

// Document is an uploaded file attached to the organizer
type Document struct {
	shared.BaseEntity
	OrganizerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Position       int        `gorm:"not null"`
	DocumentTypeID *uuid.UUID `gorm:"type:uuid"`
	FileName       string     `gorm:"type:varchar(255)"`
	FileURL        string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "organizer_documents"
}

// TaxOrganizer is one client's intake questionnaire for a tax year
type TaxOrganizer struct {
	shared.BaseEntity
	ReferenceNumber string       `gorm:"type:varchar(32);not null;uniqueIndex"`
	TaxYear         int          `gorm:"not null;index"`
	ReturnTypeID    *uuid.UUID   `gorm:"type:uuid"`
	FilingStatus    FilingStatus `gorm:"type:varchar(30)"`
	Status          Status       `gorm:"type:varchar(20);not null;index"`
	Taxpayer        Person       `gorm:"embedded;embeddedPrefix:taxpayer_"`
	Spouse          Person       `gorm:"embedded;embeddedPrefix:spouse_"`
	Address         Address      `gorm:"embedded;embeddedPrefix:address_"`
	Signature       Signature    `gorm:"embedded;embeddedPrefix:signature_"`
	Notes           string       `gorm:"type:text"`
	SubmittedAt     *time.Time
	Dependents      []Dependent    `gorm:"foreignKey:OrganizerID"`
	IncomeSources   []IncomeSource `gorm:"foreignKey:OrganizerID"`
	Documents       []Document     `gorm:"foreignKey:OrganizerID"`
}

// TableName returns the table name for GORM
func (TaxOrganizer) TableName() string {
	return "tax_organizers"
}

// Details is everything the wizard collects. Each save replaces all of it.
type Details struct {
	TaxYear       int
	ReturnTypeID  *uuid.UUID
	FilingStatus  FilingStatus
	Taxpayer      Person
	Spouse        Person
	Address       Address
	Dependents    []Dependent
	IncomeSources []IncomeSource
	Documents     []Document
	Signature     Signature
	Notes         string
}

// NewTaxOrganizer opens a draft organizer
func NewTaxOrganizer(d Details, now time.Time) (*TaxOrganizer, error) {
	o := &TaxOrganizer{
		BaseEntity:      shared.NewBaseEntity(),
		ReferenceNumber: NewReferenceNumber(now),
		Status:          StatusDraft,
	}
	if err := o.apply(d, now); err != nil {
		return nil, err
	}
	return o, nil
}

// NewReferenceNumber returns a reference such as ORG-2025-4F9A1C
func NewReferenceNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ORG-%d-%s", now.Year(), id[:6])
}

// Replace overwrites every step. Only drafts can be edited.
func (o *TaxOrganizer) Replace(d Details, now time.Time) error {
	if o.Status != StatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState, "Only draft organizers can be edited")
	}
	if err := o.apply(d, now); err != nil {
		return err
	}
	o.Touch()
	return nil
}

func (o *TaxOrganizer) apply(d Details, now time.Time) error {
	var p shared.Problems
	if d.TaxYear < MinTaxYear || d.TaxYear > now.Year()+1 {
		p.Add("tax_year", fmt.Sprintf("tax_year must be between %d and %d", MinTaxYear, now.Year()+1))
	}
	if d.FilingStatus != "" && !d.FilingStatus.Valid() {
		p.Add("filing_status", "filing_status is not a known filing status")
	}
	checkSSN(&p, "taxpayer.ssn_last4", d.Taxpayer.SSNLast4)
	checkSSN(&p, "spouse.ssn_last4", d.Spouse.SSNLast4)
	for i, dep := range d.Dependents {
		if dep.MonthsInHome < 0 || dep.MonthsInHome > 12 {
			p.Add(fmt.Sprintf("dependents[%d].months_in_home", i), "months_in_home must be between 0 and 12")
		}
	}
	for i, inc := range d.IncomeSources {
		if inc.Amount.IsNegative() {
			p.Add(fmt.Sprintf("income_sources[%d].amount", i), "amount cannot be negative")
		}
	}
	if err := p.Err("Organizer contains invalid values"); err != nil {
		return err
	}

	o.TaxYear = d.TaxYear
	o.ReturnTypeID = d.ReturnTypeID
	o.FilingStatus = d.FilingStatus
	o.Taxpayer = d.Taxpayer
	o.Spouse = d.Spouse
	if !d.FilingStatus.RequiresSpouse() {
		o.Spouse = Person{}
	}
	o.Address = d.Address
	o.Signature = d.Signature
	o.Notes = d.Notes

	o.Dependents = make([]Dependent, len(d.Dependents))
	for i, dep := range d.Dependents {
		dep.BaseEntity = shared.NewBaseEntity()
		dep.OrganizerID = o.ID
		dep.Position = i
		o.Dependents[i] = dep
	}
	o.IncomeSources = make([]IncomeSource, len(d.IncomeSources))
	for i, inc := range d.IncomeSources {
		inc.BaseEntity = shared.NewBaseEntity()
		inc.OrganizerID = o.ID
		inc.Position = i
		inc.Amount = inc.Amount.Round(2)
		o.IncomeSources[i] = inc
	}
	o.Documents = make([]Document, len(d.Documents))
	for i, doc := range d.Documents {
		doc.BaseEntity = shared.NewBaseEntity()
		doc.OrganizerID = o.ID
		doc.Position = i
		o.Documents[i] = doc
	}
	return nil
}

// HasSpouse reports whether spouse details are present
func (o *TaxOrganizer) HasSpouse() bool {
	return o.FilingStatus.RequiresSpouse() && !o.Spouse.IsZero()
}

// TotalIncome sums every reported income line
func (o *TaxOrganizer) TotalIncome() decimal.Decimal {
	total := decimal.Zero
	for _, inc := range o.IncomeSources {
		total = total.Add(inc.Amount)
	}
	return total
}

// CheckComplete runs the presence checks a submission must pass and reports
// every missing item at once.
func (o *TaxOrganizer) CheckComplete() error {
	var p shared.Problems
	p.Require("taxpayer.first_name", o.Taxpayer.FirstName)
	p.Require("taxpayer.last_name", o.Taxpayer.LastName)
	if strings.TrimSpace(o.Taxpayer.Email) == "" {
		p.Add("taxpayer.email", "taxpayer.email is required")
	} else if !shared.ValidEmail(o.Taxpayer.Email) {
		p.Add("taxpayer.email", "taxpayer.email must be a valid email address")
	}
	if o.FilingStatus == "" {
		p.Add("filing_status", "filing_status is required")
	}
	if o.FilingStatus.RequiresSpouse() {
		p.Require("spouse.first_name", o.Spouse.FirstName)
		p.Require("spouse.last_name", o.Spouse.LastName)
	}
	for i, dep := range o.Dependents {
		prefix := fmt.Sprintf("dependents[%d].", i)
		p.Require(prefix+"first_name", dep.FirstName)
		p.Require(prefix+"last_name", dep.LastName)
		p.Require(prefix+"relationship", dep.Relationship)
	}
	for i, inc := range o.IncomeSources {
		if inc.IncomeSourceTypeID == nil {
			p.Add(fmt.Sprintf("income_sources[%d].income_source_type_id", i), "income source type is required")
		}
	}
	for i, doc := range o.Documents {
		p.Require(fmt.Sprintf("documents[%d].file_url", i), doc.FileURL)
	}
	p.Require("signature.signer_name", o.Signature.SignerName)
	if !o.Signature.Agreed {
		p.Add("signature.agreed", "the declaration must be accepted")
	}
	return p.Err("Organizer is incomplete")
}

// Submit hands the organizer to the firm
func (o *TaxOrganizer) Submit(now time.Time) error {
	if !o.Status.CanTransitionTo(StatusSubmitted) {
		return shared.NewDomainError(shared.CodeInvalidState, "Organizer has already been submitted")
	}
	if err := o.CheckComplete(); err != nil {
		return err
	}
	if o.Signature.SignedAt == nil {
		o.Signature.SignedAt = &now
	}
	o.Status = StatusSubmitted
	o.SubmittedAt = &now
	o.Touch()
	return nil
}

// ChangeStatus moves the organizer through the review workflow. Submitting goes
// through Submit so the presence checks always run.
func (o *TaxOrganizer) ChangeStatus(to Status, now time.Time) error {
	if !to.Valid() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Unknown organizer status: "+string(to))
	}
	if to == StatusSubmitted {
		return o.Submit(now)
	}
	if !o.Status.CanTransitionTo(to) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot move organizer from %s to %s", o.Status, to))
	}
	o.Status = to
	if to == StatusDraft {
		o.SubmittedAt = nil
	}
	o.Touch()
	return nil
}

func checkSSN(p *shared.Problems, field, value string) {
	if value != "" && !ssnLast4Pattern.MatchString(value) {
		p.Add(field, field+" must be exactly 4 digits")
	}
}
