package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Filing statuses accepted by the organizer wizard
const (
	FilingSingle          = "single"
	FilingMarriedJoint    = "married_joint"
	FilingMarriedSeparate = "married_separate"
	FilingHeadOfHousehold = "head_of_household"
	FilingQualifyingWidow = "qualifying_widow"
)

// Person is the taxpayer or spouse step
type Person struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	Occupation  string
	SSNLast4    string
}

// Address is the mailing address step
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Dependent is one dependents row
type Dependent struct {
	FirstName    string
	LastName     string
	Relationship string
	DateOfBirth  time.Time
	MonthsInHome int
}

// IncomeSource is one income row
type IncomeSource struct {
	TypeID      string
	Description string
	Payer       string
	Amount      decimal.Decimal
}

// Document is an uploaded supporting document
type Document struct {
	TypeID   string
	FileName string
	FileURL  string
}

// Signature is the declaration step
type Signature struct {
	SignerName   string
	SignedAt     time.Time
	SignatureURL string
	Agreed       bool
}

// OrganizerDraft collects the wizard steps on the client side. Nothing is
// sent until Save or Submit.
type OrganizerDraft struct {
	TaxYear       int
	ReturnTypeID  string
	FilingStatus  string
	Taxpayer      Person
	Spouse        Person
	Address       Address
	Dependents    []Dependent
	IncomeSources []IncomeSource
	Documents     []Document
	Signature     *Signature
	Notes         string
}

// NewOrganizerDraft starts a draft for taxYear
func NewOrganizerDraft(taxYear int) *OrganizerDraft {
	return &OrganizerDraft{TaxYear: taxYear}
}

// Basics fills the first step
func (d *OrganizerDraft) Basics(returnTypeID, filingStatus string) *OrganizerDraft {
	d.ReturnTypeID = returnTypeID
	d.FilingStatus = filingStatus
	return d
}

// SetTaxpayer fills the taxpayer step
func (d *OrganizerDraft) SetTaxpayer(p Person) *OrganizerDraft {
	d.Taxpayer = p
	return d
}

// SetSpouse fills the spouse step. It is only sent for married filing statuses.
func (d *OrganizerDraft) SetSpouse(p Person) *OrganizerDraft {
	d.Spouse = p
	return d
}

// SetAddress fills the address step
func (d *OrganizerDraft) SetAddress(a Address) *OrganizerDraft {
	d.Address = a
	return d
}

// AddDependent appends a dependents row
func (d *OrganizerDraft) AddDependent(dep Dependent) *OrganizerDraft {
	d.Dependents = append(d.Dependents, dep)
	return d
}

// AddIncomeSource appends an income row
func (d *OrganizerDraft) AddIncomeSource(src IncomeSource) *OrganizerDraft {
	d.IncomeSources = append(d.IncomeSources, src)
	return d
}

// AddDocument appends a document
func (d *OrganizerDraft) AddDocument(doc Document) *OrganizerDraft {
	d.Documents = append(d.Documents, doc)
	return d
}

// Sign fills the declaration step
func (d *OrganizerDraft) Sign(s Signature) *OrganizerDraft {
	d.Signature = &s
	return d
}

// RequiresSpouse reports whether the filing status includes a spouse
func (d *OrganizerDraft) RequiresSpouse() bool {
	return d.FilingStatus == FilingMarriedJoint || d.FilingStatus == FilingMarriedSeparate
}

// OrganizerPayload is the JSON body of an organizer request
type OrganizerPayload struct {
	TaxYear       int                `json:"tax_year"`
	ReturnTypeID  *string            `json:"return_type_id,omitempty"`
	FilingStatus  string             `json:"filing_status,omitempty"`
	Taxpayer      PersonPayload      `json:"taxpayer"`
	Spouse        *PersonPayload     `json:"spouse,omitempty"`
	Address       AddressPayload     `json:"address"`
	Dependents    []DependentPayload `json:"dependents"`
	IncomeSources []IncomePayload    `json:"income_sources"`
	Documents     []DocumentPayload  `json:"documents"`
	Signature     *SignaturePayload  `json:"signature,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Submit        bool               `json:"submit"`
}

// PersonPayload is a person on the wire
type PersonPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Occupation  string `json:"occupation"`
	SSNLast4    string `json:"ssn_last4,omitempty"`
}

// AddressPayload is an address on the wire
type AddressPayload struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// DependentPayload is a dependent on the wire
type DependentPayload struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Relationship string `json:"relationship"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	MonthsInHome int    `json:"months_in_home"`
}

// IncomePayload is an income row on the wire
type IncomePayload struct {
	IncomeSourceTypeID *string         `json:"income_source_type_id,omitempty"`
	Description        string          `json:"description"`
	Payer              string          `json:"payer"`
	Amount             decimal.Decimal `json:"amount"`
}

// DocumentPayload is a document on the wire
type DocumentPayload struct {
	DocumentTypeID *string `json:"document_type_id,omitempty"`
	FileName       string  `json:"file_name"`
	FileURL        string  `json:"file_url"`
}

// SignaturePayload is the declaration on the wire
type SignaturePayload struct {
	SignerName   string     `json:"signer_name"`
	SignedAt     *time.Time `json:"signed_at,omitempty"`
	SignatureURL string     `json:"signature_url"`
	Agreed       bool       `json:"agreed"`
}

// Payload converts the draft to its request body. Strings are trimmed, rows
// with nothing filled in are dropped and the spouse is omitted unless the
// filing status is a married one.
func (d *OrganizerDraft) Payload(submit bool) OrganizerPayload {
	p := OrganizerPayload{
		TaxYear:       d.TaxYear,
		ReturnTypeID:  optional(d.ReturnTypeID),
		FilingStatus:  strings.TrimSpace(d.FilingStatus),
		Taxpayer:      personPayload(d.Taxpayer),
		Address:       addressPayload(d.Address),
		Dependents:    []DependentPayload{},
		IncomeSources: []IncomePayload{},
		Documents:     []DocumentPayload{},
		Notes:         strings.TrimSpace(d.Notes),
		Submit:        submit,
	}
	if d.RequiresSpouse() {
		spouse := personPayload(d.Spouse)
		p.Spouse = &spouse
	}

	for _, dep := range d.Dependents {
		row := DependentPayload{
			FirstName:    strings.TrimSpace(dep.FirstName),
			LastName:     strings.TrimSpace(dep.LastName),
			Relationship: strings.TrimSpace(dep.Relationship),
			DateOfBirth:  date(dep.DateOfBirth),
			MonthsInHome: dep.MonthsInHome,
		}
		if row.FirstName == "" && row.LastName == "" && row.Relationship == "" {
			continue
		}
		p.Dependents = append(p.Dependents, row)
	}

	for _, src := range d.IncomeSources {
		row := IncomePayload{
			IncomeSourceTypeID: optional(src.TypeID),
			Description:        strings.TrimSpace(src.Description),
			Payer:              strings.TrimSpace(src.Payer),
			Amount:             src.Amount,
		}
		if row.IncomeSourceTypeID == nil && row.Description == "" && row.Payer == "" && row.Amount.IsZero() {
			continue
		}
		p.IncomeSources = append(p.IncomeSources, row)
	}

	for _, doc := range d.Documents {
		fileURL := strings.TrimSpace(doc.FileURL)
		if fileURL == "" {
			continue
		}
		p.Documents = append(p.Documents, DocumentPayload{
			DocumentTypeID: optional(doc.TypeID),
			FileName:       strings.TrimSpace(doc.FileName),
			FileURL:        fileURL,
		})
	}

	if s := d.Signature; s != nil {
		sig := &SignaturePayload{
			SignerName:   strings.TrimSpace(s.SignerName),
			SignatureURL: strings.TrimSpace(s.SignatureURL),
			Agreed:       s.Agreed,
		}
		if !s.SignedAt.IsZero() {
			at := s.SignedAt.UTC()
			sig.SignedAt = &at
		}
		p.Signature = sig
	}
	return p
}

func personPayload(p Person) PersonPayload {
	return PersonPayload{
		FirstName:   strings.TrimSpace(p.FirstName),
		LastName:    strings.TrimSpace(p.LastName),
		Email:       strings.TrimSpace(p.Email),
		Phone:       strings.TrimSpace(p.Phone),
		DateOfBirth: date(p.DateOfBirth),
		Occupation:  strings.TrimSpace(p.Occupation),
		SSNLast4:    strings.TrimSpace(p.SSNLast4),
	}
}

func addressPayload(a Address) AddressPayload {
	return AddressPayload{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Receipt confirms a saved organizer
type Receipt struct {
	ID              string     `json:"id,omitempty"`
	ReferenceNumber string     `json:"reference_number"`
	TaxYear         int        `json:"tax_year"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at"`
}

// SaveOrganizer sends the draft through the public wizard endpoint without
// submitting it
func (c *Client) SaveOrganizer(ctx context.Context, d *OrganizerDraft) (*Receipt, error) {
	return c.sendOrganizer(ctx, d, false)
}

// SubmitOrganizer sends the draft and submits it in the same request
func (c *Client) SubmitOrganizer(ctx context.Context, d *OrganizerDraft) (*Receipt, error) {
	return c.sendOrganizer(ctx, d, true)
}

func (c *Client) sendOrganizer(ctx context.Context, d *OrganizerDraft, submit bool) (*Receipt, error) {
	req, err := jsonRequest(http.MethodPost, "/public/tax-organizers", d.Payload(submit))
	if err != nil {
		return nil, err
	}
	env, err := call[Receipt](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// TrackOrganizer looks up an organizer by its reference number
func (c *Client) TrackOrganizer(ctx context.Context, reference string) (*Receipt, error) {
	path := "/public/tax-organizers/" + url.PathEscape(strings.TrimSpace(reference))
	env, err := call[Receipt](ctx, c, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}
