package organizer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/organizer"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// PersonInput is the taxpayer or spouse step of the wizard
type PersonInput struct {
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=30"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Occupation  string `json:"occupation" binding:"max=100"`
	SSNLast4    string `json:"ssn_last4" binding:"omitempty,len=4,numeric"`
}

// AddressInput is the mailing address step
type AddressInput struct {
	Line1      string `json:"line1" binding:"max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// DependentInput is one row of the dependents step
type DependentInput struct {
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	Relationship string `json:"relationship" binding:"max=50"`
	DateOfBirth  string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	MonthsInHome int    `json:"months_in_home" binding:"min=0,max=12"`
}

// IncomeSourceInput is one row of the income step
type IncomeSourceInput struct {
	IncomeSourceTypeID *uuid.UUID      `json:"income_source_type_id"`
	Description        string          `json:"description" binding:"max=500"`
	Payer              string          `json:"payer" binding:"max=200"`
	Amount             decimal.Decimal `json:"amount"`
}

// DocumentInput is one uploaded document
type DocumentInput struct {
	DocumentTypeID *uuid.UUID `json:"document_type_id"`
	FileName       string     `json:"file_name" binding:"max=255"`
	FileURL        string     `json:"file_url" binding:"max=500"`
}

// SignatureInput is the final declaration step
type SignatureInput struct {
	SignerName   string     `json:"signer_name" binding:"max=200"`
	SignedAt     *time.Time `json:"signed_at"`
	SignatureURL string     `json:"signature_url" binding:"max=500"`
	Agreed       bool       `json:"agreed"`
}

// OrganizerInput is the full wizard payload. Every step is replaced as a whole.
type OrganizerInput struct {
	TaxYear       int                 `json:"tax_year" binding:"required"`
	ReturnTypeID  *uuid.UUID          `json:"return_type_id"`
	FilingStatus  string              `json:"filing_status" binding:"omitempty,oneof=single married_joint married_separate head_of_household qualifying_widow"`
	Taxpayer      PersonInput         `json:"taxpayer"`
	Spouse        *PersonInput        `json:"spouse"`
	Address       AddressInput        `json:"address"`
	Dependents    []DependentInput    `json:"dependents" binding:"max=20,dive"`
	IncomeSources []IncomeSourceInput `json:"income_sources" binding:"max=50,dive"`
	Documents     []DocumentInput     `json:"documents" binding:"max=50,dive"`
	Signature     *SignatureInput     `json:"signature"`
	Notes         string              `json:"notes" binding:"max=5000"`
	// Submit runs the completeness checks and submits in the same request
	Submit bool `json:"submit"`
}

// StatusInput changes an organizer's status
type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=draft submitted in_review completed"`
}

// PersonResponse is a taxpayer or spouse in API responses
type PersonResponse struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Occupation  string `json:"occupation"`
	SSNLast4    string `json:"ssn_last4"`
}

// DependentResponse is a dependent in API responses
type DependentResponse struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Relationship string    `json:"relationship"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	MonthsInHome int       `json:"months_in_home"`
}

// IncomeSourceResponse is an income row in API responses
type IncomeSourceResponse struct {
	ID                 uuid.UUID       `json:"id"`
	IncomeSourceTypeID *uuid.UUID      `json:"income_source_type_id"`
	Description        string          `json:"description"`
	Payer              string          `json:"payer"`
	Amount             decimal.Decimal `json:"amount"`
}

// DocumentResponse is a document in API responses
type DocumentResponse struct {
	ID             uuid.UUID  `json:"id"`
	DocumentTypeID *uuid.UUID `json:"document_type_id"`
	FileName       string     `json:"file_name"`
	FileURL        string     `json:"file_url"`
}

// SignatureResponse is the declaration in API responses
type SignatureResponse struct {
	SignerName   string     `json:"signer_name"`
	SignedAt     *time.Time `json:"signed_at"`
	SignatureURL string     `json:"signature_url"`
	Agreed       bool       `json:"agreed"`
}

// OrganizerResponse is the full organizer
type OrganizerResponse struct {
	ID              uuid.UUID              `json:"id"`
	ReferenceNumber string                 `json:"reference_number"`
	TaxYear         int                    `json:"tax_year"`
	ReturnTypeID    *uuid.UUID             `json:"return_type_id"`
	FilingStatus    string                 `json:"filing_status"`
	Status          string                 `json:"status"`
	Taxpayer        PersonResponse         `json:"taxpayer"`
	Spouse          *PersonResponse        `json:"spouse"`
	Address         AddressInput           `json:"address"`
	Dependents      []DependentResponse    `json:"dependents"`
	IncomeSources   []IncomeSourceResponse `json:"income_sources"`
	Documents       []DocumentResponse     `json:"documents"`
	Signature       SignatureResponse      `json:"signature"`
	TotalIncome     decimal.Decimal        `json:"total_income"`
	Notes           string                 `json:"notes"`
	SubmittedAt     *time.Time             `json:"submitted_at"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// OrganizerSummary is the list row of an organizer
type OrganizerSummary struct {
	ID              uuid.UUID  `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	TaxYear         int        `json:"tax_year"`
	FilingStatus    string     `json:"filing_status"`
	Status          string     `json:"status"`
	TaxpayerName    string     `json:"taxpayer_name"`
	TaxpayerEmail   string     `json:"taxpayer_email"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReceiptResponse is what a client sees after submitting or when checking progress
type ReceiptResponse struct {
	ReferenceNumber string     `json:"reference_number"`
	TaxYear         int        `json:"tax_year"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func toPersonResponse(p organizer.Person) PersonResponse {
	return PersonResponse{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: formatDate(p.DateOfBirth),
		Occupation:  p.Occupation,
		SSNLast4:    p.SSNLast4,
	}
}

// ToOrganizerResponse converts a domain TaxOrganizer to OrganizerResponse
func ToOrganizerResponse(o *organizer.TaxOrganizer) OrganizerResponse {
	resp := OrganizerResponse{
		ID:              o.ID,
		ReferenceNumber: o.ReferenceNumber,
		TaxYear:         o.TaxYear,
		ReturnTypeID:    o.ReturnTypeID,
		FilingStatus:    string(o.FilingStatus),
		Status:          string(o.Status),
		Taxpayer:        toPersonResponse(o.Taxpayer),
		Address: AddressInput{
			Line1:      o.Address.Line1,
			Line2:      o.Address.Line2,
			City:       o.Address.City,
			State:      o.Address.State,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		},
		Dependents:    make([]DependentResponse, len(o.Dependents)),
		IncomeSources: make([]IncomeSourceResponse, len(o.IncomeSources)),
		Documents:     make([]DocumentResponse, len(o.Documents)),
		Signature: SignatureResponse{
			SignerName:   o.Signature.SignerName,
			SignedAt:     o.Signature.SignedAt,
			SignatureURL: o.Signature.ImageURL,
			Agreed:       o.Signature.Agreed,
		},
		TotalIncome: o.TotalIncome(),
		Notes:       o.Notes,
		SubmittedAt: o.SubmittedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.HasSpouse() {
		sp := toPersonResponse(o.Spouse)
		resp.Spouse = &sp
	}
	for i, d := range o.Dependents {
		resp.Dependents[i] = DependentResponse{
			ID:           d.ID,
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			Relationship: d.Relationship,
			DateOfBirth:  formatDate(d.DateOfBirth),
			MonthsInHome: d.MonthsInHome,
		}
	}
	for i, inc := range o.IncomeSources {
		resp.IncomeSources[i] = IncomeSourceResponse{
			ID:                 inc.ID,
			IncomeSourceTypeID: inc.IncomeSourceTypeID,
			Description:        inc.Description,
			Payer:              inc.Payer,
			Amount:             inc.Amount,
		}
	}
	for i, doc := range o.Documents {
		resp.Documents[i] = DocumentResponse{
			ID:             doc.ID,
			DocumentTypeID: doc.DocumentTypeID,
			FileName:       doc.FileName,
			FileURL:        doc.FileURL,
		}
	}
	return resp
}

// ToOrganizerSummary converts a domain TaxOrganizer to OrganizerSummary
func ToOrganizerSummary(o *organizer.TaxOrganizer) OrganizerSummary {
	return OrganizerSummary{
		ID:              o.ID,
		ReferenceNumber: o.ReferenceNumber,
		TaxYear:         o.TaxYear,
		FilingStatus:    string(o.FilingStatus),
		Status:          string(o.Status),
		TaxpayerName:    joinName(o.Taxpayer.FirstName, o.Taxpayer.LastName),
		TaxpayerEmail:   o.Taxpayer.Email,
		SubmittedAt:     o.SubmittedAt,
		CreatedAt:       o.CreatedAt,
	}
}

// ToReceiptResponse converts a domain TaxOrganizer to ReceiptResponse
func ToReceiptResponse(o *organizer.TaxOrganizer) ReceiptResponse {
	return ReceiptResponse{
		ReferenceNumber: o.ReferenceNumber,
		TaxYear:         o.TaxYear,
		Status:          string(o.Status),
		SubmittedAt:     o.SubmittedAt,
	}
}
