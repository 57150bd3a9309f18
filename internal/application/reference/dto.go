package reference

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/taxprep/backend/internal/domain/reference"
)

// LookupInput holds the fields every reference list shares
type LookupInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"max=120"`
	Description string `json:"description" binding:"max=2000"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// DocumentTypeInput is the body of document type create and update requests
type DocumentTypeInput struct {
	LookupInput
	IsRequired bool `json:"is_required"`
}

// IncomeSourceTypeInput is the body of income source type create and update requests
type IncomeSourceTypeInput struct {
	LookupInput
}

// ReturnTypeInput is the body of return type create and update requests
type ReturnTypeInput struct {
	LookupInput
	BasePrice decimal.Decimal `json:"base_price"`
}

// LookupResponse holds the fields every reference list shares
type LookupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DocumentTypeResponse represents a document type in API responses
type DocumentTypeResponse struct {
	LookupResponse
	IsRequired bool `json:"is_required"`
}

// IncomeSourceTypeResponse represents an income source type in API responses
type IncomeSourceTypeResponse struct {
	LookupResponse
}

// ReturnTypeResponse represents a return type in API responses
type ReturnTypeResponse struct {
	LookupResponse
	BasePrice decimal.Decimal `json:"base_price"`
}

// ToDocumentTypeResponse converts a domain DocumentType to DocumentTypeResponse
func ToDocumentTypeResponse(d *reference.DocumentType) DocumentTypeResponse {
	return DocumentTypeResponse{
		LookupResponse: LookupResponse{
			ID:          d.ID,
			Name:        d.Name,
			Slug:        d.Slug,
			Description: d.Description,
			IsActive:    d.IsActive,
			SortOrder:   d.SortOrder,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		},
		IsRequired: d.IsRequired,
	}
}

// ToIncomeSourceTypeResponse converts a domain IncomeSourceType to IncomeSourceTypeResponse
func ToIncomeSourceTypeResponse(i *reference.IncomeSourceType) IncomeSourceTypeResponse {
	return IncomeSourceTypeResponse{
		LookupResponse: LookupResponse{
			ID:          i.ID,
			Name:        i.Name,
			Slug:        i.Slug,
			Description: i.Description,
			IsActive:    i.IsActive,
			SortOrder:   i.SortOrder,
			CreatedAt:   i.CreatedAt,
			UpdatedAt:   i.UpdatedAt,
		},
	}
}

// ToReturnTypeResponse converts a domain ReturnType to ReturnTypeResponse
func ToReturnTypeResponse(r *reference.ReturnType) ReturnTypeResponse {
	return ReturnTypeResponse{
		LookupResponse: LookupResponse{
			ID:          r.ID,
			Name:        r.Name,
			Slug:        r.Slug,
			Description: r.Description,
			IsActive:    r.IsActive,
			SortOrder:   r.SortOrder,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		},
		BasePrice: r.BasePrice,
	}
}
