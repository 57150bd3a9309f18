package handler

import (
	appref "github.com/taxprep/backend/internal/application/reference"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// NewDocumentTypeHandler serves /admin/document-types
func NewDocumentTypeHandler(svc *appref.DocumentTypeService) *CRUDHandler[appref.DocumentTypeInput, appref.DocumentTypeResponse] {
	return NewCRUDHandler[appref.DocumentTypeInput, appref.DocumentTypeResponse]("Document type", svc,
		dto.IsActiveFilter, dto.QueryFilter{Name: "is_required", Kind: dto.FilterBool})
}

// NewIncomeSourceTypeHandler serves /admin/income-source-types
func NewIncomeSourceTypeHandler(svc *appref.IncomeSourceTypeService) *CRUDHandler[appref.IncomeSourceTypeInput, appref.IncomeSourceTypeResponse] {
	return NewCRUDHandler[appref.IncomeSourceTypeInput, appref.IncomeSourceTypeResponse]("Income source type", svc, dto.IsActiveFilter)
}

// NewReturnTypeHandler serves /admin/return-types
func NewReturnTypeHandler(svc *appref.ReturnTypeService) *CRUDHandler[appref.ReturnTypeInput, appref.ReturnTypeResponse] {
	return NewCRUDHandler[appref.ReturnTypeInput, appref.ReturnTypeResponse]("Return type", svc, dto.IsActiveFilter)
}
