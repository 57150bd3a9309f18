package persistence

import (
	"github.com/taxprep/backend/internal/domain/reference"
	"gorm.io/gorm"
)

// NewGormDocumentTypeRepository creates the document type repository
func NewGormDocumentTypeRepository(db *gorm.DB) reference.DocumentTypeRepository {
	return newGormRepository[reference.DocumentType](db, listSpec{
		name:          "Document type",
		searchColumns: []string{"name", "description"},
		sortFields:    ReferenceSortFields,
		defaultOrder:  listingOrder,
		filters: map[string]filterFunc{
			"is_active":   eq("is_active"),
			"is_required": eq("is_required"),
		},
	})
}

// NewGormIncomeSourceTypeRepository creates the income source type repository
func NewGormIncomeSourceTypeRepository(db *gorm.DB) reference.IncomeSourceTypeRepository {
	return newGormRepository[reference.IncomeSourceType](db, listSpec{
		name:          "Income source type",
		searchColumns: []string{"name", "description"},
		sortFields:    ReferenceSortFields,
		defaultOrder:  listingOrder,
		filters:       listingFilters,
	})
}

// NewGormReturnTypeRepository creates the return type repository
func NewGormReturnTypeRepository(db *gorm.DB) reference.ReturnTypeRepository {
	return newGormRepository[reference.ReturnType](db, listSpec{
		name:          "Return type",
		searchColumns: []string{"name", "description"},
		sortFields:    ReturnTypeSortFields,
		defaultOrder:  listingOrder,
		filters:       listingFilters,
	})
}
