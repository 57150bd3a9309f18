package reference

import "github.com/taxprep/backend/internal/domain/shared"

// DocumentTypeRepository defines persistence operations for document types
type DocumentTypeRepository interface {
	shared.SlugRepository[DocumentType]
}

// IncomeSourceTypeRepository defines persistence operations for income source types
type IncomeSourceTypeRepository interface {
	shared.SlugRepository[IncomeSourceType]
}

// ReturnTypeRepository defines persistence operations for return types
type ReturnTypeRepository interface {
	shared.SlugRepository[ReturnType]
}
