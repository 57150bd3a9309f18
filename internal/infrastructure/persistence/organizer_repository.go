package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/organizer"
	"github.com/taxprep/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrganizerRepository implements organizer.Repository using GORM
type GormOrganizerRepository struct {
	*gormRepository[organizer.TaxOrganizer]
}

// NewGormOrganizerRepository creates a new GormOrganizerRepository
func NewGormOrganizerRepository(db *gorm.DB) *GormOrganizerRepository {
	return &GormOrganizerRepository{newGormRepository[organizer.TaxOrganizer](db, listSpec{
		name: "Tax organizer",
		searchColumns: []string{
			"reference_number", "taxpayer_first_name", "taxpayer_last_name", "taxpayer_email",
		},
		sortFields: OrganizerSortFields,
		filters: map[string]filterFunc{
			"status":        eq("status"),
			"tax_year":      eq("tax_year"),
			"filing_status": eq("filing_status"),
		},
	})}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *GormOrganizerRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Dependents", byPosition).
		Preload("IncomeSources", byPosition).
		Preload("Documents", byPosition)
}

// FindByID loads the organizer with its nested rows
func (r *GormOrganizerRepository) FindByID(ctx context.Context, id uuid.UUID) (*organizer.TaxOrganizer, error) {
	var o organizer.TaxOrganizer
	if err := r.withChildren(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, r.translate(err)
	}
	return &o, nil
}

// FindByReference loads the organizer a reference number points at
func (r *GormOrganizerRepository) FindByReference(ctx context.Context, reference string) (*organizer.TaxOrganizer, error) {
	var o organizer.TaxOrganizer
	if err := r.withChildren(ctx).First(&o, "reference_number = ?", reference).Error; err != nil {
		return nil, r.translate(err)
	}
	return &o, nil
}

// Save stores the organizer and replaces its nested rows in one transaction
func (r *GormOrganizerRepository) Save(ctx context.Context, o *organizer.TaxOrganizer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(o).Error; err != nil {
			return err
		}
		for _, child := range []any{&organizer.Dependent{}, &organizer.IncomeSource{}, &organizer.Document{}} {
			if err := tx.Where("organizer_id = ?", o.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		if len(o.Dependents) > 0 {
			if err := tx.Create(&o.Dependents).Error; err != nil {
				return err
			}
		}
		if len(o.IncomeSources) > 0 {
			if err := tx.Create(&o.IncomeSources).Error; err != nil {
				return err
			}
		}
		if len(o.Documents) > 0 {
			if err := tx.Create(&o.Documents).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return r.translate(err)
}

// Delete removes the organizer and its nested rows
func (r *GormOrganizerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&organizer.Dependent{}, &organizer.IncomeSource{}, &organizer.Document{}} {
			if err := tx.Where("organizer_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&organizer.TaxOrganizer{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.CodeNotFound, "Tax organizer not found")
		}
		return nil
	})
}
