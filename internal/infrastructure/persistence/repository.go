package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// filterFunc applies one shared.Filter key to a query
type filterFunc func(q *gorm.DB, value any) *gorm.DB

// eq filters on column = value
func eq(column string) filterFunc {
	return func(q *gorm.DB, value any) *gorm.DB {
		return q.Where(column+" = ?", value)
	}
}

// listSpec describes how a resource is searched, filtered and ordered
type listSpec struct {
	name          string // used in error messages, e.g. "Blog"
	searchColumns []string
	sortFields    map[string]bool
	defaultOrder  string
	filters       map[string]filterFunc
	preload       []string
}

// gormRepository implements shared.Repository for entities embedding shared.BaseEntity
type gormRepository[T any] struct {
	db   *gorm.DB
	spec listSpec
}

func newGormRepository[T any](db *gorm.DB, spec listSpec) *gormRepository[T] {
	if spec.defaultOrder == "" {
		spec.defaultOrder = "created_at DESC"
	}
	return &gormRepository[T]{db: db, spec: spec}
}

func (r *gormRepository[T]) withPreload(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.spec.preload {
		q = q.Preload(p)
	}
	return q
}

// FindByID finds an entity by its ID
func (r *gormRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.withPreload(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// FindBySlug finds an entity by its slug
func (r *gormRepository[T]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	var entity T
	if err := r.withPreload(ctx).First(&entity, "slug = ?", slug).Error; err != nil {
		return nil, r.translate(err)
	}
	return &entity, nil
}

// ExistsBySlug reports whether a row other than excludeID uses slug
func (r *gormRepository[T]) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(new(T)).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds all entities matching the filter
func (r *gormRepository[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	filter.Normalize()
	var entities []T
	q := r.applyFilter(r.withPreload(ctx).Model(new(T)), filter)
	q = r.applyOrder(q, filter).Offset(filter.Offset()).Limit(filter.Limit)
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count counts entities matching the filter, ignoring pagination
func (r *gormRepository[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an entity. Associations are never written through.
func (r *gormRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error)
}

// Delete deletes an entity by ID
func (r *gormRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return r.translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return r.notFound()
	}
	return nil
}

func (r *gormRepository[T]) applyFilter(q *gorm.DB, filter shared.Filter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" && len(r.spec.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(s) + "%"
		conds := make([]string, len(r.spec.searchColumns))
		args := make([]any, len(r.spec.searchColumns))
		for i, col := range r.spec.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	for key, value := range filter.Filters {
		if value == nil {
			continue
		}
		if fn, ok := r.spec.filters[key]; ok {
			q = fn(q, value)
		}
	}
	return q
}

func (r *gormRepository[T]) applyOrder(q *gorm.DB, filter shared.Filter) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, r.spec.sortFields, "")
	if field == "" {
		return q.Order(r.spec.defaultOrder)
	}
	// id breaks ties so pages never overlap
	return q.Order(field + " " + ValidateSortOrder(filter.OrderDir)).Order("id ASC")
}

func (r *gormRepository[T]) notFound() error {
	return shared.NewDomainError(shared.CodeNotFound, r.spec.name+" not found")
}

// translate maps gorm errors to domain errors
func (r *gormRepository[T]) translate(err error) error {
	return translateError(err, r.spec.name)
}

func translateError(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewDomainError(shared.CodeNotFound, name+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.CodeAlreadyExists, name+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeInvalidState, name+" references or is referenced by another record")
	}
	return err
}
