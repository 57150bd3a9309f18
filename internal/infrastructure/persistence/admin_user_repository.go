package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/taxprep/backend/internal/domain/identity"
	"github.com/taxprep/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements identity.AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin user by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &u, nil
}

// FindByEmail finds an admin user by normalized email
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var u identity.AdminUser
	if err := r.db.WithContext(ctx).First(&u, "email = ?", shared.NormalizeEmail(email)).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &u, nil
}

// Save creates or updates an admin user
func (r *GormAdminUserRepository) Save(ctx context.Context, u *identity.AdminUser) error {
	return translateError(r.db.WithContext(ctx).Save(u).Error, "User")
}

// Count returns the number of admin users
func (r *GormAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&identity.AdminUser{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
