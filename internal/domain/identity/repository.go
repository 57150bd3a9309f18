package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository defines persistence operations for admin users
type AdminUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	Save(ctx context.Context, u *AdminUser) error
	Count(ctx context.Context) (int64, error)
}
