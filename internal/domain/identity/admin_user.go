package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/taxprep/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role limits what an admin user may change
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// BcryptCost is the work factor for password hashes
var BcryptCost = 12

var (
	hasLetter = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit  = regexp.MustCompile(`[0-9]`)
)

// AdminUser is a back-office account
type AdminUser struct {
	shared.BaseEntity
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(100);not null"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Role         Role   `gorm:"type:varchar(20);not null"`
	IsActive     bool   `gorm:"not null"`
	LastLoginAt  *time.Time
	LastLoginIP  string `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}

// NewAdminUser creates an active account with a hashed password
func NewAdminUser(email, name, password string, role Role) (*AdminUser, error) {
	email = shared.NormalizeEmail(email)
	if !shared.ValidEmail(email) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	if err := shared.RequireText("Name", name, 100); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Unknown role: "+string(role))
	}
	u := &AdminUser{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Name:       strings.TrimSpace(name),
		Role:       role,
		IsActive:   true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword validates and hashes a new password
func (u *AdminUser) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin stamps a successful sign-in
func (u *AdminUser) RecordLogin(ip string, now time.Time) {
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.Touch()
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must contain at least one letter and one number")
	}
	return nil
}
