// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the access level a user holds
type Role string

const (
	RoleSales          Role = "sales"
	RoleFinance        Role = "finance"
	RoleDeveloper      Role = "developer"
	RoleInvestor       Role = "investor"
	RoleClient         Role = "client"
	RolePrimaryPartner Role = "primary_partner"
)

// validRoles lists every role an account may register with
var validRoles = map[Role]bool{
	RoleSales:          true,
	RoleFinance:        true,
	RoleDeveloper:      true,
	RoleInvestor:       true,
	RoleClient:         true,
	RolePrimaryPartner: true,
}

// IsValidRole reports whether r is a known role
func IsValidRole(r Role) bool {
	return validRoles[r]
}

// User represents the user entity
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null;size:255" json:"name"`
	Email            string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password         string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Role             Role           `gorm:"not null;size:30;index" json:"role"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	TwoFactorSecret  string         `gorm:"size:64" json:"-"`
	TwoFactorEnabled bool           `gorm:"default:false" json:"two_factor_enabled"`
	LastLoginAt      *time.Time     `json:"last_login_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	u.Email = strings.ToLower(u.Email)
	return nil
}

// IsStaff reports whether the user belongs to an internal role
func (u *User) IsStaff() bool {
	return u.Role != RoleClient
}
