// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Roles assignable to store staff
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User represents a staff account. New registrations start unapproved and
// cannot log in until an admin approves them.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email       *string        `gorm:"uniqueIndex;size:255" json:"email,omitempty"` // NULL when absent so email-less accounts never collide
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	Role        string         `gorm:"size:20;default:'cashier'" json:"role"`
	IsApproved  bool           `gorm:"default:false" json:"is_approved"`
	ApprovedBy  *uint          `json:"approved_by"`
	ApprovedAt  *time.Time     `json:"approved_at"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook to normalize identifiers before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*u.Email))
		if email == "" {
			u.Email = nil
		} else {
			u.Email = &email
		}
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the account is allowed to authenticate
func (u *User) CanLogin() bool {
	return u.IsApproved
}
