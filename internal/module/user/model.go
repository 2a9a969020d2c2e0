package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is a valid user role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserStatus represents the lifecycle status of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted"
)

// User represents a registered user.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"default:customer"`

	// Status
	Status        UserStatus `json:"status" gorm:"default:active"`
	SuspendedAt   *time.Time `json:"suspended_at,omitempty" gorm:"column:suspended_at"`
	SuspendReason *string    `json:"suspend_reason,omitempty" gorm:"column:suspend_reason"`

	// Cached provider-side customer id. Nullable until the first payment
	// intent is created for this user.
	StripeCustomerID *string `json:"-" gorm:"column:stripe_customer_id;index"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"column:deleted_at;index"` // Soft delete
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// CanLogin checks if the user is allowed to login.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true for users with the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasStripeCustomer returns true when a provider customer id is cached.
func (u *User) HasStripeCustomer() bool {
	return u.StripeCustomerID != nil && *u.StripeCustomerID != ""
}
