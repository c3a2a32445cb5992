package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a user in the system (customer or bakery staff)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"index" json:"phone"` // links the profile to its orders
	Role      string         `gorm:"not null;default:'customer'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may access staff-only resources
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
