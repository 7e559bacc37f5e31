package models

import (
	"time"
)

// User roles
const (
	RoleAdmin       = "admin"
	RoleSchoolAdmin = "school_admin"
	RoleTrustee     = "trustee"
)

// User represents an authenticated API principal
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"default:school_admin" json:"role"`
	SchoolID  string    `json:"school_id,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
