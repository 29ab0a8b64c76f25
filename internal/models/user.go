package models

import (
	"strings"
	"time"
)

// User is the authenticated principal that owns a profile, projects and reviews.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Password  string     `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Email     string     `gorm:"size:255" json:"email"`
	FirstName string     `gorm:"size:150" json:"first_name"`
	LastName  string     `gorm:"size:150" json:"last_name"`
	Role      string     `gorm:"size:50;default:user" json:"role"` // admin, user
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// FullName joins first and last name, skipping empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
