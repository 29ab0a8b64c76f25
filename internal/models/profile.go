package models

import "time"

// Profile is the public page of a user. A user owns at most one.
type Profile struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Slug       *string   `gorm:"uniqueIndex;size:255" json:"slug"`
	ShortIntro string    `gorm:"size:100" json:"short_intro"`
	Bio        string    `gorm:"type:text" json:"bio"`
	Github     string    `gorm:"size:200" json:"github"`
	Linkedin   string    `gorm:"size:200" json:"linkedin"`
	Youtube    string    `gorm:"size:200" json:"youtube"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }
