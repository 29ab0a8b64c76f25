package models

import "time"

// Project is a piece of published work owned by a user.
type Project struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title          string    `gorm:"size:200" json:"title"`
	Slug           *string   `gorm:"uniqueIndex;size:255" json:"slug"`
	Description    string    `gorm:"type:text" json:"description"`
	DemoLink       string    `gorm:"size:200" json:"demo_link"`
	SourceCodeLink string    `gorm:"size:200" json:"source_code_link"`
	YoutubeLink    string    `gorm:"size:200" json:"youtube_link"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }
