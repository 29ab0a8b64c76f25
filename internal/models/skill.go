package models

import "time"

// Skill is a free-text tag shared by profiles and projects.
// NameKey holds the case-folded name and carries the uniqueness constraint;
// Slug stays NULL until the row has an id.
type Skill struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	NameKey     string    `gorm:"uniqueIndex;size:200;not null" json:"-"`
	Slug        *string   `gorm:"uniqueIndex;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Skill) TableName() string { return "skills" }

// SlugValue returns the slug or "" while it is unassigned.
func (s *Skill) SlugValue() string {
	if s.Slug == nil {
		return ""
	}
	return *s.Slug
}
