package models

import "time"

// Notification is an in-app message for a user, currently raised when
// someone reviews one of their projects.
type Notification struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	Kind      string     `gorm:"size:50;not null" json:"kind"` // review_submitted
	ProjectID uint       `json:"project_id"`
	ReviewID  uint       `json:"review_id"`
	ActorID   uint       `json:"actor_id"`
	Message   string     `gorm:"type:text" json:"message"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
