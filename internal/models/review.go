package models

import "time"

// Vote is the up/down verdict carried by a review.
type Vote string

const (
	VoteUp   Vote = "Up"
	VoteDown Vote = "Down"
)

// Review is one user's verdict on someone else's project.
// Rows are hard-deleted on withdrawal so the (user, project) index admits a new submission.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_review_user_project;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProjectID uint      `gorm:"uniqueIndex:idx_review_user_project;index;not null" json:"project_id"`
	Vote      Vote      `gorm:"size:20;not null" json:"vote"`
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
