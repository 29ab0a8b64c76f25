package models

import "time"

// Tag owner kinds stored in SkillTag.OwnerType.
const (
	OwnerProfile = "profile"
	OwnerProject = "project"
)

// SkillTag associates a skill with a profile or a project.
// Position keeps insertion order for display.
type SkillTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerType string    `gorm:"uniqueIndex:idx_skill_tag_owner_skill;size:20;not null" json:"owner_type"`
	OwnerID   uint      `gorm:"uniqueIndex:idx_skill_tag_owner_skill;not null" json:"owner_id"`
	SkillID   uint      `gorm:"uniqueIndex:idx_skill_tag_owner_skill;index;not null" json:"skill_id"`
	Skill     *Skill    `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (SkillTag) TableName() string { return "skill_tags" }
