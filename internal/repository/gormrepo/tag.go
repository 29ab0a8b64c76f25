package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tagRepo struct {
	db *gorm.DB
}

func (r *tagRepo) Skills(ctx context.Context, owner repository.Owner) ([]models.Skill, error) {
	skills := make([]models.Skill, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN skill_tags ON skill_tags.skill_id = skills.id").
		Where("skill_tags.owner_type = ? AND skill_tags.owner_id = ?", owner.Type, owner.ID).
		Order("skill_tags.position ASC, skill_tags.id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, translate(err, "list owner skills")
	}
	return skills, nil
}

func (r *tagRepo) Attach(ctx context.Context, owner repository.Owner, skillID uint) error {
	db := r.db.WithContext(ctx)

	var maxPosition int
	err := db.Model(&models.SkillTag{}).
		Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error
	if err != nil {
		return translate(err, "read tag position")
	}

	tag := models.SkillTag{
		OwnerType: owner.Type,
		OwnerID:   owner.ID,
		SkillID:   skillID,
		Position:  maxPosition + 1,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}, {Name: "skill_id"}},
		DoNothing: true,
	}).Create(&tag).Error
	if isDuplicate(err) {
		return nil
	}
	return translate(err, "attach skill")
}

func (r *tagRepo) Detach(ctx context.Context, owner repository.Owner, skillID uint) error {
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ? AND skill_id = ?", owner.Type, owner.ID, skillID).
		Delete(&models.SkillTag{}).Error
	return translate(err, "detach skill")
}

func (r *tagRepo) DetachAll(ctx context.Context, owner repository.Owner) error {
	err := r.db.WithContext(ctx).
		Where("owner_type = ? AND owner_id = ?", owner.Type, owner.ID).
		Delete(&models.SkillTag{}).Error
	return translate(err, "detach all skills")
}

func (r *tagRepo) OwnerIDs(ctx context.Context, ownerType string, skillID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).Model(&models.SkillTag{}).
		Where("owner_type = ? AND skill_id = ?", ownerType, skillID).
		Order("owner_id ASC").
		Pluck("owner_id", &ids).Error
	if err != nil {
		return nil, translate(err, "list tag owners")
	}
	return ids, nil
}
