package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type skillRepo struct {
	db *gorm.DB
}

func (r *skillRepo) FindByID(ctx context.Context, id uint) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return nil, translate(err, "find skill")
	}
	return &skill, nil
}

func (r *skillRepo) FindByKey(ctx context.Context, nameKey string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Where("name_key = ?", nameKey).First(&skill).Error; err != nil {
		return nil, translate(err, "find skill by key")
	}
	return &skill, nil
}

func (r *skillRepo) FindBySlug(ctx context.Context, slug string) (*models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&skill).Error; err != nil {
		return nil, translate(err, "find skill by slug")
	}
	return &skill, nil
}

func (r *skillRepo) List(ctx context.Context) ([]models.Skill, error) {
	skills := make([]models.Skill, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, translate(err, "list skills")
	}
	return skills, nil
}

// InsertIfAbsent relies on the unique name_key index: a concurrent winner
// turns this insert into a no-op instead of an aborted transaction.
func (r *skillRepo) InsertIfAbsent(ctx context.Context, skill *models.Skill) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_key"}},
			DoNothing: true,
		}).
		Create(skill)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return false, nil
		}
		return false, errors.Wrap(res.Error, "insert skill")
	}
	return res.RowsAffected > 0, nil
}

func (r *skillRepo) SetSlug(ctx context.Context, id uint, slug string) error {
	err := r.db.WithContext(ctx).Model(&models.Skill{}).Where("id = ?", id).Update("slug", slug).Error
	return translate(err, "set skill slug")
}
