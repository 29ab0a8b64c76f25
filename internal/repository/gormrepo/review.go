package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type reviewRepo struct {
	db *gorm.DB
}

func (r *reviewRepo) InsertIfAbsent(ctx context.Context, review *models.Review) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoNothing: true,
		}).
		Create(review)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return false, nil
		}
		return false, errors.Wrap(res.Error, "insert review")
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepo) FindByUserAndProject(ctx context.Context, userID, projectID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&review).Error
	if err != nil {
		return nil, translate(err, "find review")
	}
	return &review, nil
}

func (r *reviewRepo) DeleteByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Review{})
	if res.Error != nil {
		return false, translate(res.Error, "delete review")
	}
	return res.RowsAffected > 0, nil
}

func (r *reviewRepo) DeleteByProject(ctx context.Context, projectID uint) error {
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Review{}).Error
	return translate(err, "delete project reviews")
}

func (r *reviewRepo) ListByProject(ctx context.Context, projectID uint) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	err := r.db.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err, "list project reviews")
	}
	return reviews, nil
}

func (r *reviewRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Review, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count reviews")
	}

	reviews := make([]models.Review, 0)
	q := r.db.WithContext(ctx).Preload("User").Order("created_at ASC, id ASC")
	if err := page(q, opts).Find(&reviews).Error; err != nil {
		return nil, 0, translate(err, "list reviews")
	}
	return reviews, total, nil
}

func (r *reviewRepo) CountVotes(ctx context.Context, projectID uint) (int64, int64, error) {
	var row struct {
		Up    int64
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN vote = ? THEN 1 ELSE 0 END), 0) AS up", models.VoteUp).
		Where("project_id = ?", projectID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, translate(err, "count votes")
	}
	return row.Up, row.Total, nil
}
