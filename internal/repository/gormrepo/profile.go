package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"gorm.io/gorm"
)

type profileRepo struct {
	db *gorm.DB
}

func (r *profileRepo) Create(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(profile).Error, "create profile")
}

func (r *profileRepo) first(ctx context.Context, op string, query string, args ...interface{}) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Where(query, args...).First(&profile).Error; err != nil {
		return nil, translate(err, op)
	}
	return &profile, nil
}

func (r *profileRepo) FindByID(ctx context.Context, id uint) (*models.Profile, error) {
	return r.first(ctx, "find profile", "id = ?", id)
}

func (r *profileRepo) FindBySlug(ctx context.Context, slug string) (*models.Profile, error) {
	return r.first(ctx, "find profile by slug", "slug = ?", slug)
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return r.first(ctx, "find profile by user", "user_id = ?", userID)
}

func (r *profileRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).Preload("User").Where("id IN ?", ids).Order("id ASC").Find(&profiles).Error
	if err != nil {
		return nil, translate(err, "find profiles")
	}
	return profiles, nil
}

func (r *profileRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Profile, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count profiles")
	}

	profiles := make([]models.Profile, 0)
	q := r.db.WithContext(ctx).Preload("User").Order("created_at ASC, id ASC")
	if err := page(q, opts).Find(&profiles).Error; err != nil {
		return nil, 0, translate(err, "list profiles")
	}
	return profiles, total, nil
}

func (r *profileRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Updates(updates).Error
	return translate(err, "update profile")
}
