package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"gorm.io/gorm"
)

type projectRepo struct {
	db *gorm.DB
}

func (r *projectRepo) Create(ctx context.Context, project *models.Project) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(project).Error, "create project")
}

func (r *projectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("User").First(&project, id).Error; err != nil {
		return nil, translate(err, "find project")
	}
	return &project, nil
}

func (r *projectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).Preload("User").Where("slug = ?", slug).First(&project).Error; err != nil {
		return nil, translate(err, "find project by slug")
	}
	return &project, nil
}

func (r *projectRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Project, error) {
	projects := make([]models.Project, 0, len(ids))
	if len(ids) == 0 {
		return projects, nil
	}
	err := r.db.WithContext(ctx).Preload("User").Where("id IN ?", ids).Order("id ASC").Find(&projects).Error
	if err != nil {
		return nil, translate(err, "find projects")
	}
	return projects, nil
}

func (r *projectRepo) ListByUser(ctx context.Context, userID uint) ([]models.Project, error) {
	projects := make([]models.Project, 0)
	err := r.db.WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&projects).Error
	if err != nil {
		return nil, translate(err, "list user projects")
	}
	return projects, nil
}

func (r *projectRepo) List(ctx context.Context, opts repository.ListOptions) ([]models.Project, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "count projects")
	}

	projects := make([]models.Project, 0)
	q := r.db.WithContext(ctx).Preload("User").Order("created_at ASC, id ASC")
	if err := page(q, opts).Find(&projects).Error; err != nil {
		return nil, 0, translate(err, "list projects")
	}
	return projects, total, nil
}

func (r *projectRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error
	return translate(err, "update project")
}

func (r *projectRepo) SetSlug(ctx context.Context, id uint, slug string) error {
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Update("slug", slug).Error
	return translate(err, "set project slug")
}

func (r *projectRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if res.Error != nil {
		return translate(res.Error, "delete project")
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
