package gormrepo

import (
	"context"
	"time"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"gorm.io/gorm"
)

type notificationRepo struct {
	db *gorm.DB
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return translate(r.db.WithContext(ctx).Create(n).Error, "create notification")
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	items := make([]models.Notification, 0)
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if err := q.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, translate(err, "list notifications")
	}
	return items, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now())
	if res.Error != nil {
		return translate(res.Error, "mark notification read")
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
