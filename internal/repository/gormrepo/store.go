// Package gormrepo implements the repository ports on top of gorm.
package gormrepo

import (
	"context"

	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is a repository.Store backed by a gorm handle, which is either the
// root connection pool or an open transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() repository.UserRepository { return &userRepo{db: s.db} }
func (s *Store) Skills() repository.SkillRepository { return &skillRepo{db: s.db} }
func (s *Store) Tags() repository.TagRepository { return &tagRepo{db: s.db} }
func (s *Store) Profiles() repository.ProfileRepository { return &profileRepo{db: s.db} }
func (s *Store) Projects() repository.ProjectRepository { return &projectRepo{db: s.db} }
func (s *Store) Reviews() repository.ReviewRepository { return &reviewRepo{db: s.db} }
func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepo{db: s.db}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// translate maps gorm errors onto the repository sentinels and adds the operation name.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrap(repository.ErrConflict, op)
	default:
		return errors.Wrap(err, op)
	}
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func page(q *gorm.DB, opts repository.ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	return q
}
