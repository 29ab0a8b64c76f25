// Package repository declares the persistence ports used by the services.
// Each entity gets its own interface; Store groups them and scopes a
// transaction so a whole request commits or rolls back together.
package repository

import (
	"context"
	"errors"

	"github.com/huangang/codebook/backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing row")
)

// Owner identifies the profile or project whose skill tags are being read or changed.
type Owner struct {
	Type string // models.OwnerProfile or models.OwnerProject
	ID   uint
}

func ProfileOwner(id uint) Owner { return Owner{Type: models.OwnerProfile, ID: id} }
func ProjectOwner(id uint) Owner { return Owner{Type: models.OwnerProject, ID: id} }

// ListOptions is a zero-based offset page.
type ListOptions struct {
	Offset int
	Limit  int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	TouchLastLogin(ctx context.Context, id uint) error
}

type SkillRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Skill, error)
	FindByKey(ctx context.Context, nameKey string) (*models.Skill, error)
	FindBySlug(ctx context.Context, slug string) (*models.Skill, error)
	List(ctx context.Context) ([]models.Skill, error)
	// InsertIfAbsent stores skill unless a row with the same NameKey exists.
	// It reports whether this call inserted the row; on false skill is left unchanged.
	InsertIfAbsent(ctx context.Context, skill *models.Skill) (bool, error)
	SetSlug(ctx context.Context, id uint, slug string) error
}

type TagRepository interface {
	// Skills returns the owner's skills in association order.
	Skills(ctx context.Context, owner Owner) ([]models.Skill, error)
	// Attach appends skillID to the owner's tags; attaching an existing pair is a no-op.
	Attach(ctx context.Context, owner Owner, skillID uint) error
	Detach(ctx context.Context, owner Owner, skillID uint) error
	DetachAll(ctx context.Context, owner Owner) error
	// OwnerIDs lists ids of owners of the given type tagged with skillID.
	OwnerIDs(ctx context.Context, ownerType string, skillID uint) ([]uint, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id uint) (*models.Profile, error)
	FindBySlug(ctx context.Context, slug string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Profile, error)
	List(ctx context.Context, opts ListOptions) ([]models.Profile, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Project, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Project, error)
	List(ctx context.Context, opts ListOptions) ([]models.Project, int64, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	SetSlug(ctx context.Context, id uint, slug string) error
	Delete(ctx context.Context, id uint) error
}

type ReviewRepository interface {
	// InsertIfAbsent stores review unless the (user, project) pair already has one.
	InsertIfAbsent(ctx context.Context, review *models.Review) (bool, error)
	FindByUserAndProject(ctx context.Context, userID, projectID uint) (*models.Review, error)
	// DeleteByUserAndProject reports whether a row was removed.
	DeleteByUserAndProject(ctx context.Context, userID, projectID uint) (bool, error)
	DeleteByProject(ctx context.Context, projectID uint) error
	// ListByProject returns reviews oldest first.
	ListByProject(ctx context.Context, projectID uint) ([]models.Review, error)
	List(ctx context.Context, opts ListOptions) ([]models.Review, int64, error)
	CountVotes(ctx context.Context, projectID uint) (up int64, total int64, err error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
}

// Store is the unit-of-work boundary.
type Store interface {
	Users() UserRepository
	Skills() SkillRepository
	Tags() TagRepository
	Profiles() ProfileRepository
	Projects() ProjectRepository
	Reviews() ReviewRepository
	Notifications() NotificationRepository

	// Transaction runs fn against a Store bound to one transaction.
	// A non-nil error from fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
