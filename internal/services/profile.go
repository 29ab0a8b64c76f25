package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/pkg/logger"
)

type ProfileService struct {
	store repository.Store
	tags  *TagReconciler
}

func NewProfileService(store repository.Store, tags *TagReconciler) *ProfileService {
	return &ProfileService{store: store, tags: tags}
}

type CreateProfileRequest struct {
	ShortIntro string     `json:"short_intro" binding:"max=100"`
	Bio        string     `json:"bio"`
	Github     string     `json:"github" binding:"max=200"`
	Linkedin   string     `json:"linkedin" binding:"max=200"`
	Youtube    string     `json:"youtube" binding:"max=200"`
	Skills     *SkillList `json:"skills"`
}

// UpdateProfileRequest is a partial update; nil fields are left alone.
type UpdateProfileRequest struct {
	ShortIntro *string    `json:"short_intro" binding:"omitempty,max=100"`
	Bio        *string    `json:"bio"`
	Github     *string    `json:"github" binding:"omitempty,max=200"`
	Linkedin   *string    `json:"linkedin" binding:"omitempty,max=200"`
	Youtube    *string    `json:"youtube" binding:"omitempty,max=200"`
	Skills     *SkillList `json:"skills"`
}

func (r *UpdateProfileRequest) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	setIfPresent(updates, "short_intro", r.ShortIntro)
	setIfPresent(updates, "bio", r.Bio)
	setIfPresent(updates, "github", r.Github)
	setIfPresent(updates, "linkedin", r.Linkedin)
	setIfPresent(updates, "youtube", r.Youtube)
	return updates
}

func setIfPresent(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = *value
	}
}

// Create gives userID a profile. A user owns at most one.
func (s *ProfileService) Create(ctx context.Context, userID uint, req *CreateProfileRequest) (*ProfileView, error) {
	var profileID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Profiles().FindByUserID(ctx, userID); err == nil {
			return newError(KindConflict, "profile already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, "user not found")
			}
			return err
		}

		name := user.FullName()
		if name == "" {
			name = user.Username
		}
		slug := EntitySlug(user.ID, name)
		profile := &models.Profile{
			UserID:     userID,
			Slug:       &slug,
			ShortIntro: req.ShortIntro,
			Bio:        req.Bio,
			Github:     req.Github,
			Linkedin:   req.Linkedin,
			Youtube:    req.Youtube,
		}
		if err := tx.Profiles().Create(ctx, profile); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return newError(KindConflict, "profile already exists")
			}
			return err
		}
		profileID = profile.ID

		if req.Skills != nil {
			if _, err := s.tags.Reconcile(ctx, tx, repository.ProfileOwner(profile.ID), *req.Skills); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Uint("profile_id", profileID).Uint("user_id", userID).Msg("[Profile] profile created")
	return s.view(ctx, profileID)
}

// Update applies req to the profile identified by ref. Only the owner may
// update it. Skills are reconciled only when the field is present.
func (s *ProfileService) Update(ctx context.Context, principalID uint, ref string, req *UpdateProfileRequest) (*ProfileView, error) {
	var profileID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		profile, err := findProfile(ctx, tx, ref)
		if err != nil {
			return err
		}
		if profile.UserID != principalID {
			return newError(KindForbidden, "you can only edit your own profile")
		}
		profileID = profile.ID

		if err := tx.Profiles().Update(ctx, profile.ID, req.updates()); err != nil {
			return err
		}
		if req.Skills != nil {
			if _, err := s.tags.Reconcile(ctx, tx, repository.ProfileOwner(profile.ID), *req.Skills); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, profileID)
}

func (s *ProfileService) Get(ctx context.Context, ref string) (*ProfileView, error) {
	profile, err := findProfile(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.Tags().Skills(ctx, repository.ProfileOwner(profile.ID))
	if err != nil {
		return nil, err
	}
	v := NewProfileView(profile, skills)
	return &v, nil
}

// GetByUser returns the profile owned by userID.
func (s *ProfileService) GetByUser(ctx context.Context, userID uint) (*ProfileView, error) {
	profile, err := s.store.Profiles().FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "profile not found")
		}
		return nil, err
	}
	return s.view(ctx, profile.ID)
}

func (s *ProfileService) List(ctx context.Context, page, pageSize int) ([]ProfileView, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	profiles, total, err := s.store.Profiles().List(ctx, repository.ListOptions{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	views := make([]ProfileView, 0, len(profiles))
	for i := range profiles {
		skills, err := s.store.Tags().Skills(ctx, repository.ProfileOwner(profiles[i].ID))
		if err != nil {
			return nil, 0, err
		}
		views = append(views, NewProfileView(&profiles[i], skills))
	}
	return views, total, nil
}

func (s *ProfileService) Skills(ctx context.Context, ref string) ([]string, error) {
	profile, err := findProfile(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.Tags().Skills(ctx, repository.ProfileOwner(profile.ID))
	if err != nil {
		return nil, err
	}
	return SkillNames(skills), nil
}

// Projects lists the projects of the profile's owner.
func (s *ProfileService) Projects(ctx context.Context, ref string) ([]ProjectView, error) {
	profile, err := findProfile(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects().ListByUser(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	return projectSummaries(ctx, s.store, projects)
}

func (s *ProfileService) view(ctx context.Context, id uint) (*ProfileView, error) {
	return s.Get(ctx, strconv.FormatUint(uint64(id), 10))
}

// findProfile looks a profile up by numeric id, falling back to slug.
func findProfile(ctx context.Context, store repository.Store, ref string) (*models.Profile, error) {
	var (
		profile *models.Profile
		err     error
	)
	if id, ok := parseID(ref); ok {
		profile, err = store.Profiles().FindByID(ctx, id)
	} else {
		profile, err = store.Profiles().FindBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "profile not found")
		}
		return nil, err
	}
	return profile, nil
}

func parseID(ref string) (uint, bool) {
	id, err := strconv.ParseUint(ref, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
