package memory

import (
	"context"
	"sort"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	st := r.s.st()
	for _, u := range st.users {
		if u.Username == user.Username {
			return repository.ErrConflict
		}
	}
	user.ID = st.nextID()
	now := r.s.db.now()
	user.CreatedAt, user.UpdatedAt = now, now
	st.users[user.ID] = *user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.st().users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.st().users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) FindByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	defer r.s.lock()()
	users := make([]models.User, 0, len(ids))
	for _, id := range sortedIDs(ids) {
		if u, ok := r.s.st().users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *userRepo) TouchLastLogin(_ context.Context, id uint) error {
	defer r.s.lock()()
	st := r.s.st()
	u, ok := st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := r.s.db.now()
	u.LastLogin = &now
	st.users[id] = u
	return nil
}

type skillRepo struct{ s *Store }

func (r *skillRepo) FindByID(_ context.Context, id uint) (*models.Skill, error) {
	defer r.s.lock()()
	sk, ok := r.s.st().skills[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sk, nil
}

func (r *skillRepo) FindByKey(_ context.Context, nameKey string) (*models.Skill, error) {
	defer r.s.lock()()
	for _, sk := range r.s.st().skills {
		if sk.NameKey == nameKey {
			return &sk, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *skillRepo) FindBySlug(_ context.Context, slug string) (*models.Skill, error) {
	defer r.s.lock()()
	for _, sk := range r.s.st().skills {
		if sk.Slug != nil && *sk.Slug == slug {
			return &sk, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *skillRepo) List(_ context.Context) ([]models.Skill, error) {
	defer r.s.lock()()
	skills := make([]models.Skill, 0, len(r.s.st().skills))
	for _, sk := range r.s.st().skills {
		skills = append(skills, sk)
	}
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Name != skills[j].Name {
			return skills[i].Name < skills[j].Name
		}
		return skills[i].ID < skills[j].ID
	})
	return skills, nil
}

func (r *skillRepo) InsertIfAbsent(_ context.Context, skill *models.Skill) (bool, error) {
	defer r.s.lock()()
	st := r.s.st()
	for _, sk := range st.skills {
		if sk.NameKey == skill.NameKey {
			return false, nil
		}
	}
	skill.ID = st.nextID()
	now := r.s.db.now()
	skill.CreatedAt, skill.UpdatedAt = now, now
	st.skills[skill.ID] = *skill
	return true, nil
}

func (r *skillRepo) SetSlug(_ context.Context, id uint, slug string) error {
	defer r.s.lock()()
	st := r.s.st()
	sk, ok := st.skills[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, other := range st.skills {
		if otherID != id && other.Slug != nil && *other.Slug == slug {
			return repository.ErrConflict
		}
	}
	sk.Slug = &slug
	sk.UpdatedAt = r.s.db.now()
	st.skills[id] = sk
	return nil
}

type tagRepo struct{ s *Store }

func (r *tagRepo) Skills(_ context.Context, owner repository.Owner) ([]models.Skill, error) {
	defer r.s.lock()()
	st := r.s.st()
	tags := make([]models.SkillTag, 0)
	for _, t := range st.tags {
		if t.OwnerType == owner.Type && t.OwnerID == owner.ID {
			tags = append(tags, t)
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if tags[i].Position != tags[j].Position {
			return tags[i].Position < tags[j].Position
		}
		return tags[i].ID < tags[j].ID
	})
	skills := make([]models.Skill, 0, len(tags))
	for _, t := range tags {
		if sk, ok := st.skills[t.SkillID]; ok {
			skills = append(skills, sk)
		}
	}
	return skills, nil
}

func (r *tagRepo) Attach(_ context.Context, owner repository.Owner, skillID uint) error {
	defer r.s.lock()()
	st := r.s.st()
	if _, ok := st.skills[skillID]; !ok {
		return repository.ErrNotFound
	}
	maxPosition := 0
	for _, t := range st.tags {
		if t.OwnerType != owner.Type || t.OwnerID != owner.ID {
			continue
		}
		if t.SkillID == skillID {
			return nil
		}
		if t.Position > maxPosition {
			maxPosition = t.Position
		}
	}
	st.tags = append(st.tags, models.SkillTag{
		ID:        st.nextID(),
		OwnerType: owner.Type,
		OwnerID:   owner.ID,
		SkillID:   skillID,
		Position:  maxPosition + 1,
		CreatedAt: r.s.db.now(),
	})
	return nil
}

func (r *tagRepo) Detach(_ context.Context, owner repository.Owner, skillID uint) error {
	defer r.s.lock()()
	r.s.st().removeTags(func(t models.SkillTag) bool {
		return t.OwnerType == owner.Type && t.OwnerID == owner.ID && t.SkillID == skillID
	})
	return nil
}

func (r *tagRepo) DetachAll(_ context.Context, owner repository.Owner) error {
	defer r.s.lock()()
	r.s.st().removeTags(func(t models.SkillTag) bool {
		return t.OwnerType == owner.Type && t.OwnerID == owner.ID
	})
	return nil
}

func (r *tagRepo) OwnerIDs(_ context.Context, ownerType string, skillID uint) ([]uint, error) {
	defer r.s.lock()()
	ids := make([]uint, 0)
	for _, t := range r.s.st().tags {
		if t.OwnerType == ownerType && t.SkillID == skillID {
			ids = append(ids, t.OwnerID)
		}
	}
	return sortedIDs(ids), nil
}

func (s *state) removeTags(match func(models.SkillTag) bool) {
	kept := s.tags[:0:0]
	for _, t := range s.tags {
		if !match(t) {
			kept = append(kept, t)
		}
	}
	s.tags = kept
}
