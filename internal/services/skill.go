package services

import (
	"context"
	"errors"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
)

// SkillService serves the read side of the skill registry.
type SkillService struct {
	store repository.Store
}

func NewSkillService(store repository.Store) *SkillService {
	return &SkillService{store: store}
}

func (s *SkillService) List(ctx context.Context) ([]SkillView, error) {
	skills, err := s.store.Skills().List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]SkillView, 0, len(skills))
	for i := range skills {
		views = append(views, NewSkillView(&skills[i]))
	}
	return views, nil
}

// Get returns the skill by slug with the usernames of profiles and the
// titles of projects tagged with it.
func (s *SkillService) Get(ctx context.Context, slug string) (*SkillDetailView, error) {
	skill, err := s.store.Skills().FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "skill not found")
		}
		return nil, err
	}

	profileIDs, err := s.store.Tags().OwnerIDs(ctx, models.OwnerProfile, skill.ID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.Profiles().FindByIDs(ctx, profileIDs)
	if err != nil {
		return nil, err
	}
	projectIDs, err := s.store.Tags().OwnerIDs(ctx, models.OwnerProject, skill.ID)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.Projects().FindByIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	view := &SkillDetailView{
		SkillView: NewSkillView(skill),
		Profiles:  make([]string, 0, len(profiles)),
		Projects:  make([]string, 0, len(projects)),
	}
	for _, p := range profiles {
		if p.User != nil {
			view.Profiles = append(view.Profiles, p.User.Username)
		}
	}
	for _, p := range projects {
		view.Projects = append(view.Projects, p.Title)
	}
	return view, nil
}
