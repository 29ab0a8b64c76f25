package services

import (
	"context"
	"errors"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/pkg/logger"
)

type ProjectService struct {
	store  repository.Store
	tags   *TagReconciler
	ledger *ReviewLedger
}

func NewProjectService(store repository.Store, tags *TagReconciler, ledger *ReviewLedger) *ProjectService {
	return &ProjectService{store: store, tags: tags, ledger: ledger}
}

type CreateProjectRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	Description    string     `json:"description"`
	DemoLink       string     `json:"demo_link" binding:"max=200"`
	SourceCodeLink string     `json:"source_code_link" binding:"max=200"`
	YoutubeLink    string     `json:"youtube_link" binding:"max=200"`
	Skills         *SkillList `json:"skills"`
}

// UpdateProjectRequest is a partial update; nil fields are left alone.
type UpdateProjectRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string    `json:"description"`
	DemoLink       *string    `json:"demo_link" binding:"omitempty,max=200"`
	SourceCodeLink *string    `json:"source_code_link" binding:"omitempty,max=200"`
	YoutubeLink    *string    `json:"youtube_link" binding:"omitempty,max=200"`
	Skills         *SkillList `json:"skills"`
}

func (r *UpdateProjectRequest) updates() map[string]interface{} {
	updates := make(map[string]interface{})
	setIfPresent(updates, "title", r.Title)
	setIfPresent(updates, "description", r.Description)
	setIfPresent(updates, "demo_link", r.DemoLink)
	setIfPresent(updates, "source_code_link", r.SourceCodeLink)
	setIfPresent(updates, "youtube_link", r.YoutubeLink)
	return updates
}

// Create stores a project for userID. The slug embeds the new id, so the row
// is inserted first and the slug written in a second step of the same
// transaction.
func (s *ProjectService) Create(ctx context.Context, userID uint, req *CreateProjectRequest) (*ProjectView, error) {
	var projectID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project := &models.Project{
			UserID:         userID,
			Title:          req.Title,
			Description:    req.Description,
			DemoLink:       req.DemoLink,
			SourceCodeLink: req.SourceCodeLink,
			YoutubeLink:    req.YoutubeLink,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}
		if err := tx.Projects().SetSlug(ctx, project.ID, EntitySlug(project.ID, project.Title)); err != nil {
			return err
		}
		projectID = project.ID

		if req.Skills != nil {
			if _, err := s.tags.Reconcile(ctx, tx, repository.ProjectOwner(project.ID), *req.Skills); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Uint("project_id", projectID).Uint("user_id", userID).Msg("[Project] project created")
	return s.detail(ctx, projectID)
}

// Update applies req to the project identified by ref; owner only. The slug
// is kept when the title changes so existing links stay valid.
func (s *ProjectService) Update(ctx context.Context, principalID uint, ref string, req *UpdateProjectRequest) (*ProjectView, error) {
	var projectID uint
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project, err := findProject(ctx, tx, ref)
		if err != nil {
			return err
		}
		if project.UserID != principalID {
			return newError(KindForbidden, "you can only edit your own project")
		}
		projectID = project.ID

		if err := tx.Projects().Update(ctx, project.ID, req.updates()); err != nil {
			return err
		}
		if req.Skills != nil {
			if _, err := s.tags.Reconcile(ctx, tx, repository.ProjectOwner(project.ID), *req.Skills); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, projectID)
}

// Delete removes the project with its reviews and tags. Skills survive.
func (s *ProjectService) Delete(ctx context.Context, principalID uint, ref string) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		project, err := findProject(ctx, tx, ref)
		if err != nil {
			return err
		}
		if project.UserID != principalID {
			return newError(KindForbidden, "you can only delete your own project")
		}
		if err := tx.Reviews().DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		if err := tx.Tags().DetachAll(ctx, repository.ProjectOwner(project.ID)); err != nil {
			return err
		}
		return tx.Projects().Delete(ctx, project.ID)
	})
	if err != nil {
		return err
	}
	logger.Info().Str("project", ref).Uint("user_id", principalID).Msg("[Project] project deleted")
	return nil
}

// Find resolves a numeric id or slug to a project.
func (s *ProjectService) Find(ctx context.Context, ref string) (*models.Project, error) {
	return findProject(ctx, s.store, ref)
}

// Get returns the project with its skills, vote ratio and reviews.
func (s *ProjectService) Get(ctx context.Context, ref string) (*ProjectView, error) {
	project, err := findProject(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, project.ID)
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int) ([]ProjectView, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	projects, total, err := s.store.Projects().List(ctx, repository.ListOptions{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	views, err := projectSummaries(ctx, s.store, projects)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *ProjectService) Skills(ctx context.Context, ref string) ([]string, error) {
	project, err := findProject(ctx, s.store, ref)
	if err != nil {
		return nil, err
	}
	skills, err := s.store.Tags().Skills(ctx, repository.ProjectOwner(project.ID))
	if err != nil {
		return nil, err
	}
	return SkillNames(skills), nil
}

func (s *ProjectService) detail(ctx context.Context, id uint) (*ProjectView, error) {
	project, err := s.store.Projects().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "project not found")
		}
		return nil, err
	}
	skills, err := s.store.Tags().Skills(ctx, repository.ProjectOwner(id))
	if err != nil {
		return nil, err
	}
	ratio, err := s.ledger.VoteRatio(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.ledger.List(ctx, id)
	if err != nil {
		return nil, err
	}

	v := NewProjectView(project, skills, ratio)
	v.Reviews = NewReviewViews(reviews)
	return &v, nil
}

// projectSummaries builds list views: skills and vote ratio, no reviews.
func projectSummaries(ctx context.Context, store repository.Store, projects []models.Project) ([]ProjectView, error) {
	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		id := projects[i].ID
		skills, err := store.Tags().Skills(ctx, repository.ProjectOwner(id))
		if err != nil {
			return nil, err
		}
		up, total, err := store.Reviews().CountVotes(ctx, id)
		if err != nil {
			return nil, err
		}
		views = append(views, NewProjectView(&projects[i], skills, VoteRatio(up, total)))
	}
	return views, nil
}

func findProject(ctx context.Context, store repository.Store, ref string) (*models.Project, error) {
	var (
		project *models.Project
		err     error
	)
	if id, ok := parseID(ref); ok {
		project, err = store.Projects().FindByID(ctx, id)
	} else {
		project, err = store.Projects().FindBySlug(ctx, ref)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "project not found")
		}
		return nil, err
	}
	return project, nil
}
