package memory

import (
	"context"
	"sort"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
)

type profileRepo struct{ s *Store }

func (r *profileRepo) Create(_ context.Context, profile *models.Profile) error {
	defer r.s.lock()()
	st := r.s.st()
	for _, p := range st.profiles {
		if p.UserID == profile.UserID {
			return repository.ErrConflict
		}
		if profile.Slug != nil && p.Slug != nil && *p.Slug == *profile.Slug {
			return repository.ErrConflict
		}
	}
	profile.ID = st.nextID()
	now := r.s.db.now()
	profile.CreatedAt, profile.UpdatedAt = now, now
	stored := *profile
	stored.User = nil
	st.profiles[profile.ID] = stored
	return nil
}

func (r *profileRepo) withUser(p models.Profile) models.Profile {
	p.User = r.s.st().userRef(p.UserID)
	return p
}

func (r *profileRepo) find(match func(models.Profile) bool) (*models.Profile, error) {
	for _, p := range r.s.st().profiles {
		if match(p) {
			p = r.withUser(p)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *profileRepo) FindByID(_ context.Context, id uint) (*models.Profile, error) {
	defer r.s.lock()()
	return r.find(func(p models.Profile) bool { return p.ID == id })
}

func (r *profileRepo) FindBySlug(_ context.Context, slug string) (*models.Profile, error) {
	defer r.s.lock()()
	return r.find(func(p models.Profile) bool { return p.Slug != nil && *p.Slug == slug })
}

func (r *profileRepo) FindByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	defer r.s.lock()()
	return r.find(func(p models.Profile) bool { return p.UserID == userID })
}

func (r *profileRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Profile, error) {
	defer r.s.lock()()
	profiles := make([]models.Profile, 0, len(ids))
	for _, id := range sortedIDs(ids) {
		if p, ok := r.s.st().profiles[id]; ok {
			profiles = append(profiles, r.withUser(p))
		}
	}
	return profiles, nil
}

func (r *profileRepo) List(_ context.Context, opts repository.ListOptions) ([]models.Profile, int64, error) {
	defer r.s.lock()()
	profiles := make([]models.Profile, 0, len(r.s.st().profiles))
	for _, p := range r.s.st().profiles {
		profiles = append(profiles, r.withUser(p))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return byCreated(profiles[i].CreatedAt, profiles[j].CreatedAt, profiles[i].ID, profiles[j].ID)
	})
	return paginate(profiles, opts), int64(len(profiles)), nil
}

func (r *profileRepo) Update(_ context.Context, id uint, updates map[string]interface{}) error {
	defer r.s.lock()()
	st := r.s.st()
	p, ok := st.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	for column, value := range updates {
		s, _ := value.(string)
		switch column {
		case "short_intro":
			p.ShortIntro = s
		case "bio":
			p.Bio = s
		case "github":
			p.Github = s
		case "linkedin":
			p.Linkedin = s
		case "youtube":
			p.Youtube = s
		}
	}
	p.UpdatedAt = r.s.db.now()
	st.profiles[id] = p
	return nil
}

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, project *models.Project) error {
	defer r.s.lock()()
	st := r.s.st()
	if project.Slug != nil {
		for _, p := range st.projects {
			if p.Slug != nil && *p.Slug == *project.Slug {
				return repository.ErrConflict
			}
		}
	}
	project.ID = st.nextID()
	now := r.s.db.now()
	project.CreatedAt, project.UpdatedAt = now, now
	stored := *project
	stored.User = nil
	st.projects[project.ID] = stored
	return nil
}

func (r *projectRepo) withUser(p models.Project) models.Project {
	p.User = r.s.st().userRef(p.UserID)
	return p
}

func (r *projectRepo) FindByID(_ context.Context, id uint) (*models.Project, error) {
	defer r.s.lock()()
	p, ok := r.s.st().projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = r.withUser(p)
	return &p, nil
}

func (r *projectRepo) FindBySlug(_ context.Context, slug string) (*models.Project, error) {
	defer r.s.lock()()
	for _, p := range r.s.st().projects {
		if p.Slug != nil && *p.Slug == slug {
			p = r.withUser(p)
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *projectRepo) FindByIDs(_ context.Context, ids []uint) ([]models.Project, error) {
	defer r.s.lock()()
	projects := make([]models.Project, 0, len(ids))
	for _, id := range sortedIDs(ids) {
		if p, ok := r.s.st().projects[id]; ok {
			projects = append(projects, r.withUser(p))
		}
	}
	return projects, nil
}

func (r *projectRepo) sorted(match func(models.Project) bool) []models.Project {
	projects := make([]models.Project, 0)
	for _, p := range r.s.st().projects {
		if match(p) {
			projects = append(projects, r.withUser(p))
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return byCreated(projects[i].CreatedAt, projects[j].CreatedAt, projects[i].ID, projects[j].ID)
	})
	return projects
}

func (r *projectRepo) ListByUser(_ context.Context, userID uint) ([]models.Project, error) {
	defer r.s.lock()()
	return r.sorted(func(p models.Project) bool { return p.UserID == userID }), nil
}

func (r *projectRepo) List(_ context.Context, opts repository.ListOptions) ([]models.Project, int64, error) {
	defer r.s.lock()()
	projects := r.sorted(func(models.Project) bool { return true })
	return paginate(projects, opts), int64(len(projects)), nil
}

func (r *projectRepo) Update(_ context.Context, id uint, updates map[string]interface{}) error {
	defer r.s.lock()()
	st := r.s.st()
	p, ok := st.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	for column, value := range updates {
		s, _ := value.(string)
		switch column {
		case "title":
			p.Title = s
		case "description":
			p.Description = s
		case "demo_link":
			p.DemoLink = s
		case "source_code_link":
			p.SourceCodeLink = s
		case "youtube_link":
			p.YoutubeLink = s
		}
	}
	p.UpdatedAt = r.s.db.now()
	st.projects[id] = p
	return nil
}

func (r *projectRepo) SetSlug(_ context.Context, id uint, slug string) error {
	defer r.s.lock()()
	st := r.s.st()
	p, ok := st.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, other := range st.projects {
		if otherID != id && other.Slug != nil && *other.Slug == slug {
			return repository.ErrConflict
		}
	}
	p.Slug = &slug
	st.projects[id] = p
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	st := r.s.st()
	if _, ok := st.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(st.projects, id)
	return nil
}

type reviewRepo struct{ s *Store }

func (r *reviewRepo) withUser(rv models.Review) models.Review {
	rv.User = r.s.st().userRef(rv.UserID)
	return rv
}

func (r *reviewRepo) InsertIfAbsent(_ context.Context, review *models.Review) (bool, error) {
	defer r.s.lock()()
	st := r.s.st()
	for _, rv := range st.reviews {
		if rv.UserID == review.UserID && rv.ProjectID == review.ProjectID {
			return false, nil
		}
	}
	review.ID = st.nextID()
	now := r.s.db.now()
	review.CreatedAt, review.UpdatedAt = now, now
	stored := *review
	stored.User = nil
	st.reviews[review.ID] = stored
	return true, nil
}

func (r *reviewRepo) FindByUserAndProject(_ context.Context, userID, projectID uint) (*models.Review, error) {
	defer r.s.lock()()
	for _, rv := range r.s.st().reviews {
		if rv.UserID == userID && rv.ProjectID == projectID {
			rv = r.withUser(rv)
			return &rv, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reviewRepo) DeleteByUserAndProject(_ context.Context, userID, projectID uint) (bool, error) {
	defer r.s.lock()()
	st := r.s.st()
	for id, rv := range st.reviews {
		if rv.UserID == userID && rv.ProjectID == projectID {
			delete(st.reviews, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *reviewRepo) DeleteByProject(_ context.Context, projectID uint) error {
	defer r.s.lock()()
	st := r.s.st()
	for id, rv := range st.reviews {
		if rv.ProjectID == projectID {
			delete(st.reviews, id)
		}
	}
	return nil
}

func (r *reviewRepo) sorted(match func(models.Review) bool) []models.Review {
	reviews := make([]models.Review, 0)
	for _, rv := range r.s.st().reviews {
		if match(rv) {
			reviews = append(reviews, r.withUser(rv))
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return byCreated(reviews[i].CreatedAt, reviews[j].CreatedAt, reviews[i].ID, reviews[j].ID)
	})
	return reviews
}

func (r *reviewRepo) ListByProject(_ context.Context, projectID uint) ([]models.Review, error) {
	defer r.s.lock()()
	return r.sorted(func(rv models.Review) bool { return rv.ProjectID == projectID }), nil
}

func (r *reviewRepo) List(_ context.Context, opts repository.ListOptions) ([]models.Review, int64, error) {
	defer r.s.lock()()
	reviews := r.sorted(func(models.Review) bool { return true })
	return paginate(reviews, opts), int64(len(reviews)), nil
}

func (r *reviewRepo) CountVotes(_ context.Context, projectID uint) (int64, int64, error) {
	defer r.s.lock()()
	var up, total int64
	for _, rv := range r.s.st().reviews {
		if rv.ProjectID != projectID {
			continue
		}
		total++
		if rv.Vote == models.VoteUp {
			up++
		}
	}
	return up, total, nil
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	defer r.s.lock()()
	st := r.s.st()
	n.ID = st.nextID()
	n.CreatedAt = r.s.db.now()
	st.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	defer r.s.lock()()
	items := make([]models.Notification, 0)
	for _, n := range r.s.st().notifications {
		if n.UserID != userID || (unreadOnly && n.ReadAt != nil) {
			continue
		}
		items = append(items, n)
	}
	sort.Slice(items, func(i, j int) bool {
		return byCreated(items[j].CreatedAt, items[i].CreatedAt, items[j].ID, items[i].ID)
	})
	return items, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, userID uint) error {
	defer r.s.lock()()
	st := r.s.st()
	n, ok := st.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	now := r.s.db.now()
	n.ReadAt = &now
	st.notifications[id] = n
	return nil
}
