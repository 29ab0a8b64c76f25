package services

import (
	"context"
	"testing"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memory.Store
	registry *SkillRegistry
	tags     *TagReconciler
	ledger   *ReviewLedger
	profiles *ProfileService
	projects *ProjectService
}

func newFixture(t *testing.T, listeners ...ReviewListener) *fixture {
	t.Helper()
	store := memory.New()
	registry := NewSkillRegistry()
	tags := NewTagReconciler(registry)
	ledger := NewReviewLedger(store, listeners...)
	return &fixture{
		store:    store,
		registry: registry,
		tags:     tags,
		ledger:   ledger,
		profiles: NewProfileService(store, tags),
		projects: NewProjectService(store, tags, ledger),
	}
}

func (f *fixture) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, FirstName: "Test", LastName: username, IsActive: true, Role: "user"}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) project(t *testing.T, owner *models.User, title string) *models.Project {
	t.Helper()
	view, err := f.projects.Create(context.Background(), owner.ID, &CreateProjectRequest{Title: title})
	require.NoError(t, err)
	p, err := f.store.Projects().FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	return p
}

func (f *fixture) skillCount(t *testing.T) int {
	t.Helper()
	skills, err := f.store.Skills().List(context.Background())
	require.NoError(t, err)
	return len(skills)
}

func ownerSkills(t *testing.T, store repository.Store, owner repository.Owner) []string {
	t.Helper()
	skills, err := store.Tags().Skills(context.Background(), owner)
	require.NoError(t, err)
	return SkillNames(skills)
}

func skillList(names ...string) *SkillList {
	l := SkillList(names)
	return &l
}
