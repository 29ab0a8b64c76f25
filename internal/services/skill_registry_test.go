package services

import (
	"context"
	"sync"
	"testing"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalSkillName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"python", "Python"},
		{" PYTHON ", "Python"},
		{"java script", "Java Script"},
		{"  java \t  SCRIPT ", "Java Script"},
		{"c++", "C++"},
	}
	for _, tt := range tests {
		got, err := CanonicalSkillName(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCanonicalSkillName_RejectsBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := CanonicalSkillName(in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%q", in)
	}
}

func TestEntitySlug(t *testing.T) {
	assert.Equal(t, "12-java-script", EntitySlug(12, "Java Script"))
	assert.Equal(t, "3-go", EntitySlug(3, "Go"))
}

func TestResolve_IsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.registry.Resolve(ctx, f.store, "python")
	require.NoError(t, err)
	b, err := f.registry.Resolve(ctx, f.store, "Python")
	require.NoError(t, err)
	c, err := f.registry.Resolve(ctx, f.store, " PYTHON ")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.ID, c.ID)
	assert.Equal(t, "Python", a.Name)
	assert.Equal(t, 1, f.skillCount(t))
}

func TestResolve_AssignsSlugFromID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	skill, err := f.registry.Resolve(ctx, f.store, "java script")
	require.NoError(t, err)
	require.NotNil(t, skill.Slug)
	assert.Equal(t, EntitySlug(skill.ID, "Java Script"), *skill.Slug)

	stored, err := f.store.Skills().FindBySlug(ctx, *skill.Slug)
	require.NoError(t, err)
	assert.Equal(t, skill.ID, stored.ID)
}

func TestResolve_RejectsBlank(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.Resolve(context.Background(), f.store, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, f.skillCount(t))
}

func TestResolve_ConcurrentCreatesOneSkill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 2
	ids := make([]uint, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			skill, err := f.registry.Resolve(ctx, f.store, "java script")
			assert.NoError(t, err)
			if skill != nil {
				ids[i] = skill.ID
			}
		}(i)
	}
	wg.Wait()

	skills, err := f.store.Skills().List(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	assert.Equal(t, "Java Script", skills[0].Name)
	assert.Equal(t, ids[0], ids[1])
}

// staleReadStore hides existing skills from lookups made outside a
// transaction, forcing Resolve onto the insert path after another writer won.
type staleReadStore struct {
	repository.Store
}

func (s staleReadStore) Skills() repository.SkillRepository {
	return staleSkills{s.Store.Skills()}
}

type staleSkills struct {
	repository.SkillRepository
}

func (staleSkills) FindByKey(context.Context, string) (*models.Skill, error) {
	return nil, repository.ErrNotFound
}

func TestResolve_RecoversFromLostRace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	winner, err := f.registry.Resolve(ctx, f.store, "Rust")
	require.NoError(t, err)

	loser, err := f.registry.Resolve(ctx, staleReadStore{f.store}, "rust")
	require.NoError(t, err)

	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, 1, f.skillCount(t))
}
