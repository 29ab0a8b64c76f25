package services

import (
	"context"
	"errors"
	"testing"

	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSkillNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"blanks dropped", []string{"", " ", "go"}, []string{"Go"}},
		{"case duplicates collapse", []string{"go", "GO", "Rust", "go "}, []string{"Go", "Rust"}},
		{"keeps first position", []string{"rust", "go", "RUST"}, []string{"Rust", "Go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeSkillNames(tt.in))
		})
	}
}

func TestReconcile_IsATrueDiff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProfileOwner(1)

	_, err := f.tags.Reconcile(ctx, f.store, owner, []string{"A", "B"})
	require.NoError(t, err)

	skills, err := f.tags.Reconcile(ctx, f.store, owner, []string{"B", "C"})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C"}, SkillNames(skills))
	assert.Equal(t, []string{"B", "C"}, ownerSkills(t, f.store, owner))
	assert.Equal(t, 3, f.skillCount(t), "A is detached but not deleted")
}

func TestReconcile_Converges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProjectOwner(5)
	names := []string{"go", "Rust", "GO", "java script"}

	first, err := f.tags.Reconcile(ctx, f.store, owner, names)
	require.NoError(t, err)
	second, err := f.tags.Reconcile(ctx, f.store, owner, names)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "Rust", "Java Script"}, SkillNames(first))
	assert.Equal(t, SkillNames(first), SkillNames(second))
	assert.Equal(t, 3, f.skillCount(t))
}

func TestReconcile_MatchesCurrentTagsCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProfileOwner(2)

	_, err := f.tags.Reconcile(ctx, f.store, owner, []string{"Python", "Go"})
	require.NoError(t, err)

	skills, err := f.tags.Reconcile(ctx, f.store, owner, []string{"PYTHON", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, SkillNames(skills))
}

func TestReconcile_AppendsNewSkillsAfterRetained(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProfileOwner(3)

	_, err := f.tags.Reconcile(ctx, f.store, owner, []string{"Go", "Rust"})
	require.NoError(t, err)

	skills, err := f.tags.Reconcile(ctx, f.store, owner, []string{"Zig", "Rust"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rust", "Zig"}, SkillNames(skills))
}

func TestReconcile_EmptyListClearsButKeepsSkills(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProfileOwner(4)

	_, err := f.tags.Reconcile(ctx, f.store, owner, []string{"Go", "Rust"})
	require.NoError(t, err)

	skills, err := f.tags.Reconcile(ctx, f.store, owner, []string{})
	require.NoError(t, err)
	assert.Empty(t, skills)
	assert.Equal(t, 2, f.skillCount(t))
}

func TestReconcile_OwnersAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.tags.Reconcile(ctx, f.store, repository.ProfileOwner(9), []string{"Go"})
	require.NoError(t, err)
	_, err = f.tags.Reconcile(ctx, f.store, repository.ProjectOwner(9), []string{"Rust"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Go"}, ownerSkills(t, f.store, repository.ProfileOwner(9)))
	assert.Equal(t, []string{"Rust"}, ownerSkills(t, f.store, repository.ProjectOwner(9)))
}

func TestReconcile_RollsBackOnCallerFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := repository.ProfileOwner(6)
	boom := errors.New("boom")

	_, err := f.tags.Reconcile(ctx, f.store, owner, []string{"Go"})
	require.NoError(t, err)

	err = f.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := f.tags.Reconcile(ctx, tx, owner, []string{"Rust", "Zig"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"Go"}, ownerSkills(t, f.store, owner))
	assert.Equal(t, 1, f.skillCount(t))
}
