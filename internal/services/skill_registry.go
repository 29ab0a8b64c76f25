package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalSkillName trims name, collapses inner whitespace and title-cases
// every word: " java   SCRIPT " becomes "Java Script".
func CanonicalSkillName(name string) (string, error) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", newError(KindInvalidInput, "skill name must not be empty")
	}
	// Casers keep state between calls and must not be shared across goroutines.
	return cases.Title(language.Und).String(strings.Join(fields, " ")), nil
}

// SkillKey is the case-folded form that carries the uniqueness constraint.
func SkillKey(canonical string) string {
	return cases.Fold().String(canonical)
}

// EntitySlug builds the "{id}-{name}" slug used by skills, profiles and projects.
func EntitySlug(id uint, name string) string {
	return slug.Make(fmt.Sprintf("%d-%s", id, name))
}

// SkillRegistry resolves free-text names to canonical Skill rows, creating
// them on first use.
type SkillRegistry struct{}

func NewSkillRegistry() *SkillRegistry {
	return &SkillRegistry{}
}

// Resolve returns the Skill whose case-folded name equals name's, creating it
// if absent. Concurrent calls for the same new name yield a single row: the
// insert is guarded by the unique name key and a losing writer re-reads the
// winner's row. The row and its slug are written in one transaction.
func (r *SkillRegistry) Resolve(ctx context.Context, store repository.Store, name string) (*models.Skill, error) {
	canonical, err := CanonicalSkillName(name)
	if err != nil {
		return nil, err
	}
	key := SkillKey(canonical)

	existing, err := store.Skills().FindByKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var resolved *models.Skill
	err = store.Transaction(ctx, func(tx repository.Store) error {
		skill := &models.Skill{Name: canonical, NameKey: key}
		inserted, err := tx.Skills().InsertIfAbsent(ctx, skill)
		if err != nil {
			return err
		}
		if !inserted {
			logger.Debug().Str("skill", canonical).Msg("[SkillRegistry] lost create race, re-reading")
			resolved, err = tx.Skills().FindByKey(ctx, key)
			return err
		}

		s := EntitySlug(skill.ID, skill.Name)
		if err := tx.Skills().SetSlug(ctx, skill.ID, s); err != nil {
			return err
		}
		skill.Slug = &s
		resolved = skill
		logger.Info().Uint("skill_id", skill.ID).Str("skill", canonical).Msg("[SkillRegistry] skill created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
