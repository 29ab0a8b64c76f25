package services

import (
	"context"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
)

// NormalizeSkillNames drops blank tokens and collapses names that are equal
// once canonicalized, keeping the first occurrence's position.
func NormalizeSkillNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		canonical, err := CanonicalSkillName(name)
		if err != nil {
			continue
		}
		key := SkillKey(canonical)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

// TagReconciler makes an owner's skill tags equal to a requested name list.
type TagReconciler struct {
	registry *SkillRegistry
}

func NewTagReconciler(registry *SkillRegistry) *TagReconciler {
	return &TagReconciler{registry: registry}
}

// Reconcile attaches every requested skill the owner lacks, appending in
// request order, then detaches every current skill not requested. It runs in
// one transaction and returns the resulting tags in display order.
// Skills left without owners are kept.
func (t *TagReconciler) Reconcile(ctx context.Context, store repository.Store, owner repository.Owner, names []string) ([]models.Skill, error) {
	requested := NormalizeSkillNames(names)

	var result []models.Skill
	err := store.Transaction(ctx, func(tx repository.Store) error {
		current, err := tx.Tags().Skills(ctx, owner)
		if err != nil {
			return err
		}
		attached := make(map[string]struct{}, len(current))
		for _, sk := range current {
			attached[SkillKey(sk.Name)] = struct{}{}
		}

		wanted := make(map[string]struct{}, len(requested))
		for _, name := range requested {
			skill, err := t.registry.Resolve(ctx, tx, name)
			if err != nil {
				return err
			}
			key := SkillKey(skill.Name)
			wanted[key] = struct{}{}
			if _, ok := attached[key]; ok {
				continue
			}
			if err := tx.Tags().Attach(ctx, owner, skill.ID); err != nil {
				return err
			}
			attached[key] = struct{}{}
		}

		for _, sk := range current {
			if _, ok := wanted[SkillKey(sk.Name)]; ok {
				continue
			}
			if err := tx.Tags().Detach(ctx, owner, sk.ID); err != nil {
				return err
			}
		}

		result, err = tx.Tags().Skills(ctx, owner)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
