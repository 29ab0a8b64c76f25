package services

import (
	"context"
	"errors"
	"strings"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/pkg/logger"
)

// ParseVote accepts "up" or "down" in any letter case.
func ParseVote(s string) (models.Vote, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return models.VoteUp, nil
	case "down":
		return models.VoteDown, nil
	}
	return "", newError(KindInvalidInput, "vote must be Up or Down")
}

// VoteRatio is floor(100*up/total), and 0 for a project without reviews.
func VoteRatio(up, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(up * 100 / total)
}

// ReviewListener is told about committed ledger changes.
type ReviewListener interface {
	ReviewSubmitted(ctx context.Context, review *models.Review, project *models.Project, ratio int)
	ReviewWithdrawn(ctx context.Context, authorID uint, project *models.Project, ratio int)
}

// ReviewLedger owns the one-review-per-user-per-project rule.
type ReviewLedger struct {
	store     repository.Store
	listeners []ReviewListener
}

func NewReviewLedger(store repository.Store, listeners ...ReviewListener) *ReviewLedger {
	return &ReviewLedger{store: store, listeners: listeners}
}

// Submit records authorID's review of projectID. Checks run in order and the
// first failure wins: unknown project, self-review, existing review.
func (l *ReviewLedger) Submit(ctx context.Context, authorID, projectID uint, vote models.Vote, body string) (*models.Review, error) {
	if vote != models.VoteUp && vote != models.VoteDown {
		return nil, newError(KindInvalidInput, "vote must be Up or Down")
	}

	var (
		review  *models.Review
		project *models.Project
	)
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		project, err = tx.Projects().FindByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, "project not found")
			}
			return err
		}
		if project.UserID == authorID {
			return newError(KindSelfReviewForbidden, "you cannot review your own project")
		}

		if _, err := tx.Reviews().FindByUserAndProject(ctx, authorID, projectID); err == nil {
			return newError(KindDuplicateReview, "you have already reviewed this project")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		candidate := &models.Review{UserID: authorID, ProjectID: projectID, Vote: vote, Body: body}
		inserted, err := tx.Reviews().InsertIfAbsent(ctx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			// a concurrent submission won the unique (user, project) index
			if _, err := tx.Reviews().FindByUserAndProject(ctx, authorID, projectID); err == nil {
				return newError(KindDuplicateReview, "you have already reviewed this project")
			}
			return newError(KindConflict, "review changed concurrently, please retry")
		}

		review, err = tx.Reviews().FindByUserAndProject(ctx, authorID, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Uint("review_id", review.ID).
		Uint("project_id", projectID).
		Uint("author_id", authorID).
		Str("vote", string(vote)).
		Msg("[ReviewLedger] review submitted")

	if len(l.listeners) > 0 {
		ratio, err := l.VoteRatio(ctx, projectID)
		if err != nil {
			logger.Warn().Err(err).Uint("project_id", projectID).Msg("[ReviewLedger] vote ratio unavailable")
		}
		for _, ln := range l.listeners {
			ln.ReviewSubmitted(ctx, review, project, ratio)
		}
	}
	return review, nil
}

// Withdraw deletes authorID's review of projectID.
func (l *ReviewLedger) Withdraw(ctx context.Context, authorID, projectID uint) error {
	var project *models.Project
	err := l.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		project, err = tx.Projects().FindByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, "project not found")
			}
			return err
		}
		removed, err := tx.Reviews().DeleteByUserAndProject(ctx, authorID, projectID)
		if err != nil {
			return err
		}
		if !removed {
			return newError(KindNotFound, "you have not reviewed this project")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Uint("project_id", projectID).
		Uint("author_id", authorID).
		Msg("[ReviewLedger] review withdrawn")

	if len(l.listeners) > 0 {
		ratio, err := l.VoteRatio(ctx, projectID)
		if err != nil {
			logger.Warn().Err(err).Uint("project_id", projectID).Msg("[ReviewLedger] vote ratio unavailable")
		}
		for _, ln := range l.listeners {
			ln.ReviewWithdrawn(ctx, authorID, project, ratio)
		}
	}
	return nil
}

// VoteRatio returns the percentage of Up votes on projectID, rounded down.
func (l *ReviewLedger) VoteRatio(ctx context.Context, projectID uint) (int, error) {
	up, total, err := l.store.Reviews().CountVotes(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return VoteRatio(up, total), nil
}

// List returns projectID's reviews, oldest first.
func (l *ReviewLedger) List(ctx context.Context, projectID uint) ([]models.Review, error) {
	return l.store.Reviews().ListByProject(ctx, projectID)
}

// ListAll pages through every review in creation order.
func (l *ReviewLedger) ListAll(ctx context.Context, page, pageSize int) ([]models.Review, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return l.store.Reviews().List(ctx, repository.ListOptions{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
