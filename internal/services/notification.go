package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/pkg/logger"
)

const NotificationReviewSubmitted = "review_submitted"

// NotificationService stores and serves in-app notifications.
type NotificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) *NotificationService {
	return &NotificationService{store: store}
}

// ProcessReviewTask is the queue processor for TaskTypeReviewNotify.
func (s *NotificationService) ProcessReviewTask(ctx context.Context, task *ReviewTask) error {
	n := &models.Notification{
		UserID:    task.ProjectOwnerID,
		Kind:      NotificationReviewSubmitted,
		ProjectID: task.ProjectID,
		ReviewID:  task.ReviewID,
		ActorID:   task.AuthorID,
		Message:   fmt.Sprintf("%s voted %s on %q (now %d%% positive)", task.Author, task.Vote, task.ProjectTitle, task.VoteRatio),
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return err
	}
	logger.Debug().Uint("notification_id", n.ID).Uint("user_id", n.UserID).Msg("[Notification] stored")
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	err := s.store.Notifications().MarkRead(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(KindNotFound, "notification not found")
	}
	return err
}

// ReviewNotifier is the ReviewListener that fans ledger changes out to the
// task queue and the SSE hub.
type ReviewNotifier struct {
	queue TaskQueue
	hub   *SSEHub
}

func NewReviewNotifier(queue TaskQueue, hub *SSEHub) *ReviewNotifier {
	return &ReviewNotifier{queue: queue, hub: hub}
}

func (n *ReviewNotifier) ReviewSubmitted(ctx context.Context, review *models.Review, project *models.Project, ratio int) {
	task := &ReviewTask{
		ReviewID:       review.ID,
		ProjectID:      project.ID,
		ProjectTitle:   project.Title,
		ProjectOwnerID: project.UserID,
		AuthorID:       review.UserID,
		Vote:           string(review.Vote),
		VoteRatio:      ratio,
	}
	if review.User != nil {
		task.Author = review.User.Username
	}
	if n.queue != nil {
		if err := n.queue.Enqueue(task); err != nil {
			logger.Error().Err(err).Uint("review_id", review.ID).Msg("[Notification] failed to enqueue review task")
		}
	}
	if n.hub != nil {
		n.hub.Publish(ReviewEvent{
			Type:      ReviewEventSubmitted,
			ProjectID: project.ID,
			ReviewID:  review.ID,
			AuthorID:  review.UserID,
			Vote:      string(review.Vote),
			VoteRatio: ratio,
		})
	}
}

func (n *ReviewNotifier) ReviewWithdrawn(ctx context.Context, authorID uint, project *models.Project, ratio int) {
	if n.hub != nil {
		n.hub.Publish(ReviewEvent{
			Type:      ReviewEventWithdrawn,
			ProjectID: project.ID,
			AuthorID:  authorID,
			VoteRatio: ratio,
		})
	}
}
