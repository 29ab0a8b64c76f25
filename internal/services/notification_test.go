package services

import (
	"context"
	"testing"
	"time"

	"github.com/huangang/codebook/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewNotifier_EnqueuesAndPublishes(t *testing.T) {
	ctx := context.Background()
	queue := NewSyncQueue()
	hub := NewSSEHub()
	events := hub.Subscribe("test")

	f := newFixture(t, NewReviewNotifier(queue, hub))
	notifications := NewNotificationService(f.store)
	queue.SetProcessor(notifications.ProcessReviewTask)

	owner := f.user(t, "owner")
	reviewer := f.user(t, "reviewer")
	project := f.project(t, owner, "Demo")

	review, err := f.ledger.Submit(ctx, reviewer.ID, project.ID, models.VoteUp, "nice")
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, ReviewEventSubmitted, event.Type)
		assert.Equal(t, review.ID, event.ReviewID)
		assert.Equal(t, 100, event.VoteRatio)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}

	require.NoError(t, queue.Close())
	items, err := notifications.List(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, NotificationReviewSubmitted, items[0].Kind)
	assert.Equal(t, reviewer.ID, items[0].ActorID)
	assert.Contains(t, items[0].Message, "reviewer voted Up")

	assert.ErrorIs(t, notifications.MarkRead(ctx, items[0].ID, reviewer.ID), ErrNotFound)
	require.NoError(t, notifications.MarkRead(ctx, items[0].ID, owner.ID))
	unread, err := notifications.List(ctx, owner.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, f.ledger.Withdraw(ctx, reviewer.ID, project.ID))
	select {
	case event := <-events:
		assert.Equal(t, ReviewEventWithdrawn, event.Type)
		assert.Equal(t, 0, event.VoteRatio)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for withdraw event")
	}
}
