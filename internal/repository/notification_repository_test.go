package repository_test

import (
	"context"
	"testing"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/repository"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationRepository(t *testing.T) (repository.NotificationRepository, repository.EventRepository) {
	t.Helper()
	events, pool := setupEventRepository(t)
	return repository.NewNotificationRepository(pool), events
}

func createTestNotification(t *testing.T, repo repository.NotificationRepository, eventID uuid.UUID, title string) *model.Notification {
	t.Helper()
	n, err := repo.Create(context.Background(), model.CreateNotificationParams{
		EventID: eventID,
		Title:   title,
		Type:    model.NotificationTypeInfo,
	})
	require.NoError(t, err)
	return n
}

func TestNotificationRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_IncrementsEventCount", func(t *testing.T) {
		repo, events := setupNotificationRepository(t)
		event := createTestEvent(t, events, "Launch")

		msg := "hello"
		n, err := repo.Create(ctx, model.CreateNotificationParams{
			EventID: event.ID, Title: "Event Created", Message: &msg, Type: model.NotificationTypeSuccess,
		})

		require.NoError(t, err)
		assert.Equal(t, event.ID, n.EventID)
		assert.False(t, n.IsRead)
		assert.Equal(t, model.NotificationTypeSuccess, n.Type)
		require.NotNil(t, n.Message)
		assert.Equal(t, "hello", *n.Message)

		reloaded, err := events.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.NotificationCount)
	})

	t.Run("EventNotFound", func(t *testing.T) {
		repo, _ := setupNotificationRepository(t)

		_, err := repo.Create(ctx, model.CreateNotificationParams{
			EventID: uuid.New(), Title: "Orphan", Type: model.NotificationTypeInfo,
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestNotificationRepository_FindByEventID(t *testing.T) {
	ctx := context.Background()
	repo, events := setupNotificationRepository(t)
	event := createTestEvent(t, events, "Launch")
	other := createTestEvent(t, events, "Other")

	first := createTestNotification(t, repo, event.ID, "first")
	second := createTestNotification(t, repo, event.ID, "second")
	createTestNotification(t, repo, other.ID, "elsewhere")

	_, err := repo.Update(ctx, first.ID, model.UpdateNotificationParams{IsRead: boolPtr(true)})
	require.NoError(t, err)

	all, err := repo.FindByEventID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	unread, err := repo.FindUnreadByEventID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	count, err := repo.CountUnreadByEventID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNotificationRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("MarkRead", func(t *testing.T) {
		repo, events := setupNotificationRepository(t)
		event := createTestEvent(t, events, "Launch")
		n := createTestNotification(t, repo, event.ID, "t")

		updated, err := repo.Update(ctx, n.ID, model.UpdateNotificationParams{IsRead: boolPtr(true)})

		require.NoError(t, err)
		assert.True(t, updated.IsRead)
	})

	t.Run("EmptyParams", func(t *testing.T) {
		repo, _ := setupNotificationRepository(t)

		_, err := repo.Update(ctx, uuid.New(), model.UpdateNotificationParams{})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, _ := setupNotificationRepository(t)

		_, err := repo.Update(ctx, uuid.New(), model.UpdateNotificationParams{IsRead: boolPtr(true)})

		assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
	})
}

func TestNotificationRepository_MarkAllReadForEvent(t *testing.T) {
	ctx := context.Background()
	repo, events := setupNotificationRepository(t)
	event := createTestEvent(t, events, "Launch")
	a := createTestNotification(t, repo, event.ID, "a")
	b := createTestNotification(t, repo, event.ID, "b")

	updated, err := repo.MarkAllReadForEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, a.ID, updated[0].ID)
	assert.Equal(t, b.ID, updated[1].ID)
	assert.True(t, updated[0].IsRead)

	again, err := repo.MarkAllReadForEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestNotificationRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, events := setupNotificationRepository(t)
	event := createTestEvent(t, events, "Launch")
	n := createTestNotification(t, repo, event.ID, "t")

	require.NoError(t, repo.Delete(ctx, n.ID))

	reloaded, err := events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.NotificationCount)
	assert.ErrorIs(t, repo.Delete(ctx, n.ID), apperrors.ErrNotificationNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func boolPtr(b bool) *bool { return &b }
