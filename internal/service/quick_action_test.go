package service_test

import (
	"context"
	"testing"

	"go-gin-event-manager/internal/mocks"
	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/service"
	apperrors "go-gin-event-manager/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickActionDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	event := &model.Event{ID: id, Name: "Meetup", Status: model.EventStatusDraft}

	setup := func(t *testing.T) (service.QuickActionDispatcher, *mocks.EventServiceMock) {
		events := mocks.NewEventServiceMock()
		t.Cleanup(func() { events.AssertExpectations(t) })
		return service.NewQuickActionDispatcher(events), events
	}

	t.Run("view", func(t *testing.T) {
		d, events := setup(t)
		events.On("Get", ctx, id).Return(event, nil).Once()

		res, err := d.Dispatch(ctx, id, service.QuickActionView, nil)
		require.NoError(t, err)
		assert.Equal(t, service.QuickActionView, res.Action)
		assert.Same(t, event, res.Event)
	})

	t.Run("edit without payload behaves like view", func(t *testing.T) {
		d, events := setup(t)
		events.On("Get", ctx, id).Return(event, nil).Once()

		_, err := d.Dispatch(ctx, id, service.QuickActionEdit, nil)
		require.NoError(t, err)
	})

	t.Run("edit with payload updates", func(t *testing.T) {
		d, events := setup(t)
		name := "Renamed"
		payload := &model.UpdateEventParams{Name: &name}
		events.On("Update", ctx, id, *payload).Return(&model.Event{ID: id, Name: name}, nil).Once()

		res, err := d.Dispatch(ctx, id, service.QuickActionEdit, payload)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", res.Event.Name)
	})

	t.Run("duplicate", func(t *testing.T) {
		d, events := setup(t)
		copied := &model.Event{ID: uuid.New(), Name: "Meetup (Copy)"}
		events.On("Duplicate", ctx, id, model.DuplicateEventParams{}).Return(copied, nil).Once()

		res, err := d.Dispatch(ctx, id, service.QuickActionDuplicate, nil)
		require.NoError(t, err)
		assert.Equal(t, copied.ID, res.Event.ID)
	})

	t.Run("cancel archives", func(t *testing.T) {
		d, events := setup(t)
		events.On("Archive", ctx, id).Return(&model.Event{ID: id, Status: model.EventStatusArchived}, nil).Once()

		res, err := d.Dispatch(ctx, id, service.QuickActionCancel, nil)
		require.NoError(t, err)
		assert.Equal(t, model.EventStatusArchived, res.Event.Status)
	})

	t.Run("unknown action", func(t *testing.T) {
		d, _ := setup(t)
		_, err := d.Dispatch(ctx, id, service.QuickAction("delete"), nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidQuickAction)
		assert.Equal(t, apperrors.KindInvalidArgument, apperrors.Kind(err))
	})

	t.Run("propagates not found", func(t *testing.T) {
		d, events := setup(t)
		events.On("Get", ctx, id).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := d.Dispatch(ctx, id, service.QuickActionView, nil)
		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}
