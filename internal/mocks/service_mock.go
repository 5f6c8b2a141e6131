package mocks

import (
	"context"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) List(ctx context.Context, filter model.EventFilter) (*model.Page[model.Event], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.Event]), args.Error(1)
}

func (m *EventServiceMock) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return event(m.Called(ctx, id))
}

func (m *EventServiceMock) FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	return event(m.Called(ctx, params))
}

func (m *EventServiceMock) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	return event(m.Called(ctx, id, params))
}

func (m *EventServiceMock) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventServiceMock) Publish(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return event(m.Called(ctx, id))
}

func (m *EventServiceMock) Archive(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	return event(m.Called(ctx, id))
}

func (m *EventServiceMock) Duplicate(ctx context.Context, id uuid.UUID, params model.DuplicateEventParams) (*model.Event, error) {
	return event(m.Called(ctx, id, params))
}

func (m *EventServiceMock) Cancel(ctx context.Context, id uuid.UUID, params model.CancelEventParams) (*model.Event, error) {
	return event(m.Called(ctx, id, params))
}

func event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

func NewNotificationServiceMock() *NotificationServiceMock {
	return &NotificationServiceMock{}
}

func (m *NotificationServiceMock) CreateForEvent(ctx context.Context, eventID uuid.UUID, title string, message *string, typ model.NotificationType) (*model.Notification, error) {
	return notification(m.Called(ctx, eventID, title, message, typ))
}

func (m *NotificationServiceMock) CreateLifecycleNotification(ctx context.Context, eventID uuid.UUID, eventName string, action model.LifecycleAction) (*model.Notification, error) {
	return notification(m.Called(ctx, eventID, eventName, action))
}

func (m *NotificationServiceMock) CreateCancellationNotification(ctx context.Context, eventID uuid.UUID, eventName, reason string) (*model.Notification, error) {
	return notification(m.Called(ctx, eventID, eventName, reason))
}

func (m *NotificationServiceMock) MarkAsRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	return notification(m.Called(ctx, id))
}

func (m *NotificationServiceMock) MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationServiceMock) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationServiceMock) FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationServiceMock) CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationServiceMock) RefreshUnreadCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationServiceMock) ClearUnreadCount(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func notification(args mock.Arguments) (*model.Notification, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

type QuickActionDispatcherMock struct {
	mock.Mock
}

func NewQuickActionDispatcherMock() *QuickActionDispatcherMock {
	return &QuickActionDispatcherMock{}
}

func (m *QuickActionDispatcherMock) Dispatch(ctx context.Context, id uuid.UUID, action service.QuickAction, payload *model.UpdateEventParams) (*service.QuickActionResult, error) {
	args := m.Called(ctx, id, action, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.QuickActionResult), args.Error(1)
}
