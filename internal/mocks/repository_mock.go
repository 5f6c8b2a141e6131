package mocks

import (
	"context"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EventRepositoryMock struct {
	mock.Mock
}

func NewEventRepositoryMock() *EventRepositoryMock {
	return &EventRepositoryMock{}
}

func (m *EventRepositoryMock) FindAll(ctx context.Context, opts repository.ListOptions) ([]*model.Event, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Create(ctx context.Context, params model.CreateEventParams) (*model.Event, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Update(ctx context.Context, id uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventRepositoryMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *EventRepositoryMock) Search(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Event), args.Int(1), args.Error(2)
}

func (m *EventRepositoryMock) FindByDateRange(ctx context.Context, from, to time.Time) ([]*model.Event, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

type NotificationRepositoryMock struct {
	mock.Mock
}

func NewNotificationRepositoryMock() *NotificationRepositoryMock {
	return &NotificationRepositoryMock{}
}

func (m *NotificationRepositoryMock) FindAll(ctx context.Context, opts repository.ListOptions) ([]*model.Notification, error) {
	args := m.Called(ctx, opts)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationRepositoryMock) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *NotificationRepositoryMock) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *NotificationRepositoryMock) Update(ctx context.Context, id uuid.UUID, params model.UpdateNotificationParams) (*model.Notification, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *NotificationRepositoryMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepositoryMock) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationRepositoryMock) FindUnreadByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func (m *NotificationRepositoryMock) CountUnreadByEventID(ctx context.Context, eventID uuid.UUID) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationRepositoryMock) MarkAllReadForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, eventID)
	return notifications(args.Get(0)), args.Error(1)
}

func notifications(v any) []*model.Notification {
	if v == nil {
		return nil
	}
	return v.([]*model.Notification)
}

// PassthroughTxManager 直接在原 context 執行 fn，記錄呼叫次數
type PassthroughTxManager struct {
	Calls int
}

func (m *PassthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}
