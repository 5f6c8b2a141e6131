package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationBadgeCacheMock struct {
	mock.Mock
}

func NewNotificationBadgeCacheMock() *NotificationBadgeCacheMock {
	return &NotificationBadgeCacheMock{}
}

func (m *NotificationBadgeCacheMock) Get(ctx context.Context, eventID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *NotificationBadgeCacheMock) Set(ctx context.Context, eventID uuid.UUID, count int) error {
	args := m.Called(ctx, eventID, count)
	return args.Error(0)
}

func (m *NotificationBadgeCacheMock) Adjust(ctx context.Context, eventID uuid.UUID, delta int) error {
	args := m.Called(ctx, eventID, delta)
	return args.Error(0)
}

func (m *NotificationBadgeCacheMock) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
