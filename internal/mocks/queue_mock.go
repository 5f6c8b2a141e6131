package mocks

import (
	"context"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/queue"

	"github.com/stretchr/testify/mock"
)

type ActivityQueueMock struct {
	mock.Mock
}

func NewActivityQueueMock() *ActivityQueueMock {
	return &ActivityQueueMock{}
}

func (m *ActivityQueueMock) Publish(ctx context.Context, activity *model.EventActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityQueueMock) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
