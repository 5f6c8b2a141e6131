package worker

import (
	"context"
	"errors"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/internal/queue"
	"go-gin-event-manager/internal/service"
	apperrors "go-gin-event-manager/pkg/app_errors"
	"go-gin-event-manager/pkg/logger"

	"go.uber.org/zap"
)

type ActivityWorker interface {
	// 訂閱活動紀錄隊列，依紀錄重算未讀數快取
	Start(ctx context.Context) error
}

type ActivityWorkerImpl struct {
	notifications service.NotificationService
	queue         queue.ActivityQueue
	log           *zap.Logger
}

func NewActivityWorker(notifications service.NotificationService, queue queue.ActivityQueue) ActivityWorker {
	return &ActivityWorkerImpl{
		notifications: notifications,
		queue:         queue,
		log:           logger.WithComponent("worker"),
	}
}

func (w *ActivityWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			if err := w.handle(ctx, msg.Data); err != nil {
				w.log.Warn("activity handling failed, requeue",
					zap.String("event_id", msg.Data.EventID.String()),
					zap.String("action", string(msg.Data.Action)),
					zap.Error(err))
				msg.Nack(true)
				continue
			}
			msg.Ack()
		}
		w.log.Info("activity worker stopped")
	}()
	return nil
}

func (w *ActivityWorkerImpl) handle(ctx context.Context, activity *model.EventActivity) error {
	// 已刪除的活動只需清掉快取
	if activity.Action == model.ActivityDeleted {
		return w.notifications.ClearUnreadCount(ctx, activity.EventID)
	}

	_, err := w.notifications.RefreshUnreadCount(ctx, activity.EventID)
	if errors.Is(err, apperrors.ErrEventNotFound) {
		return w.notifications.ClearUnreadCount(ctx, activity.EventID)
	}
	return err
}
