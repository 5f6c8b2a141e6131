package queue

import (
	"context"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.EventActivity
	Ack  func()
	Nack func(requeue bool)
}

type ActivityQueue interface {
	// 發送活動紀錄到隊列
	Publish(ctx context.Context, activity *model.EventActivity) error
	// 訂閱活動紀錄隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryActivityQueueConfig 零值欄位使用預設
type MemoryActivityQueueConfig struct {
	MaxRetryCount int           // 投遞次數達上限即丟棄
	RetryDelay    time.Duration // nack 後延遲多久重新投遞
}

func (c *MemoryActivityQueueConfig) withDefaults() MemoryActivityQueueConfig {
	out := MemoryActivityQueueConfig{
		MaxRetryCount: 5,
		RetryDelay:    time.Second,
	}
	if c == nil {
		return out
	}
	if c.MaxRetryCount > 0 {
		out.MaxRetryCount = c.MaxRetryCount
	}
	if c.RetryDelay > 0 {
		out.RetryDelay = c.RetryDelay
	}
	return out
}

type memoryEntry struct {
	activity   *model.EventActivity
	deliveries int
}

// MemoryActivityQueue 使用 Go channel 的單機版隊列
type MemoryActivityQueue struct {
	ch  chan memoryEntry
	cfg MemoryActivityQueueConfig
	log *zap.Logger
}

func NewMemoryActivityQueue(bufferSize int, config *MemoryActivityQueueConfig) ActivityQueue {
	return &MemoryActivityQueue{
		ch:  make(chan memoryEntry, bufferSize),
		cfg: config.withDefaults(),
		log: logger.WithComponent("mq").With(zap.String("queue", "memory")),
	}
}

func (q *MemoryActivityQueue) Publish(ctx context.Context, activity *model.EventActivity) error {
	select {
	case q.ch <- memoryEntry{activity: activity}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryActivityQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-q.ch:
				if !ok {
					return
				}
				entry.deliveries++

				select {
				case out <- q.newDelivery(ctx, entry):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *MemoryActivityQueue) newDelivery(ctx context.Context, entry memoryEntry) Delivery {
	return Delivery{
		Data: entry.activity,
		Ack:  func() {},
		Nack: func(requeue bool) {
			if !requeue {
				return
			}
			if entry.deliveries >= q.cfg.MaxRetryCount {
				q.log.Warn("dropping activity after max retries",
					zap.String("event_id", entry.activity.EventID.String()),
					zap.Int("deliveries", entry.deliveries))
				return
			}
			time.AfterFunc(q.cfg.RetryDelay, func() { q.requeue(ctx, entry) })
		},
	}
}

// requeue 隊列已滿時放棄重送，避免阻塞 timer goroutine
func (q *MemoryActivityQueue) requeue(ctx context.Context, entry memoryEntry) {
	if ctx.Err() != nil {
		return
	}
	select {
	case q.ch <- entry:
	default:
		q.log.Warn("queue full, dropping retried activity",
			zap.String("event_id", entry.activity.EventID.String()))
	}
}
