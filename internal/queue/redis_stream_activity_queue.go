package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-gin-event-manager/internal/model"
	"go-gin-event-manager/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "events:activity"
	ConsumerGroupName  = "activity-workers"
	ConsumerNamePrefix = "worker"

	activityField = "activity"
	batchSize     = 10
)

// RedisStreamActivityQueueConfig 零值欄位使用預設
type RedisStreamActivityQueueConfig struct {
	ClaimMinIdleTime   time.Duration // 未 ack 超過此時間才會被重新領取
	MaxRetryCount      int           // 投遞次數達上限即丟棄
	ReadGroupBlockTime time.Duration
}

func (c *RedisStreamActivityQueueConfig) withDefaults() RedisStreamActivityQueueConfig {
	out := RedisStreamActivityQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
	if c == nil {
		return out
	}
	if c.ClaimMinIdleTime > 0 {
		out.ClaimMinIdleTime = c.ClaimMinIdleTime
	}
	if c.MaxRetryCount > 0 {
		out.MaxRetryCount = c.MaxRetryCount
	}
	if c.ReadGroupBlockTime > 0 {
		out.ReadGroupBlockTime = c.ReadGroupBlockTime
	}
	return out
}

// RedisStreamActivityQueue 以 consumer group 分派活動紀錄，多個 instance 共用同一個 stream
type RedisStreamActivityQueue struct {
	client   *redis.Client
	consumer string
	cfg      RedisStreamActivityQueueConfig
	log      *zap.Logger
}

func NewRedisStreamActivityQueue(client *redis.Client, consumerID string, config *RedisStreamActivityQueueConfig) (ActivityQueue, error) {
	if consumerID == "" {
		consumerID = uuid.NewString()
	}
	q := &RedisStreamActivityQueue{
		client:   client,
		consumer: ConsumerNamePrefix + ":" + consumerID,
		cfg:      config.withDefaults(),
		log:      logger.WithComponent("mq").With(zap.String("stream", StreamKey)),
	}

	err := client.XGroupCreateMkStream(context.Background(), StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamActivityQueue) Publish(ctx context.Context, activity *model.EventActivity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	if err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{activityField: payload},
	}).Err(); err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

// Subscribe 同時執行新消息讀取與逾時消息領回，ctx 結束後關閉 channel
func (q *RedisStreamActivityQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	claimDone := make(chan struct{})

	go func() {
		defer close(claimDone)
		q.claimLoop(ctx, out)
	}()
	go func() {
		defer close(out)
		for ctx.Err() == nil {
			q.readNew(ctx, out)
		}
		<-claimDone
	}()
	return out, nil
}

// readNew 只讀 ">"；已投遞但未 ack 的消息由 claimLoop 負責重試
func (q *RedisStreamActivityQueue) readNew(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: q.consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()
	switch {
	case errors.Is(err, redis.Nil), ctx.Err() != nil:
		return
	case err != nil:
		q.log.Error("read group failed", zap.Error(err))
		sleep(ctx, time.Second)
		return
	}

	for _, s := range streams {
		if !q.deliver(ctx, out, s.Messages, nil) {
			return
		}
	}
}

func (q *RedisStreamActivityQueue) claimLoop(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()

	cursor := "0-0"
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   StreamKey,
			Group:    ConsumerGroupName,
			Consumer: q.consumer,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Start:    cursor,
			Count:    batchSize,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() == nil {
				q.log.Error("auto claim failed", zap.Error(err))
			}
			continue
		}
		// 走完整個 PEL 後 Redis 回傳 0-0，下一輪從頭開始
		cursor = next
		if cursor == "" {
			cursor = "0-0"
		}
		if len(msgs) == 0 {
			continue
		}

		if !q.deliver(ctx, out, msgs, q.deliveryCounts(ctx, msgs)) {
			return
		}
	}
}

// deliveryCounts 一次查詢整批領回消息的投遞次數
func (q *RedisStreamActivityQueue) deliveryCounts(ctx context.Context, msgs []redis.XMessage) map[string]int64 {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  ConsumerGroupName,
		Start:  msgs[0].ID,
		End:    msgs[len(msgs)-1].ID,
		Count:  int64(len(msgs)),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		q.log.Warn("pending lookup failed, retrying batch anyway", zap.Error(err))
		return nil
	}

	counts := make(map[string]int64, len(pending))
	for _, p := range pending {
		counts[p.ID] = p.RetryCount
	}
	return counts
}

// deliver 依序投遞；counts 不為 nil 時丟棄超過重試上限的消息。ctx 結束時回傳 false
func (q *RedisStreamActivityQueue) deliver(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, counts map[string]int64) bool {
	for _, msg := range msgs {
		if n := counts[msg.ID]; n >= int64(q.cfg.MaxRetryCount) {
			q.log.Warn("dropping activity after max retries",
				zap.String("message_id", msg.ID),
				zap.Int64("deliveries", n))
			q.ack(ctx, msg.ID)
			continue
		}

		activity, err := decodeActivity(msg)
		if err != nil {
			q.log.Warn("dropping malformed activity", zap.String("message_id", msg.ID), zap.Error(err))
			q.ack(ctx, msg.ID)
			continue
		}

		select {
		case out <- q.newDelivery(ctx, msg.ID, activity):
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func decodeActivity(msg redis.XMessage) (*model.EventActivity, error) {
	raw, ok := msg.Values[activityField].(string)
	if !ok {
		return nil, fmt.Errorf("missing %q field", activityField)
	}
	var activity model.EventActivity
	if err := json.Unmarshal([]byte(raw), &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (q *RedisStreamActivityQueue) newDelivery(ctx context.Context, id string, activity *model.EventActivity) Delivery {
	return Delivery{
		Data: activity,
		Ack:  func() { q.ack(ctx, id) },
		Nack: func(requeue bool) {
			if !requeue {
				q.ack(ctx, id)
				return
			}
			// 留在 PEL，閒置超過 ClaimMinIdleTime 後由 claimLoop 領回
			q.log.Debug("activity will be retried", zap.String("message_id", id))
		},
	}
}

func (q *RedisStreamActivityQueue) ack(ctx context.Context, id string) {
	if err := q.client.XAck(ctx, StreamKey, ConsumerGroupName, id).Err(); err != nil {
		q.log.Error("ack failed", zap.String("message_id", id), zap.Error(err))
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
