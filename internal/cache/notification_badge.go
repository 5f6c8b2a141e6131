package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationBadgeCache interface {
	// 獲取：未讀數量；key 不存在時 ok 為 false
	Get(ctx context.Context, eventID uuid.UUID) (count int, ok bool, err error)
	// 寫入：設定未讀數量與 TTL
	Set(ctx context.Context, eventID uuid.UUID, count int) error
	// 調整：key 存在時才加減 (使用Lua腳本確保原子性)，結果不會小於 0
	Adjust(ctx context.Context, eventID uuid.UUID, delta int) error
	// 清除：活動刪除時移除 key
	Invalidate(ctx context.Context, eventID uuid.UUID) error
}

type RedisNotificationBadgeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationBadgeCache(client *redis.Client, ttl time.Duration) NotificationBadgeCache {
	return &RedisNotificationBadgeCache{
		client: client,
		ttl:    ttl,
	}
}

// 未讀數量 key
func badgeKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:unread", eventID)
}

func (c *RedisNotificationBadgeCache) Get(ctx context.Context, eventID uuid.UUID) (int, bool, error) {
	val, err := c.client.Get(ctx, badgeKey(eventID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *RedisNotificationBadgeCache) Set(ctx context.Context, eventID uuid.UUID, count int) error {
	return c.client.Set(ctx, badgeKey(eventID), count, c.ttl).Err()
}

var adjustScript = redis.NewScript(`
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])

	-- key 不存在代表尚未快取，交給下次讀取時回填
	if redis.call('EXISTS', key) == 0 then
		return -1
	end

	local updated = tonumber(redis.call('GET', key)) + delta
	if updated < 0 then
		updated = 0
	end
	redis.call('SET', key, updated, 'KEEPTTL')
	return updated
`)

func (c *RedisNotificationBadgeCache) Adjust(ctx context.Context, eventID uuid.UUID, delta int) error {
	return adjustScript.Run(ctx, c.client, []string{badgeKey(eventID)}, delta).Err()
}

func (c *RedisNotificationBadgeCache) Invalidate(ctx context.Context, eventID uuid.UUID) error {
	return c.client.Del(ctx, badgeKey(eventID)).Err()
}
