package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"flow-board/internal/repository"
)

// RedisStateRepository 是 StateRepository 接口的 Redis 实现
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateRepository 创建 RedisStateRepository 实例
func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "flow:"
	}
	return &RedisStateRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// --- Key Generation Helpers ---
func (r *RedisStateRepository) draftKey(boardID string, userID uint) string {
	return fmt.Sprintf("%sdraft:%s:%d", r.keyPrefix, boardID, userID)
}

func (r *RedisStateRepository) draftPattern() string {
	return r.keyPrefix + "draft:*"
}

// NotificationChannel 返回全局通知频道名
func (r *RedisStateRepository) NotificationChannel() string {
	return r.keyPrefix + "notifications"
}

// --- StateRepository Interface Implementation ---

// GetDraft 读取草稿
func (r *RedisStateRepository) GetDraft(ctx context.Context, boardID string, userID uint) ([]byte, error) {
	key := r.draftKey(boardID, userID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrDraftNotFound
		}
		return nil, fmt.Errorf("redis: failed to get draft from %s: %w", key, err)
	}
	return data, nil
}

// SaveDraft 写入草稿并刷新 TTL
func (r *RedisStateRepository) SaveDraft(ctx context.Context, boardID string, userID uint, paths []byte, ttl time.Duration) error {
	key := r.draftKey(boardID, userID)
	if err := r.client.Set(ctx, key, paths, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to save draft on key %s: %w", key, err)
	}
	return nil
}

// DeleteDraft 删除草稿，key 不存在不视为错误
func (r *RedisStateRepository) DeleteDraft(ctx context.Context, boardID string, userID uint) error {
	key := r.draftKey(boardID, userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: failed to delete draft on key %s: %w", key, err)
	}
	return nil
}

// SweepDrafts 扫描所有草稿 key，删除没有过期时间的残留项
func (r *RedisStateRepository) SweepDrafts(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, r.draftPattern(), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			return removed, fmt.Errorf("redis: failed to read ttl of %s: %w", key, err)
		}
		// -1 表示 key 存在但没有过期时间
		if ttl != -1 {
			continue
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return removed, fmt.Errorf("redis: failed to delete stale draft %s: %w", key, err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis: scan drafts failed: %w", err)
	}
	return removed, nil
}

// CheckRateLimit 检查给定 key 的请求频率是否超限，并递增计数。
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, error) {
	key = r.keyPrefix + "ratelimit:" + key
	pipe := r.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, duration)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: pipeline failed for rate limit check on key %s: %w", key, err)
	}
	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("redis: failed to get incr result for rate limit on key %s: %w", key, err)
	}
	return count > int64(limit), nil
}

// PublishNotification 将通知发布到全局频道
func (r *RedisStateRepository) PublishNotification(ctx context.Context, payload []byte) error {
	channel := r.NotificationChannel()
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		logrus.WithFields(logrus.Fields{
			"channel":      channel,
			"payload_size": len(payload),
		}).WithError(err).Error("Redis Publish failed")
		return fmt.Errorf("redis: failed to publish notification to channel %s: %w", channel, err)
	}
	return nil
}

// SubscribeNotifications 订阅通知频道，ctx 取消后关闭订阅和返回的 channel
func (r *RedisStateRepository) SubscribeNotifications(ctx context.Context) (<-chan []byte, error) {
	channel := r.NotificationChannel()
	pubsub := r.client.Subscribe(ctx, channel)
	// 等待订阅确认，确保之后发布的消息不会丢失
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis: failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	logrus.WithField("channel", channel).Info("Subscribed to notification channel")
	return out, nil
}
