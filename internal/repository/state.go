package repository

import (
	"context"
	"time"
)

// StateRepository 定义了与实时状态相关的操作，由 Redis 实现。
type StateRepository interface {
	// === Drafts ===

	// GetDraft 读取用户在某个谜题板上未保存的路径 (JSON)。
	// 没有草稿时返回 ErrDraftNotFound。
	GetDraft(ctx context.Context, boardID string, userID uint) ([]byte, error)

	// SaveDraft 写入草稿并刷新过期时间。
	SaveDraft(ctx context.Context, boardID string, userID uint, paths []byte, ttl time.Duration) error

	// DeleteDraft 删除草稿 (保存成功后调用)。
	DeleteDraft(ctx context.Context, boardID string, userID uint) error

	// SweepDrafts 删除没有设置过期时间的残留草稿，返回删除数量。
	SweepDrafts(ctx context.Context) (int, error)

	// === Rate Limiting ===

	// CheckRateLimit 检查给定 key 的请求频率是否超限，并递增计数。
	// 返回 true 如果超限，false 如果未超限。
	CheckRateLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, error)

	// === PubSub ===

	// PublishNotification 将通知发布到全局通知频道。
	PublishNotification(ctx context.Context, payload []byte) error

	// SubscribeNotifications 订阅通知频道，直到 ctx 取消。返回的 channel 在订阅结束后关闭。
	SubscribeNotifications(ctx context.Context) (<-chan []byte, error)
}
