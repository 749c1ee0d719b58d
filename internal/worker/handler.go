package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/dto"
	"flow-board/internal/repository"
	"flow-board/internal/tasks"
)

// NotificationHandler 处理通知广播任务：补全用户名和谜题板名称后发布到 Redis，
// 由各个实例的 Hub 转发给在线连接。
type NotificationHandler struct {
	userRepo  repository.UserRepository
	boardRepo repository.BoardRepository
	stateRepo repository.StateRepository
}

// NewNotificationHandler 创建 Handler 实例
func NewNotificationHandler(userRepo repository.UserRepository, boardRepo repository.BoardRepository, stateRepo repository.StateRepository) *NotificationHandler {
	if userRepo == nil || boardRepo == nil || stateRepo == nil {
		panic("repositories cannot be nil for NotificationHandler")
	}
	return &NotificationHandler{userRepo: userRepo, boardRepo: boardRepo, stateRepo: stateRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *NotificationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)

	var payload tasks.NotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx = logCtx.WithFields(logrus.Fields{
		"event":    payload.Event,
		"board_id": payload.BoardID,
		"user_id":  payload.UserID,
	})

	// 1. 补全谜题板名称。谜题板已被删除时通知没有意义
	board, err := h.boardRepo.FindByID(ctx, payload.BoardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			logCtx.Info("Board no longer exists, dropping notification")
			return nil
		}
		logCtx.WithError(err).Error("Failed to load board for notification")
		return fmt.Errorf("load board %s: %w", payload.BoardID, err)
	}

	// 2. 补全用户名，找不到用户时留空
	username := ""
	user, err := h.userRepo.FindByID(ctx, payload.UserID)
	switch {
	case err == nil:
		username = user.Username
	case errors.Is(err, repository.ErrUserNotFound):
		logCtx.Warn("User not found for notification")
	default:
		logCtx.WithError(err).Error("Failed to load user for notification")
		return fmt.Errorf("load user %d: %w", payload.UserID, err)
	}

	// 3. 构建消息
	msg, err := buildNotification(payload, board, username)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build notification message")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	// 4. 发布
	if err := h.stateRepo.PublishNotification(ctx, msg); err != nil {
		logCtx.WithError(err).Error("Failed to publish notification")
		return fmt.Errorf("publish notification: %w", err)
	}
	logCtx.Info("Notification published successfully")
	return nil
}

func buildNotification(payload tasks.NotificationPayload, board *domain.Board, username string) ([]byte, error) {
	var data interface{}
	switch payload.Event {
	case tasks.EventNewBoard:
		data = dto.NewBoardNotification{
			BoardID:         board.ID,
			BoardName:       board.Name,
			CreatorUsername: username,
		}
	case tasks.EventNewPath:
		data = dto.NewPathNotification{
			PathID:       payload.SolutionID,
			BoardID:      board.ID,
			BoardName:    board.Name,
			UserUsername: username,
		}
	default:
		return nil, fmt.Errorf("unknown notification event %q", payload.Event)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.NotificationMessage{
		Type:  dto.ServerNotification,
		Event: payload.Event,
		Data:  raw,
	})
}

// taskLogger 构建带任务信息的日志上下文
func taskLogger(ctx context.Context, t *asynq.Task) *logrus.Entry {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
		"max_retry": maxRetry,
	})
}
