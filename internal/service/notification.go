package service

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"flow-board/internal/tasks"
)

// TaskEnqueuer 是 asynq.Client 中服务层用到的部分
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationService 把"新谜题板 / 新解答"事件交给后台任务广播。
// 入队失败只记录日志，不影响主流程。
type NotificationService struct {
	enqueuer TaskEnqueuer
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(enqueuer TaskEnqueuer) *NotificationService {
	if enqueuer == nil {
		panic("TaskEnqueuer cannot be nil for NotificationService")
	}
	return &NotificationService{enqueuer: enqueuer}
}

// BoardCreated 通知所有在线用户有新的谜题板
func (s *NotificationService) BoardCreated(ctx context.Context, boardID string, ownerID uint) {
	s.enqueue(ctx, tasks.NotificationPayload{
		Event:   tasks.EventNewBoard,
		BoardID: boardID,
		UserID:  ownerID,
	})
}

// SolutionCreated 通知所有在线用户有新的解答
func (s *NotificationService) SolutionCreated(ctx context.Context, boardID, solutionID string, userID uint) {
	s.enqueue(ctx, tasks.NotificationPayload{
		Event:      tasks.EventNewPath,
		BoardID:    boardID,
		SolutionID: solutionID,
		UserID:     userID,
	})
}

func (s *NotificationService) enqueue(ctx context.Context, payload tasks.NotificationPayload) {
	logCtx := logrus.WithFields(logrus.Fields{
		"event":    payload.Event,
		"board_id": payload.BoardID,
		"user_id":  payload.UserID,
	})
	data, err := tasks.NewNotificationTask(payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal notification task payload")
		return
	}
	task := asynq.NewTask(tasks.TypeNotificationFanout, data)
	info, err := s.enqueuer.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(3))
	if err != nil {
		logCtx.WithError(fmt.Errorf("enqueue %s: %w", tasks.TypeNotificationFanout, err)).Warn("Failed to enqueue notification task")
		return
	}
	logCtx.WithField("task_id", info.ID).Debug("Notification task enqueued")
}
