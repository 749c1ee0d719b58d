package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"flow-board/internal/repository"
)

// DraftSweepHandler 处理周期性的草稿清理任务，删除没有过期时间的残留草稿
type DraftSweepHandler struct {
	stateRepo repository.StateRepository
}

// NewDraftSweepHandler 创建 Handler 实例
func NewDraftSweepHandler(stateRepo repository.StateRepository) *DraftSweepHandler {
	if stateRepo == nil {
		panic("StateRepository cannot be nil for DraftSweepHandler")
	}
	return &DraftSweepHandler{stateRepo: stateRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *DraftSweepHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logCtx := taskLogger(ctx, t)
	logCtx.Info("Processing periodic draft sweep task...")

	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	removed, err := h.stateRepo.SweepDrafts(sweepCtx)
	if err != nil {
		// 周期任务下一轮会再执行，这里不重试
		logCtx.WithError(err).Error("Draft sweep failed")
		return nil
	}
	logCtx.WithField("removed", removed).Info("Periodic draft sweep task completed successfully.")
	return nil
}
