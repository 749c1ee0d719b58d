package repository

import (
	"context"

	"flow-board/internal/domain"
)

// SolutionRepository 定义了解答在数据库中的操作。
type SolutionRepository interface {
	// FindByID 查找某个谜题板下的解答。解答不属于该谜题板时同样返回 ErrSolutionNotFound。
	FindByID(ctx context.Context, boardID, solutionID string) (*domain.Solution, error)

	// FindByBoard 返回谜题板下的全部解答，按更新时间倒序。
	FindByBoard(ctx context.Context, boardID string) ([]domain.Solution, error)

	// Save 创建或更新解答 (基于 ID)。
	Save(ctx context.Context, solution *domain.Solution) error
}
