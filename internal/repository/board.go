package repository

import (
	"context"

	"flow-board/internal/domain"
)

// BoardRepository 定义了谜题板的存储和检索操作。
type BoardRepository interface {
	// FindByID 根据谜题板 ID 查找。不存在时返回 ErrBoardNotFound。
	FindByID(ctx context.Context, id string) (*domain.Board, error)

	// FindAll 按创建时间倒序返回所有谜题板。
	FindAll(ctx context.Context) ([]domain.Board, error)

	// FindByOwner 返回某个用户创建的谜题板。
	FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error)

	// Save 创建或更新谜题板 (基于 ID)。
	Save(ctx context.Context, board *domain.Board) error

	// Delete 删除谜题板及其所有解答。不存在时返回 ErrBoardNotFound。
	Delete(ctx context.Context, id string) error
}
