package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"flow-board/internal/domain"
	"flow-board/internal/repository"
)

// GormBoardRepository 是 BoardRepository 接口的 GORM 实现
type GormBoardRepository struct {
	db *gorm.DB
}

// NewGormBoardRepository 创建 GormBoardRepository 实例
func NewGormBoardRepository(db *gorm.DB) *GormBoardRepository {
	if db == nil {
		panic("database connection cannot be nil for GormBoardRepository")
	}
	return &GormBoardRepository{db: db}
}

// FindByID 实现根据 ID 查找谜题板
func (r *GormBoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrBoardNotFound
		}
		return nil, fmt.Errorf("gorm: find board by id %s: %w", id, err)
	}
	return &board, nil
}

// FindAll 返回所有谜题板，最新的在前
func (r *GormBoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&boards).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all boards: %w", err)
	}
	return boards, nil
}

// FindByOwner 返回某个用户创建的谜题板
func (r *GormBoardRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find boards of owner %d: %w", ownerID, err)
	}
	return boards, nil
}

// Save 实现保存谜题板（创建或更新）。ID 由服务层预先生成，因此 Save 会先尝试 UPDATE，再回退到 INSERT。
func (r *GormBoardRepository) Save(ctx context.Context, board *domain.Board) error {
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		if mapped := mapSaveError(err); errors.Is(mapped, repository.ErrDuplicateEntry) {
			return mapped
		}
		return fmt.Errorf("gorm: save board (id: %s): %w", board.ID, err)
	}
	return nil
}

// Delete 在一个事务中删除谜题板及其全部解答
func (r *GormBoardRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", id).Delete(&domain.Solution{}).Error; err != nil {
			return fmt.Errorf("gorm: delete solutions of board %s: %w", id, err)
		}
		result := tx.Where("id = ?", id).Delete(&domain.Board{})
		if result.Error != nil {
			return fmt.Errorf("gorm: delete board %s: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrBoardNotFound
		}
		return nil
	})
}
