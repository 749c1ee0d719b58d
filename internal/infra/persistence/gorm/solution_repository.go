package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"flow-board/internal/domain"
	"flow-board/internal/repository"
)

// GormSolutionRepository 是 SolutionRepository 接口的 GORM 实现
type GormSolutionRepository struct {
	db *gorm.DB
}

// NewGormSolutionRepository 创建 GormSolutionRepository 实例
func NewGormSolutionRepository(db *gorm.DB) *GormSolutionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSolutionRepository")
	}
	return &GormSolutionRepository{db: db}
}

// FindByID 查找属于指定谜题板的解答
func (r *GormSolutionRepository) FindByID(ctx context.Context, boardID, solutionID string) (*domain.Solution, error) {
	var solution domain.Solution
	err := r.db.WithContext(ctx).
		Where("id = ? AND board_id = ?", solutionID, boardID).
		First(&solution).Error
	if err != nil {
		if isNotFound(err) {
			return nil, repository.ErrSolutionNotFound
		}
		return nil, fmt.Errorf("gorm: find solution %s of board %s: %w", solutionID, boardID, err)
	}
	return &solution, nil
}

// FindByBoard 返回谜题板的全部解答
func (r *GormSolutionRepository) FindByBoard(ctx context.Context, boardID string) ([]domain.Solution, error) {
	var solutions []domain.Solution
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("updated_at DESC").
		Find(&solutions).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find solutions of board %s: %w", boardID, err)
	}
	return solutions, nil
}

// Save 实现保存解答（创建或更新）
func (r *GormSolutionRepository) Save(ctx context.Context, solution *domain.Solution) error {
	if err := r.db.WithContext(ctx).Save(solution).Error; err != nil {
		return fmt.Errorf("gorm: save solution (id: %s, board: %s): %w", solution.ID, solution.BoardID, mapSaveError(err))
	}
	return nil
}
