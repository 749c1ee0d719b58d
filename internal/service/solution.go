package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/engine"
	"flow-board/internal/metrics"
	"flow-board/internal/repository"
)

// SolutionService 负责解答的保存和查询。所有提交的解答在保存前都由引擎重新校验。
type SolutionService struct {
	boardRepo    repository.BoardRepository
	solutionRepo repository.SolutionRepository
	notifier     *NotificationService
}

// NewSolutionService 创建 SolutionService 实例。notifier 可以为 nil。
func NewSolutionService(boardRepo repository.BoardRepository, solutionRepo repository.SolutionRepository, notifier *NotificationService) *SolutionService {
	if boardRepo == nil {
		panic("BoardRepository cannot be nil for SolutionService")
	}
	if solutionRepo == nil {
		panic("SolutionRepository cannot be nil for SolutionService")
	}
	return &SolutionService{
		boardRepo:    boardRepo,
		solutionRepo: solutionRepo,
		notifier:     notifier,
	}
}

// CreateSolution 校验并保存一个新的解答，成功后广播 newPath 通知。
// 校验失败时返回 engine.ValidationErrors。
func (s *SolutionService) CreateSolution(ctx context.Context, userID uint, boardID string, paths []domain.Path) (*domain.Solution, error) {
	return s.save(ctx, userID, boardID, "", paths)
}

// UpdateSolution 用新的路径集合覆盖已有解答。只能修改自己的解答。
func (s *SolutionService) UpdateSolution(ctx context.Context, userID uint, boardID, solutionID string, paths []domain.Path) (*domain.Solution, error) {
	return s.save(ctx, userID, boardID, solutionID, paths)
}

func (s *SolutionService) save(ctx context.Context, userID uint, boardID, solutionID string, paths []domain.Path) (sol *domain.Solution, err error) {
	start := time.Now()
	operation := "create"
	if solutionID != "" {
		operation = "update"
	}
	defer func() {
		metrics.ObserveSave(operation, saveStatus(err), start)
	}()

	logCtx := logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"board_id":    boardID,
		"solution_id": solutionID,
		"operation":   operation,
	})

	// 1. 至少需要一条路径
	if len(paths) == 0 {
		return nil, engine.ValidationErrors{engine.ErrNoPaths.Error()}
	}

	// 2. 加载谜题板
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if !errors.Is(err, repository.ErrBoardNotFound) {
			logCtx.WithError(err).Error("Failed to load board for solution")
		}
		return nil, mapRepoError(err, ErrBoardNotFound)
	}
	index, err := engine.IndexBoard(board)
	if err != nil {
		logCtx.WithError(err).Error("Stored board has malformed points")
		return nil, ErrInternalServer
	}

	// 3. 引擎复核
	store, verrs := engine.VerifySolution(index, boardID, paths)
	if !verrs.Empty() {
		logCtx.WithField("errors", len(verrs)).Info("Solution rejected by verification")
		return nil, verrs
	}

	// 4. 创建或加载解答
	if solutionID == "" {
		sol = &domain.Solution{ID: uuid.NewString(), BoardID: boardID, UserID: userID}
	} else {
		sol, err = s.solutionRepo.FindByID(ctx, boardID, solutionID)
		if err != nil {
			if !errors.Is(err, repository.ErrSolutionNotFound) {
				logCtx.WithError(err).Error("Failed to load solution for update")
			}
			return nil, mapRepoError(err, ErrSolutionNotFound)
		}
		if sol.UserID != userID {
			logCtx.WithField("owner_id", sol.UserID).Warn("Solution access denied: not the owner")
			return nil, ErrSolutionNotFound
		}
	}
	if err := sol.SetPaths(store.Paths()); err != nil {
		logCtx.WithError(err).Error("Failed to encode solution paths")
		return nil, ErrInternalServer
	}

	// 5. 持久化
	if err := s.solutionRepo.Save(ctx, sol); err != nil {
		logCtx.WithError(err).Error("Failed to save solution")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("solution_id", sol.ID)

	// 6. 新解答才通知
	if solutionID == "" && s.notifier != nil {
		s.notifier.SolutionCreated(ctx, boardID, sol.ID, userID)
	}
	logCtx.WithField("paths", store.Len()).Info("Solution saved successfully")
	return sol, nil
}

// GetSolution 查找谜题板下的某个解答
func (s *SolutionService) GetSolution(ctx context.Context, boardID, solutionID string) (*domain.Solution, error) {
	sol, err := s.solutionRepo.FindByID(ctx, boardID, solutionID)
	if err != nil {
		if !errors.Is(err, repository.ErrSolutionNotFound) {
			logrus.WithFields(logrus.Fields{"board_id": boardID, "solution_id": solutionID}).
				WithError(err).Error("GetSolution: Repository error")
		}
		return nil, mapRepoError(err, ErrSolutionNotFound)
	}
	return sol, nil
}

// ListSolutions 返回谜题板的全部解答。谜题板不存在时返回 ErrBoardNotFound。
func (s *SolutionService) ListSolutions(ctx context.Context, boardID string) ([]domain.Solution, error) {
	logCtx := logrus.WithField("board_id", boardID)
	if _, err := s.boardRepo.FindByID(ctx, boardID); err != nil {
		if !errors.Is(err, repository.ErrBoardNotFound) {
			logCtx.WithError(err).Error("ListSolutions: Failed to load board")
		}
		return nil, mapRepoError(err, ErrBoardNotFound)
	}
	solutions, err := s.solutionRepo.FindByBoard(ctx, boardID)
	if err != nil {
		logCtx.WithError(err).Error("ListSolutions: Repository error")
		return nil, ErrInternalServer
	}
	return solutions, nil
}

func saveStatus(err error) string {
	var verrs engine.ValidationErrors
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verrs):
		return "invalid"
	default:
		return "error"
	}
}
