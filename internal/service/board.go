package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/engine"
	"flow-board/internal/repository"
)

// DefaultMaxBoardSize 未配置 MAX_BOARD_SIZE 时的网格边长上限
const DefaultMaxBoardSize = 30

// BoardInput 是创建或编辑谜题板时的输入
type BoardInput struct {
	Name    string         `validate:"required,max=255"`
	Rows    int            `validate:"min=1"`
	Columns int            `validate:"min=1"`
	Points  []domain.Point `validate:"required,min=1,dive"`
}

// BoardService 负责谜题板的创建、编辑、删除和查询。
type BoardService struct {
	boardRepo repository.BoardRepository
	notifier  *NotificationService
	validator *BoardValidator
}

// BoardValidator 检查谜题板输入，不依赖存储，命令行工具也可以单独使用
type BoardValidator struct {
	validate *validator.Validate
	maxSize  int
}

// NewBoardValidator 创建 BoardValidator。maxSize <= 0 时使用 DefaultMaxBoardSize
func NewBoardValidator(maxSize int) *BoardValidator {
	if maxSize <= 0 {
		maxSize = DefaultMaxBoardSize
	}
	return &BoardValidator{validate: validator.New(), maxSize: maxSize}
}

// NewBoardService 创建 BoardService 实例。notifier 可以为 nil (例如命令行工具只做校验)。
func NewBoardService(boardRepo repository.BoardRepository, notifier *NotificationService, maxSize int) *BoardService {
	if boardRepo == nil {
		panic("BoardRepository cannot be nil for BoardService")
	}
	return &BoardService{
		boardRepo: boardRepo,
		notifier:  notifier,
		validator: NewBoardValidator(maxSize),
	}
}

// CreateBoard 校验并保存新的谜题板，成功后广播 newBoard 通知。
func (s *BoardService) CreateBoard(ctx context.Context, ownerID uint, in BoardInput) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": ownerID, "board_name": in.Name})

	// 1. 校验输入
	if err := s.ValidateBoard(in); err != nil {
		logCtx.WithError(err).Info("Board rejected by validation")
		return nil, err
	}

	// 2. 构建模型
	board := &domain.Board{
		ID:      uuid.NewString(),
		Name:    in.Name,
		OwnerID: ownerID,
		Rows:    in.Rows,
		Columns: in.Columns,
	}
	if err := board.SetPoints(in.Points); err != nil {
		logCtx.WithError(err).Error("Failed to encode board points")
		return nil, ErrInternalServer
	}
	logCtx = logCtx.WithField("board_id", board.ID)

	// 3. 保存
	if err := s.boardRepo.Save(ctx, board); err != nil {
		logCtx.WithError(err).Error("Failed to save new board")
		return nil, ErrInternalServer
	}

	// 4. 通知
	if s.notifier != nil {
		s.notifier.BoardCreated(ctx, board.ID, ownerID)
	}
	logCtx.Info("Board created successfully")
	return board, nil
}

// UpdateBoard 编辑谜题板。只有创建者可以编辑，其他用户看到的是"未找到"。
func (s *BoardService) UpdateBoard(ctx context.Context, ownerID uint, boardID string, in BoardInput) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": ownerID, "board_id": boardID})

	board, err := s.findOwned(ctx, ownerID, boardID, logCtx)
	if err != nil {
		return nil, err
	}
	if err := s.ValidateBoard(in); err != nil {
		logCtx.WithError(err).Info("Board update rejected by validation")
		return nil, err
	}

	board.Name = in.Name
	board.Rows = in.Rows
	board.Columns = in.Columns
	if err := board.SetPoints(in.Points); err != nil {
		logCtx.WithError(err).Error("Failed to encode board points")
		return nil, ErrInternalServer
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		logCtx.WithError(err).Error("Failed to save updated board")
		return nil, ErrInternalServer
	}
	logCtx.Info("Board updated successfully")
	return board, nil
}

// DeleteBoard 删除谜题板及其解答。只有创建者可以删除。
func (s *BoardService) DeleteBoard(ctx context.Context, ownerID uint, boardID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": ownerID, "board_id": boardID})

	if _, err := s.findOwned(ctx, ownerID, boardID, logCtx); err != nil {
		return err
	}
	if err := s.boardRepo.Delete(ctx, boardID); err != nil {
		logCtx.WithError(err).Error("Failed to delete board")
		return mapRepoError(err, ErrBoardNotFound)
	}
	logCtx.Info("Board deleted successfully")
	return nil
}

// GetBoard 根据 ID 查找谜题板
func (s *BoardService) GetBoard(ctx context.Context, boardID string) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if !errors.Is(err, repository.ErrBoardNotFound) {
			logrus.WithField("board_id", boardID).WithError(err).Error("GetBoard: Repository error")
		}
		return nil, mapRepoError(err, ErrBoardNotFound)
	}
	return board, nil
}

// ListBoards 返回所有谜题板
func (s *BoardService) ListBoards(ctx context.Context) ([]domain.Board, error) {
	boards, err := s.boardRepo.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListBoards: Repository error")
		return nil, ErrInternalServer
	}
	return boards, nil
}

// ListMyBoards 返回某个用户创建的谜题板
func (s *BoardService) ListMyBoards(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	boards, err := s.boardRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logrus.WithField("user_id", ownerID).WithError(err).Error("ListMyBoards: Repository error")
		return nil, ErrInternalServer
	}
	return boards, nil
}

// ValidateBoard 检查谜题板输入，返回 engine.ValidationErrors 汇总的全部问题。
func (s *BoardService) ValidateBoard(in BoardInput) error {
	return s.validator.Validate(in)
}

// Validate 检查谜题板输入，返回 engine.ValidationErrors 汇总的全部问题。
func (v *BoardValidator) Validate(in BoardInput) error {
	var errs engine.ValidationErrors

	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate board: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, describeFieldError(fe))
		}
	}
	if in.Rows > v.maxSize {
		errs = append(errs, fmt.Sprintf("Rows must be between 1 and %d.", v.maxSize))
	}
	if in.Columns > v.maxSize {
		errs = append(errs, fmt.Sprintf("Columns must be between 1 and %d.", v.maxSize))
	}

	// 网格尺寸本身不合法时不再检查点的位置
	if in.Rows >= 1 && in.Columns >= 1 {
		errs = append(errs, checkPoints(in)...)
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// checkPoints 检查点的位置和每种颜色的点数
func checkPoints(in BoardInput) []string {
	var msgs []string
	seen := make(map[domain.Cell]struct{}, len(in.Points))
	counts := make(map[string]int)
	var order []string
	for _, p := range in.Points {
		if p.X < 0 || p.X >= in.Columns || p.Y < 0 || p.Y >= in.Rows {
			msgs = append(msgs, fmt.Sprintf("Point (%d, %d) is out of bounds for the grid dimensions (%dx%d).",
				p.X, p.Y, in.Columns, in.Rows))
		}
		if _, dup := seen[p.Cell()]; dup {
			msgs = append(msgs, fmt.Sprintf("Point (%d, %d) is used more than once.", p.X, p.Y))
		}
		seen[p.Cell()] = struct{}{}

		key := p.Color.Key()
		if key == "" {
			continue
		}
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	for _, key := range order {
		if counts[key] != domain.PointsPerColor {
			msgs = append(msgs, fmt.Sprintf("%s has invalid number of points. Each color must have exactly %d points.",
				key, domain.PointsPerColor))
		}
	}
	return msgs
}

// describeFieldError 把 validator 的字段错误转换为面向用户的信息
func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:] // 去掉顶层结构体名
	}
	switch {
	case fe.Field() == "HexValue":
		return "Hex value must be a valid hex color code (e.g., #RRGGBB)."
	case fe.Field() == "Points":
		return "There must be a non empty list of colored points."
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required.", field)
	case fe.Tag() == "min":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	case fe.Tag() == "max":
		return fmt.Sprintf("%s must be at most %s characters.", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule.", field, fe.Tag())
}

// findOwned 查找谜题板并检查所有权
func (s *BoardService) findOwned(ctx context.Context, ownerID uint, boardID string, logCtx *logrus.Entry) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			logCtx.Warn("Board not found")
		} else {
			logCtx.WithError(err).Error("Failed to load board")
		}
		return nil, mapRepoError(err, ErrBoardNotFound)
	}
	if board.OwnerID != ownerID {
		logCtx.WithField("owner_id", board.OwnerID).Warn("Board access denied: not the owner")
		return nil, ErrBoardNotFound
	}
	return board, nil
}
