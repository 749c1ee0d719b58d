package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"flow-board/internal/domain"
	"flow-board/internal/engine"
	"flow-board/internal/metrics"
	"flow-board/internal/repository"
)

// DefaultDraftTTL 草稿在 Redis 中的默认保留时间
const DefaultDraftTTL = 24 * time.Hour

// DrawingService 为每个连接创建绘制会话：加载谜题板，从已保存的解答或草稿恢复已提交路径。
type DrawingService struct {
	boards    *BoardService
	solutions *SolutionService
	stateRepo repository.StateRepository
	draftTTL  time.Duration
}

// NewDrawingService 创建 DrawingService 实例
func NewDrawingService(boards *BoardService, solutions *SolutionService, stateRepo repository.StateRepository, draftTTL time.Duration) *DrawingService {
	if boards == nil || solutions == nil {
		panic("BoardService and SolutionService cannot be nil for DrawingService")
	}
	if stateRepo == nil {
		panic("StateRepository cannot be nil for DrawingService")
	}
	if draftTTL <= 0 {
		draftTTL = DefaultDraftTTL
	}
	return &DrawingService{
		boards:    boards,
		solutions: solutions,
		stateRepo: stateRepo,
		draftTTL:  draftTTL,
	}
}

// OpenSession 为用户在某个谜题板上打开绘制会话。
// solutionID 不为空时从该解答恢复 (必须是自己的解答)，否则尝试从草稿恢复。
func (s *DrawingService) OpenSession(ctx context.Context, userID uint, boardID, solutionID string) (*DrawingSession, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"board_id":    boardID,
		"solution_id": solutionID,
	})

	// 1. 加载谜题板
	board, err := s.boards.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	points := engine.ParsePoints([]byte(board.PointsData), logCtx)
	index := engine.NewBoardIndex(board.Rows, board.Columns, points)

	// 2. 确定恢复来源
	var raw []byte
	if solutionID != "" {
		sol, err := s.solutions.GetSolution(ctx, boardID, solutionID)
		if err != nil {
			return nil, err
		}
		if sol.UserID != userID {
			logCtx.WithField("owner_id", sol.UserID).Warn("Cannot open session on another user's solution")
			return nil, ErrSolutionNotFound
		}
		raw = []byte(sol.PathsData)
	} else {
		raw, err = s.stateRepo.GetDraft(ctx, boardID, userID)
		if err != nil && !errors.Is(err, repository.ErrDraftNotFound) {
			// 草稿只是便利功能，读取失败时从空白开始
			logCtx.WithError(err).Warn("Failed to load draft, starting with an empty solution")
		}
	}

	// 3. 恢复已提交路径，非法路径会被丢弃
	store := engine.Hydrate(index, boardID, solutionID, engine.ParsePaths(raw, logCtx), logCtx)
	metrics.SessionOpened()
	logCtx.WithField("paths", store.Len()).Info("Drawing session opened")

	return &DrawingSession{
		svc:    s,
		engine: engine.NewSession(index, store),
		board:  board,
		points: points,
		userID: userID,
		logCtx: logCtx,
	}, nil
}

// DrawingSession 把引擎会话和持久化连接起来。它只由一个 goroutine (客户端的读循环) 驱动。
type DrawingSession struct {
	svc    *DrawingService
	engine *engine.Session
	board  *domain.Board
	points []domain.Point
	userID uint
	logCtx *logrus.Entry
	closed bool
}

// Board 返回会话所在的谜题板及其点列表
func (d *DrawingSession) Board() (*domain.Board, []domain.Point) { return d.board, d.points }

// SolutionID 返回当前解答的 ID，尚未保存时为空
func (d *DrawingSession) SolutionID() string { return d.engine.Store().ID() }

// Paths 返回已提交路径的拷贝
func (d *DrawingSession) Paths() []domain.Path { return d.engine.Store().Paths() }

// State 返回引擎当前状态
func (d *DrawingSession) State() engine.State { return d.engine.State() }

// Handle 把输入事件交给引擎，记录指标，并在已提交路径变化时同步草稿。
// 返回的 error 只会是删除不存在路径之类的调用方错误。
func (d *DrawingSession) Handle(ctx context.Context, ev engine.Event) ([]engine.Effect, error) {
	state, effects, err := d.engine.Handle(ev)
	metrics.RecordEvent(string(ev.Type), state.String())
	if err != nil {
		d.logCtx.WithError(err).WithField("event", ev.Type).Warn("Drawing event rejected")
		return nil, err
	}

	changed := false
	for _, eff := range effects {
		if eff.Rejection != nil {
			metrics.RecordRejection(eff.Rejection.Error())
		}
		switch eff.Kind {
		case engine.EffectFinalizePath:
			metrics.RecordCommit()
			changed = true
		case engine.EffectClearPath:
			changed = true
		}
	}
	if changed {
		d.mirrorDraft(ctx)
	}
	return effects, nil
}

// Save 保存当前已提交路径。首次保存创建解答，之后更新同一个解答。
// 失败时引擎中的路径保持不变；成功后用服务端规范化的结果替换存储。
// 拖拽进行中时拒绝保存。
func (d *DrawingSession) Save(ctx context.Context) (*domain.Solution, error) {
	if d.engine.State() == engine.StateDragging {
		return nil, engine.ErrDragInProgress
	}
	store := d.engine.Store()
	var (
		sol *domain.Solution
		err error
	)
	if store.ID() == "" {
		sol, err = d.svc.solutions.CreateSolution(ctx, d.userID, d.board.ID, store.Paths())
	} else {
		sol, err = d.svc.solutions.UpdateSolution(ctx, d.userID, d.board.ID, store.ID(), store.Paths())
	}
	if err != nil {
		return nil, err
	}

	index := d.engine.Board()
	saved := engine.Hydrate(index, d.board.ID, sol.ID, engine.ParsePaths([]byte(sol.PathsData), d.logCtx), d.logCtx)
	d.engine.ReplaceStore(saved)
	d.logCtx = d.logCtx.WithField("solution_id", sol.ID)

	// 已保存的解答不再需要草稿
	if err := d.svc.stateRepo.DeleteDraft(ctx, d.board.ID, d.userID); err != nil {
		d.logCtx.WithError(err).Warn("Failed to delete draft after save")
	}
	return sol, nil
}

// Close 结束会话。可以重复调用。
func (d *DrawingSession) Close() {
	if d.closed {
		return
	}
	d.closed = true
	metrics.SessionClosed()
	d.logCtx.Info("Drawing session closed")
}

// mirrorDraft 把未保存解答的已提交路径写入草稿。已保存过的解答不使用草稿。
func (d *DrawingSession) mirrorDraft(ctx context.Context) {
	if d.engine.Store().ID() != "" {
		return
	}
	data, err := json.Marshal(d.engine.Store().Paths())
	if err != nil {
		d.logCtx.WithError(err).Error("Failed to encode draft")
		return
	}
	if err := d.svc.stateRepo.SaveDraft(ctx, d.board.ID, d.userID, data, d.svc.draftTTL); err != nil {
		d.logCtx.WithError(err).Warn("Failed to save draft")
	}
}
