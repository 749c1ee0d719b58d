package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flow-board/internal/domain"
	"flow-board/internal/engine"
	"flow-board/internal/repository"
	"flow-board/internal/repository/mocks"
	"flow-board/internal/service"
)

type drawingFixture struct {
	boardRepo    *mocks.BoardRepository
	solutionRepo *mocks.SolutionRepository
	stateRepo    *mocks.StateRepository
	svc          *service.DrawingService
}

func newDrawingFixture(t *testing.T) *drawingFixture {
	t.Helper()
	f := &drawingFixture{
		boardRepo:    new(mocks.BoardRepository),
		solutionRepo: new(mocks.SolutionRepository),
		stateRepo:    new(mocks.StateRepository),
	}
	boards := service.NewBoardService(f.boardRepo, nil, 10)
	solutions := service.NewSolutionService(f.boardRepo, f.solutionRepo, nil)
	f.svc = service.NewDrawingService(boards, solutions, f.stateRepo, time.Hour)
	f.boardRepo.On("FindByID", mock.Anything, "board-1").Return(testBoard(t, 1), nil)
	return f
}

func dragColumn(t *testing.T, ctx context.Context, s *service.DrawingSession, x int) []engine.Effect {
	t.Helper()
	cells := column(x, 0, 4)
	var effects []engine.Effect
	_, err := s.Handle(ctx, engine.PointerDown(cells[0]))
	require.NoError(t, err)
	for _, c := range cells[1 : len(cells)-1] {
		_, err := s.Handle(ctx, engine.PointerMove(c))
		require.NoError(t, err)
	}
	effects, err = s.Handle(ctx, engine.PointerUp(cells[len(cells)-1]))
	require.NoError(t, err)
	return effects
}

func TestDrawingService_OpenSession_FromDraft(t *testing.T) {
	// Arrange
	f := newDrawingFixture(t)
	ctx := context.Background()
	draft, err := json.Marshal([]domain.Path{{Color: red, Cells: column(0, 0, 4)}})
	require.NoError(t, err)
	f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(draft, nil).Once()

	// Act
	s, err := f.svc.OpenSession(ctx, 2, "board-1", "")

	// Assert
	require.NoError(t, err)
	defer s.Close()
	assert.Empty(t, s.SolutionID(), "草稿恢复的解答尚未保存")
	require.Len(t, s.Paths(), 1)
	assert.Equal(t, cell(0, 4), s.Paths()[0].End)
	board, points := s.Board()
	assert.Equal(t, "board-1", board.ID)
	assert.Len(t, points, 4)
}

func TestDrawingService_OpenSession_DraftFallbacks(t *testing.T) {
	cases := []struct {
		name  string
		draft []byte
		err   error
	}{
		{name: "no draft", err: repository.ErrDraftNotFound},
		{name: "redis failure", err: assert.AnError},
		{name: "malformed draft", draft: []byte(`{"not":"a list"`)},
		{name: "draft with invalid path", draft: []byte(`[{"color":{"hex_value":"#FF0000"},"path":[{"x":0,"y":0},{"x":2,"y":2}]}]`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newDrawingFixture(t)
			ctx := context.Background()
			f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(tc.draft, tc.err).Once()

			s, err := f.svc.OpenSession(ctx, 2, "board-1", "")

			require.NoError(t, err, "草稿问题不应阻止打开会话")
			assert.Empty(t, s.Paths(), "应从空白解答开始")
			s.Close()
		})
	}
}

func TestDrawingService_OpenSession_FromSolution(t *testing.T) {
	f := newDrawingFixture(t)
	ctx := context.Background()
	sol := &domain.Solution{ID: "solution-1", BoardID: "board-1", UserID: 2}
	require.NoError(t, sol.SetPaths(validPaths()))
	f.solutionRepo.On("FindByID", ctx, "board-1", "solution-1").Return(sol, nil)

	s, err := f.svc.OpenSession(ctx, 2, "board-1", "solution-1")
	require.NoError(t, err)
	assert.Equal(t, "solution-1", s.SolutionID())
	assert.Len(t, s.Paths(), 2)
	f.stateRepo.AssertNotCalled(t, "GetDraft", mock.Anything, mock.Anything, mock.Anything)

	_, err = f.svc.OpenSession(ctx, 3, "board-1", "solution-1")
	assert.ErrorIs(t, err, service.ErrSolutionNotFound, "不能打开别人的解答")
}

func TestDrawingService_OpenSession_BoardNotFound(t *testing.T) {
	f := newDrawingFixture(t)
	f.boardRepo.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrBoardNotFound)

	_, err := f.svc.OpenSession(context.Background(), 2, "missing", "")

	assert.ErrorIs(t, err, service.ErrBoardNotFound)
}

func TestDrawingSession_HandleMirrorsDraft(t *testing.T) {
	// Arrange
	f := newDrawingFixture(t)
	ctx := context.Background()
	f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(nil, repository.ErrDraftNotFound).Once()
	f.stateRepo.On("SaveDraft", ctx, "board-1", uint(2), mock.Anything, time.Hour).Return(nil).Twice()
	s, err := f.svc.OpenSession(ctx, 2, "board-1", "")
	require.NoError(t, err)

	// Act: 提交一条路径然后删除
	effects := dragColumn(t, ctx, s, 0)
	require.Len(t, effects, 1)
	assert.Equal(t, engine.EffectFinalizePath, effects[0].Kind)

	effects, err = s.Handle(ctx, engine.RemoveRequested(cell(0, 0)))
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, engine.EffectClearPath, effects[0].Kind)

	// Assert: 每次已提交路径变化都同步一次草稿
	f.stateRepo.AssertExpectations(t)
	assert.Equal(t, engine.StateIdle, s.State())

	_, err = s.Handle(ctx, engine.RemoveRequested(cell(0, 0)))
	assert.ErrorIs(t, err, engine.ErrDotNotInPath)
}

func TestDrawingSession_Save(t *testing.T) {
	// Arrange
	f := newDrawingFixture(t)
	ctx := context.Background()
	f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(nil, repository.ErrDraftNotFound).Once()
	f.stateRepo.On("SaveDraft", ctx, "board-1", uint(2), mock.Anything, time.Hour).Return(nil)
	f.stateRepo.On("DeleteDraft", ctx, "board-1", uint(2)).Return(nil).Once()
	f.solutionRepo.On("Save", ctx, mock.Anything).Return(nil)
	s, err := f.svc.OpenSession(ctx, 2, "board-1", "")
	require.NoError(t, err)
	dragColumn(t, ctx, s, 0)
	dragColumn(t, ctx, s, 1)

	// Act
	sol, err := s.Save(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, sol.ID, s.SolutionID(), "保存后会话记录解答 ID")
	assert.Len(t, s.Paths(), 2)
	f.stateRepo.AssertExpectations(t)
	f.stateRepo.AssertNumberOfCalls(t, "SaveDraft", 2)

	// 已保存的解答再次修改时不再写草稿，再次保存走更新流程
	f.solutionRepo.On("FindByID", ctx, "board-1", sol.ID).Return(sol, nil).Once()
	f.stateRepo.On("DeleteDraft", ctx, "board-1", uint(2)).Return(nil).Once()
	_, err = s.Handle(ctx, engine.RemoveRequested(cell(1, 4)))
	require.NoError(t, err)
	f.stateRepo.AssertNumberOfCalls(t, "SaveDraft", 2)

	updated, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, sol.ID, updated.ID)
	assert.Len(t, s.Paths(), 1)
}

func TestDrawingSession_SaveFailureKeepsStore(t *testing.T) {
	f := newDrawingFixture(t)
	ctx := context.Background()
	f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(nil, repository.ErrDraftNotFound).Once()
	f.stateRepo.On("SaveDraft", ctx, "board-1", uint(2), mock.Anything, time.Hour).Return(nil)
	f.solutionRepo.On("Save", ctx, mock.Anything).Return(assert.AnError).Once()
	s, err := f.svc.OpenSession(ctx, 2, "board-1", "")
	require.NoError(t, err)

	// 没有路径时直接拒绝
	_, err = s.Save(ctx)
	var verrs engine.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, engine.ValidationErrors{"no paths have been drawn"}, verrs)

	// 持久化失败时路径保持不变
	dragColumn(t, ctx, s, 0)
	_, err = s.Save(ctx)
	assert.ErrorIs(t, err, service.ErrInternalServer)
	assert.Empty(t, s.SolutionID())
	assert.Len(t, s.Paths(), 1)
	f.stateRepo.AssertNotCalled(t, "DeleteDraft", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrawingSession_SaveRejectedWhileDragging(t *testing.T) {
	// Arrange
	f := newDrawingFixture(t)
	ctx := context.Background()
	f.stateRepo.On("GetDraft", ctx, "board-1", uint(2)).Return(nil, repository.ErrDraftNotFound).Once()
	f.stateRepo.On("SaveDraft", ctx, "board-1", uint(2), mock.Anything, time.Hour).Return(nil)
	s, err := f.svc.OpenSession(ctx, 2, "board-1", "")
	require.NoError(t, err)
	dragColumn(t, ctx, s, 0)
	_, err = s.Handle(ctx, engine.PointerDown(cell(1, 0)))
	require.NoError(t, err)

	// Act
	sol, err := s.Save(ctx)

	// Assert
	assert.Nil(t, sol)
	assert.ErrorIs(t, err, engine.ErrDragInProgress)
	assert.Equal(t, engine.StateDragging, s.State(), "拒绝保存不应打断当前拖拽")
	assert.Len(t, s.Paths(), 1)
	f.solutionRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	// 拖拽结束后可以继续完成路径
	for _, c := range column(1, 1, 4) {
		if c == cell(1, 4) {
			_, err = s.Handle(ctx, engine.PointerUp(c))
		} else {
			_, err = s.Handle(ctx, engine.PointerMove(c))
		}
		require.NoError(t, err)
	}
	assert.Equal(t, engine.StateIdle, s.State())
	assert.Len(t, s.Paths(), 2)
}
