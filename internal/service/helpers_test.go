package service_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flow-board/internal/domain"
	"flow-board/internal/repository/mocks"
	"flow-board/internal/service"
	"flow-board/internal/tasks"
)

var (
	red  = domain.Color{Name: "red", HexValue: "#FF0000"}
	blue = domain.Color{Name: "blue", HexValue: "#0000FF"}
)

func cell(x, y int) domain.Cell { return domain.Cell{X: x, Y: y} }

func column(x, from, to int) []domain.Cell {
	var cells []domain.Cell
	step := 1
	if to < from {
		step = -1
	}
	for y := from; y != to+step; y += step {
		cells = append(cells, cell(x, y))
	}
	return cells
}

// boardPoints 是 5x5 谜题板上的两对点：红色在第 0 列两端，蓝色在第 1 列两端
func boardPoints() []domain.Point {
	return []domain.Point{
		{X: 0, Y: 0, Color: red}, {X: 0, Y: 4, Color: red},
		{X: 1, Y: 0, Color: blue}, {X: 1, Y: 4, Color: blue},
	}
}

func testBoard(t *testing.T, ownerID uint) *domain.Board {
	t.Helper()
	b := &domain.Board{ID: "board-1", Name: "columns", OwnerID: ownerID, Rows: 5, Columns: 5}
	require.NoError(t, b.SetPoints(boardPoints()))
	return b
}

// validPaths 是 testBoard 的一个完整解答
func validPaths() []domain.Path {
	return []domain.Path{
		{Color: red, Cells: column(0, 0, 4)},
		{Color: blue, Cells: column(1, 0, 4)},
	}
}

// expectNotification 设置一次通知入队的预期
func expectNotification(enq *mocks.TaskEnqueuer, ctx context.Context) *mock.Call {
	return enq.On("EnqueueContext", ctx, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == tasks.TypeNotificationFanout
	})).Return(&asynq.TaskInfo{ID: "task-1"}, nil).Once()
}

func newNotifier(enq *mocks.TaskEnqueuer) *service.NotificationService {
	return service.NewNotificationService(enq)
}
