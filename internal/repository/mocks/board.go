package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flow-board/internal/domain"
)

// BoardRepository 是 repository.BoardRepository 的 mock
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	args := m.Called(ctx, id)
	board, _ := args.Get(0).(*domain.Board)
	return board, args.Error(1)
}

func (m *BoardRepository) FindAll(ctx context.Context) ([]domain.Board, error) {
	args := m.Called(ctx)
	boards, _ := args.Get(0).([]domain.Board)
	return boards, args.Error(1)
}

func (m *BoardRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	args := m.Called(ctx, ownerID)
	boards, _ := args.Get(0).([]domain.Board)
	return boards, args.Error(1)
}

func (m *BoardRepository) Save(ctx context.Context, board *domain.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *BoardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
