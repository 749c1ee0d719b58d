package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flow-board/internal/domain"
)

// SolutionRepository 是 repository.SolutionRepository 的 mock
type SolutionRepository struct {
	mock.Mock
}

func (m *SolutionRepository) FindByID(ctx context.Context, boardID, solutionID string) (*domain.Solution, error) {
	args := m.Called(ctx, boardID, solutionID)
	sol, _ := args.Get(0).(*domain.Solution)
	return sol, args.Error(1)
}

func (m *SolutionRepository) FindByBoard(ctx context.Context, boardID string) ([]domain.Solution, error) {
	args := m.Called(ctx, boardID)
	sols, _ := args.Get(0).([]domain.Solution)
	return sols, args.Error(1)
}

func (m *SolutionRepository) Save(ctx context.Context, solution *domain.Solution) error {
	args := m.Called(ctx, solution)
	return args.Error(0)
}
