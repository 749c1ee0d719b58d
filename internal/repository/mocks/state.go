package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// StateRepository 是 repository.StateRepository 的 mock
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) GetDraft(ctx context.Context, boardID string, userID uint) ([]byte, error) {
	args := m.Called(ctx, boardID, userID)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *StateRepository) SaveDraft(ctx context.Context, boardID string, userID uint, paths []byte, ttl time.Duration) error {
	args := m.Called(ctx, boardID, userID, paths, ttl)
	return args.Error(0)
}

func (m *StateRepository) DeleteDraft(ctx context.Context, boardID string, userID uint) error {
	args := m.Called(ctx, boardID, userID)
	return args.Error(0)
}

func (m *StateRepository) SweepDrafts(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *StateRepository) CheckRateLimit(ctx context.Context, key string, limit int, duration time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, duration)
	return args.Bool(0), args.Error(1)
}

func (m *StateRepository) PublishNotification(ctx context.Context, payload []byte) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func (m *StateRepository) SubscribeNotifications(ctx context.Context) (<-chan []byte, error) {
	args := m.Called(ctx)
	ch, _ := args.Get(0).(<-chan []byte)
	return ch, args.Error(1)
}
