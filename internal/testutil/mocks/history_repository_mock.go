package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/learnify/learnify/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Upsert(ctx context.Context, record models.QuizRecord, resultPayload string) error {
	args := m.Called(ctx, record, resultPayload)
	return args.Error(0)
}

func (m *MockHistoryRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRecord), args.Error(1)
}

func (m *MockHistoryRepository) Get(ctx context.Context, id string) (*models.QuizRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizRecord), args.Error(1)
}

func (m *MockHistoryRepository) GetResult(ctx context.Context, id string) (*models.QuizResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockHistoryRepository) Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HistoryStats), args.Error(1)
}

func (m *MockHistoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHistoryRepository) ClearOwner(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}
