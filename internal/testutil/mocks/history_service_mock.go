package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/learnify/learnify/internal/models"
)

// MockHistoryService is a mock implementation of services.HistoryService
type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) Upsert(ctx context.Context, record models.QuizRecord, result *models.QuizResult) {
	m.Called(ctx, record, result)
}

func (m *MockHistoryService) UpsertRaw(ctx context.Context, record models.QuizRecord, payload string) {
	m.Called(ctx, record, payload)
}

func (m *MockHistoryService) ListAll(ctx context.Context, ownerID string) ([]models.QuizRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRecord), args.Error(1)
}

func (m *MockHistoryService) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.QuizRecord, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRecord), args.Error(1)
}

func (m *MockHistoryService) Search(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuizRecord), args.Error(1)
}

func (m *MockHistoryService) GetResult(ctx context.Context, id string) (*models.QuizResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizResult), args.Error(1)
}

func (m *MockHistoryService) Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HistoryStats), args.Error(1)
}

func (m *MockHistoryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHistoryService) ClearOwner(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}
