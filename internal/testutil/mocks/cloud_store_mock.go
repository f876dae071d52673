package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/learnify/learnify/internal/models"
)

// MockCloudStore is a mock implementation of cloud.Store
type MockCloudStore struct {
	mock.Mock
}

func (m *MockCloudStore) FetchAll(ctx context.Context, ownerID string) ([]models.CloudQuiz, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CloudQuiz), args.Error(1)
}

func (m *MockCloudStore) Submit(ctx context.Context, record models.QuizRecord, payload string) error {
	args := m.Called(ctx, record, payload)
	return args.Error(0)
}
