package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dferreira/quizmaster/internal/models"
)

// MockHistoryRepository is a mock implementation of repository.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, userID int64, result models.Result, responses []models.QuestionResponse) (int64, error) {
	args := m.Called(ctx, userID, result, responses)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepository) List(ctx context.Context, userID int64) ([]models.Result, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Result), args.Error(1)
}

func (m *MockHistoryRepository) Get(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ResultWithResponses), args.Error(1)
}
