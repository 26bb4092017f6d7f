package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dferreira/quizmaster/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Save(ctx context.Context, userID int64, snapshot models.Progress) error {
	args := m.Called(ctx, userID, snapshot)
	return args.Error(0)
}

func (m *MockProgressRepository) Load(ctx context.Context, userID int64) (*models.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
