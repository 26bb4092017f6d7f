package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dferreira/quizmaster/internal/models"
)

// MockTriviaClient is a mock implementation of trivia.ClientInterface
type MockTriviaClient struct {
	mock.Mock
}

func (m *MockTriviaClient) FetchQuestions(ctx context.Context, topic string, count int) ([]models.Question, error) {
	args := m.Called(ctx, topic, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}
