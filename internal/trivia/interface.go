package trivia

import (
	"context"

	"github.com/dferreira/quizmaster/internal/models"
)

// ClientInterface defines the trivia API operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchQuestions(ctx context.Context, topic string, count int) ([]models.Question, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
