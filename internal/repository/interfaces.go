package repository

import (
	"context"

	"github.com/dferreira/quizmaster/internal/models"
)

// UserRepository handles user account data access
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProgressRepository holds the single in-progress quiz snapshot per user.
// Save overwrites any previous snapshot; Load returns nil when the slot
// is empty.
type ProgressRepository interface {
	Save(ctx context.Context, userID int64, snapshot models.Progress) error
	Load(ctx context.Context, userID int64) (*models.Progress, error)
	Clear(ctx context.Context, userID int64) error
}

// HistoryRepository is the append-only list of finished quiz results.
type HistoryRepository interface {
	Append(ctx context.Context, userID int64, result models.Result, responses []models.QuestionResponse) (int64, error)
	List(ctx context.Context, userID int64) ([]models.Result, error)
	Get(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error)
}
