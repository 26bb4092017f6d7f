package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation.
// The snapshot is stored as a JSON blob in a single slot per user.
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Save(ctx context.Context, userID int64, snapshot models.Progress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: user_id=%d, topic=%s, index=%d", userID, snapshot.Topic, snapshot.CurrentIndex)

	blob, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("failed to marshal progress snapshot: %v", err)
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO quiz_progress (user_id, snapshot, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP
`, userID, string(blob))
	if err != nil {
		log.Error("failed to save progress: %v", err)
	}
	return err
}

func (r *progressRepository) Load(ctx context.Context, userID int64) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading progress: user_id=%d", userID)

	var blob string
	err := r.db.QueryRowContext(ctx, `
SELECT snapshot FROM quiz_progress WHERE user_id = ?
`, userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no progress found: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, err
	}

	var p models.Progress
	if err := json.Unmarshal([]byte(blob), &p); err != nil {
		log.Error("failed to unmarshal progress snapshot: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Clear(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("clearing progress: user_id=%d", userID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM quiz_progress WHERE user_id = ?`, userID)
	if err != nil {
		log.Error("failed to clear progress: %v", err)
	}
	return err
}
