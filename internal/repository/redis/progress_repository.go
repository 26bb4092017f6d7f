package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/repository"
)

type progressRepository struct {
	client *redis.Client
}

// NewProgressRepository creates a ProgressRepository backed by Redis.
// Each user owns a single snapshot key holding the JSON-encoded progress.
func NewProgressRepository(client *redis.Client) repository.ProgressRepository {
	return &progressRepository{client: client}
}

func progressKey(userID int64) string {
	return fmt.Sprintf("quiz:progress:%d", userID)
}

func (r *progressRepository) Save(ctx context.Context, userID int64, snapshot models.Progress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: user_id=%d, topic=%s", userID, snapshot.Topic)

	blob, err := json.Marshal(snapshot)
	if err != nil {
		log.Error("failed to marshal progress snapshot: %v", err)
		return err
	}
	if err := r.client.Set(ctx, progressKey(userID), blob, 0).Err(); err != nil {
		log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}

func (r *progressRepository) Load(ctx context.Context, userID int64) (*models.Progress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("loading progress: user_id=%d", userID)

	blob, err := r.client.Get(ctx, progressKey(userID)).Bytes()
	if err == redis.Nil {
		log.Debug("no progress found: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, err
	}

	var p models.Progress
	if err := json.Unmarshal(blob, &p); err != nil {
		log.Error("failed to unmarshal progress snapshot: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) Clear(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("clearing progress: user_id=%d", userID)

	if err := r.client.Del(ctx, progressKey(userID)).Err(); err != nil {
		log.Error("failed to clear progress: %v", err)
		return err
	}
	return nil
}
