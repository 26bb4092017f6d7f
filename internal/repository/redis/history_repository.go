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

type historyRepository struct {
	client *redis.Client
}

// NewHistoryRepository creates a HistoryRepository backed by Redis.
// Each user's history is one list of JSON-encoded entries in append
// order; an entry's ID is its 1-based position in the list.
func NewHistoryRepository(client *redis.Client) repository.HistoryRepository {
	return &historyRepository{client: client}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("quiz:history:%d", userID)
}

func (r *historyRepository) Append(ctx context.Context, userID int64, result models.Result, responses []models.QuestionResponse) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("appending result: user_id=%d, topic=%s", userID, result.Topic)

	length, err := r.client.LLen(ctx, historyKey(userID)).Result()
	if err != nil {
		log.Error("failed to read history length: %v", err)
		return 0, err
	}

	id := length + 1
	result.ID = id
	result.UserID = userID
	for i := range responses {
		responses[i].ResultID = id
	}

	blob, err := json.Marshal(models.ResultWithResponses{Result: result, Responses: responses})
	if err != nil {
		log.Error("failed to marshal history entry: %v", err)
		return 0, err
	}
	if err := r.client.RPush(ctx, historyKey(userID), blob).Err(); err != nil {
		log.Error("failed to append result: %v", err)
		return 0, err
	}

	log.Debug("result appended: id=%d", id)
	return id, nil
}

func (r *historyRepository) List(ctx context.Context, userID int64) ([]models.Result, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing results: user_id=%d", userID)

	entries, err := r.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}

	// Append order is oldest first; callers expect newest first.
	var results []models.Result
	for i := len(entries) - 1; i >= 0; i-- {
		var entry models.ResultWithResponses
		if err := json.Unmarshal([]byte(entries[i]), &entry); err != nil {
			log.Error("failed to unmarshal history entry: %v", err)
			return nil, err
		}
		results = append(results, entry.Result)
	}

	log.Debug("found %d results", len(results))
	return results, nil
}

func (r *historyRepository) Get(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting result: id=%d, user_id=%d", id, userID)

	if id < 1 {
		return nil, nil
	}
	blob, err := r.client.LIndex(ctx, historyKey(userID), id-1).Result()
	if err == redis.Nil {
		log.Debug("result not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, err
	}

	var entry models.ResultWithResponses
	if err := json.Unmarshal([]byte(blob), &entry); err != nil {
		log.Error("failed to unmarshal history entry: %v", err)
		return nil, err
	}
	return &entry, nil
}
