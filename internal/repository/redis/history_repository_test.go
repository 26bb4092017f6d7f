package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/repository"
	"github.com/dferreira/quizmaster/internal/repository/redis"
)

func newTestHistoryRepo(t *testing.T) repository.HistoryRepository {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return redis.NewHistoryRepository(client)
}

func sampleResult(topic string, completedAt time.Time) models.Result {
	return models.Result{
		Topic:               topic,
		TotalQuestions:      3,
		CorrectAnswers:      2,
		IncorrectAnswers:    1,
		UnansweredQuestions: 0,
		TotalTimeSeconds:    45,
		Percentage:          67,
		CompletedAt:         completedAt,
	}
}

func strPtr(s string) *string { return &s }

func TestHistoryRepositoryAppendAssignsSequentialIDs(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	id1, err := repo.Append(ctx, 1, sampleResult("science", time.Now()), nil)
	require.NoError(t, err)
	id2, err := repo.Append(ctx, 1, sampleResult("history", time.Now()), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
}

func TestHistoryRepositoryAppendAndGet(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	responses := []models.QuestionResponse{
		{QuestionText: "q1", UserAnswer: strPtr("a"), CorrectAnswer: "a", IsCorrect: true, TimeSpentSeconds: 10},
		{QuestionText: "q2", UserAnswer: nil, CorrectAnswer: "b", IsCorrect: false, TimeSpentSeconds: 0},
	}

	id, err := repo.Append(ctx, 1, sampleResult("science", time.Now()), responses)
	require.NoError(t, err)

	got, err := repo.Get(ctx, id, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.Result.ID)
	assert.Equal(t, int64(1), got.Result.UserID)
	assert.Equal(t, "science", got.Result.Topic)
	require.Len(t, got.Responses, 2)
	require.NotNil(t, got.Responses[0].UserAnswer)
	assert.Equal(t, "a", *got.Responses[0].UserAnswer)
	assert.Nil(t, got.Responses[1].UserAnswer)
}

func TestHistoryRepositoryListNewestFirst(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	for i, topic := range []string{"science", "history", "sports"} {
		_, err := repo.Append(ctx, 1, sampleResult(topic, base.AddDate(0, 0, i)), nil)
		require.NoError(t, err)
	}

	results, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "sports", results[0].Topic)
	assert.Equal(t, "history", results[1].Topic)
	assert.Equal(t, "science", results[2].Topic)
}

func TestHistoryRepositoryListEmpty(t *testing.T) {
	repo := newTestHistoryRepo(t)

	results, err := repo.List(context.Background(), 42)
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestHistoryRepositoryGetMissing(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	_, err := repo.Append(ctx, 1, sampleResult("science", time.Now()), nil)
	require.NoError(t, err)

	got, err := repo.Get(ctx, 99, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Get(ctx, 0, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryRepositoryScopedToUser(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	id, err := repo.Append(ctx, 1, sampleResult("science", time.Now()), nil)
	require.NoError(t, err)

	results, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, results)

	got, err := repo.Get(ctx, id, 2)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
