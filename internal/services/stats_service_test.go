package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dferreira/quizmaster/internal/errors"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/services"
	"github.com/dferreira/quizmaster/internal/testutil/mocks"
)

func TestStatsServiceGetStats(t *testing.T) {
	historyRepo := new(mocks.MockHistoryRepository)
	svc := services.NewStatsService(historyRepo)

	now := time.Now()
	historyRepo.On("List", mock.Anything, int64(1)).Return([]models.Result{
		{Percentage: 80, TotalTimeSeconds: 120, CompletedAt: now},
		{Percentage: 60, TotalTimeSeconds: 180, CompletedAt: now.AddDate(0, 0, -1)},
	}, nil)

	stats, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, 70, stats.AveragePercentage)
	assert.Equal(t, "5m", stats.TotalTimeFormatted)
	assert.Equal(t, 2, stats.CurrentStreakDays)
}

func TestStatsServiceGetStatsEmptyHistory(t *testing.T) {
	historyRepo := new(mocks.MockHistoryRepository)
	svc := services.NewStatsService(historyRepo)

	historyRepo.On("List", mock.Anything, int64(1)).Return([]models.Result{}, nil)

	stats, err := svc.GetStats(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CompletedCount)
	assert.Equal(t, 0, stats.AveragePercentage)
	assert.Equal(t, "0m", stats.TotalTimeFormatted)
	assert.Equal(t, 0, stats.CurrentStreakDays)
}

func TestStatsServiceGetHistoryError(t *testing.T) {
	historyRepo := new(mocks.MockHistoryRepository)
	svc := services.NewStatsService(historyRepo)

	historyRepo.On("List", mock.Anything, int64(1)).Return(nil, fmt.Errorf("db gone"))

	_, err := svc.GetHistory(context.Background(), 1)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInternal, appErr.Code)
}

func TestStatsServiceGetReport(t *testing.T) {
	historyRepo := new(mocks.MockHistoryRepository)
	svc := services.NewStatsService(historyRepo)

	report := &models.ResultWithResponses{
		Result:    models.Result{ID: 7, UserID: 1, Topic: "science"},
		Responses: []models.QuestionResponse{{QuestionText: "q1", IsCorrect: true}},
	}
	historyRepo.On("Get", mock.Anything, int64(7), int64(1)).Return(report, nil)

	got, err := svc.GetReport(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "science", got.Result.Topic)
	require.Len(t, got.Responses, 1)
}

func TestStatsServiceGetReportMissing(t *testing.T) {
	historyRepo := new(mocks.MockHistoryRepository)
	svc := services.NewStatsService(historyRepo)

	historyRepo.On("Get", mock.Anything, int64(99), int64(1)).Return(nil, nil)

	_, err := svc.GetReport(context.Background(), 99, 1)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
}
