package services

import (
	"context"
	"time"

	"github.com/dferreira/quizmaster/internal/errors"
	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/quiz"
	"github.com/dferreira/quizmaster/internal/repository"
)

// StatsService handles history and statistics business logic
type StatsService interface {
	GetHistory(ctx context.Context, userID int64) ([]models.Result, error)
	GetStats(ctx context.Context, userID int64) (*models.Stats, error)
	GetReport(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error)
}

type statsService struct {
	historyRepo repository.HistoryRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(historyRepo repository.HistoryRepository) StatsService {
	return &statsService{historyRepo: historyRepo}
}

func (s *statsService) GetHistory(ctx context.Context, userID int64) ([]models.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting history: user_id=%d", userID)

	results, err := s.historyRepo.List(ctx, userID)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func (s *statsService) GetStats(ctx context.Context, userID int64) (*models.Stats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing stats: user_id=%d", userID)

	results, err := s.historyRepo.List(ctx, userID)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, errors.NewInternalError(err)
	}

	stats := quiz.ComputeStats(results, time.Now())
	return &stats, nil
}

func (s *statsService) GetReport(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting report: id=%d, user_id=%d", id, userID)

	report, err := s.historyRepo.Get(ctx, id, userID)
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if report == nil {
		return nil, errors.NewNotFoundError("result", id)
	}
	return report, nil
}
