package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, userID int64, result models.Result, responses []models.QuestionResponse) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("appending result: user_id=%d, topic=%s, percentage=%d", userID, result.Topic, result.Percentage)

	var resultID int64
	err := tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `
INSERT INTO quiz_results (user_id, topic, total_questions, correct_answers, incorrect_answers, unanswered_questions, total_time_seconds, percentage, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, userID, result.Topic, result.TotalQuestions, result.CorrectAnswers, result.IncorrectAnswers,
			result.UnansweredQuestions, result.TotalTimeSeconds, result.Percentage, result.CompletedAt)
		if err != nil {
			log.Error("failed to insert result: %v", err)
			return err
		}
		resultID, err = res.LastInsertId()
		if err != nil {
			log.Error("failed to get result id: %v", err)
			return err
		}

		for _, resp := range responses {
			if _, err := t.ExecContext(ctx, `
INSERT INTO question_responses (result_id, question_text, user_answer, correct_answer, is_correct, time_spent_seconds)
VALUES (?, ?, ?, ?, ?, ?)
`, resultID, resp.QuestionText, resp.UserAnswer, resp.CorrectAnswer, resp.IsCorrect, resp.TimeSpentSeconds); err != nil {
				log.Error("failed to insert question response: %v", err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug("result appended: id=%d, responses=%d", resultID, len(responses))
	return resultID, nil
}

func (r *historyRepository) List(ctx context.Context, userID int64) ([]models.Result, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing results: user_id=%d", userID)

	query := sqlBuilder.Select(
		"id", "user_id", "topic", "total_questions", "correct_answers",
		"incorrect_answers", "unanswered_questions", "total_time_seconds",
		"percentage", "completed_at",
	).From("quiz_results").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("completed_at DESC", "id DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var res models.Result
		if err := rows.Scan(&res.ID, &res.UserID, &res.Topic, &res.TotalQuestions, &res.CorrectAnswers,
			&res.IncorrectAnswers, &res.UnansweredQuestions, &res.TotalTimeSeconds,
			&res.Percentage, &res.CompletedAt); err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, res)
	}

	log.Debug("found %d results", len(results))
	return results, rows.Err()
}

func (r *historyRepository) Get(ctx context.Context, id, userID int64) (*models.ResultWithResponses, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting result: id=%d, user_id=%d", id, userID)

	var res models.Result
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, topic, total_questions, correct_answers, incorrect_answers, unanswered_questions, total_time_seconds, percentage, completed_at
FROM quiz_results
WHERE id = ? AND user_id = ?
`, id, userID).Scan(&res.ID, &res.UserID, &res.Topic, &res.TotalQuestions, &res.CorrectAnswers,
		&res.IncorrectAnswers, &res.UnansweredQuestions, &res.TotalTimeSeconds, &res.Percentage, &res.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("result not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get result: %v", err)
		return nil, err
	}

	query := sqlBuilder.Select(
		"id", "result_id", "question_text", "user_answer", "correct_answer", "is_correct", "time_spent_seconds",
	).From("question_responses").
		Where(squirrel.Eq{"result_id": id}).
		OrderBy("id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build responses query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list question responses: %v", err)
		return nil, err
	}
	defer rows.Close()

	var responses []models.QuestionResponse
	for rows.Next() {
		var resp models.QuestionResponse
		if err := rows.Scan(&resp.ID, &resp.ResultID, &resp.QuestionText, &resp.UserAnswer,
			&resp.CorrectAnswer, &resp.IsCorrect, &resp.TimeSpentSeconds); err != nil {
			log.Error("failed to scan response row: %v", err)
			return nil, err
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.ResultWithResponses{Result: res, Responses: responses}, nil
}
