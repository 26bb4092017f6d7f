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
	"github.com/dferreira/quizmaster/internal/trivia"
)

func threeQuestions() []models.Question {
	return []models.Question{
		{ID: 1, Text: "q1", Options: []string{"a", "b", "c", "d"}, CorrectOption: "a"},
		{ID: 2, Text: "q2", Options: []string{"a", "b", "c", "d"}, CorrectOption: "b"},
		{ID: 3, Text: "q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: "c"},
	}
}

type quizFixture struct {
	client       *mocks.MockTriviaClient
	progressRepo *mocks.MockProgressRepository
	historyRepo  *mocks.MockHistoryRepository
	svc          services.QuizService
}

func newQuizFixture(t *testing.T, cfg services.QuizConfig) *quizFixture {
	t.Helper()

	f := &quizFixture{
		client:       new(mocks.MockTriviaClient),
		progressRepo: new(mocks.MockProgressRepository),
		historyRepo:  new(mocks.MockHistoryRepository),
	}
	f.svc = services.NewQuizService(trivia.NewSource(f.client), f.progressRepo, f.historyRepo, cfg)
	t.Cleanup(f.svc.Close)
	return f
}

func defaultQuizConfig() services.QuizConfig {
	// A long question time keeps countdowns from firing mid-test.
	return services.QuizConfig{QuestionCount: 3, QuestionTimeSeconds: 300}
}

func TestQuizServiceStart(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)

	view, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)
	assert.Equal(t, "science", view.Topic)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.Equal(t, "q1", view.Question.Text)
	assert.Nil(t, view.SelectedAnswer)
	assert.Equal(t, 300, view.TimeLimitSeconds)
	assert.InDelta(t, 1.0/3.0, view.Progress, 1e-9)
	f.progressRepo.AssertCalled(t, "Save", mock.Anything, int64(1), mock.Anything)
}

func TestQuizServiceStartEmptyTopic(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())

	_, err := f.svc.Start(context.Background(), 1, "")
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
}

func TestQuizServiceStartUsesFallbackOnSourceFailure(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(nil, fmt.Errorf("provider down"))
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)

	view, err := f.svc.Start(context.Background(), 1, "science")
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.Contains(t, view.Question.Text, "science")
}

func TestQuizServiceStartSurvivesPersistenceFailure(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(fmt.Errorf("storage down"))

	view, err := f.svc.Start(context.Background(), 1, "science")
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalQuestions)
}

func TestQuizServiceAnswerAndNavigate(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)

	_, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)

	view, err := f.svc.Answer(ctx, 1, "a")
	require.NoError(t, err)
	require.NotNil(t, view.SelectedAnswer)
	assert.Equal(t, "a", *view.SelectedAnswer)
	assert.Equal(t, 1, view.AnsweredCount)

	view, result, err := f.svc.Next(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, view.CurrentIndex)
	assert.Nil(t, view.SelectedAnswer)

	view, err = f.svc.Previous(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.CurrentIndex)
	require.NotNil(t, view.SelectedAnswer)
	assert.Equal(t, "a", *view.SelectedAnswer)

	view, err = f.svc.GoTo(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.CurrentIndex)

	// Out of range navigation leaves the session where it was.
	view, err = f.svc.GoTo(ctx, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, view.CurrentIndex)
}

func TestQuizServiceAdvancePastLastFinalizes(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)
	f.progressRepo.On("Clear", mock.Anything, int64(1)).Return(nil)

	var savedResponses []models.QuestionResponse
	f.historyRepo.On("Append", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedResponses = args.Get(3).([]models.QuestionResponse)
		}).
		Return(int64(7), nil)

	_, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)

	_, err = f.svc.Answer(ctx, 1, "a") // correct
	require.NoError(t, err)
	require.NoError(t, f.svc.RecordElapsed(ctx, 1, 0, 5))

	_, result, err := f.svc.Next(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, result)

	_, err = f.svc.Answer(ctx, 1, "d") // wrong
	require.NoError(t, err)

	_, result, err = f.svc.Next(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, result)

	// Third question left unanswered; advancing off the last finalizes.
	_, result, err = f.svc.Next(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(7), result.ID)
	assert.Equal(t, int64(1), result.UserID)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.IncorrectAnswers)
	assert.Equal(t, 1, result.UnansweredQuestions)
	assert.Equal(t, 33, result.Percentage)

	require.Len(t, savedResponses, 3)
	assert.True(t, savedResponses[0].IsCorrect)
	assert.Equal(t, 5, savedResponses[0].TimeSpentSeconds)
	assert.Nil(t, savedResponses[2].UserAnswer)

	// The session is gone; further operations find no active quiz.
	_, _, err = f.svc.Next(ctx, 1)
	require.Error(t, err)
	f.historyRepo.AssertNumberOfCalls(t, "Append", 1)
	f.progressRepo.AssertCalled(t, "Clear", mock.Anything, int64(1))
}

func TestQuizServiceSubmitEarly(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)
	f.progressRepo.On("Clear", mock.Anything, int64(1)).Return(nil)
	f.historyRepo.On("Append", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)

	result, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.UnansweredQuestions)
	assert.Equal(t, 0, result.Percentage)
	f.historyRepo.AssertNumberOfCalls(t, "Append", 1)
}

func TestQuizServiceCurrentRestoresSnapshot(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	snapshot := &models.Progress{
		Topic:           "science",
		Questions:       threeQuestions(),
		CurrentIndex:    1,
		Answers:         map[int]string{0: "a"},
		Elapsed:         map[int]int{0: 12},
		StartedAtMillis: time.Now().Add(-time.Minute).UnixMilli(),
	}
	f.progressRepo.On("Load", mock.Anything, int64(1)).Return(snapshot, nil).Once()
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)

	view, err := f.svc.Current(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "science", view.Topic)
	assert.Equal(t, 1, view.CurrentIndex)
	assert.Equal(t, 1, view.AnsweredCount)

	// Subsequent reads serve the in-memory session, not the store.
	view, err = f.svc.Current(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, view)
	f.progressRepo.AssertNumberOfCalls(t, "Load", 1)
}

func TestQuizServiceCurrentNoQuiz(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())

	f.progressRepo.On("Load", mock.Anything, int64(1)).Return(nil, nil)

	view, err := f.svc.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestQuizServiceAbandon(t *testing.T) {
	f := newQuizFixture(t, defaultQuizConfig())
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 3).Return(threeQuestions(), nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)
	f.progressRepo.On("Clear", mock.Anything, int64(1)).Return(nil)
	f.progressRepo.On("Load", mock.Anything, int64(1)).Return(nil, nil)

	_, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)

	require.NoError(t, f.svc.Abandon(ctx, 1))
	f.progressRepo.AssertCalled(t, "Clear", mock.Anything, int64(1))

	view, err := f.svc.Current(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, view)
	f.historyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQuizServiceExpiryAdvancesAndFinalizes(t *testing.T) {
	cfg := services.QuizConfig{
		QuestionCount:       1,
		QuestionTimeSeconds: 1,
		TickInterval:        5 * time.Millisecond,
	}
	f := newQuizFixture(t, cfg)
	ctx := context.Background()

	f.client.On("FetchQuestions", mock.Anything, "science", 1).Return(threeQuestions()[:1], nil)
	f.progressRepo.On("Save", mock.Anything, int64(1), mock.Anything).Return(nil)
	f.progressRepo.On("Clear", mock.Anything, int64(1)).Return(nil)

	finalized := make(chan models.Result, 1)
	f.historyRepo.On("Append", mock.Anything, int64(1), mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			finalized <- args.Get(2).(models.Result)
		}).
		Return(int64(1), nil)

	_, err := f.svc.Start(ctx, 1, "science")
	require.NoError(t, err)

	select {
	case result := <-finalized:
		assert.Equal(t, 1, result.TotalQuestions)
		assert.Equal(t, 1, result.UnansweredQuestions)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown expiry never finalized the quiz")
	}
}
