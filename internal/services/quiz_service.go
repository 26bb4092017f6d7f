package services

import (
	"context"
	"sync"
	"time"

	"github.com/dferreira/quizmaster/internal/errors"
	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
	"github.com/dferreira/quizmaster/internal/quiz"
	"github.com/dferreira/quizmaster/internal/repository"
	"github.com/dferreira/quizmaster/internal/timer"
	"github.com/dferreira/quizmaster/internal/trivia"
)

// QuizService handles quiz session business logic
type QuizService interface {
	Start(ctx context.Context, userID int64, topic string) (*models.SessionView, error)
	Current(ctx context.Context, userID int64) (*models.SessionView, error)
	Answer(ctx context.Context, userID int64, option string) (*models.SessionView, error)
	RecordElapsed(ctx context.Context, userID int64, questionIndex, seconds int) error
	GoTo(ctx context.Context, userID int64, index int) (*models.SessionView, error)
	Next(ctx context.Context, userID int64) (*models.SessionView, *models.Result, error)
	Previous(ctx context.Context, userID int64) (*models.SessionView, error)
	Submit(ctx context.Context, userID int64) (*models.Result, error)
	Abandon(ctx context.Context, userID int64) error
	Close()
}

// QuizConfig controls session sizing and the per-question countdown.
type QuizConfig struct {
	QuestionCount       int
	QuestionTimeSeconds int
	TickInterval        time.Duration // defaults to one second
}

type activeSession struct {
	session   *quiz.Session
	countdown *timer.Countdown
}

type quizService struct {
	source       *trivia.Source
	progressRepo repository.ProgressRepository
	historyRepo  repository.HistoryRepository
	cfg          QuizConfig

	mu       sync.Mutex
	sessions map[int64]*activeSession
}

// NewQuizService creates a new QuizService. Sessions live in memory,
// one per user; the repositories are best-effort collaborators that
// make sessions resumable and results durable.
func NewQuizService(source *trivia.Source, progressRepo repository.ProgressRepository, historyRepo repository.HistoryRepository, cfg QuizConfig) QuizService {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	return &quizService{
		source:       source,
		progressRepo: progressRepo,
		historyRepo:  historyRepo,
		cfg:          cfg,
		sessions:     make(map[int64]*activeSession),
	}
}

func (s *quizService) Start(ctx context.Context, userID int64, topic string) (*models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: user_id=%d, topic=%s", userID, topic)

	if topic == "" {
		return nil, errors.NewValidationError("topic", "must not be empty")
	}

	questions := s.source.Fetch(ctx, topic, s.cfg.QuestionCount)
	session, err := quiz.NewSession(topic, questions, time.Now())
	if err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	s.mu.Lock()
	old := s.replaceLocked(userID, session)
	as := s.sessions[userID]
	view := s.viewLocked(as.session)
	snapshot := as.session.Snapshot()
	cd := as.countdown
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	cd.Start()
	s.persistProgress(ctx, userID, snapshot)

	log.Info("quiz started: user_id=%d, topic=%s, questions=%d", userID, topic, session.Len())
	return view, nil
}

// Current returns the active session view, restoring it from the
// persisted snapshot when the process does not hold one in memory.
// Returns (nil, nil) when the user has no quiz in flight.
func (s *quizService) Current(ctx context.Context, userID int64) (*models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting current quiz: user_id=%d", userID)

	s.mu.Lock()
	if as, ok := s.sessions[userID]; ok {
		view := s.viewLocked(as.session)
		s.mu.Unlock()
		return view, nil
	}
	s.mu.Unlock()

	snapshot, err := s.progressRepo.Load(ctx, userID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if snapshot == nil {
		return nil, nil
	}

	session, err := quiz.Restore(*snapshot)
	if err != nil {
		// A snapshot that cannot seed a session is useless; drop it.
		log.Warn("discarding unusable progress snapshot: user_id=%d: %v", userID, err)
		if clearErr := s.progressRepo.Clear(ctx, userID); clearErr != nil {
			log.Error("failed to clear progress: %v", clearErr)
		}
		return nil, nil
	}

	s.mu.Lock()
	old := s.replaceLocked(userID, session)
	as := s.sessions[userID]
	view := s.viewLocked(as.session)
	cd := as.countdown
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	cd.Start()

	log.Info("quiz resumed: user_id=%d, topic=%s, index=%d", userID, session.Topic(), session.CurrentIndex())
	return view, nil
}

func (s *quizService) Answer(ctx context.Context, userID int64, option string) (*models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording answer: user_id=%d", userID)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("active quiz", userID)
	}
	as.session.SelectAnswer(option)
	view := s.viewLocked(as.session)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	s.persistProgress(ctx, userID, snapshot)
	return view, nil
}

func (s *quizService) RecordElapsed(ctx context.Context, userID int64, questionIndex, seconds int) error {
	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return errors.NewNotFoundError("active quiz", userID)
	}
	recorded := as.session.RecordElapsed(questionIndex, seconds)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	if recorded {
		s.persistProgress(ctx, userID, snapshot)
	}
	return nil
}

func (s *quizService) GoTo(ctx context.Context, userID int64, index int) (*models.SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("navigating quiz: user_id=%d, index=%d", userID, index)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("active quiz", userID)
	}
	moved := as.session.GoTo(index)
	var old, next *timer.Countdown
	if moved {
		old = as.countdown
		next = s.armLocked(userID)
	}
	view := s.viewLocked(as.session)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if next != nil {
		next.Start()
	}
	if moved {
		s.persistProgress(ctx, userID, snapshot)
	}
	return view, nil
}

func (s *quizService) Next(ctx context.Context, userID int64) (*models.SessionView, *models.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("advancing quiz: user_id=%d", userID)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, errors.NewNotFoundError("active quiz", userID)
	}

	result, done := as.session.Advance(time.Now())
	if done {
		responses := as.session.Responses()
		old := as.countdown
		delete(s.sessions, userID)
		s.mu.Unlock()

		if old != nil {
			old.Stop()
		}
		final := s.persistResult(ctx, userID, *result, responses)
		log.Info("quiz completed: user_id=%d, percentage=%d", userID, final.Percentage)
		return nil, &final, nil
	}

	old := as.countdown
	next := s.armLocked(userID)
	view := s.viewLocked(as.session)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	next.Start()
	s.persistProgress(ctx, userID, snapshot)
	return view, nil, nil
}

func (s *quizService) Previous(ctx context.Context, userID int64) (*models.SessionView, error) {
	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("active quiz", userID)
	}
	moved := as.session.Retreat()
	var old, next *timer.Countdown
	if moved {
		old = as.countdown
		next = s.armLocked(userID)
	}
	view := s.viewLocked(as.session)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if next != nil {
		next.Start()
	}
	if moved {
		s.persistProgress(ctx, userID, snapshot)
	}
	return view, nil
}

func (s *quizService) Submit(ctx context.Context, userID int64) (*models.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("submitting quiz: user_id=%d", userID)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("active quiz", userID)
	}

	result, ok := as.session.Finalize(time.Now())
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("quiz already completed")
	}
	responses := as.session.Responses()
	old := as.countdown
	delete(s.sessions, userID)
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	final := s.persistResult(ctx, userID, result, responses)
	log.Info("quiz submitted: user_id=%d, percentage=%d", userID, final.Percentage)
	return &final, nil
}

func (s *quizService) Abandon(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("abandoning quiz: user_id=%d", userID)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	var old *timer.Countdown
	if ok {
		old = as.countdown
		delete(s.sessions, userID)
	}
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
	if err := s.progressRepo.Clear(ctx, userID); err != nil {
		log.Error("failed to clear progress: %v", err)
	}
	return nil
}

// Close stops every running countdown. Called on server shutdown.
func (s *quizService) Close() {
	s.mu.Lock()
	var countdowns []*timer.Countdown
	for _, as := range s.sessions {
		if as.countdown != nil {
			countdowns = append(countdowns, as.countdown)
			as.countdown = nil
		}
	}
	s.mu.Unlock()

	for _, cd := range countdowns {
		cd.Stop()
	}
}

// replaceLocked installs a fresh active session for the user and arms
// its countdown, returning the previous countdown (if any) for the
// caller to stop outside the lock.
func (s *quizService) replaceLocked(userID int64, session *quiz.Session) *timer.Countdown {
	var old *timer.Countdown
	if prev, ok := s.sessions[userID]; ok {
		old = prev.countdown
	}
	s.sessions[userID] = &activeSession{session: session}
	s.armLocked(userID)
	return old
}

// armLocked creates the countdown for the user's active question and
// stores it on the session entry. The caller starts it after releasing
// the lock; a countdown must never be started or stopped under s.mu or
// its expiry callback could deadlock against Stop.
func (s *quizService) armLocked(userID int64) *timer.Countdown {
	as := s.sessions[userID]
	var cd *timer.Countdown
	cd = timer.New(s.cfg.QuestionTimeSeconds, s.cfg.TickInterval, nil, func() {
		s.timeExpired(userID, cd)
	})
	as.countdown = cd
	return cd
}

// timeExpired runs on the countdown goroutine when the active question
// runs out of time. It takes the same advance path as a manual "next".
// The countdown identity check rejects stale expirations: every
// navigation arms a fresh countdown, so an expiry from a replaced one
// finds a different pointer and bails.
func (s *quizService) timeExpired(userID int64, cd *timer.Countdown) {
	ctx := context.Background()
	log := logger.Default().WithPrefix("quiz").WithField("user_id", userID)

	s.mu.Lock()
	as, ok := s.sessions[userID]
	if !ok || as.countdown != cd {
		s.mu.Unlock()
		return
	}
	log.Debug("question time expired: index=%d", as.session.CurrentIndex())

	result, done := as.session.Advance(time.Now())
	if done {
		responses := as.session.Responses()
		delete(s.sessions, userID)
		s.mu.Unlock()

		final := s.persistResult(ctx, userID, *result, responses)
		log.Info("quiz completed on expiry: percentage=%d", final.Percentage)
		return
	}

	next := s.armLocked(userID)
	snapshot := as.session.Snapshot()
	s.mu.Unlock()

	next.Start()
	s.persistProgress(ctx, userID, snapshot)
}

// persistProgress saves the snapshot best-effort. The in-memory session
// stays authoritative; a storage failure costs resumability, not the
// quiz.
func (s *quizService) persistProgress(ctx context.Context, userID int64, snapshot models.Progress) {
	if err := s.progressRepo.Save(ctx, userID, snapshot); err != nil {
		logger.FromContext(ctx).Error("failed to persist progress: user_id=%d: %v", userID, err)
	}
}

// persistResult appends the result to history and clears the progress
// slot, both best-effort. Returns the result with its history ID filled
// in when the append succeeded.
func (s *quizService) persistResult(ctx context.Context, userID int64, result models.Result, responses []models.QuestionResponse) models.Result {
	log := logger.FromContext(ctx)

	result.UserID = userID
	id, err := s.historyRepo.Append(ctx, userID, result, responses)
	if err != nil {
		log.Error("failed to persist result: user_id=%d: %v", userID, err)
	} else {
		result.ID = id
	}
	if err := s.progressRepo.Clear(ctx, userID); err != nil {
		log.Error("failed to clear progress: user_id=%d: %v", userID, err)
	}
	return result
}

func (s *quizService) viewLocked(session *quiz.Session) *models.SessionView {
	q := session.Current()
	view := &models.SessionView{
		Topic:          session.Topic(),
		TotalQuestions: session.Len(),
		CurrentIndex:   session.CurrentIndex(),
		Question: models.QuestionView{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		},
		AnsweredCount:    len(session.Answers()),
		Progress:         session.ProgressFraction(),
		TimeLimitSeconds: s.cfg.QuestionTimeSeconds,
	}
	if a, ok := session.Answer(session.CurrentIndex()); ok {
		answer := a
		view.SelectedAnswer = &answer
	}
	return view
}
