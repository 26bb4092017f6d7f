package quiz

import (
	"errors"
	"time"

	"github.com/dferreira/quizmaster/internal/models"
)

// ErrNoQuestions is returned when a session is created without questions.
var ErrNoQuestions = errors.New("quiz: session requires at least one question")

// Session is one quiz attempt for a single topic. It owns an immutable
// question list and tracks the current position, recorded answers and
// per-question elapsed time. All mutating operations are no-ops once the
// session has been finalized.
//
// A Session is not safe for concurrent use; callers serialize access
// (there is exactly one active session per user).
type Session struct {
	topic     string
	questions []models.Question
	current   int
	answers   map[int]string
	elapsed   map[int]int
	startedAt time.Time
	completed bool
}

// NewSession starts a fresh session over the given questions.
// The question slice is copied so later mutation by the caller cannot
// reach into the session.
func NewSession(topic string, questions []models.Question, now time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]models.Question, len(questions))
	copy(qs, questions)
	return &Session{
		topic:     topic,
		questions: qs,
		answers:   map[int]string{},
		elapsed:   map[int]int{},
		startedAt: now,
	}, nil
}

// Restore rebuilds an in-progress session from a persisted snapshot.
// Out-of-range indices in the snapshot are dropped rather than rejected:
// a damaged snapshot loses resumability detail, never correctness.
func Restore(p models.Progress) (*Session, error) {
	s, err := NewSession(p.Topic, p.Questions, time.UnixMilli(p.StartedAtMillis))
	if err != nil {
		return nil, err
	}
	if p.CurrentIndex >= 0 && p.CurrentIndex < len(s.questions) {
		s.current = p.CurrentIndex
	}
	for i, a := range p.Answers {
		if i >= 0 && i < len(s.questions) {
			s.answers[i] = a
		}
	}
	for i, secs := range p.Elapsed {
		if i >= 0 && i < len(s.questions) && secs >= 0 {
			s.elapsed[i] = secs
		}
	}
	return s, nil
}

// Snapshot returns the persistable state of the session.
func (s *Session) Snapshot() models.Progress {
	answers := make(map[int]string, len(s.answers))
	for i, a := range s.answers {
		answers[i] = a
	}
	elapsed := make(map[int]int, len(s.elapsed))
	for i, secs := range s.elapsed {
		elapsed[i] = secs
	}
	questions := make([]models.Question, len(s.questions))
	copy(questions, s.questions)
	return models.Progress{
		Topic:           s.topic,
		Questions:       questions,
		CurrentIndex:    s.current,
		Answers:         answers,
		Elapsed:         elapsed,
		StartedAtMillis: s.startedAt.UnixMilli(),
	}
}

// Topic returns the session topic.
func (s *Session) Topic() string { return s.topic }

// Len returns the number of questions.
func (s *Session) Len() int { return len(s.questions) }

// CurrentIndex returns the index of the active question.
func (s *Session) CurrentIndex() int { return s.current }

// Current returns the active question.
func (s *Session) Current() models.Question { return s.questions[s.current] }

// Question returns the question at index i and whether i is in range.
func (s *Session) Question(i int) (models.Question, bool) {
	if i < 0 || i >= len(s.questions) {
		return models.Question{}, false
	}
	return s.questions[i], true
}

// Answer returns the recorded answer for question i, if any.
func (s *Session) Answer(i int) (string, bool) {
	a, ok := s.answers[i]
	return a, ok
}

// Answers returns a copy of all recorded answers keyed by question index.
func (s *Session) Answers() map[int]string {
	out := make(map[int]string, len(s.answers))
	for i, a := range s.answers {
		out[i] = a
	}
	return out
}

// Elapsed returns a copy of recorded per-question elapsed seconds.
func (s *Session) Elapsed() map[int]int {
	out := make(map[int]int, len(s.elapsed))
	for i, secs := range s.elapsed {
		out[i] = secs
	}
	return out
}

// StartedAt returns the session start time.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Completed reports whether the session has been finalized.
func (s *Session) Completed() bool { return s.completed }

// ProgressFraction returns (currentIndex+1)/len for progress bars.
func (s *Session) ProgressFraction() float64 {
	return float64(s.current+1) / float64(len(s.questions))
}

// SelectAnswer records (or overwrites) the answer for the active
// question. The option is not validated against the option set: an
// unlisted value simply scores as a miss. Returns false once completed.
func (s *Session) SelectAnswer(option string) bool {
	if s.completed {
		return false
	}
	s.answers[s.current] = option
	return true
}

// RecordElapsed overwrites the elapsed seconds for question i.
// Independent of the current index, so time spent on a question can be
// reported after navigating away from it. Negative seconds and
// out-of-range indices are ignored.
func (s *Session) RecordElapsed(i, seconds int) bool {
	if s.completed || seconds < 0 || i < 0 || i >= len(s.questions) {
		return false
	}
	s.elapsed[i] = seconds
	return true
}

// GoTo jumps to question index i. Out-of-range indices are a silent
// no-op. The target does not need to have been visited before.
func (s *Session) GoTo(i int) bool {
	if s.completed || i < 0 || i >= len(s.questions) {
		return false
	}
	s.current = i
	return true
}

// Advance moves to the next question. On the last question it finalizes
// the session instead and returns the scored result.
func (s *Session) Advance(now time.Time) (*models.Result, bool) {
	if s.completed {
		return nil, false
	}
	if s.current < len(s.questions)-1 {
		s.current++
		return nil, false
	}
	r, ok := s.Finalize(now)
	if !ok {
		return nil, false
	}
	return &r, true
}

// Retreat moves to the previous question, or does nothing on the first.
func (s *Session) Retreat() bool {
	if s.completed || s.current == 0 {
		return false
	}
	s.current--
	return true
}

// Finalize scores the session and marks it completed. This is the
// terminal transition: calling it again is a no-op and no mutating
// operation succeeds afterwards.
func (s *Session) Finalize(now time.Time) (models.Result, bool) {
	if s.completed {
		return models.Result{}, false
	}
	s.completed = true
	return Score(s, now), true
}

// Responses builds the per-question breakdown of a session for
// reporting. Unanswered questions yield a nil UserAnswer.
func (s *Session) Responses() []models.QuestionResponse {
	out := make([]models.QuestionResponse, 0, len(s.questions))
	for i, q := range s.questions {
		resp := models.QuestionResponse{
			QuestionText:     q.Text,
			CorrectAnswer:    q.CorrectOption,
			TimeSpentSeconds: s.elapsed[i],
		}
		if a, ok := s.answers[i]; ok {
			answer := a
			resp.UserAnswer = &answer
			resp.IsCorrect = a == q.CorrectOption
		}
		out = append(out, resp)
	}
	return out
}
