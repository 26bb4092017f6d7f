package quiz

import (
	"math"
	"time"

	"github.com/dferreira/quizmaster/internal/models"
)

// Score reduces a session to a Result. Pure: no side effects, the caller
// is responsible for persisting the result.
//
// Total time is the wall-clock span since the session started, not the
// sum of per-question elapsed times; the two can diverge (time spent
// away from the quiz) and are kept separate on purpose.
func Score(s *Session, now time.Time) models.Result {
	var correct, incorrect, unanswered int
	for i, q := range s.questions {
		answer, ok := s.answers[i]
		switch {
		case !ok:
			unanswered++
		case answer == q.CorrectOption:
			correct++
		default:
			incorrect++
		}
	}

	total := len(s.questions)
	return models.Result{
		Topic:               s.topic,
		TotalQuestions:      total,
		CorrectAnswers:      correct,
		IncorrectAnswers:    incorrect,
		UnansweredQuestions: unanswered,
		TotalTimeSeconds:    int(math.Round(now.Sub(s.startedAt).Seconds())),
		Percentage:          int(math.Round(100 * float64(correct) / float64(total))),
		CompletedAt:         now,
	}
}
