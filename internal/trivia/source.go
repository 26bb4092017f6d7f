package trivia

import (
	"context"
	"fmt"

	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
)

// Source is the question source the quiz flow depends on. Unlike the
// raw client it never fails: when the provider is unreachable or
// returns garbage it substitutes a locally generated fallback set, so
// starting a quiz cannot fail on question delivery.
type Source struct {
	client ClientInterface
	log    *logger.Logger
}

// NewSource wraps a trivia client into an infallible question source.
func NewSource(client ClientInterface) *Source {
	return &Source{
		client: client,
		log:    logger.Default().WithPrefix("trivia"),
	}
}

// Fetch returns questions for the topic. On any provider failure the
// error is logged and the fallback set of exactly count questions is
// returned instead.
func (s *Source) Fetch(ctx context.Context, topic string, count int) []models.Question {
	log := logger.FromContext(ctx).WithPrefix("trivia")

	questions, err := s.client.FetchQuestions(ctx, topic, count)
	if err != nil {
		log.Warn("question source unavailable, using fallback set: %v", err)
		return Fallback(topic, count)
	}
	return questions
}

// fallbackTemplates are cycled to synthesize a deterministic question
// set when the remote source is unreachable. Every template keeps the
// invariant that the correct option is a member of the option set.
var fallbackTemplates = []struct {
	text    string
	options []string
	correct string
}{
	{
		text:    "What is the primary characteristic of %s?",
		options: []string{"Dynamic typing", "Static typing", "No typing", "Strong typing"},
		correct: "Dynamic typing",
	},
	{
		text:    "Which of these is commonly used in %s?",
		options: []string{"Variables", "Constants", "Functions", "All of the above"},
		correct: "All of the above",
	},
	{
		text:    "%s is primarily used for?",
		options: []string{"Web development", "Mobile apps", "Desktop apps", "All platforms"},
		correct: "All platforms",
	},
}

// Fallback synthesizes exactly count generic questions referencing the
// topic. Deterministic: no randomness, same input gives same output.
func Fallback(topic string, count int) []models.Question {
	if count <= 0 {
		return nil
	}
	questions := make([]models.Question, count)
	for i := 0; i < count; i++ {
		tmpl := fallbackTemplates[i%len(fallbackTemplates)]
		text := fmt.Sprintf(tmpl.text, topic)
		if i >= len(fallbackTemplates) {
			// Repeated templates get a round marker to keep texts unique.
			text = fmt.Sprintf("%s (part %d)", text, i/len(fallbackTemplates)+1)
		}
		options := make([]string, len(tmpl.options))
		copy(options, tmpl.options)
		questions[i] = models.Question{
			ID:            i + 1,
			Text:          text,
			Options:       options,
			CorrectOption: tmpl.correct,
			Category:      "General Knowledge",
			Difficulty:    "medium",
		}
	}
	return questions
}
