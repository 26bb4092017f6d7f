package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dferreira/quizmaster/internal/logger"
	"github.com/dferreira/quizmaster/internal/models"
)

// DefaultBaseURL is the Open Trivia DB question endpoint.
const DefaultBaseURL = "https://opentdb.com/api.php"

// Client talks to the Open Trivia DB API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	perm       func(n int) []int
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the trivia endpoint (used in tests and config).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithPermutation injects the permutation function used to shuffle
// answer options, so tests can make the order deterministic.
func WithPermutation(perm func(n int) []int) Option {
	return func(c *Client) { c.perm = perm }
}

// New creates a trivia API client.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		perm:       rand.Perm,
		log:        logger.Default().WithPrefix("trivia"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []apiQuestion `json:"results"`
}

type apiQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// topicCategories maps topic names to Open Trivia DB category IDs.
var topicCategories = map[string]int{
	"general":     9,
	"science":     17,
	"computer":    18,
	"mathematics": 19,
	"sports":      21,
	"geography":   22,
	"history":     23,
	"politics":    24,
	"art":         25,
	"celebrities": 26,
	"animals":     27,
	"vehicles":    28,
	"comics":      29,
	"gadgets":     30,
	"anime":       31,
	"cartoon":     32,
}

var programmingTopics = []string{
	"javascript", "python", "java", "react", "html", "css", "programming", "coding", "go", "golang",
}

// CategoryFor maps a free-form topic to a provider category ID.
// Programming-flavored topics fall back to the computer science
// category; unknown topics get no category filter at all.
func CategoryFor(topic string) (int, bool) {
	lower := strings.ToLower(topic)
	if id, ok := topicCategories[lower]; ok {
		return id, true
	}
	for _, prog := range programmingTopics {
		if strings.Contains(lower, prog) {
			return topicCategories["computer"], true
		}
	}
	return 0, false
}

// FetchQuestions requests count multiple-choice questions for the topic.
// Option order is shuffled per question and HTML escaping applied by the
// provider is decoded. Any provider failure (transport, status,
// response_code, empty results) is returned as an error; fallback
// substitution is the Source's job, not the client's.
func (c *Client) FetchQuestions(ctx context.Context, topic string, count int) ([]models.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("trivia").WithField("topic", topic)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("amount", fmt.Sprintf("%d", count))
	q.Set("type", "multiple")
	if id, ok := CategoryFor(topic); ok {
		q.Set("category", fmt.Sprintf("%d", id))
	}
	u.RawQuery = q.Encode()

	log.Debug("fetching questions from: %s", u.String())
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch questions: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("trivia response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("trivia request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("trivia status %d: %s", resp.StatusCode, string(body))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error("failed to decode trivia response: %v", err)
		return nil, err
	}
	if payload.ResponseCode != 0 {
		log.Error("trivia API returned response_code=%d", payload.ResponseCode)
		return nil, fmt.Errorf("trivia response_code %d", payload.ResponseCode)
	}
	if len(payload.Results) == 0 {
		log.Error("trivia API returned no results")
		return nil, fmt.Errorf("trivia returned no results")
	}

	questions := make([]models.Question, 0, len(payload.Results))
	for i, item := range payload.Results {
		questions = append(questions, c.toQuestion(i+1, item))
	}

	log.Info("fetched %d questions for topic %s", len(questions), topic)
	return questions, nil
}

// toQuestion decodes provider escaping and shuffles the option order
// with the injected permutation.
func (c *Client) toQuestion(id int, item apiQuestion) models.Question {
	raw := make([]string, 0, len(item.IncorrectAnswers)+1)
	for _, a := range item.IncorrectAnswers {
		raw = append(raw, html.UnescapeString(a))
	}
	correct := html.UnescapeString(item.CorrectAnswer)
	raw = append(raw, correct)

	options := make([]string, len(raw))
	for dst, src := range c.perm(len(raw)) {
		options[dst] = raw[src]
	}

	return models.Question{
		ID:            id,
		Text:          html.UnescapeString(item.Question),
		Options:       options,
		CorrectOption: correct,
		Category:      html.UnescapeString(item.Category),
		Difficulty:    item.Difficulty,
	}
}
