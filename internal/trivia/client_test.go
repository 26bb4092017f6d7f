package trivia_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dferreira/quizmaster/internal/trivia"
)

// identityPerm keeps option order stable so tests can assert positions.
func identityPerm(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

const sampleBody = `{
	"response_code": 0,
	"results": [
		{
			"category": "Science &amp; Nature",
			"type": "multiple",
			"difficulty": "medium",
			"question": "What is the unit of electrical resistance?",
			"correct_answer": "Ohm",
			"incorrect_answers": ["Volt", "Ampere", "Watt"]
		},
		{
			"category": "Science &amp; Nature",
			"type": "multiple",
			"difficulty": "easy",
			"question": "Water&#039;s chemical formula is?",
			"correct_answer": "H2O",
			"incorrect_answers": ["CO2", "NaCl", "O2"]
		}
	]
}`

func TestFetchQuestions_TransformsResponse(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	client := trivia.New(
		trivia.WithBaseURL(server.URL),
		trivia.WithPermutation(identityPerm),
	)

	questions, err := client.FetchQuestions(context.Background(), "science", 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Contains(t, gotQuery, "amount=2")
	assert.Contains(t, gotQuery, "type=multiple")
	assert.Contains(t, gotQuery, "category=17")

	q := questions[0]
	assert.Equal(t, 1, q.ID)
	assert.Equal(t, "What is the unit of electrical resistance?", q.Text)
	// Identity permutation keeps provider order: incorrect answers then correct.
	assert.Equal(t, []string{"Volt", "Ampere", "Watt", "Ohm"}, q.Options)
	assert.Equal(t, "Ohm", q.CorrectOption)
	assert.Equal(t, "Science & Nature", q.Category)

	// HTML entities decoded in question text too.
	assert.Equal(t, "Water's chemical formula is?", questions[1].Text)
}

func TestFetchQuestions_OptionsArePermutation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	// Reversing permutation: still must contain every option exactly once.
	reverse := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}
		return out
	}

	client := trivia.New(trivia.WithBaseURL(server.URL), trivia.WithPermutation(reverse))
	questions, err := client.FetchQuestions(context.Background(), "science", 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.ElementsMatch(t, []string{"Volt", "Ampere", "Watt", "Ohm"}, questions[0].Options)
	assert.ElementsMatch(t, []string{"CO2", "NaCl", "O2", "H2O"}, questions[1].Options)
	for _, q := range questions {
		assert.Contains(t, q.Options, q.CorrectOption)
	}
}

func TestFetchQuestions_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := trivia.New(trivia.WithBaseURL(server.URL))
	_, err := client.FetchQuestions(context.Background(), "science", 5)
	assert.Error(t, err)
}

func TestFetchQuestions_APIErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code": 1, "results": []}`))
	}))
	defer server.Close()

	client := trivia.New(trivia.WithBaseURL(server.URL))
	_, err := client.FetchQuestions(context.Background(), "science", 5)
	assert.Error(t, err)
}

func TestFetchQuestions_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response_code": 0, "results": []}`))
	}))
	defer server.Close()

	client := trivia.New(trivia.WithBaseURL(server.URL))
	_, err := client.FetchQuestions(context.Background(), "science", 5)
	assert.Error(t, err)
}

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		topic string
		want  int
		ok    bool
	}{
		{topic: "science", want: 17, ok: true},
		{topic: "Science", want: 17, ok: true},
		{topic: "history", want: 23, ok: true},
		{topic: "javascript", want: 18, ok: true},
		{topic: "python programming", want: 18, ok: true},
		{topic: "underwater basket weaving", want: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, ok := trivia.CategoryFor(tt.topic)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
