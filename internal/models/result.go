package models

import "time"

// Result is the immutable scored outcome of a finished quiz session.
// CorrectAnswers + IncorrectAnswers + UnansweredQuestions always equals
// TotalQuestions.
type Result struct {
	ID                  int64     `json:"id"`
	UserID              int64     `json:"user_id"`
	Topic               string    `json:"topic"`
	TotalQuestions      int       `json:"total_questions"`
	CorrectAnswers      int       `json:"correct_answers"`
	IncorrectAnswers    int       `json:"incorrect_answers"`
	UnansweredQuestions int       `json:"unanswered_questions"`
	TotalTimeSeconds    int       `json:"total_time_seconds"`
	Percentage          int       `json:"percentage"`
	CompletedAt         time.Time `json:"completed_at"`
}

// QuestionResponse records how a single question was answered within a
// finished session. UserAnswer is nil when the question was left
// unanswered.
type QuestionResponse struct {
	ID               int64   `json:"id"`
	ResultID         int64   `json:"result_id"`
	QuestionText     string  `json:"question_text"`
	UserAnswer       *string `json:"user_answer"`
	CorrectAnswer    string  `json:"correct_answer"`
	IsCorrect        bool    `json:"is_correct"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
}

// ResultWithResponses is the report view: a result plus its per-question
// breakdown.
type ResultWithResponses struct {
	Result    Result             `json:"result"`
	Responses []QuestionResponse `json:"responses"`
}
