package models

// QuestionView is the client-facing shape of a question. It never
// carries the correct option; answers are checked server-side.
type QuestionView struct {
	ID         int      `json:"id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
}

// SessionView is the read-only snapshot of an active quiz session
// returned to clients after every session operation.
type SessionView struct {
	Topic            string       `json:"topic"`
	TotalQuestions   int          `json:"total_questions"`
	CurrentIndex     int          `json:"current_index"`
	Question         QuestionView `json:"question"`
	SelectedAnswer   *string      `json:"selected_answer"`
	AnsweredCount    int          `json:"answered_count"`
	Progress         float64      `json:"progress"`
	TimeLimitSeconds int          `json:"time_limit_seconds"`
}
