package models

// Question is a single multiple-choice question as produced by the
// question source. Immutable once created: options carry the shuffled
// order and CorrectOption is always one of Options.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
}
