package models

// Progress is the persisted snapshot of an in-flight quiz session.
// There is exactly one progress slot per user; starting a new quiz
// overwrites it and finishing one clears it. Questions are carried in
// the snapshot so a session can be resumed without refetching them.
type Progress struct {
	Topic           string         `json:"topic"`
	Questions       []Question     `json:"questions"`
	CurrentIndex    int            `json:"current_index"`
	Answers         map[int]string `json:"answers"`
	Elapsed         map[int]int    `json:"elapsed"`
	StartedAtMillis int64          `json:"started_at_millis"`
}
