package models

// Stats is derived from a user's full result history, never stored.
type Stats struct {
	CompletedCount     int    `json:"completed_count"`
	AveragePercentage  int    `json:"average_percentage"`
	TotalTimeFormatted string `json:"total_time_formatted"`
	CurrentStreakDays  int    `json:"current_streak_days"`
}
