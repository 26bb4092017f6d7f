package quiz

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dferreira/quizmaster/internal/models"
)

// ComputeStats derives aggregate statistics from a user's full result
// history. The history is never edited; stats are recomputed on demand.
func ComputeStats(history []models.Result, today time.Time) models.Stats {
	if len(history) == 0 {
		return models.Stats{TotalTimeFormatted: "0m"}
	}

	var percentageSum, totalSeconds int
	for _, r := range history {
		percentageSum += r.Percentage
		totalSeconds += r.TotalTimeSeconds
	}

	return models.Stats{
		CompletedCount:     len(history),
		AveragePercentage:  int(math.Round(float64(percentageSum) / float64(len(history)))),
		TotalTimeFormatted: formatMinutes(totalSeconds / 60),
		CurrentStreakDays:  currentStreak(history, today),
	}
}

func formatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// currentStreak counts consecutive calendar days ending today that have
// at least one completed quiz. Walking the history newest first, each
// result on the expected day extends the streak and moves the expected
// day back by one; a result strictly before the expected day is a gap
// and stops the walk. Extra results on an already-counted day are
// skipped.
func currentStreak(history []models.Result, today time.Time) int {
	sorted := make([]models.Result, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})

	expected := calendarDay(today)
	streak := 0
	for _, r := range sorted {
		day := calendarDay(r.CompletedAt)
		if day.Equal(expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
		} else if day.Before(expected) {
			break
		}
	}
	return streak
}

// calendarDay drops the time-of-day component, in local time.
func calendarDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
