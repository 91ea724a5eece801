package gamification

import (
	"sort"
	"time"

	"schoolfit/internal/models"
)

// maxStreakGapDays is the largest gap between two activity dates that still
// continues a streak; one skipped day does not break it
const maxStreakGapDays = 2

// Streak counts consecutive activity dates, starting from the most recent one and
// walking backwards until two distinct dates are more than two days apart.
// Unparseable dates are ignored; no dates gives a streak of zero.
func Streak(dates []string) int {
	seen := make(map[string]bool, len(dates))
	var days []time.Time
	for _, raw := range dates {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		day, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			continue
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 1
	for i := 1; i < len(days); i++ {
		gap := int(days[i-1].Sub(days[i]).Hours() / 24)
		if gap > maxStreakGapDays {
			break
		}
		streak++
	}
	return streak
}

// WorkoutStreak is the streak over the dates of logged exercises
func WorkoutStreak(record *models.UserRecord) int {
	dates := make([]string, len(record.Exercises))
	for i, exercise := range record.Exercises {
		dates[i] = exercise.Date
	}
	return Streak(dates)
}
