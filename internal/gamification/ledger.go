// Package gamification awards points, badges and levels from a user's history.
package gamification

import (
	"time"

	"schoolfit/internal/models"
)

// Points awarded for individual activities
const (
	PointsWorkout         = 10
	PointsLongWorkout     = 5
	PointsNapfaTest       = 20
	PointsSleepLog        = 2
	PointsBMILog          = 5
	PointsGoalCompleted   = 25
	PointsDailyLogin      = 5
	PointsVerifiedWorkout = 15

	// LongWorkoutMinutes is the duration that earns the long workout bonus
	LongWorkoutMinutes = 30

	// VerifiedWorkoutHousePoints is the house contribution for a verified workout
	VerifiedWorkoutHousePoints = 1.0
)

// MedalBonus is the extra points for each NAPFA medal
var MedalBonus = map[models.Medal]int{
	models.MedalGold:   50,
	models.MedalSilver: 30,
	models.MedalBronze: 15,
}

// Award is the outcome of one ledger update
type Award struct {
	Badges []models.Badge `json:"badges"`
	Points int            `json:"points"`
}

// Add merges another award into a
func (a *Award) Add(other Award) {
	a.Badges = append(a.Badges, other.Badges...)
	a.Points += other.Points
}

// Ledger applies badge rules and point awards to user records
type Ledger struct {
	rules []BadgeRule
}

// NewLedger creates a ledger over the default badge catalogue
func NewLedger() *Ledger {
	return &Ledger{rules: Rules}
}

// Evaluate checks every badge rule against the record and appends each newly
// satisfied badge. Badges already on the record are never awarded again, even if
// their rule is still satisfied, and earned badges are never removed.
func (l *Ledger) Evaluate(record *models.UserRecord, now time.Time) Award {
	award := Award{Badges: []models.Badge{}}
	date := now.Format(models.DateLayout)

	for _, rule := range l.rules {
		if record.HasBadge(rule.Key, rule.Name) {
			continue
		}
		if !rule.Earned(record) {
			continue
		}
		badge := models.Badge{
			Key:         rule.Key,
			Name:        rule.Name,
			Description: rule.Description,
			Date:        date,
			Points:      rule.Points,
		}
		record.Badges = append(record.Badges, badge)
		award.Badges = append(award.Badges, badge)
		award.Points += rule.Points
	}

	record.TotalPoints += award.Points
	record.Level = LevelFor(record.TotalPoints).Name
	return award
}

// AwardActivity credits points for an activity and the matching house contribution,
// then re-evaluates badges. The returned award includes the activity points.
func (l *Ledger) AwardActivity(record *models.UserRecord, points int, housePoints float64, now time.Time) Award {
	if points > 0 {
		record.TotalPoints += points
	}
	if housePoints > 0 {
		record.HousePointsContributed += housePoints
	}
	award := l.Evaluate(record, now)
	award.Points += max(points, 0)
	return award
}

// WorkoutPoints is the activity points for a workout of the given length
func WorkoutPoints(durationMinutes int) int {
	if durationMinutes >= LongWorkoutMinutes {
		return PointsWorkout + PointsLongWorkout
	}
	return PointsWorkout
}

// WorkoutHousePoints is the house contribution for a workout: one point per half hour
func WorkoutHousePoints(durationMinutes int) float64 {
	if durationMinutes <= 0 {
		return 0
	}
	return float64(durationMinutes) / 30
}

// NapfaPoints is the activity points for a completed NAPFA test
func NapfaPoints(medal models.Medal) int {
	return PointsNapfaTest + MedalBonus[medal]
}

// NapfaHousePoints is the house contribution for a NAPFA test total
func NapfaHousePoints(total int) float64 {
	return float64(total) / 10
}
