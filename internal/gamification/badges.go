package gamification

import (
	"strconv"
	"strings"

	"schoolfit/internal/models"
)

// BadgeRule awards a badge once its predicate first holds for a record.
// Key is the permanent identity of the badge and must never be reused.
type BadgeRule struct {
	Key         string
	Name        string
	Description string
	Points      int
	Earned      func(record *models.UserRecord) bool
}

// Rules is the full badge catalogue in evaluation order
var Rules = []BadgeRule{
	{
		Key:         "napfa_first_test",
		Name:        "Fitness Tested",
		Description: "Completed your first NAPFA test",
		Points:      10,
		Earned:      func(r *models.UserRecord) bool { return len(r.NapfaHistory) > 0 },
	},
	{
		Key:         "napfa_first_gold",
		Name:        "Golden Achiever",
		Description: "Earned a gold medal in a NAPFA test",
		Points:      50,
		Earned:      func(r *models.UserRecord) bool { return hasMedal(r, models.MedalGold) },
	},
	{
		Key:         "napfa_perfect_score",
		Name:        "Perfect Score",
		Description: "Scored grade 5 on all six NAPFA stations",
		Points:      100,
		Earned:      hasPerfectNapfa,
	},
	workoutCountRule("workouts_10", "Getting Started", 10, 25),
	workoutCountRule("workouts_50", "Dedicated Athlete", 50, 75),
	workoutCountRule("workouts_100", "Fitness Fanatic", 100, 150),
	workoutStreakRule("workout_streak_7", "Week Warrior", 7, 50),
	workoutStreakRule("workout_streak_30", "Unstoppable", 30, 200),
	{
		Key:         "sleep_champion",
		Name:        "Sleep Champion",
		Description: "Slept at least 8 hours on each of your last 7 logged nights",
		Points:      30,
		Earned:      sleptWellLastWeek,
	},
	goalCountRule("goals_1", "Goal Getter", 1, 20),
	goalCountRule("goals_5", "Goal Crusher", 5, 60),
	{
		Key:         "login_streak_7",
		Name:        "Consistent",
		Description: "Logged in on a 7 day streak",
		Points:      30,
		Earned:      func(r *models.UserRecord) bool { return r.LoginStreak >= 7 },
	},
	housePointsRule("house_points_10", "House Supporter", 10, 20),
	housePointsRule("house_points_50", "House Hero", 50, 50),
	housePointsRule("house_points_100", "House Legend", 100, 100),
	{
		Key:         "friends_5",
		Name:        "Social Butterfly",
		Description: "Made 5 friends",
		Points:      20,
		Earned:      func(r *models.UserRecord) bool { return len(r.Friends) >= 5 },
	},
	{
		Key:         "friends_10",
		Name:        "Popular",
		Description: "Made 10 friends",
		Points:      40,
		Earned:      func(r *models.UserRecord) bool { return len(r.Friends) >= 10 },
	},
	{
		Key:         "groups_3",
		Name:        "Team Player",
		Description: "Joined 3 groups",
		Points:      30,
		Earned:      func(r *models.UserRecord) bool { return len(r.Groups) >= 3 },
	},
	{
		Key:         "exercise_variety_10",
		Name:        "Variety Seeker",
		Description: "Logged 10 different exercises",
		Points:      40,
		Earned:      func(r *models.UserRecord) bool { return DistinctExercises(r) >= 10 },
	},
	hoursRule("hours_10", "10 Hour Club", 10, 25),
	hoursRule("hours_50", "50 Hour Club", 50, 75),
	hoursRule("hours_100", "Century Club", 100, 150),
}

func workoutCountRule(key, name string, count, points int) BadgeRule {
	return BadgeRule{
		Key:         key,
		Name:        name,
		Description: "Logged " + strconv.Itoa(count) + " workouts",
		Points:      points,
		Earned:      func(r *models.UserRecord) bool { return len(r.Exercises) >= count },
	}
}

func workoutStreakRule(key, name string, days, points int) BadgeRule {
	return BadgeRule{
		Key:         key,
		Name:        name,
		Description: "Worked out on a " + strconv.Itoa(days) + " day streak",
		Points:      points,
		Earned:      func(r *models.UserRecord) bool { return WorkoutStreak(r) >= days },
	}
}

func goalCountRule(key, name string, count, points int) BadgeRule {
	description := "Completed " + strconv.Itoa(count) + " goals"
	if count == 1 {
		description = "Completed your first goal"
	}
	return BadgeRule{
		Key:         key,
		Name:        name,
		Description: description,
		Points:      points,
		Earned:      func(r *models.UserRecord) bool { return CompletedGoals(r) >= count },
	}
}

func housePointsRule(key, name string, threshold float64, points int) BadgeRule {
	return BadgeRule{
		Key:         key,
		Name:        name,
		Description: "Contributed " + strconv.Itoa(int(threshold)) + " points to your house",
		Points:      points,
		Earned:      func(r *models.UserRecord) bool { return r.HousePointsContributed >= threshold },
	}
}

func hoursRule(key, name string, hours float64, points int) BadgeRule {
	return BadgeRule{
		Key:         key,
		Name:        name,
		Description: "Exercised for " + strconv.Itoa(int(hours)) + " hours in total",
		Points:      points,
		Earned:      func(r *models.UserRecord) bool { return TotalExerciseHours(r) >= hours },
	}
}

func hasMedal(r *models.UserRecord, medal models.Medal) bool {
	for _, test := range r.NapfaHistory {
		if test.Medal == medal {
			return true
		}
	}
	return false
}

func hasPerfectNapfa(r *models.UserRecord) bool {
	for _, test := range r.NapfaHistory {
		perfect := true
		for _, station := range models.Stations {
			if test.Grades.Get(station) != 5 {
				perfect = false
				break
			}
		}
		if perfect {
			return true
		}
	}
	return false
}

func sleptWellLastWeek(r *models.UserRecord) bool {
	if len(r.SleepHistory) < 7 {
		return false
	}
	for _, entry := range r.SleepHistory[len(r.SleepHistory)-7:] {
		if entry.Hours < 8 {
			return false
		}
	}
	return true
}

// CompletedGoals counts finished goals of both kinds
func CompletedGoals(r *models.UserRecord) int {
	count := 0
	for _, goal := range r.Goals {
		if goal.Completed {
			count++
		}
	}
	for _, goal := range r.SmartGoals {
		if goal.Completed {
			count++
		}
	}
	return count
}

// DistinctExercises counts exercise names ignoring case and surrounding space
func DistinctExercises(r *models.UserRecord) int {
	names := make(map[string]bool)
	for _, exercise := range r.Exercises {
		name := strings.ToLower(strings.TrimSpace(exercise.Name))
		if name != "" {
			names[name] = true
		}
	}
	return len(names)
}

// TotalExerciseHours sums the duration of every logged exercise
func TotalExerciseHours(r *models.UserRecord) float64 {
	minutes := 0
	for _, exercise := range r.Exercises {
		minutes += exercise.DurationMinutes
	}
	return float64(minutes) / 60
}
