package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfit/internal/models"
	"schoolfit/internal/validation"
)

func TestLogWorkout(t *testing.T) {
	tests := []struct {
		name       string
		duration   int
		wantPoints int
		wantHouse  float64
	}{
		{name: "short workout", duration: 20, wantPoints: 10, wantHouse: 20.0 / 30},
		{name: "long workout bonus", duration: 30, wantPoints: 15, wantHouse: 1},
		{name: "hour long", duration: 60, wantPoints: 15, wantHouse: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addUser(t, "jane", models.RoleStudent, models.HouseBlue)

			exercise, award, err := env.activityService().LogWorkout(context.Background(), "jane", WorkoutInput{
				Name:            "Running",
				Category:        "cardio",
				DurationMinutes: tt.duration,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, award.Points)
			assert.Equal(t, "2024-01-10", exercise.Date)
			assert.Equal(t, "18:30", exercise.Time)

			record := env.get(t, "jane")
			require.Len(t, record.Exercises, 1)
			assert.Equal(t, tt.wantPoints, record.TotalPoints)
			assert.InDelta(t, tt.wantHouse, record.HousePointsContributed, 1e-9)
		})
	}
}

func TestLogWorkoutValidation(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	inputs := map[string]WorkoutInput{
		"name":     {DurationMinutes: 30},
		"duration": {Name: "Swim", DurationMinutes: 0},
		"date":     {Name: "Swim", DurationMinutes: 30, Date: "10/01/2024"},
		"time":     {Name: "Swim", DurationMinutes: 30, Time: "6pm"},
	}
	for field, in := range inputs {
		t.Run(field, func(t *testing.T) {
			_, _, err := activity.LogWorkout(context.Background(), "jane", in)
			var verr validation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
	assert.Empty(t, env.get(t, "jane").Exercises)
}

func TestLogWorkoutUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.activityService().LogWorkout(context.Background(), "ghost", WorkoutInput{Name: "Run", DurationMinutes: 10})
	assert.Error(t, err)
}

func TestTenthWorkoutEarnsBadge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	for i := 0; i < 9; i++ {
		_, award, err := activity.LogWorkout(ctx, "jane", WorkoutInput{Name: "Run", DurationMinutes: 10})
		require.NoError(t, err)
		assert.Empty(t, award.Badges)
	}
	_, award, err := activity.LogWorkout(ctx, "jane", WorkoutInput{Name: "Run", DurationMinutes: 10})
	require.NoError(t, err)
	require.Len(t, award.Badges, 1)
	assert.Equal(t, "workouts_10", award.Badges[0].Key)
	assert.Equal(t, 10+25, award.Points)
	assert.Equal(t, 10*10+25, env.get(t, "jane").TotalPoints)
}

func TestCalculateBMI(t *testing.T) {
	tests := []struct {
		height, weight float64
		want           float64
		category       string
	}{
		{height: 170, weight: 50, want: 17.3, category: "Underweight"},
		{height: 170, weight: 60, want: 20.8, category: "Healthy"},
		{height: 170, weight: 70, want: 24.2, category: "Overweight"},
		{height: 170, weight: 85, want: 29.4, category: "Obese"},
	}
	for _, tt := range tests {
		bmi := CalculateBMI(tt.height, tt.weight)
		assert.InDelta(t, tt.want, bmi, 1e-9)
		assert.Equal(t, tt.category, BMICategory(bmi))
	}

	assert.Equal(t, "Healthy", BMICategory(18.5))
	assert.Equal(t, "Overweight", BMICategory(23))
	assert.Equal(t, "Obese", BMICategory(27.5))
}

func TestLogBMI(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")

	entry, award, err := env.activityService().LogBMI(context.Background(), "jane", 160, 50)
	require.NoError(t, err)
	assert.InDelta(t, 19.5, entry.BMI, 1e-9)
	assert.Equal(t, "Healthy", entry.Category)
	assert.Equal(t, 5, award.Points)

	_, _, err = env.activityService().LogBMI(context.Background(), "jane", 0, 50)
	assert.Error(t, err)
	assert.Len(t, env.get(t, "jane").BMIHistory, 1)
}

func TestCalculateBMR(t *testing.T) {
	assert.InDelta(t, 1592.5, CalculateBMR(60, 170, 15, models.GenderMale), 1e-9)
	assert.InDelta(t, 1426.5, CalculateBMR(60, 170, 15, models.GenderFemale), 1e-9)
}

func TestLogBMR(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")

	entry, err := env.activityService().LogBMR(context.Background(), "jane", 170, 60, "moderate")
	require.NoError(t, err)
	assert.Equal(t, 14, entry.Age)
	assert.InDelta(t, 1597.5, entry.BMR, 1e-9)
	assert.InDelta(t, 2476.1, entry.TDEE, 1e-9)

	_, err = env.activityService().LogBMR(context.Background(), "jane", 170, 60, "couch")
	var verr validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "activity_level", verr.Field)
}

func TestLogBodyComposition(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")

	entry, err := env.activityService().LogBodyComposition(context.Background(), "jane", 60, 20, 25)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, entry.FatMassKg, 1e-9)
	assert.InDelta(t, 48.0, entry.LeanMassKg, 1e-9)

	_, err = env.activityService().LogBodyComposition(context.Background(), "jane", 60, 20, 70)
	assert.Error(t, err)
}

func TestLogSleepFromTimes(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")

	entry, award, err := env.activityService().LogSleep(context.Background(), "jane", SleepInput{
		Quality:  4,
		Bedtime:  "22:30",
		WakeTime: "06:45",
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.25, entry.Hours, 1e-9)
	assert.Equal(t, 2, award.Points)
}

func TestLogSleepQuality(t *testing.T) {
	tests := []struct {
		name    string
		quality int
		wantErr bool
	}{
		{"unrated", 0, false},
		{"lowest", 1, false},
		{"highest", 5, false},
		{"negative", -1, true},
		{"above scale", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addUser(t, "jane", models.RoleStudent, "")

			_, _, err := env.activityService().LogSleep(context.Background(), "jane", SleepInput{Hours: 8, Quality: tt.quality})
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var verr validation.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "quality", verr.Field)
			assert.Contains(t, verr.Message, "0 when unrated")
		})
	}
}

func TestSleepChampion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	var last int
	for i := 0; i < 7; i++ {
		_, award, err := activity.LogSleep(ctx, "jane", SleepInput{Hours: 8.5, Quality: 5})
		require.NoError(t, err)
		last = len(award.Badges)
	}
	assert.Equal(t, 1, last)
	assert.True(t, env.get(t, "jane").HasBadge("sleep_champion", "Sleep Champion"))
}

func TestHydrationAndSteps(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	_, err := activity.LogHydration(ctx, "jane", 250)
	require.NoError(t, err)
	_, err = activity.LogHydration(ctx, "jane", 500)
	require.NoError(t, err)
	_, err = activity.LogHydration(ctx, "jane", 0)
	assert.Error(t, err)

	steps, err := activity.LogSteps(ctx, "jane", "2024-01-09", 8000)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-09", steps.Date)

	summary, err := activity.Summary("jane")
	require.NoError(t, err)
	assert.Equal(t, 750, summary.HydrationTodayMl)
}

func TestCompleteGoal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	goal, err := activity.AddGoal(ctx, "jane", GoalInput{Title: "Run 5km", Target: 5, Unit: "km"})
	require.NoError(t, err)
	require.NotEmpty(t, goal.ID)

	award, err := activity.CompleteGoal(ctx, "jane", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, 25+20, award.Points)

	_, err = activity.CompleteGoal(ctx, "jane", goal.ID)
	assert.ErrorIs(t, err, ErrGoalAlreadyComplete)
	_, err = activity.CompleteGoal(ctx, "jane", "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)

	record := env.get(t, "jane")
	assert.True(t, record.Goals[0].Completed)
	assert.Equal(t, "2024-01-10", record.Goals[0].CompletedDate)
	assert.Equal(t, 45, record.TotalPoints)
}

func TestSmartGoal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addUser(t, "jane", models.RoleStudent, "")
	activity := env.activityService()

	_, err := activity.AddSmartGoal(ctx, "jane", SmartGoalInput{Specific: "Run faster"})
	var verr validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "measurable", verr.Field)

	goal, err := activity.AddSmartGoal(ctx, "jane", SmartGoalInput{
		Specific:   "Run 2.4km faster",
		Measurable: "Under 11 minutes",
		Achievable: "Train three times a week",
		Relevant:   "NAPFA gold",
		TimeBound:  "By the next test",
	})
	require.NoError(t, err)

	_, err = activity.CompleteGoal(ctx, "jane", goal.ID)
	require.NoError(t, err)
	assert.True(t, env.get(t, "jane").SmartGoals[0].Completed)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	record := env.addUser(t, "jane", models.RoleStudent, models.HouseGreen)
	record.TotalPoints = 140
	record.LoginHistory = []string{"2024-01-10", "2024-01-09", "2024-01-06"}
	require.NoError(t, env.users.Put("jane", record))

	_, _, err := env.activityService().LogWorkout(ctx, "jane", WorkoutInput{Name: "Run", DurationMinutes: 90})
	require.NoError(t, err)

	summary, err := env.activityService().Summary("jane")
	require.NoError(t, err)
	assert.Equal(t, 155, summary.TotalPoints)
	assert.Equal(t, "Intermediate", summary.Level)
	assert.Equal(t, 145, summary.PointsToNextLevel)
	assert.Equal(t, 2, summary.LoginStreak)
	assert.Equal(t, 1, summary.WorkoutStreak)
	assert.Equal(t, "green", summary.House)
	assert.InDelta(t, 1.5, summary.ExerciseHours, 1e-9)
	assert.Nil(t, summary.LatestNapfa)
}
