package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
	"schoolfit/internal/validation"
)

var (
	ErrGoalNotFound        = errors.New("goal not found")
	ErrGoalAlreadyComplete = errors.New("goal is already completed")
)

// Activity factors applied to BMR to estimate daily energy expenditure
var activityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// WorkoutInput is a workout to log. Date and Time default to now.
type WorkoutInput struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DurationMinutes int    `json:"duration"`
	Intensity       string `json:"intensity"`
	Calories        int    `json:"calories"`
	Notes           string `json:"notes"`
}

// SleepInput is one night of sleep. Hours is derived from the bed and wake
// times when it is zero.
type SleepInput struct {
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Quality  int     `json:"quality"`
	Bedtime  string  `json:"bedtime"`
	WakeTime string  `json:"wake_time"`
}

// GoalInput is a new free-form goal
type GoalInput struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Target   float64 `json:"target"`
	Unit     string  `json:"unit"`
	Deadline string  `json:"deadline"`
}

// SmartGoalInput is a new SMART goal
type SmartGoalInput struct {
	Specific   string `json:"specific"`
	Measurable string `json:"measurable"`
	Achievable string `json:"achievable"`
	Relevant   string `json:"relevant"`
	TimeBound  string `json:"time_bound"`
}

// ProfileSummary is the dashboard view of a user
type ProfileSummary struct {
	Username          string                  `json:"username"`
	Name              string                  `json:"name"`
	Role              models.Role             `json:"role"`
	House             string                  `json:"house"`
	TotalPoints       int                     `json:"total_points"`
	Level             string                  `json:"level"`
	PointsToNextLevel int                     `json:"points_to_next_level"`
	LoginStreak       int                     `json:"login_streak"`
	WorkoutStreak     int                     `json:"workout_streak"`
	Workouts          int                     `json:"workouts"`
	ExerciseHours     float64                 `json:"exercise_hours"`
	GoalsCompleted    int                     `json:"goals_completed"`
	HydrationTodayMl  int                     `json:"hydration_today_ml"`
	Badges            []models.Badge          `json:"badges"`
	LatestNapfa       *models.NapfaTestRecord `json:"latest_napfa"`
	LatestBMI         *models.BMIEntry        `json:"latest_bmi"`
}

// ActivityService logs workouts, body metrics and goals
type ActivityService struct {
	users   *repository.UserRepository
	ledger  *gamification.Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(users *repository.UserRepository, ledger *gamification.Ledger, m *metrics.Metrics) *ActivityService {
	return &ActivityService{users: users, ledger: ledger, metrics: m, now: time.Now}
}

// update runs fn against the user's record and publishes the resulting award
func (s *ActivityService) update(ctx context.Context, username string, fn func(record *models.UserRecord, now time.Time) (gamification.Award, error)) (gamification.Award, error) {
	var award gamification.Award
	now := s.now()
	err := s.users.Update(ctx, username, func(record *models.UserRecord) error {
		var err error
		award, err = fn(record, now)
		return err
	})
	if err != nil {
		return gamification.Award{}, err
	}
	recordAward(s.metrics, username, award)
	return award, nil
}

// LogWorkout appends a workout and awards workout points and house contribution
func (s *ActivityService) LogWorkout(ctx context.Context, username string, in WorkoutInput) (*models.Exercise, gamification.Award, error) {
	if err := validation.ValidateRequired("name", in.Name); err != nil {
		return nil, gamification.Award{}, err
	}
	if in.DurationMinutes <= 0 || in.DurationMinutes > 24*60 {
		return nil, gamification.Award{}, validation.ValidationError{Field: "duration", Message: "duration must be between 1 and 1440 minutes"}
	}
	if in.Calories < 0 {
		return nil, gamification.Award{}, validation.ValidationError{Field: "calories", Message: "calories cannot be negative"}
	}

	var exercise models.Exercise
	award, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		date, clock, err := dateAndTime(in.Date, in.Time, now)
		if err != nil {
			return gamification.Award{}, err
		}
		exercise = models.Exercise{
			Date:            date,
			Time:            clock,
			Name:            strings.TrimSpace(in.Name),
			Category:        in.Category,
			DurationMinutes: in.DurationMinutes,
			Intensity:       in.Intensity,
			Calories:        in.Calories,
			Notes:           in.Notes,
		}
		record.Exercises = append(record.Exercises, exercise)
		return s.ledger.AwardActivity(record,
			gamification.WorkoutPoints(in.DurationMinutes),
			gamification.WorkoutHousePoints(in.DurationMinutes),
			now), nil
	})
	if err != nil {
		return nil, gamification.Award{}, err
	}
	return &exercise, award, nil
}

// LogSleep appends a night of sleep
func (s *ActivityService) LogSleep(ctx context.Context, username string, in SleepInput) (*models.SleepEntry, gamification.Award, error) {
	hours := in.Hours
	if hours == 0 && in.Bedtime != "" && in.WakeTime != "" {
		var err error
		if hours, err = sleepHours(in.Bedtime, in.WakeTime); err != nil {
			return nil, gamification.Award{}, err
		}
	}
	if hours <= 0 || hours > 24 {
		return nil, gamification.Award{}, validation.ValidationError{Field: "hours", Message: "hours must be between 0 and 24"}
	}
	// 0 means the night was not rated
	if in.Quality < 0 || in.Quality > 5 {
		return nil, gamification.Award{}, validation.ValidationError{Field: "quality", Message: "quality must be between 1 and 5, or 0 when unrated"}
	}

	var entry models.SleepEntry
	award, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		date, _, err := dateAndTime(in.Date, "", now)
		if err != nil {
			return gamification.Award{}, err
		}
		entry = models.SleepEntry{Date: date, Hours: round(hours, 2), Quality: in.Quality, Bedtime: in.Bedtime, WakeTime: in.WakeTime}
		record.SleepHistory = append(record.SleepHistory, entry)
		return s.ledger.AwardActivity(record, gamification.PointsSleepLog, 0, now), nil
	})
	if err != nil {
		return nil, gamification.Award{}, err
	}
	return &entry, award, nil
}

// LogBMI computes BMI from height and weight and appends it
func (s *ActivityService) LogBMI(ctx context.Context, username string, heightCm, weightKg float64) (*models.BMIEntry, gamification.Award, error) {
	if err := validation.ValidatePositive("height", heightCm, 250); err != nil {
		return nil, gamification.Award{}, err
	}
	if err := validation.ValidatePositive("weight", weightKg, 300); err != nil {
		return nil, gamification.Award{}, err
	}

	bmi := CalculateBMI(heightCm, weightKg)
	var entry models.BMIEntry
	award, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		entry = models.BMIEntry{
			Date:     now.Format(models.DateLayout),
			HeightCm: heightCm,
			WeightKg: weightKg,
			BMI:      bmi,
			Category: BMICategory(bmi),
		}
		record.BMIHistory = append(record.BMIHistory, entry)
		return s.ledger.AwardActivity(record, gamification.PointsBMILog, 0, now), nil
	})
	if err != nil {
		return nil, gamification.Award{}, err
	}
	return &entry, award, nil
}

// LogBMR estimates basal metabolic rate and daily energy needs from the
// profile's age and gender
func (s *ActivityService) LogBMR(ctx context.Context, username string, heightCm, weightKg float64, activityLevel string) (*models.BMREntry, error) {
	if err := validation.ValidatePositive("height", heightCm, 250); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("weight", weightKg, 300); err != nil {
		return nil, err
	}
	factor, ok := activityFactors[activityLevel]
	if !ok {
		return nil, validation.ValidationError{Field: "activity_level", Message: "unknown activity level"}
	}

	var entry models.BMREntry
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		if err := validation.ValidateGender(record.Gender); err != nil {
			return gamification.Award{}, err
		}
		if err := validation.ValidateAge(record.Age); err != nil {
			return gamification.Award{}, err
		}
		bmr := CalculateBMR(weightKg, heightCm, record.Age, record.Gender)
		entry = models.BMREntry{
			Date:          now.Format(models.DateLayout),
			WeightKg:      weightKg,
			HeightCm:      heightCm,
			Age:           record.Age,
			Gender:        record.Gender,
			ActivityLevel: activityLevel,
			BMR:           bmr,
			TDEE:          round(bmr*factor, 1),
		}
		record.BMRHistory = append(record.BMRHistory, entry)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// LogBodyComposition records weight and body fat and derives fat and lean mass
func (s *ActivityService) LogBodyComposition(ctx context.Context, username string, weightKg, bodyFatPct, muscleMassKg float64) (*models.BodyCompEntry, error) {
	if err := validation.ValidatePositive("weight", weightKg, 300); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("body_fat", bodyFatPct, 70); err != nil {
		return nil, err
	}
	if muscleMassKg < 0 || muscleMassKg > weightKg {
		return nil, validation.ValidationError{Field: "muscle_mass", Message: "muscle mass must be between 0 and body weight"}
	}

	fat := round(weightKg*bodyFatPct/100, 2)
	var entry models.BodyCompEntry
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		entry = models.BodyCompEntry{
			Date:         now.Format(models.DateLayout),
			WeightKg:     weightKg,
			BodyFatPct:   bodyFatPct,
			MuscleMassKg: muscleMassKg,
			FatMassKg:    fat,
			LeanMassKg:   round(weightKg-fat, 2),
		}
		record.BodyCompHistory = append(record.BodyCompHistory, entry)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// LogHydration records a drink
func (s *ActivityService) LogHydration(ctx context.Context, username string, amountMl int) (*models.HydrationEntry, error) {
	if amountMl <= 0 || amountMl > 5000 {
		return nil, validation.ValidationError{Field: "amount_ml", Message: "amount must be between 1 and 5000 ml"}
	}
	var entry models.HydrationEntry
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		entry = models.HydrationEntry{
			Date:     now.Format(models.DateLayout),
			Time:     now.Format(models.TimeLayout),
			AmountMl: amountMl,
		}
		record.HydrationLog = append(record.HydrationLog, entry)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// LogSteps records a daily step count
func (s *ActivityService) LogSteps(ctx context.Context, username, date string, steps int) (*models.StepsEntry, error) {
	if steps < 0 || steps > 200000 {
		return nil, validation.ValidationError{Field: "steps", Message: "steps must be between 0 and 200000"}
	}
	var entry models.StepsEntry
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		day, _, err := dateAndTime(date, "", now)
		if err != nil {
			return gamification.Award{}, err
		}
		entry = models.StepsEntry{Date: day, Steps: steps}
		record.StepsData = append(record.StepsData, entry)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// AddGoal creates a goal
func (s *ActivityService) AddGoal(ctx context.Context, username string, in GoalInput) (*models.Goal, error) {
	if err := validation.ValidateRequired("title", in.Title); err != nil {
		return nil, err
	}
	if in.Deadline != "" {
		if err := validation.ValidateDate("deadline", in.Deadline); err != nil {
			return nil, err
		}
	}

	var goal models.Goal
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		goal = models.Goal{
			ID:        uuid.NewString(),
			Title:     strings.TrimSpace(in.Title),
			Category:  in.Category,
			Target:    in.Target,
			Unit:      in.Unit,
			Deadline:  in.Deadline,
			CreatedAt: now.Format(models.DateLayout),
		}
		record.Goals = append(record.Goals, goal)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// AddSmartGoal creates a SMART goal; every part is required
func (s *ActivityService) AddSmartGoal(ctx context.Context, username string, in SmartGoalInput) (*models.SmartGoal, error) {
	fields := []struct{ name, value string }{
		{"specific", in.Specific},
		{"measurable", in.Measurable},
		{"achievable", in.Achievable},
		{"relevant", in.Relevant},
		{"time_bound", in.TimeBound},
	}
	for _, f := range fields {
		if err := validation.ValidateRequired(f.name, f.value); err != nil {
			return nil, err
		}
	}

	var goal models.SmartGoal
	_, err := s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		goal = models.SmartGoal{
			ID:         uuid.NewString(),
			Specific:   in.Specific,
			Measurable: in.Measurable,
			Achievable: in.Achievable,
			Relevant:   in.Relevant,
			TimeBound:  in.TimeBound,
			CreatedAt:  now.Format(models.DateLayout),
		}
		record.SmartGoals = append(record.SmartGoals, goal)
		return gamification.Award{}, nil
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CompleteGoal marks a goal or SMART goal done and awards goal points
func (s *ActivityService) CompleteGoal(ctx context.Context, username, goalID string) (gamification.Award, error) {
	return s.update(ctx, username, func(record *models.UserRecord, now time.Time) (gamification.Award, error) {
		date := now.Format(models.DateLayout)
		found := false
		for i := range record.Goals {
			if record.Goals[i].ID != goalID {
				continue
			}
			if record.Goals[i].Completed {
				return gamification.Award{}, ErrGoalAlreadyComplete
			}
			record.Goals[i].Completed = true
			record.Goals[i].CompletedDate = date
			found = true
		}
		for i := range record.SmartGoals {
			if found || record.SmartGoals[i].ID != goalID {
				continue
			}
			if record.SmartGoals[i].Completed {
				return gamification.Award{}, ErrGoalAlreadyComplete
			}
			record.SmartGoals[i].Completed = true
			record.SmartGoals[i].CompletedDate = date
			found = true
		}
		if !found {
			return gamification.Award{}, ErrGoalNotFound
		}
		return s.ledger.AwardActivity(record, gamification.PointsGoalCompleted, 0, now), nil
	})
}

// Summary builds the profile dashboard. Level is derived from points on every call.
func (s *ActivityService) Summary(username string) (*ProfileSummary, error) {
	record, err := s.users.Get(username)
	if err != nil {
		return nil, err
	}
	return summarize(username, record, s.now()), nil
}

func summarize(username string, record *models.UserRecord, now time.Time) *ProfileSummary {
	summary := &ProfileSummary{
		Username:          username,
		Name:              record.Name,
		Role:              record.Role,
		House:             record.HouseName(),
		TotalPoints:       record.TotalPoints,
		Level:             gamification.LevelFor(record.TotalPoints).Name,
		PointsToNextLevel: gamification.PointsToNextLevel(record.TotalPoints),
		LoginStreak:       gamification.Streak(record.LoginHistory),
		WorkoutStreak:     gamification.WorkoutStreak(record),
		Workouts:          len(record.Exercises),
		ExerciseHours:     round(gamification.TotalExerciseHours(record), 2),
		GoalsCompleted:    gamification.CompletedGoals(record),
		Badges:            record.Badges,
	}

	date := now.Format(models.DateLayout)
	for _, drink := range record.HydrationLog {
		if drink.Date == date {
			summary.HydrationTodayMl += drink.AmountMl
		}
	}
	if n := len(record.NapfaHistory); n > 0 {
		latest := record.NapfaHistory[n-1]
		summary.LatestNapfa = &latest
	}
	if n := len(record.BMIHistory); n > 0 {
		latest := record.BMIHistory[n-1]
		summary.LatestBMI = &latest
	}
	return summary
}

// CalculateBMI returns weight / height² rounded to one decimal
func CalculateBMI(heightCm, weightKg float64) float64 {
	metres := heightCm / 100
	return round(weightKg/(metres*metres), 1)
}

// BMICategory classifies a BMI with the Asian cut-offs used by Singapore's Health Promotion Board
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 23:
		return "Healthy"
	case bmi < 27.5:
		return "Overweight"
	default:
		return "Obese"
	}
}

// CalculateBMR uses the Mifflin-St Jeor equation
func CalculateBMR(weightKg, heightCm float64, age int, gender models.Gender) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.GenderMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return round(bmr, 1)
}

func sleepHours(bedtime, wake string) (float64, error) {
	bed, err := time.Parse(models.TimeLayout, bedtime)
	if err != nil {
		return 0, validation.ValidationError{Field: "bedtime", Message: "time must be HH:MM"}
	}
	up, err := time.Parse(models.TimeLayout, wake)
	if err != nil {
		return 0, validation.ValidationError{Field: "wake_time", Message: "time must be HH:MM"}
	}
	if !up.After(bed) {
		up = up.Add(24 * time.Hour)
	}
	return up.Sub(bed).Hours(), nil
}

// dateAndTime fills in today's date and the current time for blank inputs
func dateAndTime(date, clock string, now time.Time) (string, string, error) {
	if date == "" {
		date = now.Format(models.DateLayout)
	} else if err := validation.ValidateDate("date", date); err != nil {
		return "", "", err
	}
	if clock == "" {
		clock = now.Format(models.TimeLayout)
	} else if _, err := time.Parse(models.TimeLayout, clock); err != nil {
		if _, err := time.Parse("15:04:05", clock); err != nil {
			return "", "", validation.ValidationError{Field: "time", Message: "time must be HH:MM or HH:MM:SS"}
		}
	}
	return date, clock, nil
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
