package repository

import (
	"context"
	"errors"
	"time"

	"schoolfit/internal/models"
)

var fixtureTime = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

// fullRecord returns a record with every field set to a non-zero value
func fullRecord(email string) *models.UserRecord {
	house := models.HouseBlue
	record := models.NewUserRecord(email, "secret1", "Jane Doe", models.RoleStudent, fixtureTime)
	record.Age = 15
	record.Gender = models.GenderFemale
	record.School = "Northview Secondary"
	record.Class = "3E2"
	record.House = &house
	record.BMIHistory = append(record.BMIHistory, models.BMIEntry{Date: "2024-03-01", HeightCm: 160, WeightKg: 50.5, BMI: 19.7, Category: "Healthy"})
	record.NapfaHistory = append(record.NapfaHistory, models.NapfaTestRecord{
		Date:   "2024-03-14",
		Age:    15,
		Gender: models.GenderFemale,
		Scores: models.NapfaScores{SitUps: 30, BroadJump: 180, SitReach: 40, PullUps: 20, ShuttleRun: 10.8, Run: 12.5},
		Grades: models.NapfaGrades{SitUps: 4, BroadJump: 4, SitReach: 5, PullUps: 4, ShuttleRun: 3, Run: 3},
		Total:  23,
		Medal:  models.MedalGold,
	})
	record.SleepHistory = append(record.SleepHistory, models.SleepEntry{Date: "2024-03-13", Hours: 8.5, Quality: 4, Bedtime: "22:30", WakeTime: "07:00"})
	record.Exercises = append(record.Exercises, models.Exercise{Date: "2024-03-13", Time: "17:00", Name: "Running", Category: "cardio", DurationMinutes: 45, Intensity: "moderate", Calories: 400, Notes: "park loop", Verified: true})
	record.Goals = append(record.Goals, models.Goal{ID: "g1", Title: "Run 5k", Category: "cardio", Target: 5, Unit: "km", Deadline: "2024-06-01", CreatedAt: "2024-03-01", Completed: true, CompletedDate: "2024-03-10"})
	record.SmartGoals = append(record.SmartGoals, models.SmartGoal{ID: "s1", Specific: "Do 10 pull ups", Measurable: "count", Achievable: "yes", Relevant: "NAPFA", TimeBound: "2024-05-01", CreatedAt: "2024-03-01"})
	record.StepsData = append(record.StepsData, models.StepsEntry{Date: "2024-03-13", Steps: 10234})
	record.WorkoutVerifications = append(record.WorkoutVerifications, models.WorkoutVerification{Date: "2024-03-13", Time: "17:45", ExerciseType: "push up", Verdict: models.VerdictValid, Feedback: "Good form", Confidence: 90, PointsAwarded: 15})
	record.BMRHistory = append(record.BMRHistory, models.BMREntry{Date: "2024-03-01", WeightKg: 50.5, HeightCm: 160, Age: 15, Gender: models.GenderFemale, ActivityLevel: "moderate", BMR: 1305.25, TDEE: 2023.14})
	record.BodyCompHistory = append(record.BodyCompHistory, models.BodyCompEntry{Date: "2024-03-01", WeightKg: 50.5, BodyFatPct: 22.5, MuscleMassKg: 20.1, FatMassKg: 11.36, LeanMassKg: 39.14})
	record.HydrationLog = append(record.HydrationLog, models.HydrationEntry{Date: "2024-03-13", Time: "10:15", AmountMl: 250})
	record.TotalPoints = 245
	record.Level = "Intermediate"
	record.Badges = append(record.Badges, models.Badge{Key: "napfa_first_test", Name: "Fitness Tested", Description: "Completed your first NAPFA test", Date: "2024-03-14", Points: 10})
	record.LoginStreak = 3
	record.LoginHistory = append(record.LoginHistory, "2024-03-12", "2024-03-13", "2024-03-14")
	record.HousePointsContributed = 3.8
	record.Friends = append(record.Friends, "john")
	record.FriendRequests = append(record.FriendRequests, "ali")
	record.Groups = append(record.Groups, "runners")
	record.GroupInvites = append(record.GroupInvites, models.GroupInvite{Group: "swimmers", From: "john", Date: "2024-03-12"})
	return record
}

// memoryStore is an in-memory Store used to observe and fail saves
type memoryStore struct {
	saved   Document
	saves   int
	failErr error
}

func (s *memoryStore) Load(ctx context.Context) (Document, error) {
	if s.saved == nil {
		return Document{}, nil
	}
	return s.saved.Clone()
}

func (s *memoryStore) Save(ctx context.Context, doc Document) error {
	if s.failErr != nil {
		return s.failErr
	}
	clone, err := doc.Clone()
	if err != nil {
		return err
	}
	s.saved = clone
	s.saves++
	return nil
}

func (s *memoryStore) Close() error { return nil }

var errDiskFull = errors.New("disk full")
