package service

import (
	"context"
	"log"
	"strings"
	"time"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
	"schoolfit/internal/validation"
)

// Verification is what a Verifier concluded about one image
type Verification struct {
	Verdict    models.Verdict `json:"verdict"`
	Feedback   string         `json:"feedback"`
	Confidence int            `json:"confidence"`
}

// Verifier judges an exercise form from a photo
type Verifier interface {
	Verify(ctx context.Context, image []byte, format, exerciseType string) (Verification, error)
}

// VerificationResult is a stored verification and what it earned
type VerificationResult struct {
	Verification models.WorkoutVerification `json:"verification"`
	Award        gamification.Award         `json:"award"`
}

// VerificationService checks workout form and awards points for valid form.
// Every attempt is logged on the record, including those the verifier could not judge.
type VerificationService struct {
	users    *repository.UserRepository
	ledger   *gamification.Ledger
	verifier Verifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewVerificationService creates a new verification service. verifier may be nil,
// in which case every attempt is recorded as unknown.
func NewVerificationService(users *repository.UserRepository, ledger *gamification.Ledger, verifier Verifier, m *metrics.Metrics) *VerificationService {
	return &VerificationService{users: users, ledger: ledger, verifier: verifier, metrics: m, now: time.Now}
}

// Enabled reports whether a verifier is configured
func (s *VerificationService) Enabled() bool {
	return s.verifier != nil
}

// Verify asks the verifier about the image and records the attempt
func (s *VerificationService) Verify(ctx context.Context, username, exerciseType, format string, image []byte) (*VerificationResult, error) {
	exerciseType = strings.TrimSpace(exerciseType)
	if err := validation.ValidateRequired("exercise_type", exerciseType); err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, validation.ValidationError{Field: "image", Message: "image is required"}
	}
	if !s.users.Exists(username) {
		return nil, repository.ErrNotFound
	}

	verdict := Verification{Verdict: models.VerdictUnknown, Feedback: "Form verification is not available right now."}
	if s.verifier != nil {
		result, err := s.verifier.Verify(ctx, image, format, exerciseType)
		if err != nil {
			log.Printf("Form verification failed: user=%s exercise=%s: %v", username, exerciseType, err)
		} else {
			verdict = normalizeVerification(result)
		}
	}

	now := s.now()
	var stored models.WorkoutVerification
	var award gamification.Award
	err := s.users.Update(ctx, username, func(record *models.UserRecord) error {
		stored = models.WorkoutVerification{
			Date:         now.Format(models.DateLayout),
			Time:         now.Format(models.TimeLayout),
			ExerciseType: exerciseType,
			Verdict:      verdict.Verdict,
			Feedback:     verdict.Feedback,
			Confidence:   verdict.Confidence,
		}
		if verdict.Verdict == models.VerdictValid {
			award = s.ledger.AwardActivity(record, gamification.PointsVerifiedWorkout, gamification.VerifiedWorkoutHousePoints, now)
			stored.PointsAwarded = gamification.PointsVerifiedWorkout
			markVerified(record.Exercises, stored.Date, exerciseType)
		}
		record.WorkoutVerifications = append(record.WorkoutVerifications, stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncVerification(string(verdict.Verdict))
	recordAward(s.metrics, username, award)
	return &VerificationResult{Verification: stored, Award: award}, nil
}

// markVerified flags the latest unverified exercise logged on date whose name
// or category matches exerciseType
func markVerified(exercises []models.Exercise, date, exerciseType string) {
	for i := len(exercises) - 1; i >= 0; i-- {
		e := &exercises[i]
		if e.Verified || e.Date != date {
			continue
		}
		if strings.EqualFold(e.Name, exerciseType) || strings.EqualFold(e.Category, exerciseType) {
			e.Verified = true
			return
		}
	}
}

// normalizeVerification maps unexpected verdicts to unknown and clamps confidence
func normalizeVerification(v Verification) Verification {
	switch models.Verdict(strings.ToLower(string(v.Verdict))) {
	case models.VerdictValid:
		v.Verdict = models.VerdictValid
	case models.VerdictInvalid:
		v.Verdict = models.VerdictInvalid
	default:
		v.Verdict = models.VerdictUnknown
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 100 {
		v.Confidence = 100
	}
	return v
}
