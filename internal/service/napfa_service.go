package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/napfa"
	"schoolfit/internal/repository"
	"schoolfit/internal/validation"
)

// NapfaInput is one set of raw station scores
type NapfaInput struct {
	Age    int                `json:"age"`
	Gender models.Gender      `json:"gender"`
	Scores models.NapfaScores `json:"scores"`
}

// NapfaResult is a graded test and what it earned
type NapfaResult struct {
	Test  models.NapfaTestRecord `json:"test"`
	Award gamification.Award     `json:"award"`
}

// NapfaService records NAPFA tests
type NapfaService struct {
	users   *repository.UserRepository
	ledger  *gamification.Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewNapfaService creates a new NAPFA service
func NewNapfaService(users *repository.UserRepository, ledger *gamification.Ledger, m *metrics.Metrics) *NapfaService {
	return &NapfaService{users: users, ledger: ledger, metrics: m, now: time.Now}
}

// RecordSelfTest grades a test entered by the student. Self-tests are limited
// to ages the school tests itself.
func (s *NapfaService) RecordSelfTest(ctx context.Context, username string, in NapfaInput) (*NapfaResult, error) {
	if in.Age < napfa.MinAge || in.Age > napfa.MaxSelfTestAge {
		return nil, validation.ValidationError{
			Field:   "age",
			Message: fmt.Sprintf("self-tests are available for ages %d to %d", napfa.MinAge, napfa.MaxSelfTestAge),
		}
	}
	return s.RecordTest(ctx, username, in)
}

// RecordTest grades the scores, appends the test to the user's history and
// awards points and house contribution. Nothing is written if grading fails.
func (s *NapfaService) RecordTest(ctx context.Context, username string, in NapfaInput) (*NapfaResult, error) {
	if err := validateScores(in.Scores); err != nil {
		return nil, err
	}

	now := s.now()
	test, err := napfa.Evaluate(in.Age, in.Gender, in.Scores, now)
	if err != nil {
		return nil, err
	}

	var award gamification.Award
	err = s.users.Update(ctx, username, func(record *models.UserRecord) error {
		record.NapfaHistory = append(record.NapfaHistory, test)
		award = s.ledger.AwardActivity(record,
			gamification.NapfaPoints(test.Medal),
			gamification.NapfaHousePoints(test.Total),
			now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("NAPFA test recorded: user=%s total=%d medal=%s", username, test.Total, test.Medal)
	s.metrics.IncNapfaTest(string(test.Medal))
	recordAward(s.metrics, username, award)
	return &NapfaResult{Test: test, Award: award}, nil
}

// History returns the user's tests, oldest first
func (s *NapfaService) History(username string) ([]models.NapfaTestRecord, error) {
	record, err := s.users.Get(username)
	if err != nil {
		return nil, err
	}
	return record.NapfaHistory, nil
}

// StationStandard is the grading rule of one station for display
type StationStandard struct {
	Station models.Station `json:"station"`
	Cutoffs [5]float64     `json:"cutoffs"`
	Reverse bool           `json:"reverse"`
}

// Standards returns the grade thresholds for an age and gender
func (s *NapfaService) Standards(age int, gender models.Gender) ([]StationStandard, error) {
	out := make([]StationStandard, 0, len(models.Stations))
	for _, station := range models.Stations {
		std, err := napfa.Lookup(age, gender, station)
		if err != nil {
			return nil, err
		}
		out = append(out, StationStandard{Station: station, Cutoffs: std.Cutoffs, Reverse: std.Reverse})
	}
	return out, nil
}

func validateScores(scores models.NapfaScores) error {
	for _, station := range models.Stations {
		if scores.Get(station) < 0 {
			return validation.ValidationError{Field: string(station), Message: "score cannot be negative"}
		}
	}
	return nil
}
