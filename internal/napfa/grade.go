// Package napfa grades NAPFA fitness tests against the national standards table.
package napfa

import (
	"errors"
	"fmt"
	"time"

	"schoolfit/internal/models"
)

const (
	// MinAge and MaxAge bound the ages covered by the standards table
	MinAge = 12
	MaxAge = 20

	// MaxSelfTestAge is the oldest age a student may enter through the self-test form
	MaxSelfTestAge = 16
)

// ErrInvalidGender is returned when a test is graded for an unknown gender code
var ErrInvalidGender = errors.New("gender must be m or f")

// InvalidAgeError is returned when the standards table has no row for an age
type InvalidAgeError struct {
	Age int
}

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("no NAPFA standards for age %d (supported %d-%d)", e.Age, MinAge, MaxAge)
}

// Standard is the grading rule for one station at one age and gender
type Standard struct {
	Cutoffs [5]float64
	// Reverse is set for timed stations where a lower score is better
	Reverse bool
}

// IsReverse reports whether lower scores are better for station
func IsReverse(station models.Station) bool {
	return station == models.StationShuttleRun || station == models.StationRun
}

// Lookup returns the grading rule for a station
func Lookup(age int, gender models.Gender, station models.Station) (Standard, error) {
	row, err := lookupRow(age, gender)
	if err != nil {
		return Standard{}, err
	}
	c, ok := row[station]
	if !ok {
		return Standard{}, fmt.Errorf("unknown station %q", station)
	}
	return Standard{Cutoffs: c, Reverse: IsReverse(station)}, nil
}

func lookupRow(age int, gender models.Gender) (standardsRow, error) {
	byGender, ok := standards[age]
	if !ok {
		return nil, &InvalidAgeError{Age: age}
	}
	row, ok := byGender[gender]
	if !ok {
		return nil, ErrInvalidGender
	}
	return row, nil
}

// CalcGrade maps a raw score onto a 0-5 grade. Cutoffs run from the grade 5
// threshold to the grade 1 threshold; thresholds are inclusive so ties take the
// better grade. A score worse than every threshold is grade 0.
func CalcGrade(score float64, cutoffs [5]float64, reverse bool) int {
	for i, threshold := range cutoffs {
		if reverse {
			if score <= threshold {
				return 5 - i
			}
		} else if score >= threshold {
			return 5 - i
		}
	}
	return 0
}

// AwardMedal picks the medal for a test total and its lowest station grade.
// The first matching tier wins.
func AwardMedal(total, minGrade int) models.Medal {
	switch {
	case total >= 21 && minGrade >= 3:
		return models.MedalGold
	case total >= 15 && minGrade >= 2:
		return models.MedalSilver
	case total >= 9 && minGrade >= 1:
		return models.MedalBronze
	default:
		return models.MedalNone
	}
}

// Evaluate grades all six stations and builds the test record dated on the given day
func Evaluate(age int, gender models.Gender, scores models.NapfaScores, date time.Time) (models.NapfaTestRecord, error) {
	row, err := lookupRow(age, gender)
	if err != nil {
		return models.NapfaTestRecord{}, err
	}

	var grades models.NapfaGrades
	for _, station := range models.Stations {
		grades.Set(station, CalcGrade(scores.Get(station), row[station], IsReverse(station)))
	}

	total := grades.Sum()
	return models.NapfaTestRecord{
		Date:   date.Format(models.DateLayout),
		Age:    age,
		Gender: gender,
		Scores: scores,
		Grades: grades,
		Total:  total,
		Medal:  AwardMedal(total, grades.Min()),
	}, nil
}
