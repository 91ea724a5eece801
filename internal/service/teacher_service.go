package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"schoolfit/internal/gamification"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
)

var (
	ErrNotStudent      = errors.New("only students can be added to a roster")
	ErrAlreadyOnRoster = errors.New("student is already on the roster")
	ErrNotOnRoster     = errors.New("student is not on the roster")
)

// RosterEntry is one student as seen by their teacher
type RosterEntry struct {
	Username    string                  `json:"username"`
	Name        string                  `json:"name"`
	Class       string                  `json:"class"`
	House       string                  `json:"house"`
	LatestNapfa *models.NapfaTestRecord `json:"latest_napfa"`
	TotalPoints int                     `json:"total_points"`
	Level       string                  `json:"level"`
	Workouts    int                     `json:"workouts"`
	LastWorkout string                  `json:"last_workout"`
}

// TeacherService manages teacher rosters
type TeacherService struct {
	users *repository.UserRepository
	email *EmailService
}

// NewTeacherService creates a new teacher service
func NewTeacherService(users *repository.UserRepository, email *EmailService) *TeacherService {
	return &TeacherService{users: users, email: email}
}

// AddStudent puts a student on the teacher's roster
func (s *TeacherService) AddStudent(ctx context.Context, teacher, student string) error {
	err := s.users.Transact(ctx, func(tx *repository.UserTx) error {
		record, err := teacherRecord(tx.Get, teacher)
		if err != nil {
			return err
		}
		target, err := tx.Get(student)
		if err != nil {
			return err
		}
		if target.Role != models.RoleStudent {
			return ErrNotStudent
		}
		if containsString(record.Students, student) {
			return ErrAlreadyOnRoster
		}
		record.Students = append(record.Students, student)
		return nil
	})
	if err != nil {
		return err
	}
	log.Printf("Student added to roster: teacher=%s student=%s", teacher, student)
	return nil
}

// RemoveStudent takes a student off the roster
func (s *TeacherService) RemoveStudent(ctx context.Context, teacher, student string) error {
	return s.users.Transact(ctx, func(tx *repository.UserTx) error {
		record, err := teacherRecord(tx.Get, teacher)
		if err != nil {
			return err
		}
		if !containsString(record.Students, student) {
			return ErrNotOnRoster
		}
		record.Students = removeString(record.Students, student)
		return nil
	})
}

// CheckRoster returns ErrNotOnRoster unless student is on the teacher's roster
func (s *TeacherService) CheckRoster(teacher, student string) error {
	record, err := teacherRecord(s.users.Get, teacher)
	if err != nil {
		return err
	}
	if !containsString(record.Students, student) {
		return ErrNotOnRoster
	}
	return nil
}

// Roster returns the teacher's students in roster order. Students whose
// accounts no longer exist are skipped.
func (s *TeacherService) Roster(teacher string) ([]RosterEntry, error) {
	record, err := teacherRecord(s.users.Get, teacher)
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(record.Students))
	for _, username := range record.Students {
		student, err := s.users.Get(username)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		roster = append(roster, rosterEntry(username, student))
	}
	return roster, nil
}

// SendRosterDigest emails the roster summary to the teacher
func (s *TeacherService) SendRosterDigest(ctx context.Context, teacher string) error {
	if !s.email.IsEnabled() {
		return fmt.Errorf("email is not configured")
	}
	record, err := teacherRecord(s.users.Get, teacher)
	if err != nil {
		return err
	}
	roster, err := s.Roster(teacher)
	if err != nil {
		return err
	}
	return s.email.SendRosterDigest(ctx, record.Email, record.Name, roster)
}

func rosterEntry(username string, student *models.UserRecord) RosterEntry {
	entry := RosterEntry{
		Username:    username,
		Name:        student.Name,
		Class:       student.Class,
		House:       student.HouseName(),
		TotalPoints: student.TotalPoints,
		Level:       gamification.LevelFor(student.TotalPoints).Name,
		Workouts:    len(student.Exercises),
	}
	if n := len(student.NapfaHistory); n > 0 {
		latest := student.NapfaHistory[n-1]
		entry.LatestNapfa = &latest
	}
	for _, exercise := range student.Exercises {
		if exercise.Date > entry.LastWorkout {
			entry.LastWorkout = exercise.Date
		}
	}
	return entry
}

func teacherRecord(get func(string) (*models.UserRecord, error), username string) (*models.UserRecord, error) {
	record, err := get(username)
	if err != nil {
		return nil, err
	}
	if record.Role != models.RoleTeacher {
		return nil, ErrNotTeacher
	}
	return record, nil
}
