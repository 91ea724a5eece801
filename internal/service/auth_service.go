package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"schoolfit/internal/credentials"
	"schoolfit/internal/gamification"
	"schoolfit/internal/metrics"
	"schoolfit/internal/models"
	"schoolfit/internal/repository"
	"schoolfit/internal/security"
	"schoolfit/internal/validation"
)

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// RegisterInput is the registration form
type RegisterInput struct {
	Email           string        `json:"email"`
	Password        string        `json:"password"`
	ConfirmPassword string        `json:"confirm_password"`
	Name            string        `json:"name"`
	Role            models.Role   `json:"role"`
	Age             int           `json:"age"`
	Gender          models.Gender `json:"gender"`
	School          string        `json:"school"`
	Class           string        `json:"class"`
	House           string        `json:"house"`
}

// ProfileInput holds the editable profile fields
type ProfileInput struct {
	Name   string        `json:"name"`
	Age    int           `json:"age"`
	Gender models.Gender `json:"gender"`
	School string        `json:"school"`
	Class  string        `json:"class"`
	House  string        `json:"house"`
}

// LoginResult is a successful login
type LoginResult struct {
	Username string             `json:"username"`
	Role     models.Role        `json:"role"`
	Token    string             `json:"token"`
	Expires  time.Time          `json:"expires"`
	Award    gamification.Award `json:"award"`
	Claims   *security.Claims   `json:"-"`
}

// AuthService handles accounts and sessions
type AuthService struct {
	users    *repository.UserRepository
	sessions *security.SessionManager
	ledger   *gamification.Ledger
	email    *EmailService
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewAuthService creates a new auth service. email and m may be nil.
func NewAuthService(users *repository.UserRepository, sessions *security.SessionManager, ledger *gamification.Ledger, email *EmailService, m *metrics.Metrics) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ledger:   ledger,
		email:    email,
		metrics:  m,
		now:      time.Now,
	}
}

// Register validates the form, creates the account under a generated username
// and returns that username
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Role == "" {
		in.Role = models.RoleStudent
	}

	if err := validateRegistration(in); err != nil {
		return "", err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	var username string
	err = s.users.Transact(ctx, func(tx *repository.UserTx) error {
		if _, found := findByEmail(tx.Each, in.Email); found != nil {
			return ErrDuplicateEmail
		}

		username = credentials.GenerateUsername(in.Email, tx.Exists)
		record := models.NewUserRecord(in.Email, hash, in.Name, in.Role, s.now())
		record.Age = in.Age
		record.Gender = in.Gender
		record.School = strings.TrimSpace(in.School)
		record.Class = strings.TrimSpace(in.Class)
		record.House = housePtr(in.House)
		record.Level = gamification.LevelFor(0).Name
		tx.Put(username, record)
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Printf("Registered user: username=%s role=%s", username, in.Role)
	s.metrics.IncRegistration(string(in.Role))

	if err := s.email.SendWelcomeEmail(ctx, in.Email, in.Name, username); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", username, err)
	}
	return username, nil
}

func validateRegistration(in RegisterInput) error {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := validation.ValidatePasswordConfirmation(in.Password, in.ConfirmPassword); err != nil {
		return err
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return err
	}
	if err := validation.ValidateRole(in.Role); err != nil {
		return err
	}
	if err := validation.ValidateHouse(in.House); err != nil {
		return err
	}
	// Teachers may leave demographics blank
	if in.Role == models.RoleTeacher && in.Age == 0 && in.Gender == "" {
		return nil
	}
	if err := validation.ValidateAge(in.Age); err != nil {
		return err
	}
	return validation.ValidateGender(in.Gender)
}

// Authenticate returns the username whose email (case-insensitive) and password match
func (s *AuthService) Authenticate(email, password string) (string, error) {
	username, record := findByEmail(s.users.Each, strings.TrimSpace(email))
	if record == nil {
		return "", ErrInvalidCredentials
	}
	if match, _ := security.CheckPassword(record.Password, password); !match {
		return "", ErrInvalidCredentials
	}
	return username, nil
}

// Login authenticates, records the daily login and issues a session token.
// A legacy plaintext password is replaced with a hash on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	username, err := s.Authenticate(email, password)
	if err != nil {
		s.metrics.IncLogin("failure")
		return nil, err
	}

	result, err := s.startSession(ctx, username, func(record *models.UserRecord) error {
		if _, upgrade := security.CheckPassword(record.Password, password); upgrade {
			hash, err := security.HashPassword(password)
			if err != nil {
				return err
			}
			record.Password = hash
			log.Printf("Upgraded legacy password storage for %s", username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncLogin("success")
	return result, nil
}

// OAuthLogin signs in the existing account registered with email. Accounts are
// never created from an identity provider.
func (s *AuthService) OAuthLogin(ctx context.Context, email string) (*LoginResult, error) {
	username, record := findByEmail(s.users.Each, strings.TrimSpace(email))
	if record == nil {
		s.metrics.IncLogin("failure")
		return nil, ErrInvalidCredentials
	}
	result, err := s.startSession(ctx, username, nil)
	if err != nil {
		return nil, err
	}
	s.metrics.IncLogin("success")
	return result, nil
}

func (s *AuthService) startSession(ctx context.Context, username string, prepare func(*models.UserRecord) error) (*LoginResult, error) {
	var role models.Role
	var award gamification.Award
	err := s.users.Update(ctx, username, func(record *models.UserRecord) error {
		if prepare != nil {
			if err := prepare(record); err != nil {
				return err
			}
		}
		role = record.Role
		award = s.RecordLogin(record)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	recordAward(s.metrics, username, award)

	token, claims, err := s.sessions.Issue(username, string(role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Username: username,
		Role:     role,
		Token:    token,
		Expires:  claims.ExpiresAt.Time,
		Award:    award,
		Claims:   claims,
	}, nil
}

// RecordLogin adds today to the login history, recomputes the login streak and
// awards the daily login points on the first login of the day
func (s *AuthService) RecordLogin(record *models.UserRecord) gamification.Award {
	now := s.now()
	date := now.Format(models.DateLayout)
	for _, seen := range record.LoginHistory {
		if seen == date {
			record.LoginStreak = gamification.Streak(record.LoginHistory)
			return s.ledger.Evaluate(record, now)
		}
	}

	if len(record.LoginHistory) == 0 && record.LoginStreak > 0 {
		record.LoginHistory = legacyLoginHistory(now, record.LoginStreak)
	}
	record.LoginHistory = append(record.LoginHistory, date)
	record.LoginStreak = gamification.Streak(record.LoginHistory)
	return s.ledger.AwardActivity(record, gamification.PointsDailyLogin, 0, now)
}

// legacyLoginHistory rebuilds the days behind a stored streak for records
// saved before login dates were kept, ending the day before now
func legacyLoginHistory(now time.Time, streak int) []string {
	history := make([]string, 0, streak+1)
	for i := streak; i >= 1; i-- {
		history = append(history, now.AddDate(0, 0, -i).Format(models.DateLayout))
	}
	return history
}

// ValidateSession checks a session token
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.sessions.Parse(ctx, token)
	if err != nil {
		return nil, err
	}
	if !s.users.Exists(claims.Username) {
		return nil, security.ErrInvalidSession
	}
	return claims, nil
}

// Logout revokes a session
func (s *AuthService) Logout(ctx context.Context, claims *security.Claims) error {
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

// ChangePassword replaces the password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, username, current, next, confirm string) error {
	if err := validation.ValidatePassword(next); err != nil {
		return err
	}
	if err := validation.ValidatePasswordConfirmation(next, confirm); err != nil {
		return err
	}
	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.Update(ctx, username, func(record *models.UserRecord) error {
		if match, _ := security.CheckPassword(record.Password, current); !match {
			return ErrInvalidCredentials
		}
		record.Password = hash
		return nil
	})
}

// UpdateProfile replaces the demographic fields of a profile
func (s *AuthService) UpdateProfile(ctx context.Context, username string, in ProfileInput) error {
	if err := validation.ValidateName(in.Name); err != nil {
		return err
	}
	if err := validation.ValidateAge(in.Age); err != nil {
		return err
	}
	if err := validation.ValidateGender(in.Gender); err != nil {
		return err
	}
	if err := validation.ValidateHouse(in.House); err != nil {
		return err
	}
	return s.users.Update(ctx, username, func(record *models.UserRecord) error {
		record.Name = strings.TrimSpace(in.Name)
		record.Age = in.Age
		record.Gender = in.Gender
		record.School = strings.TrimSpace(in.School)
		record.Class = strings.TrimSpace(in.Class)
		record.House = housePtr(in.House)
		return nil
	})
}

// eachFunc is the shape of UserRepository.Each and UserTx.Each
type eachFunc func(fn func(username string, record *models.UserRecord) bool)

// findByEmail scans every record for a case-insensitive email match
func findByEmail(each eachFunc, email string) (string, *models.UserRecord) {
	var foundName string
	var found *models.UserRecord
	each(func(username string, record *models.UserRecord) bool {
		if strings.EqualFold(record.Email, email) {
			foundName, found = username, record
			return false
		}
		return true
	})
	return foundName, found
}

func housePtr(house string) *models.House {
	if house == "" {
		return nil
	}
	h := models.House(strings.ToLower(house))
	return &h
}
