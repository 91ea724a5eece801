// Package validation checks user input before it reaches the user document.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"schoolfit/internal/models"
)

const (
	// MinPasswordLength is the shortest accepted password
	MinPasswordLength = 6
	// MinAge and MaxAge bound the age stored on a profile
	MinAge = 12
	MaxAge = 100
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// ValidatePasswordConfirmation checks that both password entries match
func ValidatePasswordConfirmation(password, confirm string) error {
	if password != confirm {
		return ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateRequired checks that a free-text field is not blank
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateAge checks a profile age
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return ValidationError{Field: "age", Message: fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge)}
	}
	return nil
}

// ValidateGender checks a gender code
func ValidateGender(gender models.Gender) error {
	if !gender.Valid() {
		return ValidationError{Field: "gender", Message: "gender must be m or f"}
	}
	return nil
}

// ValidateRole checks an account role
func ValidateRole(role models.Role) error {
	if !role.Valid() {
		return ValidationError{Field: "role", Message: "role must be student or teacher"}
	}
	return nil
}

// ValidateHouse checks a house name, ignoring case. An empty house means unassigned.
func ValidateHouse(house string) error {
	if house == "" || models.House(strings.ToLower(house)).Valid() {
		return nil
	}
	return ValidationError{Field: "house", Message: "unknown house"}
}

// ValidateDate checks a YYYY-MM-DD date
func ValidateDate(field, value string) error {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return ValidationError{Field: field, Message: "date must be YYYY-MM-DD"}
	}
	return nil
}

// ValidatePositive checks that a measurement is greater than zero and at most max
func ValidatePositive(field string, value, max float64) error {
	if value <= 0 {
		return ValidationError{Field: field, Message: field + " must be greater than zero"}
	}
	if max > 0 && value > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %g", field, max)}
	}
	return nil
}
