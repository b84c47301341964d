package domain

import (
	"fmt"
	"regexp"
	"time"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	licenseRegex = regexp.MustCompile(`^L\d{6}$`)
	nameRegex    = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s\-]+$`)
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// ValidateLicenseNumber checks the fixed license format (L followed by 6 digits).
func ValidateLicenseNumber(license string) error {
	if !licenseRegex.MatchString(license) {
		return fmt.Errorf("license number must match L followed by 6 digits")
	}
	return nil
}

// ValidatePersonName checks a first or last name (2-50 letters, spaces, hyphens).
func ValidatePersonName(field, name string) error {
	if len(name) < 2 || len(name) > 50 {
		return fmt.Errorf("%s must be between 2 and 50 characters", field)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%s may only contain letters, spaces and hyphens", field)
	}
	return nil
}

// ValidateCompany checks a company label (2-100 characters).
func ValidateCompany(company string) error {
	if len(company) < 2 || len(company) > 100 {
		return fmt.Errorf("company must be between 2 and 100 characters")
	}
	return nil
}

// ValidatePoolName checks a pool name (1-100 characters).
func ValidatePoolName(name string) error {
	if len(name) < 1 || len(name) > 100 {
		return fmt.Errorf("pool name must be between 1 and 100 characters")
	}
	return nil
}

// ValidateCourtNumber checks a court number against the venue bounds.
func ValidateCourtNumber(court int) error {
	if court < MinCourtNumber || court > MaxCourtNumber {
		return fmt.Errorf("court number must be between %d and %d", MinCourtNumber, MaxCourtNumber)
	}
	return nil
}

// ValidateBirthDate checks an optional YYYY-MM-DD birth date.
func ValidateBirthDate(date string) error {
	if !dateRegex.MatchString(date) {
		return fmt.Errorf("birth date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid birth date")
	}
	return nil
}

// ValidateEventDate checks a YYYY-MM-DD event date and requires it to be
// today or in the future relative to now.
func ValidateEventDate(date string, now time.Time) error {
	if !dateRegex.MatchString(date) {
		return fmt.Errorf("event date must be YYYY-MM-DD")
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid event date")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return fmt.Errorf("event date must be today or in the future")
	}
	return nil
}

// ValidateEventTime checks an HH:MM event time.
func ValidateEventTime(t string) error {
	if !timeRegex.MatchString(t) {
		return fmt.Errorf("event time must be HH:MM")
	}
	return nil
}
