package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"-"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}

// Login outcome errors.

// ErrLockedOut reports an active lockout on one of the two brute-force
// tiers ("account" or "address"). minutesRemaining is the whole-minute
// ceiling of the time left on the lock.
func ErrLockedOut(tier string, minutesRemaining int) *AppError {
	return &AppError{
		Code:    "LOCKED_OUT",
		Message: "too many failed login attempts, try again later",
		Status:  403,
		Details: map[string]any{
			"tier":              tier,
			"minutes_remaining": minutesRemaining,
		},
	}
}

// ErrInvalidCredentials deliberately does not distinguish an unknown
// identity from a wrong password.
func ErrInvalidCredentials(attemptsRemaining int) *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  401,
		Details: map[string]any{"attempts_remaining": attemptsRemaining},
	}
}

func ErrAccountDisabled() *AppError {
	return &AppError{Code: "ACCOUNT_DISABLED", Message: "account is disabled", Status: 403}
}

// ErrInvariant surfaces a rejected tournament mutation with the stable
// violation code produced by the rules package.
func ErrInvariant(code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Status: 422}
}

func ErrMalformedScore(reason string) *AppError {
	return &AppError{Code: "MALFORMED_SCORE", Message: reason, Status: 400}
}
