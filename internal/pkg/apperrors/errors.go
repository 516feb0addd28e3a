package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Student Errors
var (
	ErrStudentNotFound        = errors.New("student not found")
	ErrStudentIDAlreadyExists = errors.New("student ID already exists")
	ErrInvalidStudentID       = errors.New("invalid student ID format")
)

// Violation Errors
var (
	ErrViolationNotFound       = errors.New("violation not found")
	ErrViolationTypeNotFound   = errors.New("violation type not found")
	ErrViolationTypeCodeExists = errors.New("violation type with this code already exists")
	ErrViolationTypeInactive   = errors.New("violation type is no longer in use")
	ErrInvalidSeverity         = errors.New("invalid violation severity")
	ErrInvalidViolationStatus  = errors.New("invalid violation status")
)

// Alert Errors
var (
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAlertClosed      = errors.New("alert is already resolved or dismissed")
	ErrAlertAlreadyOpen = errors.New("student already has an open alert")
)

// Transition Errors
var (
	// ErrInvalidTransition rejects a state change the current state does not
	// permit, for violation statuses and meeting states alike.
	ErrInvalidTransition = errors.New("invalid state transition")
)

// Apology Letter Errors
var (
	ErrApologyLetterNotFound  = errors.New("apology letter not found")
	ErrApologyAlreadyReviewed = errors.New("apology letter has already been reviewed")
)

// Message Errors
var (
	ErrMessageNotFound = errors.New("message not found")
)

// Policy Errors
var (
	// ErrNegativeCount rejects malformed input to the pure rule functions.
	ErrNegativeCount = errors.New("violation counts must be non-negative")
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewInvalidTransitionError creates a new custom error for rejected state changes with a message
func NewInvalidTransitionError(message string) error {
	return &CustomError{
		Err:     ErrInvalidTransition,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError pairs a sentinel with a caller-facing message. errors.Is still
// matches the sentinel; the message carries the detail.
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
