package dto

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorCode identifies an error category in API responses.
type ErrorCode string

const (
	// Resource errors
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"

	// Validation errors
	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	// State transition errors
	ErrorCodeInvalidTransition ErrorCode = "TRN_001"

	// Server errors
	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorSeverity grades an error in API responses so clients can branch
// without parsing messages.
type ErrorSeverity string

const ErrorSeverityError ErrorSeverity = "ERROR"

// ErrorDetail carries the structured error payload inside APIResponse.
type ErrorDetail struct {
	Code     ErrorCode     `json:"code" example:"RES_001"`
	Message  string        `json:"message" example:"Student not found"`
	Field    string        `json:"field,omitempty" example:"studentId"`
	Severity ErrorSeverity `json:"severity" example:"ERROR"`
	Details  interface{}   `json:"details,omitempty"`
}

// NewErrorDetail creates an error detail at the default severity.
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: ErrorSeverityError,
	}
}

// WithField names the request field the error refers to.
func (e *ErrorDetail) WithField(field string) *ErrorDetail {
	e.Field = field
	return e
}

// WithDetails attaches extra context to the error.
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// HandleValidationError converts a request binding error into an error detail.
// Validator errors report the first failing field; anything else is treated as
// a malformed request body.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldError := validationErrors[0]
		detail := NewErrorDetail(ErrorCodeValidationFailed, validationMessage(fieldError))
		return detail.WithField(fieldError.Field())
	}
	return NewErrorDetail(ErrorCodeValidationFailed, "Invalid request payload")
}

// validationMessage builds a readable message for a single field error.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", fe.Field())
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("Field '%s' must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("Field '%s' must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Field '%s' must be one of: %s", fe.Field(), fe.Param())
	case "student_number":
		return fmt.Sprintf("Field '%s' must look like 2021-00154", fe.Field())
	default:
		return fmt.Sprintf("Field '%s' failed validation on '%s'", fe.Field(), fe.Tag())
	}
}
