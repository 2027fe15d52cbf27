package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeUnauthorized indicates unauthorized access
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeContentUnresolved indicates every content fallback tier came up empty
	ErrorTypeContentUnresolved ErrorType = "CONTENT_UNRESOLVED"

	// ErrorTypeUnsupportedFormat indicates a document format we cannot extract text from
	ErrorTypeUnsupportedFormat ErrorType = "UNSUPPORTED_FORMAT"

	// ErrorTypeEmptyContent indicates extraction produced no usable text
	ErrorTypeEmptyContent ErrorType = "EMPTY_CONTENT"

	// ErrorTypeContentTooShort indicates content below the generation floor
	ErrorTypeContentTooShort ErrorType = "CONTENT_TOO_SHORT"

	// ErrorTypeGenerationHTTP indicates a non-retryable generation service status
	ErrorTypeGenerationHTTP ErrorType = "GENERATION_HTTP"

	// ErrorTypeMalformedGeneration indicates generation output that never matched the
	// expected quiz format within the retry budget
	ErrorTypeMalformedGeneration ErrorType = "MALFORMED_GENERATION"

	// ErrorTypeInsufficientQuestions indicates too few parseable questions after all rounds
	ErrorTypeInsufficientQuestions ErrorType = "INSUFFICIENT_QUESTIONS"

	// ErrorTypeGateEvaluation indicates the assessment gate could not evaluate a principal
	ErrorTypeGateEvaluation ErrorType = "GATE_EVALUATION"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError of an arbitrary type
func New(errType ErrorType, message string, err error) *AppError {
	return &AppError{Type: errType, Message: message, Err: err}
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
