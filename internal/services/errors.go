package services

import (
	"errors"

	apperrors "github.com/Ramandaygy/tutor-app/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Tryout / document errors
	ErrDocumentNotFound   = errors.New("tryout document not found")
	ErrDocumentUnreadable = errors.New("tryout document could not be parsed as a PDF")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrQuestionInvalid    = errors.New("invalid question payload for type")

	// Progress / activity errors
	ErrProgressNotFound  = errors.New("progress record not found")
	ErrAlreadyAnswered   = errors.New("question already answered by this user")
	ErrInvalidTheme      = errors.New("theme must be literasi, numerik or sains")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrAnswerUnavailable = errors.New("question has no usable correct answer")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDocumentNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrProgressNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidTheme) ||
		errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrQuestionInvalid) {
		return true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *ValidationError
	return errors.As(err, &single)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAlreadyAnswered)
}
