package errors

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("theme", "must be literasi, numerik or sains", "geografi")

	assert.Equal(t, "theme", err.Field)
	assert.Equal(t, "must be literasi, numerik or sains", err.Message)
	assert.Equal(t, "geografi", err.Value)
	assert.Equal(t, "validation error on field 'theme': must be literasi, numerik or sains", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("question", "is required", nil))
	assert.Equal(t, "validation failed: question is required", errs.Error())

	errs = append(errs, *NewValidationError("answer", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("rating", "must be at most 5", "max", 7)

	assert.Equal(t, "max", err.Rule)
	assert.Equal(t, "rating", err.Field)
}

func TestToValidationErrors(t *testing.T) {
	type feedbackInput struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Theme  string `json:"theme" validate:"omitempty,oneof=literasi numerik sains"`
	}

	v := validator.New()
	err := v.Struct(feedbackInput{Rating: 9, Theme: "geografi"})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "max", errs[0].Rule)
	assert.Equal(t, "must be at most 5", errs[0].Message)
	assert.Equal(t, "oneof", errs[1].Rule)
	assert.Equal(t, "must be one of: literasi numerik sains", errs[1].Message)
}

func TestToValidationErrors_NonValidatorError(t *testing.T) {
	errs := ToValidationErrors(assert.AnError)
	assert.Empty(t, errs)
}
