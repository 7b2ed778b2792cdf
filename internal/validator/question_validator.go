package validator

import (
	"fmt"
	"strings"

	"github.com/Ramandaygy/tutor-app/internal/models"
)

// MultipleChoiceOptionCount is the option count every stored multiple choice
// question must carry.
const MultipleChoiceOptionCount = 4

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question object against its type's
// content rules. PDF-sourced questions are exempt from the answer requirement
// because answers are not recoverable from the document.
func (v *QuestionValidator) ValidateQuestion(question *models.TryoutQuestion) error {
	if strings.TrimSpace(question.Question) == "" {
		return fmt.Errorf("question text is required")
	}

	switch question.Type {
	case models.MultipleChoice:
		return v.validateMultipleChoice(question)
	case models.Essay:
		return v.validateEssay(question)
	default:
		return fmt.Errorf("unsupported question type: %s", question.Type)
	}
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.TryoutQuestion) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}

func (v *QuestionValidator) validateMultipleChoice(question *models.TryoutQuestion) error {
	options := question.OptionList()
	if len(options) != MultipleChoiceOptionCount {
		return fmt.Errorf("multiple choice question must have exactly %d options, got %d", MultipleChoiceOptionCount, len(options))
	}
	for i, option := range options {
		if strings.TrimSpace(option) == "" {
			return fmt.Errorf("option %d cannot be empty", i+1)
		}
	}

	if question.Source == models.SourcePDF {
		return nil
	}

	if question.Answer == nil || strings.TrimSpace(*question.Answer) == "" {
		return fmt.Errorf("multiple choice question must have an answer")
	}
	answer := strings.TrimSpace(*question.Answer)
	for _, option := range options {
		if strings.EqualFold(strings.TrimSpace(option), answer) {
			return nil
		}
	}
	return fmt.Errorf("answer must match one of the options")
}

func (v *QuestionValidator) validateEssay(question *models.TryoutQuestion) error {
	if len(question.OptionList()) > 0 {
		return fmt.Errorf("essay question cannot have options")
	}
	if question.Source == models.SourcePDF {
		return nil
	}
	if question.AnswerDescription == nil || strings.TrimSpace(*question.AnswerDescription) == "" {
		return fmt.Errorf("essay question must have an answer description")
	}
	return nil
}
