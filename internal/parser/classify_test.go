package parser

import (
	"testing"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseBlockMultipleChoice(t *testing.T) {
	parsed := ParseBlock("1. What is 2+2?\nA. 3\nB. 4\nC. 5\nD. 6")

	assert.Equal(t, models.MultipleChoice, parsed.Type)
	assert.Equal(t, "What is 2+2?", parsed.Question)
	assert.Equal(t, []string{"3", "4", "5", "6"}, parsed.Options)
}

func TestParseBlockMultipleChoiceParenLabels(t *testing.T) {
	parsed := ParseBlock("Which planet is largest?\nA) Mars\nB) Venus\nC) Jupiter\nD) Saturn")

	assert.Equal(t, models.MultipleChoice, parsed.Type)
	assert.Equal(t, "Which planet is largest?", parsed.Question)
	assert.Equal(t, []string{"Mars", "Venus", "Jupiter", "Saturn"}, parsed.Options)
}

func TestParseBlockEssayFallback(t *testing.T) {
	parsed := ParseBlock("Explain photosynthesis.")

	assert.Equal(t, models.Essay, parsed.Type)
	assert.Equal(t, "Explain photosynthesis.", parsed.Question)
	assert.Empty(t, parsed.Options)
}

func TestParseBlockFewerThanFourLabelsIsEssay(t *testing.T) {
	block := "Pick one:\nA. yes\nB. no\nC. maybe"
	parsed := ParseBlock(block)

	assert.Equal(t, models.Essay, parsed.Type)
	assert.Equal(t, block, parsed.Question)
}

func TestParseBlockLabelsOutOfOrderIsEssay(t *testing.T) {
	parsed := ParseBlock("Pick one:\nD. four\nC. three\nB. two\nA. one")

	assert.Equal(t, models.Essay, parsed.Type)
}

func TestParseBlockOptionTruncatedAtNewline(t *testing.T) {
	// Imperfect segmentation left the start of the next question inside the
	// last option; everything past the first newline must be cut.
	block := "Choose:\nA. one\nB. two\nC. three\nD. four\nleftover of the next question"
	parsed := ParseBlock(block)

	assert.Equal(t, models.MultipleChoice, parsed.Type)
	assert.Equal(t, []string{"one", "two", "three", "four"}, parsed.Options)
}

func TestParseBlockMultilineStem(t *testing.T) {
	parsed := ParseBlock("Read the text.\nWhat does it say?\nA. a\nB. b\nC. c\nD. d")

	assert.Equal(t, models.MultipleChoice, parsed.Type)
	assert.Equal(t, "Read the text.\nWhat does it say?", parsed.Question)
}

func TestParseText(t *testing.T) {
	raw := "1.  What is 2+2?\nA. 3\nB. 4\nC. 5\nD. 6\n\n2. Explain photosynthesis."

	questions := ParseText(raw)

	assert.Len(t, questions, 2)
	assert.Equal(t, models.MultipleChoice, questions[0].Type)
	assert.Equal(t, "What is 2+2?", questions[0].Question)
	assert.Equal(t, []string{"3", "4", "5", "6"}, questions[0].Options)
	assert.Equal(t, models.Essay, questions[1].Type)
	assert.Equal(t, "Explain photosynthesis.", questions[1].Question)
}

func TestParseTextNeverYieldsZeroQuestionsForNonEmptyInput(t *testing.T) {
	// A block that fails multiple-choice parsing still comes through as an
	// essay; a single malformed block cannot empty the whole document.
	questions := ParseText("1. broken\nA. only\nB. two labels")

	assert.NotEmpty(t, questions)
	for _, q := range questions {
		assert.Equal(t, models.Essay, q.Type)
	}
}
