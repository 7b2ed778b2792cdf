package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "carriage returns become newlines",
			input:    "first\rsecond",
			expected: "first\nsecond",
		},
		{
			name:     "newline runs collapse to one",
			input:    "first\n\n\n\nsecond",
			expected: "first\nsecond",
		},
		{
			name:     "horizontal whitespace collapses to one space",
			input:    "a  \t  b",
			expected: "a b",
		},
		{
			name:     "indentation after newline is stripped",
			input:    "first\n   indented",
			expected: "first\nindented",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  \n text \n ",
			expected: "text",
		},
		{
			name:     "crlf pairs do not leave blank lines",
			input:    "first\r\nsecond\r\nthird",
			expected: "first\nsecond\nthird",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeText(tt.input))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"1. Question one\r\n\r\nA.   first\n\tB. second",
		"  Soal 2: something\n\n\nmore  text  here ",
		"",
		"plain single line",
	}

	for _, input := range inputs {
		once := NormalizeText(input)
		assert.Equal(t, once, NormalizeText(once), "normalize must be idempotent for %q", input)
	}
}
