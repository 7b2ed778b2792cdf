package parser

import (
	"regexp"
	"strings"

	"github.com/Ramandaygy/tutor-app/internal/models"
)

const optionCount = 4

var (
	optionLabel = regexp.MustCompile(`\n([A-D])[\.\)]\s+`)
	leadingMark = regexp.MustCompile(`^\d+[\.\)]\s+`)
)

// ParsedQuestion is the tagged result of classifying one block. Multiple
// choice carries exactly four options; essay carries none. The PDF never
// contains the correct answer, so parsed questions carry no answer field at
// all — that is entered by an admin afterwards.
type ParsedQuestion struct {
	Type     models.QuestionType `json:"type"`
	Question string              `json:"question"`
	Options  []string            `json:"options"`
}

// ParseBlock classifies a block as multiple choice when it contains option
// labels A through D in strict order, and falls back to essay otherwise.
// It never fails: a malformed multiple-choice block degrades to essay.
func ParseBlock(block string) ParsedQuestion {
	if parsed, ok := parseMultipleChoice(block); ok {
		return parsed
	}
	return ParsedQuestion{
		Type:     models.Essay,
		Question: stripLeadingMark(strings.TrimSpace(block)),
		Options:  []string{},
	}
}

func parseMultipleChoice(block string) (ParsedQuestion, bool) {
	labels := optionLabel.FindAllStringSubmatchIndex(block, -1)
	if len(labels) < optionCount {
		return ParsedQuestion{}, false
	}

	// First occurrence of each label, in strict A, B, C, D order.
	want := byte('A')
	picked := make([]int, 0, optionCount)
	for i, m := range labels {
		if block[m[2]] == want {
			picked = append(picked, i)
			if want++; want > 'D' {
				break
			}
		}
	}
	if len(picked) < optionCount {
		return ParsedQuestion{}, false
	}

	question := stripLeadingMark(strings.TrimSpace(block[:labels[picked[0]][0]]))

	options := make([]string, 0, optionCount)
	for n, i := range picked {
		start := labels[i][1]
		end := len(block)
		switch {
		case n < optionCount-1:
			end = labels[picked[n+1]][0]
		case i+1 < len(labels):
			// Text of the last option stops at any following label.
			end = labels[i+1][0]
		}
		text := strings.TrimSpace(block[start:end])
		// Option text bleeding past its line usually belongs to the next
		// question when segmentation split a block imperfectly.
		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			text = strings.TrimSpace(text[:nl])
		}
		options = append(options, text)
	}

	return ParsedQuestion{
		Type:     models.MultipleChoice,
		Question: question,
		Options:  options,
	}, true
}

// stripLeadingMark drops an enumeration marker ("3. ", "3) ") that survived
// segmentation, e.g. when a block is parsed standalone.
func stripLeadingMark(s string) string {
	return leadingMark.ReplaceAllString(s, "")
}
