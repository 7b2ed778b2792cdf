package parser

import (
	"regexp"
	"strings"
)

var (
	repeatedNewlines = regexp.MustCompile(`\n{2,}`)
	horizontalSpace  = regexp.MustCompile(`[ \t]+`)
	newlineIndent    = regexp.MustCompile(`\n\s+`)
)

// NormalizeText flattens raw PDF text into a parseable form: carriage returns
// become newlines, newline runs collapse to one, horizontal whitespace runs
// collapse to a single space, and indentation after a newline is stripped.
// Original paragraph spacing is lost on purpose. Idempotent.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", "\n")
	text = repeatedNewlines.ReplaceAllString(text, "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = newlineIndent.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
