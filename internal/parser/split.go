package parser

import (
	"regexp"
	"strings"
)

// A question boundary is a numbered marker at the start of a line:
// "12. ", "12) " or "Soal 12:" / "Soal 12.".
var questionBoundary = regexp.MustCompile(`\n\d+\.\s|\n\d+\)\s|\nSoal\s+\d+\s*[:.]`)

// SplitQuestions segments normalized text into per-question blocks, in order
// of appearance. A newline is prepended so a question starting at the very
// first character is still captured. Blocks are trimmed and empty blocks
// dropped; text with no boundary marker at all comes back as a single block.
func SplitQuestions(text string) []string {
	parts := questionBoundary.Split("\n"+text, -1)

	blocks := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			blocks = append(blocks, part)
		}
	}
	return blocks
}
