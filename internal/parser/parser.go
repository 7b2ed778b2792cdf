// Package parser turns the raw text of an uploaded question-bank PDF into
// structured question records. It knows nothing about storage or HTTP; the
// pipeline is extract → normalize → split → classify, and a failure to parse
// any single block can only ever demote that block to an essay question.
package parser

// ParseText runs the normalize → split → classify pipeline over raw extracted
// text. Output order matches the order of appearance in the source.
func ParseText(raw string) []ParsedQuestion {
	blocks := SplitQuestions(NormalizeText(raw))

	questions := make([]ParsedQuestion, 0, len(blocks))
	for _, block := range blocks {
		questions = append(questions, ParseBlock(block))
	}
	return questions
}

// ParseDocument extracts and parses a PDF on disk in one step.
func ParseDocument(path string) ([]ParsedQuestion, error) {
	raw, err := ExtractFile(path)
	if err != nil {
		return nil, err
	}
	return ParseText(raw), nil
}
