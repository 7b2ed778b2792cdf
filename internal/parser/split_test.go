package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQuestions(t *testing.T) {
	t.Run("dot numbered markers", func(t *testing.T) {
		text := "1. First question\n2. Second question\n3. Third question"
		blocks := SplitQuestions(text)

		assert.Equal(t, []string{"First question", "Second question", "Third question"}, blocks)
	})

	t.Run("parenthesis and Soal markers mix", func(t *testing.T) {
		text := "1) Alpha\nSoal 2: Beta\n3. Gamma"
		blocks := SplitQuestions(text)

		assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, blocks)
	})

	t.Run("leading question captured via injected newline", func(t *testing.T) {
		// The first marker sits at offset zero; without the injected newline
		// it would not match the line-anchored pattern.
		blocks := SplitQuestions("1. Only question here")

		assert.Equal(t, []string{"Only question here"}, blocks)
	})

	t.Run("no marker yields single block", func(t *testing.T) {
		text := "Explain photosynthesis.\nUse your own words."
		blocks := SplitQuestions(text)

		assert.Equal(t, []string{text}, blocks)
	})

	t.Run("empty blocks dropped", func(t *testing.T) {
		blocks := SplitQuestions("1. \n2. Real question")

		assert.Equal(t, []string{"Real question"}, blocks)
	})

	t.Run("order matches source and nothing is dropped", func(t *testing.T) {
		text := "1. one\n2. two\n3. three\n4. four"
		blocks := SplitQuestions(text)

		assert.Len(t, blocks, 4)
		for _, block := range blocks {
			assert.NotEmpty(t, block)
		}
		assert.Equal(t, []string{"one", "two", "three", "four"}, blocks)
	})
}
