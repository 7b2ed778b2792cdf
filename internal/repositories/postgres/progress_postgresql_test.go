package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldRating(t *testing.T) {
	t.Run("first feedback becomes the average", func(t *testing.T) {
		assert.Equal(t, 5.0, foldRating(0, 0, 5))
	})

	t.Run("second feedback folds into the mean", func(t *testing.T) {
		rating := foldRating(0, 0, 5)
		rating = foldRating(rating, 1, 3)
		assert.Equal(t, 4.0, rating)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		rating := foldRating(0, 0, 5)
		rating = foldRating(rating, 1, 4)
		rating = foldRating(rating, 2, 4)
		assert.Equal(t, 4.33, rating)
	})

	t.Run("long sequence stays bounded", func(t *testing.T) {
		rating := 0.0
		for i := 0; i < 10; i++ {
			rating = foldRating(rating, i, 1)
		}
		assert.Equal(t, 1.0, rating)
	})
}
