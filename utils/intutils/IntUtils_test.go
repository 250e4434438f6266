package intutils

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinMax(t *testing.T) {
	assert.Equal(t, -3, Min(4, -3, 7, 0))
	assert.Equal(t, 7, Max(4, -3, 7, 0))
	assert.Equal(t, 5, Max(5))
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(image.Pt(2, 2), image.Pt(2, 2)))
	assert.Equal(t, 7, Manhattan(image.Pt(1, 5), image.Pt(4, 1)))
	assert.Equal(t, 3, Abs(-3))
}

func TestMinPairwiseDistance(t *testing.T) {
	t.Run("TooFewPoints", func(t *testing.T) {
		assert.Equal(t, -1, MinPairwiseDistance(nil))
		assert.Equal(t, -1, MinPairwiseDistance([]image.Point{{1, 1}}))
	})

	t.Run("SmallestPair", func(t *testing.T) {
		points := []image.Point{{1, 1}, {5, 5}, {1, 4}, {6, 5}}
		assert.Equal(t, 1, MinPairwiseDistance(points))
	})
}
