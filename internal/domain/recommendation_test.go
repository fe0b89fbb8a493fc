package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyLabel(t *testing.T) {
	const userRating = 1500

	cases := []struct {
		problemRating int
		want          string
	}{
		{1200, "much easier"},
		{1299, "much easier"},
		{1300, "easier"},
		{1399, "easier"},
		{1400, "slightly easier"},
		{1499, "slightly easier"},
		{1500, "same level"},
		{1501, "slightly harder"},
		{1600, "slightly harder"},
		{1601, "harder"},
		{1700, "harder"},
		{1701, "much harder"},
		{2400, "much harder"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DifficultyLabel(tc.problemRating, userRating), "rating=%d", tc.problemRating)
	}
}
