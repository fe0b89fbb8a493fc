package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankAtLeast(t *testing.T) {
	assert.True(t, RankSpecialist.AtLeast(RankSpecialist))
	assert.True(t, RankExpert.AtLeast(RankSpecialist))
	assert.True(t, RankLegendaryGrandmaster.AtLeast(RankMaster))
	assert.False(t, RankPupil.AtLeast(RankSpecialist))
	assert.False(t, RankNewbie.AtLeast(RankPupil))
}

func TestRankAtLeast_UnknownRank(t *testing.T) {
	assert.False(t, Rank("tourist").AtLeast(RankNewbie))
	assert.False(t, RankExpert.AtLeast(Rank("tourist")))
}
