package domain

// Rank is one of the fixed Codeforces rank names.
type Rank string

const (
	RankNewbie                   Rank = "newbie"
	RankPupil                    Rank = "pupil"
	RankSpecialist               Rank = "specialist"
	RankExpert                   Rank = "expert"
	RankCandidateMaster          Rank = "candidate master"
	RankMaster                   Rank = "master"
	RankInternationalMaster      Rank = "international master"
	RankGrandmaster              Rank = "grandmaster"
	RankInternationalGrandmaster Rank = "international grandmaster"
	RankLegendaryGrandmaster     Rank = "legendary grandmaster"
)

// rankLadder is the fixed ordering of ranks, weakest first.
var rankLadder = []Rank{
	RankNewbie,
	RankPupil,
	RankSpecialist,
	RankExpert,
	RankCandidateMaster,
	RankMaster,
	RankInternationalMaster,
	RankGrandmaster,
	RankInternationalGrandmaster,
	RankLegendaryGrandmaster,
}

// position returns the rank's index in the ladder, or -1 for unknown ranks.
func (r Rank) position() int {
	for i, rank := range rankLadder {
		if rank == r {
			return i
		}
	}
	return -1
}

// AtLeast reports whether the rank sits at or above min on the ladder.
// Unknown ranks never qualify.
func (r Rank) AtLeast(min Rank) bool {
	pos, minPos := r.position(), min.position()
	return pos >= 0 && minPos >= 0 && pos >= minPos
}

// UserSnapshot is the read-only profile returned by the user.info endpoint.
type UserSnapshot struct {
	Handle    string `json:"handle"`
	Rating    int    `json:"rating"`
	MaxRating int    `json:"maxRating"`
	Rank      Rank   `json:"rank"`
	AvatarURL string `json:"avatar"`
}
