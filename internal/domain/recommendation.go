package domain

// Recommendation is a single best-next-problem suggestion.
type Recommendation struct {
	Problem    ProblemResponse `json:"problem"`
	Reason     string          `json:"reason"`
	Difficulty string          `json:"difficulty"`
}

// Suggestion reasons, fixed per fallback tier.
const (
	ReasonRecentTopic    = "recent topic interest"
	ReasonRatingMatch    = "matches current rating"
	ReasonFreshChallenge = "fresh challenge"
)

// DifficultyLabel grades a problem's rating relative to the user's own into
// one of seven fixed human-readable tiers.
func DifficultyLabel(problemRating, userRating int) string {
	diff := problemRating - userRating
	switch {
	case diff < -200:
		return "much easier"
	case diff <= -101:
		return "easier"
	case diff <= -1:
		return "slightly easier"
	case diff == 0:
		return "same level"
	case diff <= 100:
		return "slightly harder"
	case diff <= 200:
		return "harder"
	default:
		return "much harder"
	}
}

// ScorerRequest is the query sent to the external similarity scorer. Zero
// rating bounds mean unconstrained; an empty tag list means any tag.
type ScorerRequest struct {
	Handle    string
	Count     int
	MinRating int
	MaxRating int
	Tags      []string
}
