package domain

import "math"

// Tier is one of three skill bands a user is assigned to by rating.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// TierForRating assigns a user rating to a tier.
func TierForRating(rating int) Tier {
	switch {
	case rating < 1300:
		return TierBeginner
	case rating < 1800:
		return TierIntermediate
	default:
		return TierAdvanced
	}
}

// LevelPlan is the fixed definition of one learning-path level: which tags
// it focuses on, the inclusive rating range to draw from, and how many
// problems to select.
type LevelPlan struct {
	Index     int
	FocusTags []string
	MinRating int
	MaxRating int
	Count     int
}

const problemsPerLevel = 5

// tierPlans holds the fixed 5-level ladder per tier. Each level's focus tag
// set extends the previous one by a single tag, and the rating window slides
// up by 100 with an overlap of 100.
var tierPlans = map[Tier][]LevelPlan{
	TierBeginner: {
		{Index: 1, FocusTags: []string{"implementation"}, MinRating: 800, MaxRating: 1000, Count: problemsPerLevel},
		{Index: 2, FocusTags: []string{"implementation", "greedy"}, MinRating: 900, MaxRating: 1100, Count: problemsPerLevel},
		{Index: 3, FocusTags: []string{"implementation", "greedy", "math"}, MinRating: 1000, MaxRating: 1200, Count: problemsPerLevel},
		{Index: 4, FocusTags: []string{"implementation", "greedy", "math", "brute force"}, MinRating: 1100, MaxRating: 1300, Count: problemsPerLevel},
		{Index: 5, FocusTags: []string{"implementation", "greedy", "math", "brute force", "sortings"}, MinRating: 1200, MaxRating: 1400, Count: problemsPerLevel},
	},
	TierIntermediate: {
		{Index: 1, FocusTags: []string{"greedy"}, MinRating: 1300, MaxRating: 1500, Count: problemsPerLevel},
		{Index: 2, FocusTags: []string{"greedy", "dp"}, MinRating: 1400, MaxRating: 1600, Count: problemsPerLevel},
		{Index: 3, FocusTags: []string{"greedy", "dp", "constructive algorithms"}, MinRating: 1500, MaxRating: 1700, Count: problemsPerLevel},
		{Index: 4, FocusTags: []string{"greedy", "dp", "constructive algorithms", "binary search"}, MinRating: 1600, MaxRating: 1800, Count: problemsPerLevel},
		{Index: 5, FocusTags: []string{"greedy", "dp", "constructive algorithms", "binary search", "graphs"}, MinRating: 1700, MaxRating: 1900, Count: problemsPerLevel},
	},
	TierAdvanced: {
		{Index: 1, FocusTags: []string{"dp"}, MinRating: 1800, MaxRating: 2000, Count: problemsPerLevel},
		{Index: 2, FocusTags: []string{"dp", "graphs"}, MinRating: 1900, MaxRating: 2100, Count: problemsPerLevel},
		{Index: 3, FocusTags: []string{"dp", "graphs", "trees"}, MinRating: 2000, MaxRating: 2200, Count: problemsPerLevel},
		{Index: 4, FocusTags: []string{"dp", "graphs", "trees", "number theory"}, MinRating: 2100, MaxRating: 2300, Count: problemsPerLevel},
		{Index: 5, FocusTags: []string{"dp", "graphs", "trees", "number theory", "combinatorics"}, MinRating: 2200, MaxRating: 2400, Count: problemsPerLevel},
	},
}

// PlansForTier returns the fixed level definitions for a tier.
func PlansForTier(tier Tier) []LevelPlan {
	return tierPlans[tier]
}

// Problem sources for learning-path levels.
const (
	SourceRules  = "rules"
	SourceScorer = "scorer"
)

// PathProblem is one selected problem within a level, tagged with where the
// selection came from.
type PathProblem struct {
	Problem Problem `json:"problem"`
	Source  string  `json:"source"`
}

// PathLevel is one materialized level of a learning path.
type PathLevel struct {
	Index       int           `json:"index"`
	FocusTags   []string      `json:"focus_tags"`
	MinRating   int           `json:"min_rating"`
	MaxRating   int           `json:"max_rating"`
	TargetCount int           `json:"target_count"`
	Problems    []PathProblem `json:"problems"`
}

// LearningPath is the full graded plan built for one user snapshot.
type LearningPath struct {
	Handle        string      `json:"handle"`
	Tier          Tier        `json:"tier"`
	CurrentRating int         `json:"current_rating"`
	Levels        []PathLevel `json:"levels"`
}

// LevelProgress is completion information for one level.
type LevelProgress struct {
	LevelIndex int `json:"level_index"`
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percent    int `json:"percent"`
}

// PathProgress is completion information for the whole path plus the
// non-authoritative advancement hints.
type PathProgress struct {
	Levels             []LevelProgress `json:"levels"`
	OverallPercent     int             `json:"overall_percent"`
	ShouldAdvanceLevel bool            `json:"should_advance_level"`
	ShouldAdvancePath  bool            `json:"should_advance_path"`
}

// percent rounds completed/total to a whole percentage, 0 when total is 0.
func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Progress computes per-level and overall completion against a solved set,
// plus the advancement hints. The hints are suggestions for the caller, not
// state transitions: shouldAdvanceLevel fires when the level immediately
// before the first incomplete one is at least 80% done, shouldAdvancePath
// when every level is at least 70% done.
func (lp *LearningPath) Progress(solved map[string]bool) *PathProgress {
	progress := &PathProgress{
		Levels: make([]LevelProgress, 0, len(lp.Levels)),
	}

	totalCompleted, totalProblems := 0, 0
	allAboveSeventy := len(lp.Levels) > 0
	firstIncomplete := -1

	for i, level := range lp.Levels {
		completed := 0
		for _, pp := range level.Problems {
			if solved[pp.Problem.Key] {
				completed++
			}
		}
		total := len(level.Problems)
		pct := percent(completed, total)

		progress.Levels = append(progress.Levels, LevelProgress{
			LevelIndex: level.Index,
			Completed:  completed,
			Total:      total,
			Percent:    pct,
		})

		totalCompleted += completed
		totalProblems += total
		if pct < 70 {
			allAboveSeventy = false
		}
		if pct < 100 && firstIncomplete == -1 {
			firstIncomplete = i
		}
	}

	progress.OverallPercent = percent(totalCompleted, totalProblems)
	progress.ShouldAdvancePath = allAboveSeventy
	if firstIncomplete > 0 {
		progress.ShouldAdvanceLevel = progress.Levels[firstIncomplete-1].Percent >= 80
	}

	return progress
}
