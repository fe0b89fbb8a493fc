package domain

// ActivityLevel grades a day's accepted-submission volume for heatmap display.
type ActivityLevel int

// ActivityLevelFor maps a raw per-day accepted count to a level 0-4.
func ActivityLevelFor(count int) ActivityLevel {
	switch {
	case count == 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 10:
		return 3
	default:
		return 4
	}
}

// ProblemDetail is the first-seen metadata recorded for a distinct solved problem.
type ProblemDetail struct {
	Key       string   `json:"key"`
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
}

// TagCount is one entry of the tag ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// RatingBand is a display bucket for the difficulty histogram. Max of -1
// marks the open-ended top band.
type RatingBand struct {
	Label string `json:"label"`
	Min   int    `json:"min"`
	Max   int    `json:"max"`
}

// DisplayBands are the fixed difficulty buckets used for chart display.
var DisplayBands = []RatingBand{
	{Label: "800-999", Min: 800, Max: 999},
	{Label: "1000-1199", Min: 1000, Max: 1199},
	{Label: "1200-1399", Min: 1200, Max: 1399},
	{Label: "1400-1599", Min: 1400, Max: 1599},
	{Label: "1600-1899", Min: 1600, Max: 1899},
	{Label: "1900-2099", Min: 1900, Max: 2099},
	{Label: "2100+", Min: 2100, Max: -1},
}

// BandCount pairs a display band with its submission count.
type BandCount struct {
	Band  RatingBand `json:"band"`
	Count int        `json:"count"`
}

// BucketHistogram regroups an exact-rating histogram into the fixed display
// bands. Ratings below the first band are ignored.
func BucketHistogram(histogram map[int]int) []BandCount {
	bands := make([]BandCount, len(DisplayBands))
	for i, band := range DisplayBands {
		bands[i] = BandCount{Band: band}
	}
	for rating, count := range histogram {
		for i, band := range DisplayBands {
			if rating >= band.Min && (band.Max < 0 || rating <= band.Max) {
				bands[i].Count += count
				break
			}
		}
	}
	return bands
}

// Achievement is one fixed badge and its unlock state for a snapshot.
type Achievement struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Unlocked bool   `json:"unlocked"`
}

// DerivedStats is the full set of display statistics recomputed fresh from a
// user's activity snapshot. Nothing here is mutated incrementally.
type DerivedStats struct {
	Handle              string                   `json:"handle"`
	SolvedCount         int                      `json:"solved_count"`
	CurrentStreakDays   int                      `json:"current_streak_days"`
	ContestCount        int                      `json:"contest_count"`
	DifficultyHistogram map[int]int              `json:"difficulty_histogram"`
	DifficultyBands     []BandCount              `json:"difficulty_bands"`
	TagRanking          []TagCount               `json:"tag_ranking"`
	WeeklyActivity      map[string]ActivityLevel `json:"weekly_activity"`
	Achievements        []Achievement            `json:"achievements"`
}
