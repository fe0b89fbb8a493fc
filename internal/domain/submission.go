package domain

import "sort"

// Verdict is the outcome code of a single submission attempt.
type Verdict string

const (
	VerdictAccepted     Verdict = "OK"
	VerdictWrongAnswer  Verdict = "WRONG_ANSWER"
	VerdictTimeLimit    Verdict = "TIME_LIMIT_EXCEEDED"
	VerdictMemoryLimit  Verdict = "MEMORY_LIMIT_EXCEEDED"
	VerdictRuntimeError Verdict = "RUNTIME_ERROR"
	VerdictCompileError Verdict = "COMPILATION_ERROR"
)

// IsAccepted reports whether the submission solved the problem.
func (v Verdict) IsAccepted() bool {
	return v == VerdictAccepted
}

// SubmissionProblem is the problem metadata embedded in a submission record.
type SubmissionProblem struct {
	ContestID int      `json:"contestId"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"` // 0 when absent upstream
	Tags      []string `json:"tags"`
}

// Submission represents one attempt at one problem, as returned by the
// user.status endpoint. Immutable once received.
type Submission struct {
	ID                  int64             `json:"id"`
	ContestID           int               `json:"contestId"`
	CreationTimeSeconds int64             `json:"creationTimeSeconds"`
	Problem             SubmissionProblem `json:"problem"`
	Verdict             Verdict           `json:"verdict"`
}

// Key returns the stable problem identifier for the submission's problem.
func (s *Submission) Key() string {
	return ProblemKey(s.Problem.ContestID, s.Problem.Index)
}

// RatingChange represents the rating delta from one rated contest, as
// returned by the user.rating endpoint. The upstream does not guarantee
// ordering; sort before consuming.
type RatingChange struct {
	ContestID               int    `json:"contestId"`
	ContestName             string `json:"contestName"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	OldRating               int    `json:"oldRating"`
	NewRating               int    `json:"newRating"`
}

// Delta returns the rating movement from the contest.
func (rc *RatingChange) Delta() int {
	return rc.NewRating - rc.OldRating
}

// SortRatingChanges orders rating changes ascending by update time.
func SortRatingChanges(changes []RatingChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].RatingUpdateTimeSeconds < changes[j].RatingUpdateTimeSeconds
	})
}

// UserActivity bundles everything fetched about one handle in a single
// all-or-nothing round trip to the upstream API.
type UserActivity struct {
	User          UserSnapshot
	Submissions   []Submission
	RatingChanges []RatingChange
}
