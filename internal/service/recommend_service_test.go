package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/recommender"
)

// fakeScorer returns a canned batch per call, or fails on selected levels.
type fakeScorer struct {
	problems []domain.Problem
	failMin  int // requests with MinRating == failMin error out
	requests []domain.ScorerRequest
}

func (f *fakeScorer) Recommend(ctx context.Context, req domain.ScorerRequest) ([]domain.Problem, error) {
	f.requests = append(f.requests, req)
	if f.failMin != 0 && req.MinRating == f.failMin {
		return nil, domain.ErrScorerUnavailable
	}
	return f.problems, nil
}

func newRecommendService(activity *domain.UserActivity, catalog []domain.Problem, scorer recommender.Scorer) *RecommendService {
	if scorer == nil {
		scorer = recommender.NoopScorer{}
	}
	return NewRecommendService(
		&stubUserSource{activity: activity},
		&stubCatalog{problems: catalog},
		scorer,
		testTracer(),
		zap.NewNop(),
	)
}

func TestTopRecentTag(t *testing.T) {
	var submissions []domain.Submission
	// Oldest first: 12 submissions, only the newest 10 are in the window.
	// The two oldest carry "graphs" which must therefore not count.
	submissions = append(submissions,
		sub(1, "A", domain.VerdictAccepted, "2024-01-01T00:00:00Z", 800, "graphs"),
		sub(1, "B", domain.VerdictAccepted, "2024-01-01T01:00:00Z", 800, "graphs"),
	)
	for i := 0; i < 6; i++ {
		submissions = append(submissions,
			sub(2, string(rune('A'+i)), domain.VerdictAccepted, "2024-01-02T00:00:00Z", 900, "dp"))
	}
	for i := 0; i < 4; i++ {
		submissions = append(submissions,
			sub(3, string(rune('A'+i)), domain.VerdictWrongAnswer, "2024-01-03T00:00:00Z", 900, "math"))
	}

	assert.Equal(t, "dp", topRecentTag(submissions),
		"window counts all verdicts but drops submissions past the newest 10")
	assert.Equal(t, "", topRecentTag(nil))
}

func TestTopRecentTag_TieResolvesToFirstReachingMax(t *testing.T) {
	// Newest-first the tags appear math, greedy, math, greedy: math reaches
	// every count level first.
	submissions := []domain.Submission{
		sub(1, "A", domain.VerdictAccepted, "2024-01-04T00:00:00Z", 800, "math"),
		sub(1, "B", domain.VerdictAccepted, "2024-01-03T00:00:00Z", 800, "greedy"),
		sub(1, "C", domain.VerdictAccepted, "2024-01-02T00:00:00Z", 800, "math"),
		sub(1, "D", domain.VerdictAccepted, "2024-01-01T00:00:00Z", 800, "greedy"),
	}
	assert.Equal(t, "math", topRecentTag(submissions))
}

func TestDailySuggestion_RecentTopicTier(t *testing.T) {
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "alice", Rating: 1500},
		Submissions: []domain.Submission{
			sub(1, "A", domain.VerdictAccepted, "2024-01-01T00:00:00Z", 1400, "dp"),
		},
	}
	catalog := []domain.Problem{
		catalogProblem(10, "A", 1600, "dp"), // in [1400, 1700] with the recent tag
	}

	svc := newRecommendService(activity, catalog, nil)
	rec, err := svc.DailySuggestion(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.ReasonRecentTopic, rec.Reason)
	assert.Equal(t, "10_A", rec.Problem.Key)
	assert.Equal(t, "slightly harder", rec.Difficulty)
}

func TestDailySuggestion_FallsThroughWhenTagYieldsNothing(t *testing.T) {
	// The recent tag is valid but no unattempted catalog problem carries it,
	// so the first tier is skipped entirely.
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "alice", Rating: 1500},
		Submissions: []domain.Submission{
			sub(1, "A", domain.VerdictAccepted, "2024-01-01T00:00:00Z", 1400, "dp"),
		},
	}
	catalog := []domain.Problem{
		catalogProblem(10, "A", 1450, "graphs"), // in [1400, 1600], wrong tag
	}

	svc := newRecommendService(activity, catalog, nil)
	rec, err := svc.DailySuggestion(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.ReasonRatingMatch, rec.Reason)
	assert.Equal(t, "10_A", rec.Problem.Key)
}

func TestDailySuggestion_FreshChallengeTier(t *testing.T) {
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "alice", Rating: 1500},
	}
	catalog := []domain.Problem{
		catalogProblem(10, "A", 1750, "graphs"), // only in the widest band
	}

	svc := newRecommendService(activity, catalog, nil)
	rec, err := svc.DailySuggestion(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, domain.ReasonFreshChallenge, rec.Reason)
}

func TestDailySuggestion_NoCandidatesAnywhere(t *testing.T) {
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "alice", Rating: 1500},
	}
	catalog := []domain.Problem{
		catalogProblem(10, "A", 3000, "graphs"), // outside even the widest band
	}

	svc := newRecommendService(activity, catalog, nil)
	rec, err := svc.DailySuggestion(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, rec, "no candidates is not an error")
}

func TestDailySuggestion_ExcludesAttempted(t *testing.T) {
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "alice", Rating: 1500},
		Submissions: []domain.Submission{
			sub(10, "A", domain.VerdictWrongAnswer, "2024-01-01T00:00:00Z", 1500, "graphs"),
		},
	}
	catalog := []domain.Problem{
		catalogProblem(10, "A", 1500, "graphs"),
	}

	svc := newRecommendService(activity, catalog, nil)
	rec, err := svc.DailySuggestion(context.Background(), "alice")
	require.NoError(t, err)
	assert.Nil(t, rec, "attempted problems never come back as suggestions")
}

func TestDailySuggestion_UpstreamErrorPropagates(t *testing.T) {
	svc := NewRecommendService(
		&stubUserSource{err: domain.ErrUpstreamUnavailable},
		&stubCatalog{},
		recommender.NoopScorer{},
		testTracer(),
		zap.NewNop(),
	)
	_, err := svc.DailySuggestion(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func augmentablePath() *domain.LearningPath {
	full := make([]domain.PathProblem, 5)
	for i := range full {
		p := catalogProblem(100+i, "A", 1300+50*i, "greedy")
		full[i] = domain.PathProblem{Problem: p, Source: domain.SourceRules}
	}
	return &domain.LearningPath{
		Handle: "alice",
		Tier:   domain.TierIntermediate,
		Levels: []domain.PathLevel{
			{Index: 1, FocusTags: []string{"greedy"}, MinRating: 1300, MaxRating: 1500, TargetCount: 5, Problems: full},
			{Index: 2, FocusTags: []string{"greedy", "dp"}, MinRating: 1400, MaxRating: 1600, TargetCount: 5,
				Problems: []domain.PathProblem{{Problem: catalogProblem(200, "A", 1450, "dp"), Source: domain.SourceRules}}},
			{Index: 3, FocusTags: []string{"greedy", "dp", "constructive algorithms"}, MinRating: 1500, MaxRating: 1700, TargetCount: 5},
		},
	}
}

func TestAugmentPath_TopsUpDeficitsOnly(t *testing.T) {
	scorer := &fakeScorer{problems: []domain.Problem{
		catalogProblem(300, "A", 1500, "dp"),
		catalogProblem(301, "A", 1550, "dp"),
		catalogProblem(200, "A", 1450, "dp"), // already in level 2
		catalogProblem(302, "A", 1600, "dp"), // attempted
		catalogProblem(303, "A", 1520, "dp"),
		catalogProblem(304, "A", 1530, "dp"),
		catalogProblem(305, "A", 1540, "dp"),
	}}
	svc := newRecommendService(&domain.UserActivity{}, nil, scorer)

	path := augmentablePath()
	attempted := map[string]bool{"302_A": true}
	svc.AugmentPath(context.Background(), path, attempted)

	// Full level: no request made for it.
	require.Len(t, scorer.requests, 2)
	assert.Equal(t, 4, scorer.requests[0].Count, "deficit of the first short level")
	assert.Equal(t, 1400, scorer.requests[0].MinRating)
	assert.Equal(t, []string{"greedy", "dp"}, scorer.requests[0].Tags)

	level2 := path.Levels[1]
	require.Len(t, level2.Problems, 5, "topped up exactly to target")
	assert.Equal(t, domain.SourceRules, level2.Problems[0].Source, "rule-based picks stay first")
	for _, pp := range level2.Problems[1:] {
		assert.Equal(t, domain.SourceScorer, pp.Source)
		assert.NotEqual(t, "200_A", pp.Problem.Key, "duplicates dropped")
		assert.NotEqual(t, "302_A", pp.Problem.Key, "attempted dropped")
	}

	level3 := path.Levels[2]
	assert.Len(t, level3.Problems, 5)
}

func TestAugmentPath_LevelFailureIsIsolated(t *testing.T) {
	scorer := &fakeScorer{
		problems: []domain.Problem{catalogProblem(300, "A", 1550, "dp")},
		failMin:  1400, // level 2's request fails
	}
	svc := newRecommendService(&domain.UserActivity{}, nil, scorer)

	path := augmentablePath()
	svc.AugmentPath(context.Background(), path, nil)

	assert.Len(t, path.Levels[1].Problems, 1, "failed level keeps its rule-based content")
	assert.Len(t, path.Levels[2].Problems, 1, "later levels still augmented")
	assert.Equal(t, domain.SourceScorer, path.Levels[2].Problems[0].Source)
}
