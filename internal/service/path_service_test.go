package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
)

// stubCatalog serves a fixed snapshot.
type stubCatalog struct {
	problems []domain.Problem
}

func (s *stubCatalog) Snapshot() []domain.Problem {
	return s.problems
}

func catalogProblem(contestID int, index string, rating int, tags ...string) domain.Problem {
	return domain.Problem{
		ContestID: contestID,
		Index:     index,
		Key:       domain.ProblemKey(contestID, index),
		Name:      "Problem " + index,
		Rating:    rating,
		Tags:      tags,
	}
}

func TestSelectForLevel(t *testing.T) {
	plan := domain.LevelPlan{
		Index:     1,
		FocusTags: []string{"implementation"},
		MinRating: 800,
		MaxRating: 1000,
		Count:     3,
	}

	catalog := []domain.Problem{
		catalogProblem(1, "A", 900, "implementation"),
		catalogProblem(2, "A", 800, "implementation"),  // lower bound inclusive
		catalogProblem(3, "A", 1000, "implementation"), // upper bound inclusive
		catalogProblem(4, "A", 1100, "implementation"), // above range
		catalogProblem(5, "A", 900, "dp"),              // wrong tag
		catalogProblem(6, "A", 0, "implementation"),    // unrated
		catalogProblem(7, "A", 850, "implementation"),  // attempted
		catalogProblem(8, "A", 950, "implementation", "math"),
	}
	attempted := map[string]bool{"7_A": true}

	selected := selectForLevel(catalog, plan, attempted)
	require.Len(t, selected, 3, "capped at the plan count")
	assert.Equal(t, "2_A", selected[0].Key)
	assert.Equal(t, "1_A", selected[1].Key)
	assert.Equal(t, "8_A", selected[2].Key, "ascending rating, multi-tag problems qualify")
}

func TestSelectForLevel_TiesKeepCatalogOrder(t *testing.T) {
	plan := domain.LevelPlan{FocusTags: []string{"math"}, MinRating: 800, MaxRating: 1000, Count: 5}
	catalog := []domain.Problem{
		catalogProblem(10, "B", 900, "math"),
		catalogProblem(11, "C", 900, "math"),
		catalogProblem(12, "D", 900, "math"),
	}

	selected := selectForLevel(catalog, plan, nil)
	require.Len(t, selected, 3)
	assert.Equal(t, []string{"10_B", "11_C", "12_D"},
		[]string{selected[0].Key, selected[1].Key, selected[2].Key})
}

func TestBuildPath_TierAndLevels(t *testing.T) {
	user := &domain.UserSnapshot{Handle: "alice", Rating: 1250}
	catalog := []domain.Problem{
		catalogProblem(1, "A", 850, "implementation"),
		catalogProblem(2, "A", 900, "implementation", "greedy"),
		catalogProblem(3, "A", 1050, "greedy"),
		catalogProblem(4, "A", 1150, "math"),
	}

	path := buildPath(user, catalog, map[string]bool{})
	assert.Equal(t, domain.TierBeginner, path.Tier)
	assert.Equal(t, 1250, path.CurrentRating)
	require.Len(t, path.Levels, 5)

	level1 := path.Levels[0]
	assert.Equal(t, 1, level1.Index)
	assert.Equal(t, 800, level1.MinRating)
	assert.Equal(t, 1000, level1.MaxRating)
	require.Len(t, level1.Problems, 2)
	for _, p := range level1.Problems {
		assert.Equal(t, domain.SourceRules, p.Source)
	}

	// A thin catalog leaves later levels underfilled rather than failing.
	assert.NotPanics(t, func() { _ = path.Levels[4] })
	assert.LessOrEqual(t, len(path.Levels[4].Problems), 5)
}

func TestBuildPath_AttemptedExcludedEverywhere(t *testing.T) {
	user := &domain.UserSnapshot{Handle: "alice", Rating: 1000}
	catalog := []domain.Problem{
		catalogProblem(1, "A", 900, "implementation"),
		catalogProblem(2, "A", 950, "implementation"),
	}
	attempted := map[string]bool{"1_A": true, "2_A": true}

	path := buildPath(user, catalog, attempted)
	for _, level := range path.Levels {
		assert.Empty(t, level.Problems)
	}
}

func TestBuildPath_EndToEnd(t *testing.T) {
	activity := &domain.UserActivity{
		User: domain.UserSnapshot{Handle: "bob", Rating: 1500},
		Submissions: []domain.Submission{
			sub(1, "A", domain.VerdictAccepted, "2024-01-05T10:00:00Z", 1300, "greedy"),
			sub(2, "A", domain.VerdictWrongAnswer, "2024-01-06T10:00:00Z", 1400, "dp"),
		},
	}
	catalog := &stubCatalog{problems: []domain.Problem{
		catalogProblem(1, "A", 1350, "greedy"), // solved, excluded
		catalogProblem(2, "A", 1400, "greedy"), // attempted, excluded
		catalogProblem(3, "A", 1450, "greedy"),
	}}

	svc := NewPathService(&stubUserSource{activity: activity}, catalog, testTracer(), zap.NewNop())
	result, err := svc.BuildPath(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, domain.TierIntermediate, result.Path.Tier)
	assert.True(t, result.Attempted["1_A"])
	assert.True(t, result.Attempted["2_A"], "failed attempts are still attempts")
	assert.True(t, result.Solved["1_A"])
	assert.False(t, result.Solved["2_A"])

	level1 := result.Path.Levels[0]
	require.Len(t, level1.Problems, 1)
	assert.Equal(t, "3_A", level1.Problems[0].Problem.Key)
}

func TestBuildPath_UpstreamErrorPropagates(t *testing.T) {
	svc := NewPathService(&stubUserSource{err: domain.ErrUpstreamUnavailable},
		&stubCatalog{}, testTracer(), zap.NewNop())

	_, err := svc.BuildPath(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}
