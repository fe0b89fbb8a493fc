package service

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
)

// CatalogSource provides the current read-only problem catalog snapshot.
type CatalogSource interface {
	Snapshot() []domain.Problem
}

// PathService builds graded learning paths. Stateless per call: the path is
// a pure function of the user's activity snapshot and the catalog.
type PathService struct {
	upstream UserDataSource
	catalog  CatalogSource
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewPathService creates a new learning-path service
func NewPathService(upstream UserDataSource, catalog CatalogSource, tracer trace.Tracer, logger *zap.Logger) *PathService {
	return &PathService{
		upstream: upstream,
		catalog:  catalog,
		tracer:   tracer,
		logger:   logger,
	}
}

// PathResult bundles a built path with the activity sets needed to compute
// progress and to run optional augmentation afterwards.
type PathResult struct {
	Path      *domain.LearningPath
	Attempted map[string]bool
	Solved    map[string]bool
}

// BuildPath fetches a handle's activity, assigns a tier and fills each of
// its five levels with unseen catalog problems.
func (s *PathService) BuildPath(ctx context.Context, handle string) (*PathResult, error) {
	ctx, span := s.tracer.Start(ctx, "PathService.BuildPath")
	defer span.End()

	span.SetAttributes(attribute.String("user.handle", handle))

	activity, err := s.upstream.FetchUserData(ctx, handle)
	if err != nil {
		return nil, err
	}

	attempted := attemptedKeys(activity.Submissions)
	path := buildPath(&activity.User, s.catalog.Snapshot(), attempted)

	span.SetAttributes(attribute.String("path.tier", string(path.Tier)))
	s.logger.Info("Learning path built",
		zap.String("handle", handle),
		zap.String("tier", string(path.Tier)),
		zap.Int("rating", path.CurrentRating),
	)

	return &PathResult{
		Path:      path,
		Attempted: attempted,
		Solved:    solvedKeys(activity.Submissions),
	}, nil
}

// buildPath materializes the tier's fixed level plans against a catalog.
func buildPath(user *domain.UserSnapshot, catalog []domain.Problem, attempted map[string]bool) *domain.LearningPath {
	tier := domain.TierForRating(user.Rating)
	plans := domain.PlansForTier(tier)

	levels := make([]domain.PathLevel, len(plans))
	for i, plan := range plans {
		selected := selectForLevel(catalog, plan, attempted)
		problems := make([]domain.PathProblem, len(selected))
		for j, p := range selected {
			problems[j] = domain.PathProblem{Problem: p, Source: domain.SourceRules}
		}
		levels[i] = domain.PathLevel{
			Index:       plan.Index,
			FocusTags:   plan.FocusTags,
			MinRating:   plan.MinRating,
			MaxRating:   plan.MaxRating,
			TargetCount: plan.Count,
			Problems:    problems,
		}
	}

	return &domain.LearningPath{
		Handle:        user.Handle,
		Tier:          tier,
		CurrentRating: user.Rating,
		Levels:        levels,
	}
}

// selectForLevel picks up to plan.Count catalog problems matching the
// level's rating range (inclusive) and focus tags, skipping anything the
// user has attempted. Fully deterministic: ascending rating, ties keep
// catalog order.
func selectForLevel(catalog []domain.Problem, plan domain.LevelPlan, attempted map[string]bool) []domain.Problem {
	var candidates []domain.Problem
	for i := range catalog {
		p := &catalog[i]
		if !p.HasRating() || p.Rating < plan.MinRating || p.Rating > plan.MaxRating {
			continue
		}
		if attempted[p.Key] {
			continue
		}
		if !p.HasAnyTag(plan.FocusTags) {
			continue
		}
		candidates = append(candidates, *p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating < candidates[j].Rating
	})

	if len(candidates) > plan.Count {
		candidates = candidates[:plan.Count]
	}
	return candidates
}
