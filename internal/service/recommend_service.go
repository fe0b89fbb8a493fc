package service

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/recommender"
)

const recentSubmissionWindow = 10

// RecommendService selects best-next-problem suggestions and augments
// learning paths through the optional external scorer.
type RecommendService struct {
	upstream UserDataSource
	catalog  CatalogSource
	scorer   recommender.Scorer
	tracer   trace.Tracer
	logger   *zap.Logger
	rng      *rand.Rand
	rngMu    sync.Mutex // Protects rng for concurrent access
}

// NewRecommendService creates a new recommendation service
func NewRecommendService(
	upstream UserDataSource,
	catalog CatalogSource,
	scorer recommender.Scorer,
	tracer trace.Tracer,
	logger *zap.Logger,
) *RecommendService {
	return &RecommendService{
		upstream: upstream,
		catalog:  catalog,
		scorer:   scorer,
		tracer:   tracer,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// suggestionContext is everything a candidate strategy may look at.
type suggestionContext struct {
	rating    int
	recentTag string
	attempted map[string]bool
	catalog   []domain.Problem
}

// suggestionStrategy produces a candidate set and the reason attached to a
// pick from it. Strategies are pure; an empty result means "try the next
// one".
type suggestionStrategy func(sc *suggestionContext) ([]domain.Problem, string)

// suggestionStrategies is the ordered fallback chain: recent-topic match,
// then rating-band match, then a wider fresh-challenge band.
var suggestionStrategies = []suggestionStrategy{
	func(sc *suggestionContext) ([]domain.Problem, string) {
		if sc.recentTag == "" {
			return nil, ""
		}
		candidates := filterCatalog(sc, sc.rating-100, sc.rating+200, sc.recentTag)
		return candidates, domain.ReasonRecentTopic
	},
	func(sc *suggestionContext) ([]domain.Problem, string) {
		candidates := filterCatalog(sc, sc.rating-100, sc.rating+100, "")
		return candidates, domain.ReasonRatingMatch
	},
	func(sc *suggestionContext) ([]domain.Problem, string) {
		candidates := filterCatalog(sc, sc.rating-200, sc.rating+300, "")
		return candidates, domain.ReasonFreshChallenge
	},
}

// filterCatalog returns unattempted rated problems inside [minRating,
// maxRating], optionally restricted to a tag.
func filterCatalog(sc *suggestionContext, minRating, maxRating int, tag string) []domain.Problem {
	var candidates []domain.Problem
	for i := range sc.catalog {
		p := &sc.catalog[i]
		if !p.HasRating() || p.Rating < minRating || p.Rating > maxRating {
			continue
		}
		if sc.attempted[p.Key] {
			continue
		}
		if tag != "" && !p.HasAnyTag([]string{tag}) {
			continue
		}
		candidates = append(candidates, *p)
	}
	return candidates
}

// DailySuggestion picks one problem for the handle through the fallback
// chain. A nil recommendation with nil error means no candidates exist
// anywhere; callers must treat that as "nothing to suggest", not a failure.
func (s *RecommendService) DailySuggestion(ctx context.Context, handle string) (*domain.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "RecommendService.DailySuggestion")
	defer span.End()

	span.SetAttributes(attribute.String("user.handle", handle))

	activity, err := s.upstream.FetchUserData(ctx, handle)
	if err != nil {
		return nil, err
	}

	sc := &suggestionContext{
		rating:    activity.User.Rating,
		recentTag: topRecentTag(activity.Submissions),
		attempted: attemptedKeys(activity.Submissions),
		catalog:   s.catalog.Snapshot(),
	}

	for _, strategy := range suggestionStrategies {
		candidates, reason := strategy(sc)
		if len(candidates) == 0 {
			continue
		}
		pick := candidates[s.randIntn(len(candidates))]

		span.SetAttributes(attribute.String("suggestion.reason", reason))
		s.logger.Info("Daily suggestion selected",
			zap.String("handle", handle),
			zap.String("problem", pick.Key),
			zap.String("reason", reason),
			zap.Int("candidates", len(candidates)),
		)
		return &domain.Recommendation{
			Problem:    pick.ToResponse(),
			Reason:     reason,
			Difficulty: domain.DifficultyLabel(pick.Rating, activity.User.Rating),
		}, nil
	}

	s.logger.Info("No suggestion candidates found",
		zap.String("handle", handle),
	)
	return nil, nil
}

// topRecentTag finds the most frequent tag among the 10 most recent
// submissions. Ties resolve to whichever tag reached the maximum first
// during a single pass over the window.
func topRecentTag(submissions []domain.Submission) string {
	recent := make([]domain.Submission, len(submissions))
	copy(recent, submissions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreationTimeSeconds > recent[j].CreationTimeSeconds
	})
	if len(recent) > recentSubmissionWindow {
		recent = recent[:recentSubmissionWindow]
	}

	counts := make(map[string]int)
	best, bestCount := "", 0
	for i := range recent {
		for _, tag := range recent[i].Problem.Tags {
			counts[tag]++
			if counts[tag] > bestCount {
				best, bestCount = tag, counts[tag]
			}
		}
	}
	return best
}

// AugmentPath tops up every level still short of its target with problems
// from the external scorer, constrained to the level's rating range and
// focus tags. Each level's request is independent: a scorer failure logs a
// warning and leaves that level's rule-based content untouched.
func (s *RecommendService) AugmentPath(ctx context.Context, path *domain.LearningPath, attempted map[string]bool) {
	ctx, span := s.tracer.Start(ctx, "RecommendService.AugmentPath")
	defer span.End()

	span.SetAttributes(attribute.String("user.handle", path.Handle))

	for i := range path.Levels {
		level := &path.Levels[i]
		deficit := level.TargetCount - len(level.Problems)
		if deficit <= 0 {
			continue
		}

		extra, err := s.scorer.Recommend(ctx, domain.ScorerRequest{
			Handle:    path.Handle,
			Count:     deficit,
			MinRating: level.MinRating,
			MaxRating: level.MaxRating,
			Tags:      level.FocusTags,
		})
		if err != nil {
			s.logger.Warn("Scorer augmentation failed for level",
				zap.String("handle", path.Handle),
				zap.Int("level", level.Index),
				zap.Error(err),
			)
			continue
		}

		existing := make(map[string]bool, len(level.Problems))
		for _, pp := range level.Problems {
			existing[pp.Problem.Key] = true
		}
		for _, p := range extra {
			if len(level.Problems) >= level.TargetCount {
				break
			}
			if attempted[p.Key] || existing[p.Key] {
				continue
			}
			existing[p.Key] = true
			level.Problems = append(level.Problems, domain.PathProblem{
				Problem: p,
				Source:  domain.SourceScorer,
			})
		}
	}
}

// randIntn draws from the shared rng under its mutex.
func (s *RecommendService) randIntn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}
