package service

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
)

// UserDataSource fetches a user's profile, submissions and rating history
// in a single all-or-nothing round trip.
type UserDataSource interface {
	FetchUserData(ctx context.Context, handle string) (*domain.UserActivity, error)
}

const (
	activityWindowDays = 28
	dateLayout         = "2006-01-02"
)

// StatsService derives display statistics from a user's raw activity.
// Every derivation is a pure function of the fetched snapshot; nothing is
// cached or mutated between calls.
type StatsService struct {
	upstream UserDataSource
	tracer   trace.Tracer
	logger   *zap.Logger
	now      func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(upstream UserDataSource, tracer trace.Tracer, logger *zap.Logger) *StatsService {
	return &StatsService{
		upstream: upstream,
		tracer:   tracer,
		logger:   logger,
		now:      time.Now,
	}
}

// GetUserStats fetches a handle's activity and derives its full statistics.
func (s *StatsService) GetUserStats(ctx context.Context, handle string) (*domain.DerivedStats, error) {
	ctx, span := s.tracer.Start(ctx, "StatsService.GetUserStats")
	defer span.End()

	span.SetAttributes(attribute.String("user.handle", handle))

	activity, err := s.upstream.FetchUserData(ctx, handle)
	if err != nil {
		return nil, err
	}

	stats := s.Derive(activity, s.now())

	s.logger.Info("Stats derived",
		zap.String("handle", handle),
		zap.Int("solved", stats.SolvedCount),
		zap.Int("streak_days", stats.CurrentStreakDays),
		zap.Int("contests", stats.ContestCount),
	)
	return stats, nil
}

// Derive computes the full statistics set from an activity snapshot at a
// reference instant. Deterministic: identical inputs yield identical output.
func (s *StatsService) Derive(activity *domain.UserActivity, reference time.Time) *domain.DerivedStats {
	changes := make([]domain.RatingChange, len(activity.RatingChanges))
	copy(changes, activity.RatingChanges)
	domain.SortRatingChanges(changes)

	solved := solvedProblems(activity.Submissions)
	histogram := difficultyHistogram(activity.Submissions)
	streak := currentStreak(activity.Submissions, reference)

	return &domain.DerivedStats{
		Handle:              activity.User.Handle,
		SolvedCount:         len(solved),
		CurrentStreakDays:   streak,
		ContestCount:        len(changes),
		DifficultyHistogram: histogram,
		DifficultyBands:     domain.BucketHistogram(histogram),
		TagRanking:          tagRanking(solved),
		WeeklyActivity:      weeklyActivity(activity.Submissions, reference),
		Achievements:        evaluateAchievements(&activity.User, len(solved), streak, changes),
	}
}

// solvedProblems filters submissions to accepted verdicts and collapses them
// to one detail entry per distinct problem key, in first-seen order.
// First-seen metadata wins when the upstream repeats a problem.
func solvedProblems(submissions []domain.Submission) []domain.ProblemDetail {
	seen := make(map[string]bool)
	var details []domain.ProblemDetail

	for i := range submissions {
		sub := &submissions[i]
		if !sub.Verdict.IsAccepted() {
			continue
		}
		key := sub.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		details = append(details, domain.ProblemDetail{
			Key:       key,
			ContestID: sub.Problem.ContestID,
			Index:     sub.Problem.Index,
			Name:      sub.Problem.Name,
			Rating:    sub.Problem.Rating,
			Tags:      sub.Problem.Tags,
		})
	}
	return details
}

// solvedKeys returns the key set of distinct solved problems.
func solvedKeys(submissions []domain.Submission) map[string]bool {
	keys := make(map[string]bool)
	for i := range submissions {
		if submissions[i].Verdict.IsAccepted() {
			keys[submissions[i].Key()] = true
		}
	}
	return keys
}

// attemptedKeys returns every problem key appearing in any submission,
// whatever the verdict. Unsolved attempts count: a problem the user bounced
// off is not a good recommendation either.
func attemptedKeys(submissions []domain.Submission) map[string]bool {
	keys := make(map[string]bool)
	for i := range submissions {
		keys[submissions[i].Key()] = true
	}
	return keys
}

// utcDay truncates a unix timestamp to its UTC calendar day.
func utcDay(seconds int64) time.Time {
	t := time.Unix(seconds, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// currentStreak counts consecutive calendar days with at least one accepted
// submission, ending at the reference day or the day before it. The scan
// walks distinct days newest-first and stops at the first gap over one day.
func currentStreak(submissions []domain.Submission, reference time.Time) int {
	daySet := make(map[time.Time]bool)
	for i := range submissions {
		if submissions[i].Verdict.IsAccepted() {
			daySet[utcDay(submissions[i].CreationTimeSeconds)] = true
		}
	}
	if len(daySet) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	latest := days[0]
	if gapDays(latest, today) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if gapDays(days[i], days[i-1]) > 1 {
			break
		}
		streak++
	}
	return streak
}

// gapDays returns the whole-day distance between two UTC midnights.
func gapDays(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// difficultyHistogram buckets accepted submissions by exact problem rating.
// Counting is per accepted submission, not per distinct problem, which
// mirrors the upstream display; callers wanting distinct-problem counts
// pre-filter to the solved set.
func difficultyHistogram(submissions []domain.Submission) map[int]int {
	histogram := make(map[int]int)
	for i := range submissions {
		sub := &submissions[i]
		if sub.Verdict.IsAccepted() && sub.Problem.Rating > 0 {
			histogram[sub.Problem.Rating]++
		}
	}
	return histogram
}

// tagRanking counts tag occurrences across distinct solved problems (each
// problem contributes each of its tags once) and sorts descending by count.
// Ties keep first-encountered order.
func tagRanking(solved []domain.ProblemDetail) []domain.TagCount {
	counts := make(map[string]int)
	var order []string

	for i := range solved {
		for _, tag := range solved[i].Tags {
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	ranking := make([]domain.TagCount, len(order))
	for i, tag := range order {
		ranking[i] = domain.TagCount{Tag: tag, Count: counts[tag]}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Count > ranking[j].Count
	})
	return ranking
}

// weeklyActivity grades each day of the trailing 28-day window (reference
// day inclusive) by accepted-submission volume. The result always has
// exactly 28 entries keyed by date.
func weeklyActivity(submissions []domain.Submission, reference time.Time) map[string]domain.ActivityLevel {
	end := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(activityWindowDays - 1))

	counts := make(map[string]int, activityWindowDays)
	for d := 0; d < activityWindowDays; d++ {
		counts[start.AddDate(0, 0, d).Format(dateLayout)] = 0
	}

	for i := range submissions {
		sub := &submissions[i]
		if !sub.Verdict.IsAccepted() {
			continue
		}
		day := utcDay(sub.CreationTimeSeconds)
		if day.Before(start) || day.After(end) {
			continue
		}
		counts[day.Format(dateLayout)]++
	}

	activity := make(map[string]domain.ActivityLevel, activityWindowDays)
	for day, count := range counts {
		activity[day] = domain.ActivityLevelFor(count)
	}
	return activity
}

// evaluateAchievements checks the fixed badge table against a snapshot.
// Each badge is evaluated independently; the order of the result is fixed.
func evaluateAchievements(user *domain.UserSnapshot, solvedCount, streak int, changes []domain.RatingChange) []domain.Achievement {
	bigJump := false
	for i := range changes {
		if changes[i].Delta() >= 100 {
			bigJump = true
			break
		}
	}

	return []domain.Achievement{
		{ID: "first_solve", Name: "First Steps", Unlocked: solvedCount > 0},
		{ID: "ten_problems", Name: "Getting Warmed Up", Unlocked: solvedCount >= 10},
		{ID: "century", Name: "Century Club", Unlocked: solvedCount >= 100},
		{ID: "weekly_warrior", Name: "Weekly Warrior", Unlocked: streak >= 7},
		{ID: "specialist_rank", Name: "Specialist", Unlocked: user.Rank.AtLeast(domain.RankSpecialist)},
		{ID: "expert_rank", Name: "Expert", Unlocked: user.Rank.AtLeast(domain.RankExpert)},
		{ID: "candidate_master_rank", Name: "Candidate Master", Unlocked: user.Rank.AtLeast(domain.RankCandidateMaster)},
		{ID: "master_rank", Name: "Master", Unlocked: user.Rank.AtLeast(domain.RankMaster)},
		{ID: "contest_enthusiast", Name: "Contest Enthusiast", Unlocked: len(changes) >= 5},
		{ID: "rating_surge", Name: "Rating Surge", Unlocked: bigJump},
	}
}
