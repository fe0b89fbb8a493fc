// Package codeforces implements a read-only client for the public
// Codeforces REST API. Every call is fire-and-await: failures surface
// immediately to the caller, there is no retry logic.
package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/infrastructure"
)

// Client talks to the Codeforces API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *infrastructure.TelemetryMetrics
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewClient creates a Codeforces API client.
func NewClient(
	config *infrastructure.UpstreamConfig,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *Client {
	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		metrics:    metrics,
		tracer:     tracer,
		logger:     logger,
	}
}

// envelope is the response wrapper every Codeforces endpoint uses.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

// call issues one GET request and decodes the result payload into out.
// A transport failure maps to ErrUpstreamUnavailable, a FAILED status to an
// UpstreamError carrying the API's comment.
func (c *Client) call(ctx context.Context, method string, query url.Values, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "codeforces."+method)
	defer span.End()

	endpoint := c.baseURL + "/" + method
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.recordCall(ctx, method, time.Since(start), err == nil)
	if err != nil {
		c.logger.Warn("Upstream request failed",
			zap.String("method", method),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", domain.ErrUpstreamUnavailable, method, err)
	}

	if env.Status != "OK" {
		span.SetAttributes(attribute.String("upstream.comment", env.Comment))
		c.logger.Warn("Upstream rejected request",
			zap.String("method", method),
			zap.String("comment", env.Comment),
		)
		return domain.NewUpstreamError(env.Comment)
	}

	return json.Unmarshal(env.Result, out)
}

func (c *Client) recordCall(ctx context.Context, method string, elapsed time.Duration, ok bool) {
	if c.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("upstream.method", method),
		attribute.Bool("upstream.ok", ok),
	)
	c.metrics.UpstreamRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.UpstreamRequestCount.Add(ctx, 1, attrs)
}

// UserInfo fetches the public profile for a handle.
func (c *Client) UserInfo(ctx context.Context, handle string) (*domain.UserSnapshot, error) {
	query := url.Values{"handles": {handle}}

	var users []domain.UserSnapshot
	if err := c.call(ctx, "user.info", query, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.NewUpstreamError("user.info returned no users for handle " + handle)
	}
	return &users[0], nil
}

// UserStatus fetches the full submission list for a handle. The order of the
// returned slice is whatever the upstream sent; consumers must not rely on it.
func (c *Client) UserStatus(ctx context.Context, handle string) ([]domain.Submission, error) {
	query := url.Values{"handle": {handle}}

	var submissions []domain.Submission
	if err := c.call(ctx, "user.status", query, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// UserRating fetches the contest rating history for a handle, unsorted.
func (c *Client) UserRating(ctx context.Context, handle string) ([]domain.RatingChange, error) {
	query := url.Values{"handle": {handle}}

	var changes []domain.RatingChange
	if err := c.call(ctx, "user.rating", query, &changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// problemsetResult is the wire shape of the problemset.problems payload.
type problemsetResult struct {
	Problems []struct {
		ContestID int      `json:"contestId"`
		Index     string   `json:"index"`
		Name      string   `json:"name"`
		Rating    int      `json:"rating"`
		Tags      []string `json:"tags"`
	} `json:"problems"`
	ProblemStatistics []struct {
		ContestID   int    `json:"contestId"`
		Index       string `json:"index"`
		SolvedCount int    `json:"solvedCount"`
	} `json:"problemStatistics"`
}

// Problems fetches the full problemset catalog, merging solved counts from
// the statistics listing. The upstream listing order is preserved via
// OrderIndex so downstream tie-breaking stays deterministic.
func (c *Client) Problems(ctx context.Context) ([]domain.Problem, error) {
	var result problemsetResult
	if err := c.call(ctx, "problemset.problems", nil, &result); err != nil {
		return nil, err
	}

	solvedCounts := make(map[string]int, len(result.ProblemStatistics))
	for _, stat := range result.ProblemStatistics {
		solvedCounts[domain.ProblemKey(stat.ContestID, stat.Index)] = stat.SolvedCount
	}

	problems := make([]domain.Problem, len(result.Problems))
	for i, p := range result.Problems {
		key := domain.ProblemKey(p.ContestID, p.Index)
		problems[i] = domain.Problem{
			ContestID:   p.ContestID,
			Index:       p.Index,
			Key:         key,
			Name:        p.Name,
			Rating:      p.Rating,
			Tags:        p.Tags,
			SolvedCount: solvedCounts[key],
			OrderIndex:  i,
		}
	}

	c.logger.Info("Problemset fetched",
		zap.Int("count", len(problems)),
	)
	return problems, nil
}

// FetchUserData fetches profile, submissions and rating history for a handle
// concurrently. The join is all-or-nothing: if any request fails, the whole
// fetch fails with that error.
func (c *Client) FetchUserData(ctx context.Context, handle string) (*domain.UserActivity, error) {
	ctx, span := c.tracer.Start(ctx, "codeforces.FetchUserData")
	defer span.End()

	span.SetAttributes(attribute.String("user.handle", handle))

	activity := &domain.UserActivity{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		user, err := c.UserInfo(gctx, handle)
		if err != nil {
			return err
		}
		activity.User = *user
		return nil
	})
	g.Go(func() error {
		submissions, err := c.UserStatus(gctx, handle)
		if err != nil {
			return err
		}
		activity.Submissions = submissions
		return nil
	})
	g.Go(func() error {
		changes, err := c.UserRating(gctx, handle)
		if err != nil {
			return err
		}
		activity.RatingChanges = changes
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return activity, nil
}
