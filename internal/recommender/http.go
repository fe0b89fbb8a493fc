package recommender

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/infrastructure"
)

// HTTPScorer talks to the similarity-scoring service over HTTP.
type HTTPScorer struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewHTTPScorer creates a scorer client from configuration.
func NewHTTPScorer(config *infrastructure.ScorerConfig, tracer trace.Tracer, logger *zap.Logger) *HTTPScorer {
	return &HTTPScorer{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		tracer:     tracer,
		logger:     logger,
	}
}

// recommendResponse is the scorer's wire format.
type recommendResponse struct {
	Recommendations []struct {
		ContestID   int      `json:"contestId"`
		Index       string   `json:"index"`
		Name        string   `json:"name"`
		Rating      int      `json:"rating"`
		Tags        []string `json:"tags"`
		SolvedCount int      `json:"solvedCount"`
	} `json:"recommendations"`
}

// Recommend fetches up to req.Count similarity-ranked problems. Rating
// bounds of zero and an empty tag list are omitted from the query.
func (s *HTTPScorer) Recommend(ctx context.Context, req domain.ScorerRequest) ([]domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "recommender.Recommend")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.handle", req.Handle),
		attribute.Int("count", req.Count),
	)

	query := url.Values{
		"handle": {req.Handle},
		"count":  {strconv.Itoa(req.Count)},
	}
	if req.MinRating > 0 {
		query.Set("min_rating", strconv.Itoa(req.MinRating))
	}
	if req.MaxRating > 0 {
		query.Set("max_rating", strconv.Itoa(req.MaxRating))
	}
	if len(req.Tags) > 0 {
		query.Set("tags", strings.Join(req.Tags, ","))
	}

	endpoint := s.baseURL + "/recommend?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrScorerUnavailable, resp.StatusCode)
	}

	var payload recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrScorerUnavailable, err)
	}

	problems := make([]domain.Problem, len(payload.Recommendations))
	for i, rec := range payload.Recommendations {
		problems[i] = domain.Problem{
			ContestID:   rec.ContestID,
			Index:       rec.Index,
			Key:         domain.ProblemKey(rec.ContestID, rec.Index),
			Name:        rec.Name,
			Rating:      rec.Rating,
			Tags:        rec.Tags,
			SolvedCount: rec.SolvedCount,
		}
	}

	s.logger.Debug("Scorer returned recommendations",
		zap.String("handle", req.Handle),
		zap.Int("requested", req.Count),
		zap.Int("returned", len(problems)),
	)
	return problems, nil
}

// Health pings the scorer's health endpoint.
func (s *HTTPScorer) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrScorerUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrScorerUnavailable, resp.StatusCode)
	}
	return nil
}
