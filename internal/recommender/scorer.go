// Package recommender provides access to the optional external
// similarity-scoring service. The selector works identically whether or not
// the service is configured, so the client is modeled as a single-method
// interface with a null-object implementation.
package recommender

import (
	"context"

	"github.com/cf-insight/backend/internal/domain"
)

// Scorer requests similarity-ranked problem suggestions for a handle.
type Scorer interface {
	Recommend(ctx context.Context, req domain.ScorerRequest) ([]domain.Problem, error)
}

// NoopScorer is used when no scorer is configured. It always returns an
// empty result so callers fall through to rule-based selection.
type NoopScorer struct{}

// Recommend returns no suggestions.
func (NoopScorer) Recommend(ctx context.Context, req domain.ScorerRequest) ([]domain.Problem, error) {
	return nil, nil
}
