package recommender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/infrastructure"
)

func newTestScorer(baseURL string) *HTTPScorer {
	return NewHTTPScorer(
		&infrastructure.ScorerConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
		noop.NewTracerProvider().Tracer("test"),
		zap.NewNop(),
	)
}

func TestRecommend_BuildsFullQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/recommend", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "alice", q.Get("handle"))
		assert.Equal(t, "3", q.Get("count"))
		assert.Equal(t, "1400", q.Get("min_rating"))
		assert.Equal(t, "1600", q.Get("max_rating"))
		assert.Equal(t, "greedy,dp", q.Get("tags"))
		w.Write([]byte(`{"recommendations": [
			{"contestId": 1915, "index": "C", "name": "Can I Square?", "rating": 1500, "tags": ["math"], "solvedCount": 12000}
		]}`))
	}))
	defer server.Close()

	problems, err := newTestScorer(server.URL).Recommend(context.Background(), domain.ScorerRequest{
		Handle:    "alice",
		Count:     3,
		MinRating: 1400,
		MaxRating: 1600,
		Tags:      []string{"greedy", "dp"},
	})
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Equal(t, "1915_C", problems[0].Key)
	assert.Equal(t, 1500, problems[0].Rating)
	assert.Equal(t, 12000, problems[0].SolvedCount)
}

func TestRecommend_OmitsZeroBoundsAndEmptyTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("min_rating"))
		assert.False(t, q.Has("max_rating"))
		assert.False(t, q.Has("tags"))
		w.Write([]byte(`{"recommendations": []}`))
	}))
	defer server.Close()

	problems, err := newTestScorer(server.URL).Recommend(context.Background(), domain.ScorerRequest{
		Handle: "alice",
		Count:  1,
	})
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestRecommend_NonOKStatusIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestScorer(server.URL).Recommend(context.Background(), domain.ScorerRequest{Handle: "alice", Count: 1})
	assert.ErrorIs(t, err, domain.ErrScorerUnavailable)
}

func TestRecommend_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestScorer(server.URL).Recommend(context.Background(), domain.ScorerRequest{Handle: "alice", Count: 1})
	assert.ErrorIs(t, err, domain.ErrScorerUnavailable)
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, newTestScorer(server.URL).Health(context.Background()))
}

func TestNoopScorer(t *testing.T) {
	problems, err := NoopScorer{}.Recommend(context.Background(), domain.ScorerRequest{Handle: "alice", Count: 5})
	require.NoError(t, err)
	assert.Empty(t, problems)
}
