package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/cf-insight/backend/internal/domain"
)

// ProblemSource fetches the problemset catalog from the upstream API.
type ProblemSource interface {
	Problems(ctx context.Context) ([]domain.Problem, error)
}

// CatalogService owns the in-memory problem catalog snapshot backed by the
// persistent cache. Derivations elsewhere treat the snapshot as read-only;
// Refresh swaps in a whole new slice rather than mutating in place.
type CatalogService struct {
	problemRepo domain.ProblemRepository
	upstream    ProblemSource
	tracer      trace.Tracer
	logger      *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Problem
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	problemRepo domain.ProblemRepository,
	upstream ProblemSource,
	tracer trace.Tracer,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		problemRepo: problemRepo,
		upstream:    upstream,
		tracer:      tracer,
		logger:      logger,
	}
}

// Load populates the in-memory snapshot from the persistent cache. Called
// once at startup after seeding.
func (s *CatalogService) Load(ctx context.Context) error {
	_, span := s.tracer.Start(ctx, "CatalogService.Load")
	defer span.End()

	problems, err := s.problemRepo.FindAll()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = problems
	s.mu.Unlock()

	s.logger.Info("Catalog loaded from cache",
		zap.Int("count", len(problems)),
	)
	return nil
}

// Refresh pulls a fresh problemset from upstream, replaces the persistent
// cache and swaps the in-memory snapshot. Returns the new catalog size.
func (s *CatalogService) Refresh(ctx context.Context) (int, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.Refresh")
	defer span.End()

	problems, err := s.upstream.Problems(ctx)
	if err != nil {
		return 0, err
	}
	for i := range problems {
		problems[i].ID = uuid.New()
	}

	if err := s.problemRepo.ReplaceAll(problems); err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.snapshot = problems
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("catalog.size", len(problems)))
	s.logger.Info("Catalog refreshed from upstream",
		zap.Int("count", len(problems)),
	)
	return len(problems), nil
}

// Snapshot returns the current catalog. Callers must treat the slice as
// read-only.
func (s *CatalogService) Snapshot() []domain.Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Stats summarizes the cached catalog by display band and tag.
func (s *CatalogService) Stats(ctx context.Context) *domain.CatalogStats {
	_, span := s.tracer.Start(ctx, "CatalogService.Stats")
	defer span.End()

	snapshot := s.Snapshot()
	stats := &domain.CatalogStats{
		Total:  len(snapshot),
		ByBand: make(map[string]int),
		ByTag:  make(map[string]int),
	}

	histogram := make(map[int]int)
	for i := range snapshot {
		p := &snapshot[i]
		if p.HasRating() {
			histogram[p.Rating]++
		}
		for _, tag := range p.Tags {
			stats.ByTag[tag]++
		}
	}
	for _, band := range domain.BucketHistogram(histogram) {
		stats.ByBand[band.Band.Label] = band.Count
	}

	return stats
}
