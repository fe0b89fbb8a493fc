package data

import (
	_ "embed"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cf-insight/backend/internal/domain"
)

// Fallback catalog so the planner and selector work before the first
// upstream refresh completes.
//
//go:embed fallback_catalog.json
var fallbackCatalogData []byte

// problemJSON represents the JSON structure for embedded catalog entries
type problemJSON struct {
	ContestID   int      `json:"contestId"`
	Index       string   `json:"index"`
	Name        string   `json:"name"`
	Rating      int      `json:"rating"`
	Tags        []string `json:"tags"`
	SolvedCount int      `json:"solvedCount"`
}

// Seeder handles database seeding operations
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new database seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
	}
}

// SeedCatalog seeds the problems table from the embedded snapshot when the
// cache is empty. A later upstream refresh replaces it wholesale.
func (s *Seeder) SeedCatalog() error {
	var count int64
	if err := s.db.Model(&domain.Problem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("Catalog already cached, skipping seed",
			zap.Int64("count", count),
		)
		return nil
	}

	var entries []problemJSON
	if err := json.Unmarshal(fallbackCatalogData, &entries); err != nil {
		return err
	}

	problems := make([]domain.Problem, len(entries))
	for i, e := range entries {
		problems[i] = domain.Problem{
			ID:          uuid.New(),
			ContestID:   e.ContestID,
			Index:       e.Index,
			Key:         domain.ProblemKey(e.ContestID, e.Index),
			Name:        e.Name,
			Rating:      e.Rating,
			Tags:        e.Tags,
			SolvedCount: e.SolvedCount,
			OrderIndex:  i,
		}
	}

	if err := s.db.CreateInBatches(problems, 100).Error; err != nil {
		return err
	}

	s.logger.Info("Catalog seeded from embedded snapshot",
		zap.Int("count", len(problems)),
	)
	return nil
}
