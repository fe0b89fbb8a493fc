package repository

import (
	"gorm.io/gorm"

	"github.com/cf-insight/backend/internal/domain"
)

// problemRepository implements domain.ProblemRepository using GORM
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) domain.ProblemRepository {
	return &problemRepository{db: db}
}

// CreateBatch inserts problems in chunks
func (r *problemRepository) CreateBatch(problems []domain.Problem) error {
	return r.db.CreateInBatches(problems, 100).Error
}

// ReplaceAll swaps the whole cached catalog for a fresh upstream snapshot
// in one transaction.
func (r *problemRepository) ReplaceAll(problems []domain.Problem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.Problem{}).Error; err != nil {
			return err
		}
		return tx.CreateInBatches(problems, 100).Error
	})
}

// FindAll returns the whole catalog in upstream listing order
func (r *problemRepository) FindAll() ([]domain.Problem, error) {
	var problems []domain.Problem
	result := r.db.Order("order_index ASC").Find(&problems)
	return problems, result.Error
}

// Count returns the number of cached problems
func (r *problemRepository) Count() (int64, error) {
	var count int64
	result := r.db.Model(&domain.Problem{}).Count(&count)
	return count, result.Error
}
