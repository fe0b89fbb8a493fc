package domain

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Problem represents a problemset catalog entry fetched from the
// Codeforces API and cached locally.
type Problem struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ContestID   int            `json:"contestId" gorm:"not null"`
	Index       string         `json:"index" gorm:"not null"`
	Key         string         `json:"key" gorm:"uniqueIndex;not null"`
	Name        string         `json:"name" gorm:"not null"`
	Rating      int            `json:"rating"` // 0 means the problemset has not rated it yet
	Tags        pq.StringArray `json:"tags" gorm:"type:text[]"`
	SolvedCount int            `json:"solvedCount"`
	OrderIndex  int            `json:"order_index" gorm:"not null"` // Position in the upstream problemset listing
}

// TableName specifies the table name for GORM
func (Problem) TableName() string {
	return "problems"
}

// ProblemKey builds the stable identifier for a problem: contest id and
// in-contest index joined with an underscore, e.g. "1700_A".
func ProblemKey(contestID int, index string) string {
	return strconv.Itoa(contestID) + "_" + index
}

// HasRating reports whether the problemset has assigned a difficulty rating.
func (p *Problem) HasRating() bool {
	return p.Rating > 0
}

// HasAnyTag reports whether the problem carries at least one of the given tags.
func (p *Problem) HasAnyTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// URL returns the problem statement link on Codeforces.
func (p *Problem) URL() string {
	return fmt.Sprintf("https://codeforces.com/problemset/problem/%d/%s", p.ContestID, p.Index)
}

// ProblemRepository defines the interface for catalog data access
type ProblemRepository interface {
	CreateBatch(problems []Problem) error
	ReplaceAll(problems []Problem) error
	FindAll() ([]Problem, error)
	Count() (int64, error)
}

// ProblemResponse represents a problem in API responses
type ProblemResponse struct {
	Key         string   `json:"key"`
	ContestID   int      `json:"contest_id"`
	Index       string   `json:"index"`
	Name        string   `json:"name"`
	Rating      int      `json:"rating,omitempty"`
	Tags        []string `json:"tags"`
	SolvedCount int      `json:"solved_count"`
	URL         string   `json:"url"`
}

// ToResponse converts a Problem to a ProblemResponse
func (p *Problem) ToResponse() ProblemResponse {
	return ProblemResponse{
		Key:         p.Key,
		ContestID:   p.ContestID,
		Index:       p.Index,
		Name:        p.Name,
		Rating:      p.Rating,
		Tags:        p.Tags,
		SolvedCount: p.SolvedCount,
		URL:         p.URL(),
	}
}

// CatalogStats represents statistics about the cached problemset
type CatalogStats struct {
	Total  int            `json:"total"`
	ByBand map[string]int `json:"by_band"`
	ByTag  map[string]int `json:"by_tag"`
}
