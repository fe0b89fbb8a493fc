package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cf-insight/backend/internal/domain"
	"github.com/cf-insight/backend/internal/infrastructure"
	"github.com/cf-insight/backend/internal/service"
)

// CatalogHandler handles problem catalog HTTP requests
type CatalogHandler struct {
	catalogService *service.CatalogService
	metrics        *infrastructure.TelemetryMetrics
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService, metrics *infrastructure.TelemetryMetrics) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		metrics:        metrics,
	}
}

// GetProblems returns the cached problem catalog
// GET /api/problems
func (h *CatalogHandler) GetProblems(c *gin.Context) {
	problems := h.catalogService.Snapshot()

	responses := make([]domain.ProblemResponse, len(problems))
	for i := range problems {
		responses[i] = problems[i].ToResponse()
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": responses,
		"count":    len(responses),
	})
}

// GetCatalogStats returns statistics about the cached catalog
// GET /api/problems/stats
func (h *CatalogHandler) GetCatalogStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.Stats(c.Request.Context()))
}

// RefreshCatalog pulls a fresh problemset snapshot from upstream
// POST /api/problems/refresh
func (h *CatalogHandler) RefreshCatalog(c *gin.Context) {
	count, err := h.catalogService.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	h.metrics.CatalogRefreshes.Add(c.Request.Context(), 1)

	c.JSON(http.StatusOK, gin.H{
		"status": "refreshed",
		"count":  count,
	})
}
