package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cf-insight/backend/internal/infrastructure"
	"github.com/cf-insight/backend/internal/service"
)

// RecommendationHandler handles suggestion HTTP requests
type RecommendationHandler struct {
	recommendService *service.RecommendService
	metrics          *infrastructure.TelemetryMetrics
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(recommendService *service.RecommendService, metrics *infrastructure.TelemetryMetrics) *RecommendationHandler {
	return &RecommendationHandler{
		recommendService: recommendService,
		metrics:          metrics,
	}
}

// GetDailySuggestion returns the daily best-next-problem suggestion
// GET /api/users/:handle/suggestion
func (h *RecommendationHandler) GetDailySuggestion(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Handle is required",
		})
		return
	}

	suggestion, err := h.recommendService.DailySuggestion(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err)
		return
	}

	// An empty candidate set is a legitimate outcome, not a failure
	if suggestion == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"message": "no recommendation available",
		})
		return
	}

	h.metrics.SuggestionsServed.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("suggestion.reason", suggestion.Reason)),
	)

	c.JSON(http.StatusOK, suggestion)
}
