package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cf-insight/backend/internal/service"
)

// StatsHandler handles user statistics HTTP requests
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetUserStats returns derived statistics for a handle
// GET /api/users/:handle/stats
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Handle is required",
		})
		return
	}

	stats, err := h.statsService.GetUserStats(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
