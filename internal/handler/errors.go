package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cf-insight/backend/internal/domain"
)

// respondError translates domain errors from the upstream fetch into HTTP
// responses. Upstream failures are reported once, immediately; the client
// is expected to keep its previous display state.
func respondError(c *gin.Context, err error) {
	var upstreamErr *domain.UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Codeforces API rejected the request",
			"comment": upstreamErr.Comment,
		})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Codeforces API is unreachable",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
