package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cf-insight/backend/internal/service"
)

// PathHandler handles learning-path HTTP requests
type PathHandler struct {
	pathService      *service.PathService
	recommendService *service.RecommendService
}

// NewPathHandler creates a new learning-path handler
func NewPathHandler(pathService *service.PathService, recommendService *service.RecommendService) *PathHandler {
	return &PathHandler{
		pathService:      pathService,
		recommendService: recommendService,
	}
}

// GetLearningPath returns the graded learning path and its progress for a
// handle. With ?augment=true, levels short of their target are topped up
// through the external scorer before progress is computed.
// GET /api/users/:handle/path
func (h *PathHandler) GetLearningPath(c *gin.Context) {
	handle := c.Param("handle")
	if handle == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Handle is required",
		})
		return
	}

	result, err := h.pathService.BuildPath(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("augment") == "true" {
		h.recommendService.AugmentPath(c.Request.Context(), result.Path, result.Attempted)
	}

	c.JSON(http.StatusOK, gin.H{
		"path":     result.Path,
		"progress": result.Path.Progress(result.Solved),
	})
}
