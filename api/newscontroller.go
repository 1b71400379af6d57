package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterNewsRoutes registers read access to the archive.
func (s *Server) RegisterNewsRoutes(r *gin.Engine) {
	g := r.Group("/api/news")
	g.GET("", s.handleListNews)
}

// handleListNews returns the archive, most recent first. ?limit=n returns the first n items.
func (s *Server) handleListNews(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	archive, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.log.Error("failed to load archive", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load archive"})
		return
	}

	if limit > 0 && limit < len(archive) {
		archive = archive[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(archive),
		"items": archive,
	})
}
