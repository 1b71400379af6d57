package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRSSRoutes registers RSS-related endpoints.
func (s *Server) RegisterRSSRoutes(r *gin.Engine) {
	g := r.Group("/api/rss")
	g.POST("/refresh", s.handleRSSRefresh)
}

// handleRSSRefresh runs one pass synchronously and returns its report.
// Only one pass runs at a time; overlapping requests get 409.
func (s *Server) handleRSSRefresh(c *gin.Context) {
	if !s.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "refresh already in progress"})
		return
	}
	defer s.running.Store(false)

	// a client disconnect must not abort a save halfway
	ctx := context.WithoutCancel(c.Request.Context())
	report, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("refresh failed", "run_id", report.RunID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "report": report})
}
