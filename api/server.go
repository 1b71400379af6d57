package api

import (
	"context"
	"sync/atomic"
	"time"

	"newsdigest/logger"
	"newsdigest/orchestrator"
	"newsdigest/storage"

	"github.com/gin-gonic/gin"
)

// Runner executes one ingestion pass
type Runner interface {
	Run(ctx context.Context) (orchestrator.Report, error)
}

// Server exposes the archive read-only and lets operators trigger a pass
type Server struct {
	store   storage.ArchiveStore
	runner  Runner
	log     *logger.Logger
	running atomic.Bool
}

func NewServer(store storage.ArchiveStore, runner Runner, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{store: store, runner: runner, log: log}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	s.RegisterHealthRoutes(r)
	s.RegisterNewsRoutes(r)
	s.RegisterRSSRoutes(r)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
