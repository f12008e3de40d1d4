package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gocrop/app"
	"gocrop/internal"
)

// Options tune the HTTP surface
type Options struct {
	GinMode        string
	UploadMaxBytes int64
}

// Server exposes the crop services over HTTP
type Server struct {
	router  *gin.Engine
	crops   *app.CropService
	advisor *app.AdvisorService
	logger  *internal.Logger
	opts    Options
}

// NewServer creates the router and registers every route
func NewServer(crops *app.CropService, advisor *app.AdvisorService, logger *internal.Logger, opts Options) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.UploadMaxBytes <= 0 {
		opts.UploadMaxBytes = 10 << 20
	}

	s := &Server{
		router:  gin.New(),
		crops:   crops,
		advisor: advisor,
		logger:  logger,
		opts:    opts,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/features", s.handleFeatures)

		api.GET("/dataset", s.handleDatasetSummary)
		api.POST("/dataset", s.handleDatasetUpload)
		api.POST("/dataset/reset", s.handleDatasetReset)

		api.GET("/rankings", s.handleRankings)
		api.POST("/predictions", s.handlePredict)
		api.POST("/advice", s.handleAdvice)
		api.GET("/report", s.handleReport)
	}
}

// requestLogger logs one line per request at debug level, and at warn level
// for server errors
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		if status >= http.StatusInternalServerError {
			s.logger.Warn("[API] %s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
			return
		}
		s.logger.Debug("[API] %s %s -> %d (%.2fms)", c.Request.Method, c.Request.URL.Path, status, elapsed)
	}
}
