package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	payloads "goclean/adapters/api"
	"goclean/app"
	"goclean/domain/cleaning"
)

// ServerConfig holds the HTTP surface settings
type ServerConfig struct {
	MaxUploadBytes int64
	Defaults       cleaning.Options
}

// Server exposes the cleaning service over HTTP
type Server struct {
	router   *gin.Engine
	service  *app.CleaningService
	payloads *payloads.PayloadReader
	events   *SSEHub
	config   ServerConfig
}

// NewServer creates a server and registers its routes. Run events from the
// service are streamed at /api/v1/events.
func NewServer(service *app.CleaningService, config ServerConfig) *Server {
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = 32 << 20
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		router:   router,
		service:  service,
		payloads: payloads.NewPayloadReader(config.Defaults),
		events:   NewSSEHub(),
		config:   config,
	}
	service.WithEvents(s.events)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/clean", s.handleClean)
		v1.POST("/clean/upload", s.handleUpload)
		v1.POST("/analyze", s.handleAnalyze)

		v1.GET("/runs", s.handleListRuns)
		v1.GET("/runs/:id", s.handleGetRun)
		v1.GET("/runs/:id/report", s.handleRunReport)

		v1.GET("/events", s.events.HandleSSE)
	}
}

// Handler returns the underlying http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP on addr until the listener fails
func (s *Server) Start(addr string) error {
	log.Printf("[Server] listening on %s (run history enabled: %t)", addr, s.service.HistoryEnabled())
	return s.router.Run(addr)
}
