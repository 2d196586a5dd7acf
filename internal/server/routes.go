package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Session lifecycle
	s.echo.POST("/api/sessions", s.handleCreateSession)
	s.echo.DELETE("/api/sessions/:uuid", s.handleDeleteSession)

	// Frame ingestion (rate limited per IP; trackers push at display refresh rate)
	frameLimiter := newRateLimiter(s.config.FrameRateLimit, s.config.FrameRateBurst)
	s.echo.POST("/api/sessions/:uuid/frames", s.handleProcessFrame, frameLimiter)
	s.echo.POST("/api/sessions/:uuid/no-face", s.handleNoFace, frameLimiter)

	// One-shot stateless classification
	s.echo.POST("/api/classify", s.handleClassify)

	// Overlay WebSocket
	s.echo.GET("/ws/overlay/:uuid", s.handleWebSocket)
}
