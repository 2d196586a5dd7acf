package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/facepulse/facepulse/internal/version"
)

const readinessTimeout = 2 * time.Second

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Seconds(),
		"version": version.Get(),
	})
}

// handleReadiness proves the engine actor is draining its command channel:
// a lookup for a session that cannot exist must come back promptly.
func (s *Server) handleReadiness(c echo.Context) error {
	done := make(chan struct{})
	go func() {
		_, _ = s.engine.SessionState(uuid.Nil)
		close(done)
	}()

	select {
	case <-done:
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	case <-time.After(readinessTimeout):
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":       "unhealthy",
			"failed_check": "engine",
			"error":        "engine did not respond in time",
		})
	}
}
