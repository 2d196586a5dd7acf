package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/facepulse/facepulse/internal/domain"
	"github.com/facepulse/facepulse/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // overlays are embedded cross-origin (OBS browser source)
	},
}

func (s *Server) handleWebSocket(c echo.Context) error {
	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid UUID")
	}

	state, err := s.engine.SessionState(id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return c.String(http.StatusNotFound, "Session not found")
	}
	if err != nil {
		slog.Error("Failed to load session state", "session_uuid", id.String(), "error", err)
		return c.String(http.StatusInternalServerError, "Internal error")
	}

	if !s.connLimiter.Acquire() {
		metrics.OverlayClientsRejected.WithLabelValues("global_limit").Inc()
		slog.Warn("Rejecting overlay client: connection limit reached",
			"current", s.connLimiter.Current(), "max", s.connLimiter.Max())
		return c.String(http.StatusServiceUnavailable, "Connection limit reached")
	}
	defer s.connLimiter.Release()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	initial := domain.SearchingUpdate()
	if state.Showing {
		initial = domain.ActiveUpdate(state.Display, state.Confidence)
	}

	if err := s.hub.Register(id, conn, &initial); err != nil {
		slog.Error("Failed to register overlay client", "session_uuid", id.String(), "error", err)
		return nil
	}

	// Read pump — blocks until the connection closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unregister(id, conn)

	return nil
}
