package server

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/facepulse/facepulse/internal/config"
	"github.com/facepulse/facepulse/internal/domain"
)

// overlayHub is the subset of the websocket hub the server needs.
type overlayHub interface {
	Register(sessionUUID uuid.UUID, conn *ws.Conn, initial *domain.OverlayUpdate) error
	Unregister(sessionUUID uuid.UUID, conn *ws.Conn)
}

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	engine      domain.Engine
	hub         overlayHub
	connLimiter *GlobalConnectionLimiter
	startTime   time.Time
}

func NewServer(cfg *config.Config, engine domain.Engine, hub overlayHub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:        e,
		config:      cfg,
		engine:      engine,
		hub:         hub,
		connLimiter: NewGlobalConnectionLimiter(int64(cfg.MaxWebSocketConnections)),
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
