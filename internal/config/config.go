package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// SmoothingWindow is the number of raw per-frame labels the majority
	// vote spans. Larger windows are more stable but slower to react.
	SmoothingWindow int `env:"SMOOTHING_WINDOW" default:"8"`

	// SessionIdleTimeout is how long a session may go without frames
	// before the engine prunes it.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" default:"2m"`

	MaxWebSocketConnections int `env:"MAX_WEBSOCKET_CONNECTIONS" default:"10000"`

	// FrameRateLimit / FrameRateBurst throttle frame ingestion per client IP.
	// 120/s comfortably covers a 60fps tracker with headroom.
	FrameRateLimit float64 `env:"FRAME_RATE_LIMIT" default:"120"`
	FrameRateBurst int     `env:"FRAME_RATE_BURST" default:"240"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.SmoothingWindow < 1 {
		return fmt.Errorf("SMOOTHING_WINDOW must be at least 1, got %d", cfg.SmoothingWindow)
	}
	if cfg.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive, got %s", cfg.SessionIdleTimeout)
	}
	if cfg.MaxWebSocketConnections < 1 {
		return fmt.Errorf("MAX_WEBSOCKET_CONNECTIONS must be at least 1, got %d", cfg.MaxWebSocketConnections)
	}
	if cfg.FrameRateLimit <= 0 {
		return fmt.Errorf("FRAME_RATE_LIMIT must be positive, got %g", cfg.FrameRateLimit)
	}
	if cfg.FrameRateBurst < 1 {
		return fmt.Errorf("FRAME_RATE_BURST must be at least 1, got %d", cfg.FrameRateBurst)
	}
	return nil
}
