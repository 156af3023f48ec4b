package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment   string
	LogLevel      slog.Level
	LogFile       string        // Empty discards logs in TUI mode and uses stderr when headless
	RedisURL      string        // Empty selects the in-memory line queue
	SessionID     uuid.UUID     // Names the Redis line queue
	FrameInterval time.Duration // Time between two drains of the line queue

	MapImage   string
	MapRows    int
	MapColumns int
}

const (
	DefaultFrameInterval = 50 * time.Millisecond
	DefaultMapImage      = "./assets/bg_placeholder.jpg"
	DefaultMapRows       = 12
	DefaultMapColumns    = 20
)

// Load reads envFiles (or ./.env when none are given, if it exists) into the
// process environment without overriding variables already set, then builds
// the Config from the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:     getEnv("LOG_FILE", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		MapImage:    getEnv("MAP_IMAGE", DefaultMapImage),
	}

	var err error
	if cfg.SessionID, err = parseSessionID(getEnv("SESSION_ID", "")); err != nil {
		return nil, err
	}
	if cfg.FrameInterval, err = time.ParseDuration(getEnv("FRAME_INTERVAL", DefaultFrameInterval.String())); err != nil {
		return nil, fmt.Errorf("invalid FRAME_INTERVAL: %w", err)
	}
	if cfg.FrameInterval <= 0 {
		return nil, fmt.Errorf("invalid FRAME_INTERVAL: must be positive, got %s", cfg.FrameInterval)
	}
	if cfg.MapRows, err = getPositiveInt("MAP_ROWS", DefaultMapRows); err != nil {
		return nil, err
	}
	if cfg.MapColumns, err = getPositiveInt("MAP_COLUMNS", DefaultMapColumns); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSessionID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid SESSION_ID: %w", err)
	}
	return id, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, n)
	}
	return n, nil
}
