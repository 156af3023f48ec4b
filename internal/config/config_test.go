package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

// clearEnv unsets every variable Load reads so the host environment cannot
// leak in. t.Setenv restores the old values when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ENVIRONMENT", "LOG_LEVEL", "LOG_FILE", "REDIS_URL", "SESSION_ID",
		"FRAME_INTERVAL", "MAP_IMAGE", "MAP_ROWS", "MAP_COLUMNS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.RedisURL != "" {
		t.Errorf("RedisURL = %q, want empty", cfg.RedisURL)
	}
	if cfg.SessionID == uuid.Nil {
		t.Error("expected a random SessionID")
	}
	if cfg.FrameInterval != 50*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 50ms", cfg.FrameInterval)
	}
	if cfg.MapImage != "./assets/bg_placeholder.jpg" || cfg.MapRows != 12 || cfg.MapColumns != 20 {
		t.Errorf("map = %q %dx%d, want default placeholder 20x12", cfg.MapImage, cfg.MapColumns, cfg.MapRows)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_ID", "6f1c2a9e-5b0d-4c57-9f43-0a6a1f0b7c11")
	t.Setenv("FRAME_INTERVAL", "16ms")
	t.Setenv("MAP_IMAGE", "cave.png")
	t.Setenv("MAP_ROWS", "30")
	t.Setenv("MAP_COLUMNS", "40")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Environment != "production" || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("got environment %q level %v", cfg.Environment, cfg.LogLevel)
	}
	if cfg.SessionID.String() != "6f1c2a9e-5b0d-4c57-9f43-0a6a1f0b7c11" {
		t.Errorf("SessionID = %s", cfg.SessionID)
	}
	if cfg.FrameInterval != 16*time.Millisecond {
		t.Errorf("FrameInterval = %v, want 16ms", cfg.FrameInterval)
	}
	if cfg.MapImage != "cave.png" || cfg.MapRows != 30 || cfg.MapColumns != 40 {
		t.Errorf("map = %q %dx%d", cfg.MapImage, cfg.MapColumns, cfg.MapRows)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SESSION_ID", "session-1"},
		{"FRAME_INTERVAL", "fast"},
		{"FRAME_INTERVAL", "-1s"},
		{"MAP_ROWS", "twelve"},
		{"MAP_ROWS", "0"},
		{"MAP_COLUMNS", "-3"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "battlemap.env")
	content := "MAP_IMAGE=dungeon.png\nMAP_ROWS=9\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("MAP_ROWS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MapImage != "dungeon.png" {
		t.Errorf("MapImage = %q, want dungeon.png", cfg.MapImage)
	}
	if cfg.MapRows != 5 {
		t.Errorf("MapRows = %d, want 5 (environment wins over the file)", cfg.MapRows)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("expected error for an explicit env file that does not exist")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
