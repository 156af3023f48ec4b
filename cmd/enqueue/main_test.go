package main

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/battlemap/internal/config"
	"github.com/jwebster45206/battlemap/internal/services/queue"
)

func setupEnqueue(t *testing.T) (*miniredis.Miniredis, *config.Config, uuid.UUID) {
	t.Helper()
	t.Setenv("SESSION_ID", "")
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Environment: "test",
		LogLevel:    slog.LevelError,
		RedisURL:    "redis://" + mr.Addr(),
	}
	return mr, cfg, uuid.New()
}

func TestRun_PushesArguments(t *testing.T) {
	mr, cfg, id := setupEnqueue(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), cfg, []string{"--session", id.String(), "token", "goblin1", "--pos=B3"},
		strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	list, err := mr.List(queue.Key(id))
	require.NoError(t, err)
	assert.Equal(t, []string{"token goblin1 --pos=B3"}, list)
	assert.Contains(t, stdout.String(), "Enqueued: token goblin1 --pos=B3")
	assert.Contains(t, stdout.String(), ": 1")
}

func TestRun_StreamsStdin(t *testing.T) {
	mr, cfg, id := setupEnqueue(t)
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), cfg, []string{"--session=" + id.String()},
		strings.NewReader("token a\nr 1d6\n"), &stdout, &stderr)
	require.NoError(t, err)

	list, err := mr.List(queue.Key(id))
	require.NoError(t, err)
	assert.Equal(t, []string{"token a", "r 1d6"}, list)
}

func TestRun_ClearDropsWaitingLines(t *testing.T) {
	mr, cfg, id := setupEnqueue(t)
	_, err := mr.RPush(queue.Key(id), "token stale", "q")
	require.NoError(t, err)
	var stdout, stderr bytes.Buffer

	err = run(context.Background(), cfg, []string{"--clear", "--session", id.String(), "token", "fresh"},
		strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	list, err := mr.List(queue.Key(id))
	require.NoError(t, err)
	assert.Equal(t, []string{"token fresh"}, list)
	assert.Contains(t, stdout.String(), "Cleared "+queue.Key(id))
}

func TestRun_UsageErrors(t *testing.T) {
	_, cfg, _ := setupEnqueue(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing session", []string{"q"}},
		{"bad session", []string{"--session", "nope", "q"}},
		{"unknown flag", []string{"--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), cfg, tt.args, strings.NewReader(""), &stdout, &stderr)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}
