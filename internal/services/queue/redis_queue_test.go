package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ LineQueue = (*RedisQueue)(nil)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client, err := NewClient(context.Background(), "redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	return client, mr
}

func TestNewClient_BadURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	_, err := NewClient(context.Background(), "not a url", logger)
	assert.Error(t, err)
}

func TestRedisQueue_PushAndDrain(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	q := NewRedisQueue(client, uuid.New())
	defer q.Close()
	ctx := context.Background()

	lines, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	want := []string{
		"battlemap --url=bg.jpg --columns=10 --rows=8",
		"token goblin1 --name=Goblin",
		"token goblin1 --pos=B3",
	}
	for _, l := range want {
		require.NoError(t, q.Push(ctx, l))
	}

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), depth)

	got, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.False(t, mr.Exists(q.key), "drain must delete the list")

	depth, err = q.Depth(ctx)
	require.NoError(t, err)
	assert.Zero(t, depth)
}

func TestRedisQueue_SessionsAreIsolated(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	a := NewRedisQueue(client, uuid.New())
	b := NewRedisQueue(client, uuid.New())

	require.NoError(t, a.Push(ctx, "token a"))
	require.NoError(t, b.Push(ctx, "token b"))

	got, err := a.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"token a"}, got)

	got, err = b.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"token b"}, got)
}

func TestRedisQueue_ExternalProducer(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	id := uuid.New()
	q := NewRedisQueue(client, id)

	_, err := mr.RPush(Key(id), "r 1d20", "q")
	require.NoError(t, err)

	got, err := q.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"r 1d20", "q"}, got)
}

func TestRedisQueue_Clear(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()
	ctx := context.Background()

	q := NewRedisQueue(client, uuid.New())
	require.NoError(t, q.Push(ctx, "token a"))
	require.NoError(t, q.Clear(ctx))

	got, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-5b0d-4c57-9f43-0a6a1f0b7c11")
	assert.Equal(t, "battlemap-lines:6f1c2a9e-5b0d-4c57-9f43-0a6a1f0b7c11", Key(id))
}
