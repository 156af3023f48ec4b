package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue is a LineQueue stored as a Redis list, one list per session.
// Lines can be pushed by other processes, see cmd/enqueue.
type RedisQueue struct {
	client *Client
	key    string
}

func NewRedisQueue(client *Client, sessionID uuid.UUID) *RedisQueue {
	return &RedisQueue{
		client: client,
		key:    Key(sessionID),
	}
}

// Key returns the Redis list holding a session's lines.
func Key(sessionID uuid.UUID) string {
	return fmt.Sprintf("battlemap-lines:%s", sessionID.String())
}

// Push appends line to the end of the session's list
func (q *RedisQueue) Push(ctx context.Context, line string) error {
	if err := q.client.rdb.RPush(ctx, q.key, line).Err(); err != nil {
		return fmt.Errorf("failed to push line: %w", err)
	}
	return nil
}

// Drain reads and deletes the whole list in one transaction, so a line pushed
// concurrently is either returned now or left for the next drain.
func (q *RedisQueue) Drain(ctx context.Context) ([]string, error) {
	var lrange *redis.StringSliceCmd
	_, err := q.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lrange = pipe.LRange(ctx, q.key, 0, -1)
		pipe.Del(ctx, q.key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to drain lines: %w", err)
	}
	lines, err := lrange.Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to read drained lines: %w", err)
	}
	return lines, nil
}

// Depth returns the number of lines waiting in the session's list
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	n, err := q.client.rdb.LLen(ctx, q.key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("failed to get line queue depth: %w", err)
	}
	return n, nil
}

// Clear removes every queued line for the session
func (q *RedisQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, q.key).Err(); err != nil {
		return fmt.Errorf("failed to clear line queue: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
