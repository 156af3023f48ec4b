package queue

import (
	"context"
	"sync"
)

// MemoryQueue is a LineQueue held in process memory.
type MemoryQueue struct {
	mu     sync.Mutex
	lines  []string
	closed bool
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Push(_ context.Context, line string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.lines = append(q.lines, line)
	return nil
}

func (q *MemoryQueue) Drain(_ context.Context) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	lines := q.lines
	q.lines = nil
	return lines, nil
}

// Len returns the number of queued lines.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}

// Close rejects further pushes. Lines already queued can still be drained.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
