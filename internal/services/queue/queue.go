// Package queue carries raw command lines from their producers to the frame
// loop: an unbounded FIFO that is drained without blocking.
package queue

import (
	"context"
	"errors"
)

// ErrClosed is returned by Push after the queue has been closed.
var ErrClosed = errors.New("line queue closed")

// LineQueue is an unbounded, ordered queue of command lines.
// Push may be called from any goroutine; Drain is called by the single consumer.
type LineQueue interface {
	// Push appends line to the back of the queue.
	Push(ctx context.Context, line string) error
	// Drain removes and returns every queued line in arrival order.
	// It never waits for lines to arrive.
	Drain(ctx context.Context) ([]string, error)
	Close() error
}
