// Package frameloop drains the line queue once per frame and applies every
// line to the game state.
package frameloop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/battlemap/internal/services/queue"
	"github.com/jwebster45206/battlemap/pkg/state"
)

// Message is one line of user-facing output.
type Message struct {
	Text  string
	Error bool // The command failed
}

// Frame is what one drain produced, in order.
type Frame struct {
	Messages []Message
	Applied  int  // Lines applied, including ones that failed
	Quit     bool // A Quit was applied; later lines were dropped
}

// Loop owns the GameState. Tick and State must be called from one goroutine.
type Loop struct {
	queue      queue.LineQueue
	dispatcher *state.Dispatcher
	gs         *state.GameState
	logger     *slog.Logger
}

func New(q queue.LineQueue, d *state.Dispatcher, gs *state.GameState, logger *slog.Logger) *Loop {
	return &Loop{queue: q, dispatcher: d, gs: gs, logger: logger}
}

// State returns the game state for rendering. Callers must not modify it.
func (l *Loop) State() *state.GameState {
	return l.gs
}

// Tick drains every queued line without waiting and applies them in arrival
// order. It stops at the first Quit.
func (l *Loop) Tick(ctx context.Context) (Frame, error) {
	lines, err := l.queue.Drain(ctx)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to drain line queue: %w", err)
	}

	var f Frame
	for i, line := range lines {
		out := l.dispatcher.ApplyLine(l.gs, line)
		f.Applied++
		if out.Err != nil {
			l.logger.Debug("Command failed", "line", line, "error", out.Err)
		}
		if out.Message != "" {
			f.Messages = append(f.Messages, Message{Text: out.Message, Error: out.Err != nil})
		}
		if out.Quit {
			f.Quit = true
			if dropped := len(lines) - i - 1; dropped > 0 {
				l.logger.Debug("Dropped lines queued after quit", "count", dropped)
			}
			break
		}
	}
	return f, nil
}

// Run ticks every interval until a Quit is applied or ctx is done, passing
// each frame that has something to show to emit.
func (l *Loop) Run(ctx context.Context, interval time.Duration, emit func(Frame)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		f, err := l.Tick(ctx)
		if err != nil {
			return err
		}
		if len(f.Messages) > 0 || f.Quit {
			emit(f)
		}
		if f.Quit {
			l.logger.Info("Quit requested")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
