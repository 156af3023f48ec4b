// Package ingest feeds command lines into the line queue: first a scenario
// file, then an interactive stream.
package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jwebster45206/battlemap/internal/services/queue"
)

const maxLineSize = 1 << 20

// Producer pushes lines into a queue. It never touches game state.
type Producer struct {
	queue  queue.LineQueue
	logger *slog.Logger
}

func NewProducer(q queue.LineQueue, logger *slog.Logger) *Producer {
	return &Producer{queue: q, logger: logger}
}

// Run loads the scenario at path, if any, and then streams interactive until
// it is exhausted or ctx is cancelled. interactive may be nil.
func (p *Producer) Run(ctx context.Context, path string, interactive io.Reader) error {
	if path != "" {
		if _, err := p.LoadScenario(ctx, path); err != nil {
			return err
		}
	}
	if interactive == nil {
		return nil
	}
	return p.Stream(ctx, interactive)
}

// LoadScenario pushes every line of the file at path, trimmed, in order,
// exactly as Stream would. It returns the number of lines pushed.
func (p *Producer) LoadScenario(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()

	n := 0
	err = p.scan(ctx, f, func(line string) error {
		n++
		return p.queue.Push(ctx, line)
	})
	if err != nil {
		return n, fmt.Errorf("failed to load scenario %s: %w", path, err)
	}
	p.logger.Info("Scenario loaded", "path", path, "lines", n)
	return n, nil
}

// Stream pushes each line read from r, trimmed, until EOF. Blank lines are
// pushed too: they ask for the help text.
func (p *Producer) Stream(ctx context.Context, r io.Reader) error {
	err := p.scan(ctx, r, func(line string) error {
		return p.queue.Push(ctx, line)
	})
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	p.logger.Debug("Input stream closed")
	return nil
}

func (p *Producer) scan(ctx context.Context, r io.Reader, push func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		p.logger.Debug("Received line", "line", line)
		if err := push(line); err != nil {
			return err
		}
	}
	return sc.Err()
}
