// Command enqueue pushes command lines into a running battlemap session's
// Redis line queue. With arguments it pushes them as one line; otherwise it
// pushes every line read from stdin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/jwebster45206/battlemap/internal/config"
	"github.com/jwebster45206/battlemap/internal/ingest"
	"github.com/jwebster45206/battlemap/internal/logger"
	"github.com/jwebster45206/battlemap/internal/services/queue"
)

const defaultRedisURL = "redis://localhost:6379"

// errUsage marks errors in the command line itself.
var errUsage = errors.New("usage")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	err = run(context.Background(), cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, pflag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	redisURL := cfg.RedisURL
	if redisURL == "" {
		redisURL = defaultRedisURL
	}

	fs := pflag.NewFlagSet("enqueue", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&redisURL, "redis-url", redisURL, "Redis server holding the line queue")
	session := fs.String("session", os.Getenv("SESSION_ID"), "session id printed by the battlemap host")
	clearFirst := fs.Bool("clear", false, "drop lines still waiting in the queue before pushing")
	// Flags after the first argument belong to the battlemap command itself.
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	sessionID, err := uuid.Parse(*session)
	if err != nil {
		return fmt.Errorf("%w: a valid --session or SESSION_ID is required: %v", errUsage, err)
	}

	log := logger.WithSessionID(logger.Setup(cfg, stderr), sessionID)

	client, err := queue.NewClient(ctx, redisURL, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to connect to Redis")
		return err
	}
	lines := queue.NewRedisQueue(client, sessionID)
	defer func() {
		if err := lines.Close(); err != nil {
			logger.WithError(log, err).Error("Error closing queue client")
		}
	}()

	if *clearFirst {
		if err := lines.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Cleared %s\n", queue.Key(sessionID))
	}

	if fs.NArg() > 0 {
		line := strings.Join(fs.Args(), " ")
		if err := lines.Push(ctx, line); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Enqueued: %s\n", line)
	} else if err := ingest.NewProducer(lines, log).Stream(ctx, stdin); err != nil {
		return err
	}

	depth, err := lines.Depth(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Lines waiting in %s: %d\n", queue.Key(sessionID), depth)
	return nil
}
