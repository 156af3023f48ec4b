package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/jwebster45206/battlemap/internal/config"
	"github.com/jwebster45206/battlemap/internal/frameloop"
	"github.com/jwebster45206/battlemap/internal/ingest"
	"github.com/jwebster45206/battlemap/internal/logger"
	"github.com/jwebster45206/battlemap/internal/services/queue"
	"github.com/jwebster45206/battlemap/pkg/command"
	"github.com/jwebster45206/battlemap/pkg/dice"
	"github.com/jwebster45206/battlemap/pkg/state"
)

// options are the command-line flags of the host.
type options struct {
	scenario string
	dmMode   bool
	headless bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("battlemap", pflag.ContinueOnError)
	fs.BoolVar(&opts.dmMode, "dm", false, "run as the DM: show hidden token details")
	fs.BoolVar(&opts.headless, "headless", false, "read commands from stdin and print results instead of drawing the map")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: battlemap [--dm] [--headless] [SCENARIO]\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.scenario = fs.Arg(0)
	default:
		return options{}, fmt.Errorf("expected at most one scenario file, got %d arguments", fs.NArg())
	}
	return opts, nil
}

func modeBanner(dmMode bool) string {
	if dmMode {
		return "DM Mode"
	}
	return "Player Mode"
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run hosts one session. Every resource it opens is closed before it returns.
func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logOut, closeLog, err := openLogOutput(cfg.LogFile, opts.headless)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.WithSessionID(logger.Setup(cfg, logOut), cfg.SessionID)

	log.Info("Starting battlemap",
		"environment", cfg.Environment,
		"mode", modeBanner(opts.dmMode),
		"headless", opts.headless,
		"scenario", opts.scenario)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lines, err := newLineQueue(ctx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to create line queue")
		return fmt.Errorf("failed to create line queue: %w", err)
	}
	defer func() {
		if err := lines.Close(); err != nil {
			logger.WithError(log, err).Error("Error closing line queue")
		}
	}()

	bm := state.BattlemapState{Image: cfg.MapImage, Rows: cfg.MapRows, Columns: cfg.MapColumns}
	if err := bm.Validate(); err != nil {
		logger.WithError(log, err).Error("Invalid initial battlemap")
		return fmt.Errorf("invalid initial battlemap: %w", err)
	}
	gs := state.NewGameState(bm)
	gs.ID = cfg.SessionID

	dispatcher := state.NewDispatcher(dice.NewRoller(nil), log)
	loop := frameloop.New(lines, dispatcher, gs, log)
	producer := ingest.NewProducer(lines, log)

	if opts.headless {
		err = runHeadless(ctx, cfg, opts, loop, producer, log)
	} else {
		err = runTUI(ctx, cfg, opts, loop, lines, producer, log)
	}
	if err != nil {
		logger.WithError(log, err).Error("Battlemap stopped with error")
		return err
	}
	log.Info("Battlemap stopped")
	return nil
}

// openLogOutput picks where logs go. The TUI owns the terminal, so without a
// log file its logs are discarded.
func openLogOutput(path string, headless bool) (io.Writer, func(), error) {
	if path == "" {
		if headless {
			return os.Stderr, func() {}, nil
		}
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func newLineQueue(ctx context.Context, cfg *config.Config, log *slog.Logger) (queue.LineQueue, error) {
	if cfg.RedisURL == "" {
		log.Info("Using in-memory line queue")
		return queue.NewMemoryQueue(), nil
	}
	client, err := queue.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	log.Info("Using Redis line queue", "key", queue.Key(cfg.SessionID))
	return queue.NewRedisQueue(client, cfg.SessionID), nil
}

// runHeadless applies the scenario and stdin, printing every message. With an
// in-memory queue it stops once stdin is exhausted; with Redis it keeps
// draining lines pushed by other processes until Quit or a signal.
func runHeadless(ctx context.Context, cfg *config.Config, opts options, loop *frameloop.Loop, producer *ingest.Producer, log *slog.Logger) error {
	fmt.Println(modeBanner(opts.dmMode))
	fmt.Println(command.HelpText)

	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		if err := producer.Run(ctx, opts.scenario, os.Stdin); err != nil {
			log.Error("Input stopped", "error", err)
		}
	}()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	if cfg.RedisURL == "" {
		go func() {
			select {
			case <-inputDone:
				cancelRun()
			case <-runCtx.Done():
			}
		}()
	}

	printFrame := func(f frameloop.Frame) {
		log.Debug("Frame applied", "lines", f.Applied, "messages", len(f.Messages))
		for _, m := range f.Messages {
			if m.Error {
				fmt.Fprintln(os.Stderr, m.Text)
			} else {
				fmt.Println(m.Text)
			}
		}
	}

	err := loop.Run(runCtx, cfg.FrameInterval, printFrame)
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		// Input ended: apply whatever it pushed after the last frame.
		f, err := loop.Tick(ctx)
		if err != nil {
			return err
		}
		printFrame(f)
		return nil
	}
	if ctx.Err() != nil {
		log.Info("Interrupted")
		return nil
	}
	return err
}

// runTUI loads the scenario into the queue and hands the terminal to the map.
func runTUI(ctx context.Context, cfg *config.Config, opts options, loop *frameloop.Loop, lines queue.LineQueue, producer *ingest.Producer, log *slog.Logger) error {
	if opts.scenario != "" {
		if _, err := producer.LoadScenario(ctx, opts.scenario); err != nil {
			return err
		}
	}

	ui := NewBattlemapUI(loop, lines, cfg.FrameInterval, opts.dmMode, log)
	ui.addEntry(entryInfo, modeBanner(opts.dmMode))
	if cfg.RedisURL != "" {
		ui.addEntry(entryInfo, "Session "+cfg.SessionID.String())
	}
	ui.addEntry(entryInfo, command.HelpText)

	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("Interrupted")
			return nil
		}
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
