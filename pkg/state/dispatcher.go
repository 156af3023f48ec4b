package state

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/battlemap/pkg/command"
)

// ErrCommandPanicked wraps a panic recovered while applying a single command.
var ErrCommandPanicked = errors.New("command panicked")

// Evaluator rolls a dice expression and formats the result.
type Evaluator interface {
	Evaluate(expr string) (string, error)
}

// Outcome is what applying one command produced. Message is meant for the
// user and is empty when there is nothing to show.
type Outcome struct {
	Quit    bool
	Message string
	Err     error
}

// Dispatcher applies commands to a GameState.
type Dispatcher struct {
	eval   Evaluator
	logger *slog.Logger
}

func NewDispatcher(eval Evaluator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{eval: eval, logger: logger}
}

// ApplyLine parses line and applies the resulting command. A parse error is
// reported in the outcome; gs is left untouched.
func (d *Dispatcher) ApplyLine(gs *GameState, line string) Outcome {
	cmd, err := command.Parse(line)
	if err != nil {
		d.logger.Debug("Rejected line", "line", line, "error", err)
		return Outcome{Message: err.Error(), Err: err}
	}
	d.logger.Debug("Parsed command", "line", line, "type", cmd.Type())
	return d.Apply(gs, cmd)
}

// Apply applies cmd to gs. Updates replace the affected entity only after
// every step of the command has succeeded, so a failing or panicking command
// leaves gs as it was.
func (d *Dispatcher) Apply(gs *GameState, cmd command.Command) (out Outcome) {
	if cmd == nil {
		err := errors.New("nil command")
		return Outcome{Message: err.Error(), Err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %s: %v", ErrCommandPanicked, cmd.Type(), r)
			d.logger.Error("Recovered from panic while applying command", "error", err)
			out = Outcome{Message: err.Error(), Err: err}
		}
	}()

	switch c := cmd.(type) {
	case command.Quit:
		return Outcome{Quit: true}

	case command.Help:
		return Outcome{Message: command.HelpText}

	case command.Roll:
		result, err := d.eval.Evaluate(c.Expression)
		if err != nil {
			return Outcome{Message: "Can't roll this: " + err.Error(), Err: err}
		}
		return Outcome{Message: "-> " + result}

	case command.UpdateBattlemap:
		bm := gs.Battlemap.Merge(c.Patch)
		if err := bm.Validate(); err != nil {
			return Outcome{Message: err.Error(), Err: err}
		}
		gs.Battlemap = bm
		d.logger.Debug("Battlemap updated", "image", bm.Image, "columns", bm.Columns, "rows", bm.Rows)
		return Outcome{}

	case command.UpdateToken:
		prev, ok := gs.Tokens[c.ID]
		if !ok {
			prev = DefaultToken(c.ID)
		}
		t := prev.Merge(c.Patch)
		actor, err := gs.SetToken(t)
		if err != nil {
			return Outcome{Message: err.Error(), Err: err}
		}
		d.logger.Debug("Token updated", "id", t.ID, "created", !ok,
			"position", t.Position.String(), "hp", actor.HP(), "ac", actor.AC())
		return Outcome{}

	case command.Unrecognized:
		return Outcome{Message: fmt.Sprintf("Unknown command: %q\n%s", c.Line, command.HelpText)}

	default:
		err := fmt.Errorf("unsupported command type %T", cmd)
		return Outcome{Message: err.Error(), Err: err}
	}
}
