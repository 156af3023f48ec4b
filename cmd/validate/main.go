package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/jwebster45206/battlemap/pkg/command"
	"github.com/jwebster45206/battlemap/pkg/dice"
	"github.com/jwebster45206/battlemap/pkg/state"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <scenario.txt>...\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &ScenarioValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		for _, w := range validator.warnings {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

// ScenarioValidator checks a scenario file line by line and replays it
// against a fresh session, the way the host would at startup.
type ScenarioValidator struct {
	errors   []string
	warnings []string
}

func (v *ScenarioValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.validateScript(string(data))

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *ScenarioValidator) validateScript(text string) {
	v.errors = nil
	v.warnings = nil

	gs := state.NewGameState(state.DefaultBattlemap())
	// Seeded so a replay never depends on luck.
	d := state.NewDispatcher(dice.NewRoller(rand.New(rand.NewPCG(1, 2))), nil)

	quitAt := 0
	for _, pl := range command.ParseScript(text) {
		if quitAt > 0 {
			v.warnings = append(v.warnings, fmt.Sprintf("line %d: never runs, line %d quits", pl.Number, quitAt))
			continue
		}
		if pl.Err != nil {
			v.errors = append(v.errors, fmt.Sprintf("line %d: %v", pl.Number, pl.Err))
			continue
		}

		switch c := pl.Command.(type) {
		case command.Unrecognized:
			if strings.TrimSpace(c.Line) == "" {
				v.warnings = append(v.warnings, fmt.Sprintf("line %d: blank line prints the help text", pl.Number))
			} else {
				v.errors = append(v.errors, fmt.Sprintf("line %d: unknown command %q", pl.Number, c.Line))
			}
			continue
		case command.Quit:
			quitAt = pl.Number
		case command.UpdateBattlemap:
			if c.Patch.IsEmpty() {
				v.warnings = append(v.warnings, fmt.Sprintf("line %d: battlemap changes nothing", pl.Number))
			}
		case command.UpdateToken:
			if _, exists := gs.Token(c.ID); exists && c.Patch.IsEmpty() {
				v.warnings = append(v.warnings, fmt.Sprintf("line %d: token %s changes nothing", pl.Number, c.ID))
			}
		}

		if out := d.Apply(gs, pl.Command); out.Err != nil {
			v.errors = append(v.errors, fmt.Sprintf("line %d: %v", pl.Number, out.Err))
		}
	}

	v.checkTokensOnMap(gs)
}

// checkTokensOnMap warns about tokens the final map cannot show.
func (v *ScenarioValidator) checkTokensOnMap(gs *state.GameState) {
	for _, c := range gs.TurnOrder() {
		t := c.Token
		col, row, err := t.Position.Cell()
		if err != nil {
			v.errors = append(v.errors, fmt.Sprintf("token %s: %v", t.ID, err))
			continue
		}
		if !gs.Battlemap.Contains(col, row) {
			v.warnings = append(v.warnings, fmt.Sprintf("token %s at %s is off the %dx%d map",
				t.ID, t.Position, gs.Battlemap.Columns, gs.Battlemap.Rows))
		}
	}
}
