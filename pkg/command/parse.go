package command

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/battlemap/pkg/coord"
	"github.com/jwebster45206/battlemap/pkg/dice"
)

var verbs = map[string]CommandType{
	"q":         CmdQuit,
	"quit":      CmdQuit,
	"exit":      CmdQuit,
	"h":         CmdHelp,
	"help":      CmdHelp,
	"?":         CmdHelp,
	"r":         CmdRoll,
	"battlemap": CmdUpdateBattlemap,
	"token":     CmdUpdateToken,
}

var upper = cases.Upper(language.Und)

// Parse reads one line. Unknown verbs and blank lines are not errors: they
// come back as Unrecognized. A known verb with bad arguments returns a
// *UserFacingError.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Unrecognized{}, nil
	}

	verb := fields[0]
	switch verbs[verb] {
	case CmdQuit:
		return Quit{}, nil
	case CmdHelp:
		return Help{}, nil
	case CmdRoll:
		return parseRoll(line, verb)
	case CmdUpdateBattlemap:
		return parseBattlemap(line, fields[1:])
	case CmdUpdateToken:
		return parseToken(line, fields[1:])
	default:
		return Unrecognized{Line: line}, nil
	}
}

// ParsedLine is the outcome of parsing one line of a script.
type ParsedLine struct {
	Number  int // 1-based
	Line    string
	Command Command
	Err     error
}

// ParseScript parses every line of text independently, in order.
func ParseScript(text string) []ParsedLine {
	var out []ParsedLine
	n := 0
	for l := range strings.Lines(text) {
		n++
		l = strings.TrimRight(l, "\r\n")
		cmd, err := Parse(l)
		out = append(out, ParsedLine{Number: n, Line: l, Command: cmd, Err: err})
	}
	return out
}

// parseRoll keeps everything after "r " verbatim as the expression.
func parseRoll(line, verb string) (Command, error) {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)[len(verb):]
	_, sep := utf8.DecodeRuneInString(rest)
	expr := rest[sep:]

	if _, err := dice.Parse(expr); err != nil {
		return nil, &UserFacingError{Kind: ErrInvalidRoll, Line: line, Reason: err}
	}
	return Roll{Expression: expr}, nil
}

func parseBattlemap(line string, args []string) (Command, error) {
	invalid := func(reason error) error {
		return &UserFacingError{Kind: ErrInvalidBattlemap, Line: line, Reason: reason}
	}

	fs := newFlagSet("battlemap")
	url := fs.String("url", "", "background image")
	columns := fs.Int("columns", 0, "number of grid columns")
	rows := fs.Int("rows", 0, "number of grid rows")
	if err := fs.Parse(args); err != nil {
		return nil, invalid(err)
	}
	if fs.NArg() > 0 {
		return nil, invalid(fmt.Errorf("unexpected argument %q", fs.Arg(0)))
	}

	var p BattlemapPatch
	if fs.Changed("url") {
		if *url == "" {
			return nil, invalid(fmt.Errorf("--url is empty"))
		}
		p.Image = url
	}
	if fs.Changed("columns") {
		if *columns < 1 || *columns > coord.MaxColumns {
			return nil, invalid(fmt.Errorf("--columns must be in [1..%d], got %d", coord.MaxColumns, *columns))
		}
		p.Columns = columns
	}
	if fs.Changed("rows") {
		if *rows < 1 {
			return nil, invalid(fmt.Errorf("--rows must be positive, got %d", *rows))
		}
		p.Rows = rows
	}
	return UpdateBattlemap{Patch: p}, nil
}

func parseToken(line string, args []string) (Command, error) {
	invalid := func(reason error) error {
		return &UserFacingError{Kind: ErrInvalidToken, Line: line, Reason: reason}
	}

	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return nil, invalid(fmt.Errorf("missing token id"))
	}
	id := args[0]

	fs := newFlagSet("token")
	image := fs.String("image", "", "token image")
	name := fs.String("name", "", "display name")
	size := fs.String("size", "", "tiny, small, medium, large, huge or gargantuan")
	maxHealth := fs.Int("max-health", 0, "maximum hit points")
	pos := fs.String("pos", "", "cell in chess notation, e.g. B3")
	initiative := fs.Int("initiative", 0, "initiative")
	if err := fs.Parse(args[1:]); err != nil {
		return nil, invalid(err)
	}
	if fs.NArg() > 0 {
		return nil, invalid(fmt.Errorf("unexpected argument %q", fs.Arg(0)))
	}

	stringFlag := func(flag string, v *string) (*string, error) {
		if !fs.Changed(flag) {
			return nil, nil
		}
		if *v == "" {
			return nil, fmt.Errorf("--%s is empty", flag)
		}
		return v, nil
	}

	var (
		p   TokenPatch
		err error
	)
	if p.Image, err = stringFlag("image", image); err != nil {
		return nil, invalid(err)
	}
	if p.Name, err = stringFlag("name", name); err != nil {
		return nil, invalid(err)
	}
	if p.Size, err = stringFlag("size", size); err != nil {
		return nil, invalid(err)
	}
	if fs.Changed("max-health") {
		if *maxHealth < 1 {
			return nil, invalid(fmt.Errorf("--max-health must be positive, got %d", *maxHealth))
		}
		p.MaxHealth = maxHealth
	}
	if fs.Changed("pos") {
		c, err := coord.ParseChess(upper.String(*pos))
		if err != nil {
			return nil, invalid(err)
		}
		p.Position = &c
	}
	if fs.Changed("initiative") {
		p.Initiative = initiative
	}

	return UpdateToken{ID: id, Patch: p}, nil
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
