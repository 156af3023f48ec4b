// Package command turns typed lines into commands for the battle map.
package command

import "github.com/jwebster45206/battlemap/pkg/coord"

type CommandType string

const (
	CmdQuit            CommandType = "quit"
	CmdHelp            CommandType = "help"
	CmdRoll            CommandType = "roll"
	CmdUpdateBattlemap CommandType = "battlemap"
	CmdUpdateToken     CommandType = "token"
	CmdUnrecognized    CommandType = "" // Not a known verb; caller shows help
)

// Command is one parsed line. The set of implementations is closed.
type Command interface {
	Type() CommandType
	command()
}

// Quit ends the session.
type Quit struct{}

// Help asks for the help text.
type Help struct{}

// Roll asks the dice evaluator to roll Expression.
type Roll struct {
	Expression string
}

// UpdateBattlemap replaces the battle map, keeping fields the patch leaves unset.
type UpdateBattlemap struct {
	Patch BattlemapPatch
}

// UpdateToken creates or updates the token with the given ID.
type UpdateToken struct {
	ID    string
	Patch TokenPatch
}

// Unrecognized is a line whose verb is not known.
type Unrecognized struct {
	Line string
}

func (Quit) Type() CommandType            { return CmdQuit }
func (Help) Type() CommandType            { return CmdHelp }
func (Roll) Type() CommandType            { return CmdRoll }
func (UpdateBattlemap) Type() CommandType { return CmdUpdateBattlemap }
func (UpdateToken) Type() CommandType     { return CmdUpdateToken }
func (Unrecognized) Type() CommandType    { return CmdUnrecognized }

func (Quit) command()            {}
func (Help) command()            {}
func (Roll) command()            {}
func (UpdateBattlemap) command() {}
func (UpdateToken) command()     {}
func (Unrecognized) command()    {}

// BattlemapPatch holds the battle map fields a command sets. Nil means unset.
type BattlemapPatch struct {
	Image   *string
	Columns *int
	Rows    *int
}

// IsEmpty reports whether the patch sets nothing.
func (p BattlemapPatch) IsEmpty() bool {
	return p.Image == nil && p.Columns == nil && p.Rows == nil
}

// TokenPatch holds the token fields a command sets. Nil means unset.
type TokenPatch struct {
	Image      *string
	Name       *string
	Size       *string
	MaxHealth  *int
	Position   *coord.Coordinate
	Initiative *int
}

// IsEmpty reports whether the patch sets nothing.
func (p TokenPatch) IsEmpty() bool {
	return p.Image == nil && p.Name == nil && p.Size == nil &&
		p.MaxHealth == nil && p.Position == nil && p.Initiative == nil
}
