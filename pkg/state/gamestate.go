// Package state holds the battle map session and applies commands to it.
package state

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/d20"
)

// GameState is the current state of a battle map session.
// It has a single writer: the Dispatcher driven by the frame loop.
type GameState struct {
	ID        uuid.UUID             // Unique ID per session
	Battlemap BattlemapState        // Replaced wholesale on every update
	Tokens    map[string]TokenState // Keyed by token id
	Actors    map[string]*d20.Actor // Built from Tokens by SetToken, same keys
}

// Combatant is a token together with the actor built from it.
type Combatant struct {
	Token TokenState
	Actor *d20.Actor
}

// Initiative is the actor's initiative attribute.
func (c Combatant) Initiative() int {
	v, _ := c.Actor.Attribute(AttrInitiative)
	return v
}

// NewGameState starts a session with the given map and no tokens.
func NewGameState(bm BattlemapState) *GameState {
	return &GameState{
		ID:        uuid.New(),
		Battlemap: bm,
		Tokens:    make(map[string]TokenState),
		Actors:    make(map[string]*d20.Actor),
	}
}

// Token returns the token with the given id.
func (gs *GameState) Token(id string) (TokenState, bool) {
	t, ok := gs.Tokens[id]
	return t, ok
}

// SetToken builds the actor for t and stores both. When the actor cannot be
// built the previous token is kept.
func (gs *GameState) SetToken(t TokenState) (*d20.Actor, error) {
	actor, err := t.Actor()
	if err != nil {
		return nil, err
	}
	if gs.Tokens == nil {
		gs.Tokens = make(map[string]TokenState)
	}
	if gs.Actors == nil {
		gs.Actors = make(map[string]*d20.Actor)
	}
	gs.Tokens[t.ID] = t
	gs.Actors[t.ID] = actor
	return actor, nil
}

// TurnOrder returns every token with its actor, sorted by the actor's
// initiative, highest first. Ties are broken by id so the order is stable
// between frames. Tokens stored without going through SetToken get an actor
// built on the spot and are left out when that fails.
func (gs *GameState) TurnOrder() []Combatant {
	out := make([]Combatant, 0, len(gs.Tokens))
	for id, t := range gs.Tokens {
		actor := gs.Actors[id]
		if actor == nil {
			var err error
			if actor, err = t.Actor(); err != nil {
				continue
			}
		}
		out = append(out, Combatant{Token: t, Actor: actor})
	}
	slices.SortFunc(out, func(a, b Combatant) int {
		if c := cmp.Compare(b.Initiative(), a.Initiative()); c != 0 {
			return c
		}
		return cmp.Compare(a.Token.ID, b.Token.ID)
	})
	return out
}
