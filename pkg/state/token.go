package state

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/battlemap/pkg/command"
	"github.com/jwebster45206/battlemap/pkg/coord"
)

// Hard defaults for fields a token's first update leaves unset.
const (
	DefaultTokenImage      = "./assets/unnamed.png"
	DefaultTokenName       = "Unnamed"
	DefaultTokenSize       = "small"
	DefaultTokenMaxHealth  = 10
	DefaultTokenPosition   = "A1"
	DefaultTokenInitiative = 1
)

// TokenAC is the armor class given to every token actor. Tokens carry no AC
// of their own.
const TokenAC = 10

// AttrInitiative is the actor attribute holding a token's initiative.
const AttrInitiative = "initiative"

// footprints maps a creature size to the number of cells it spans per side.
var footprints = map[string]int{
	"tiny":       1,
	"small":      1,
	"medium":     1,
	"large":      2,
	"huge":       3,
	"gargantuan": 4,
}

// TokenState is a creature or object placed on the map.
type TokenState struct {
	ID         string
	Image      string
	Name       string
	Size       string
	MaxHealth  int
	Position   coord.Coordinate
	Initiative int
}

// DefaultToken is the token an id gets before any field is set.
func DefaultToken(id string) TokenState {
	return TokenState{
		ID:         id,
		Image:      DefaultTokenImage,
		Name:       DefaultTokenName,
		Size:       DefaultTokenSize,
		MaxHealth:  DefaultTokenMaxHealth,
		Position:   coord.Chess(DefaultTokenPosition),
		Initiative: DefaultTokenInitiative,
	}
}

// Merge returns a copy of t with every field the patch sets replaced.
// Creating a token is DefaultToken(id).Merge(patch).
func (t TokenState) Merge(p command.TokenPatch) TokenState {
	if p.Image != nil {
		t.Image = *p.Image
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Size != nil {
		t.Size = *p.Size
	}
	if p.MaxHealth != nil {
		t.MaxHealth = *p.MaxHealth
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	if p.Initiative != nil {
		t.Initiative = *p.Initiative
	}
	return t
}

// Footprint returns how many cells the token covers along each side.
// Unknown sizes cover a single cell.
func (t TokenState) Footprint() int {
	if n, ok := footprints[t.Size]; ok {
		return n
	}
	return 1
}

// Validate checks the fields an actor is built from.
func (t TokenState) Validate() error {
	if t.ID == "" {
		return errors.New("token id must not be empty")
	}
	if t.MaxHealth < 1 {
		return fmt.Errorf("token %q: max health must be at least 1, got %d", t.ID, t.MaxHealth)
	}
	return nil
}

// Actor builds the d20 actor backing the token: hit points from max health
// and the initiative attribute.
func (t TokenState) Actor() (*d20.Actor, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	actor, err := d20.NewActor(t.ID).
		WithHP(t.MaxHealth).
		WithAC(TokenAC).
		WithAttributes(map[string]int{AttrInitiative: t.Initiative}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor for token %q: %w", t.ID, err)
	}
	return actor, nil
}
