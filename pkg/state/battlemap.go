package state

import (
	"fmt"

	"github.com/jwebster45206/battlemap/pkg/command"
	"github.com/jwebster45206/battlemap/pkg/coord"
)

const (
	DefaultMapImage   = "./assets/bg_placeholder.jpg"
	DefaultMapRows    = 12
	DefaultMapColumns = 20
)

// BattlemapState is the background image and the grid laid over it.
type BattlemapState struct {
	Image   string
	Rows    int
	Columns int
}

// DefaultBattlemap is the map a session starts with when nothing is configured.
func DefaultBattlemap() BattlemapState {
	return BattlemapState{
		Image:   DefaultMapImage,
		Rows:    DefaultMapRows,
		Columns: DefaultMapColumns,
	}
}

// Merge returns a copy of b with every field the patch sets replaced.
func (b BattlemapState) Merge(p command.BattlemapPatch) BattlemapState {
	if p.Image != nil {
		b.Image = *p.Image
	}
	if p.Columns != nil {
		b.Columns = *p.Columns
	}
	if p.Rows != nil {
		b.Rows = *p.Rows
	}
	return b
}

// Validate checks that every cell of the map can be named in chess notation.
func (b BattlemapState) Validate() error {
	switch {
	case b.Image == "":
		return fmt.Errorf("battlemap image is empty")
	case b.Rows < 1:
		return fmt.Errorf("battlemap rows must be positive, got %d", b.Rows)
	case b.Columns < 1 || b.Columns > coord.MaxColumns:
		return fmt.Errorf("battlemap columns must be in [1..%d], got %d", coord.MaxColumns, b.Columns)
	}
	return nil
}

// Contains reports whether the zero-based cell lies on the map.
func (b BattlemapState) Contains(column, row int) bool {
	return column >= 0 && column < b.Columns && row >= 0 && row < b.Rows
}
