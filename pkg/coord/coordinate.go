package coord

import "fmt"

// Coordinate is either a chess string or a (column, row) pair.
// The zero value is the map coordinate (0, 0).
type Coordinate struct {
	chess   string
	column  int
	row     int
	isChess bool
}

// Chess wraps a chess-notation string. It is not validated until converted.
func Chess(s string) Coordinate {
	return Coordinate{chess: s, isChess: true}
}

// Map wraps a zero-based column and row.
func Map(column, row int) Coordinate {
	return Coordinate{column: column, row: row}
}

// ParseChess validates s and returns it as a chess coordinate.
func ParseChess(s string) (Coordinate, error) {
	if _, _, err := ToMap(s); err != nil {
		return Coordinate{}, err
	}
	return Chess(s), nil
}

// IsMap reports whether c holds grid indices.
func (c Coordinate) IsMap() bool {
	return !c.isChess
}

// ToMap returns c as grid indices, converting from chess notation if needed.
func (c Coordinate) ToMap() (Coordinate, error) {
	if c.IsMap() {
		return c, nil
	}
	col, row, err := ToMap(c.chess)
	if err != nil {
		return Coordinate{}, err
	}
	return Map(col, row), nil
}

// ToChess returns c in chess notation, converting from grid indices if needed.
func (c Coordinate) ToChess() (Coordinate, error) {
	if !c.IsMap() {
		return c, nil
	}
	s, err := ToChess(c.column, c.row)
	if err != nil {
		return Coordinate{}, err
	}
	return Chess(s), nil
}

// Cell returns the zero-based column and row of c.
func (c Coordinate) Cell() (column, row int, err error) {
	m, err := c.ToMap()
	if err != nil {
		return 0, 0, err
	}
	return m.column, m.row, nil
}

// String renders c as chess notation when possible, else as "(column,row)".
func (c Coordinate) String() string {
	if !c.IsMap() {
		return c.chess
	}
	if s, err := ToChess(c.column, c.row); err == nil {
		return s
	}
	return fmt.Sprintf("(%d,%d)", c.column, c.row)
}
