// Package coord converts between chess-style cell names ("A1", "AB12") and
// zero-based (column, row) grid indices.
//
// Columns are written as a bijective base-26 numeral (A=1 … Z=26, AA=27 …) and
// stored zero-based; rows are written 1-based and stored zero-based.
package coord

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// MaxColumns is the number of columns ToChess can encode: one or two letters.
const MaxColumns = 27 * 26

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var chessPattern = regexp.MustCompile(`^([A-Z]+)(\d+)$`)

var (
	// ErrNoMatch is returned when a string is not in chess notation.
	ErrNoMatch = errors.New("not a chess coordinate")
	// ErrBadNumber is returned when the row or column part does not fit a positive int.
	ErrBadNumber = errors.New("bad coordinate number")
	// ErrOutOfRange is returned when a grid index has no chess representation.
	ErrOutOfRange = errors.New("coordinate out of range")
)

// ParseError describes a chess string that could not be decoded.
type ParseError struct {
	Input string
	Err   error // ErrNoMatch or ErrBadNumber
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ToMap decodes a chess coordinate into a zero-based column and row.
func ToMap(chess string) (column, row int, err error) {
	m := chessPattern.FindStringSubmatch(chess)
	if m == nil {
		return 0, 0, &ParseError{Input: chess, Err: ErrNoMatch}
	}

	col := 0
	for _, c := range m[1] {
		if col > (math.MaxInt-26)/26 {
			return 0, 0, &ParseError{Input: chess, Err: ErrBadNumber}
		}
		col = col*26 + int(c-'A') + 1
	}

	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return 0, 0, &ParseError{Input: chess, Err: ErrBadNumber}
	}

	return col - 1, n - 1, nil
}

// ToChess encodes a zero-based column and row. The column must be in
// [0, MaxColumns) and the row must not be negative.
func ToChess(column, row int) (string, error) {
	if column < 0 || column >= MaxColumns {
		return "", fmt.Errorf("column %d not in [0..%d): %w", column, MaxColumns, ErrOutOfRange)
	}
	if row < 0 {
		return "", fmt.Errorf("row %d is negative: %w", row, ErrOutOfRange)
	}

	var letters string
	if column >= 26 {
		letters = string(alphabet[column/26-1])
	}
	letters += string(alphabet[column%26])
	return letters + strconv.Itoa(row+1), nil
}

// MustChess is ToChess for callers that already guarantee the range.
// It panics on a contract violation.
func MustChess(column, row int) string {
	s, err := ToChess(column, row)
	if err != nil {
		panic(err)
	}
	return s
}
