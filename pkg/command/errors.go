package command

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoll      = errors.New("invalid roll")
	ErrInvalidBattlemap = errors.New("invalid battlemap command")
	ErrInvalidToken     = errors.New("invalid token command")
)

// UserFacingError is a line that named a known verb but could not be parsed.
// Kind is one of ErrInvalidRoll, ErrInvalidBattlemap or ErrInvalidToken.
type UserFacingError struct {
	Kind   error
	Line   string
	Reason error
}

func (e *UserFacingError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%v %q: %v", e.Kind, e.Line, e.Reason)
	}
	return fmt.Sprintf("%v %q", e.Kind, e.Line)
}

// Unwrap exposes both the kind and the underlying reason to errors.Is.
func (e *UserFacingError) Unwrap() []error {
	if e.Reason == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Reason}
}
