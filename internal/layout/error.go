package layout

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates layout failures.
type ErrorKind uint8

const (
	// ErrRecursiveUnsized indicates a struct containing itself by value.
	ErrRecursiveUnsized ErrorKind = iota + 1
	// ErrTooLarge indicates a size that does not fit the target.
	ErrTooLarge
)

// Error is a layout failure for one type.
type Error struct {
	Kind  ErrorKind
	Type  string
	Cycle []string // for ErrRecursiveUnsized
	Err   error    // for ErrTooLarge
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRecursiveUnsized:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive value type %s has infinite size", e.Type)
		}
		return fmt.Sprintf("recursive value type has infinite size (cycle: %s)", strings.Join(e.Cycle, " -> "))
	case ErrTooLarge:
		return fmt.Sprintf("type %s is too large for the target: %v", e.Type, e.Err)
	default:
		return fmt.Sprintf("layout error kind=%d type %s", e.Kind, e.Type)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
