package mir

import (
	"fmt"

	"ferrite/internal/source"
)

// InvariantError is a resolver defect detected while concretizing: an
// unknown or generic type, an unspecialized call, or a promotion that
// disagrees with the checked type. Lower panics with it.
type InvariantError struct {
	Func string
	Span source.Span
	Msg  string
}

func (e *InvariantError) Error() string {
	if e.Func == "" {
		return "mir: " + e.Msg
	}
	return fmt.Sprintf("mir: %s: %s", e.Func, e.Msg)
}
