package symbols

import "fmt"

// Stack is a stack of frames. Lookup walks innermost-first, so an inner
// binding shadows outer ones with the same name.
type Stack[T any] struct {
	frames []*Frame[T]
}

// NewStack creates a stack holding a single root frame.
func NewStack[T any]() *Stack[T] {
	s := &Stack[T]{}
	s.frames = append(s.frames, newFrame[T](ScopeRoot))
	return s
}

// Push opens a frame and returns the function that closes it. Callers pair
// it with defer so the frame is released on every exit path:
//
//	defer types.Push(symbols.ScopeGeneric)()
func (s *Stack[T]) Push(kind ScopeKind) func() {
	f := newFrame[T](kind)
	s.frames = append(s.frames, f)
	depth := len(s.frames)
	return func() {
		if len(s.frames) != depth || s.frames[depth-1] != f {
			panic(fmt.Sprintf("symbols: unbalanced pop of %s frame at depth %d (stack depth %d)", kind, depth, len(s.frames)))
		}
		s.frames[depth-1] = nil
		s.frames = s.frames[:depth-1]
	}
}

// Top returns the innermost frame.
func (s *Stack[T]) Top() *Frame[T] {
	return s.frames[len(s.frames)-1]
}

// Root returns the outermost frame.
func (s *Stack[T]) Root() *Frame[T] {
	return s.frames[0]
}

// Define binds name in the innermost frame.
func (s *Stack[T]) Define(name string, v T) {
	s.Top().Define(name, v)
}

// Lookup resolves name innermost-first.
func (s *Stack[T]) Lookup(name string) (T, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Get(name); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Depth returns the number of open frames, root included.
func (s *Stack[T]) Depth() int {
	return len(s.frames)
}
