package symbols

// ScopeKind enumerates the lexical regions a frame can cover.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopeRoot                // primitives / module-level bindings
	ScopeFunction            // function body
	ScopeBlock               // nested if/while block
	ScopeStructLit           // generic bindings of one struct literal
	ScopeGeneric             // generic bindings of a call or struct instantiation
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeStructLit:
		return "struct-literal"
	case ScopeGeneric:
		return "generic"
	default:
		return "invalid"
	}
}

// Frame is an insertion-ordered name -> value mapping covering one lexical
// region.
type Frame[T any] struct {
	Kind   ScopeKind
	names  []string
	values map[string]T
}

func newFrame[T any](kind ScopeKind) *Frame[T] {
	return &Frame[T]{Kind: kind, values: make(map[string]T)}
}

// Define binds name in the frame. Redefinition inside the same frame
// replaces the value but keeps the original position.
func (f *Frame[T]) Define(name string, v T) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = v
}

// Get looks name up in this frame only.
func (f *Frame[T]) Get(name string) (T, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Names returns bound names in insertion order.
func (f *Frame[T]) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *Frame[T]) Len() int {
	return len(f.names)
}

// Each visits bindings in insertion order.
func (f *Frame[T]) Each(fn func(name string, v T)) {
	for _, n := range f.names {
		fn(n, f.values[n])
	}
}
