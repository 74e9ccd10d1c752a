package layout

import (
	"fortio.org/safecast"

	"ferrite/internal/mir"
)

// TypeLayout is the ABI layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int
}

type cacheEntry struct {
	Layout TypeLayout
	Err    *Error
}

// Engine computes memory layout for concrete types. Struct layouts are
// cached by struct identity; an Engine is not safe for concurrent use.
type Engine struct {
	Target Target

	cache map[string]cacheEntry
}

// New creates a new Engine for the specified target.
func New(target Target) *Engine {
	return &Engine{
		Target: target,
		cache:  make(map[string]cacheEntry, 32),
	}
}

type layoutState struct {
	stack []string
	index map[string]int
}

// LayoutOf computes and caches the layout of a type.
func (e *Engine) LayoutOf(t *mir.Type) (TypeLayout, error) {
	if e.cache == nil {
		e.cache = make(map[string]cacheEntry, 32)
	}
	state := &layoutState{index: make(map[string]int, 8)}
	l, err := e.layoutOf(t, state)
	if err != nil {
		return l, err
	}
	return l, nil
}

func (e *Engine) layoutOf(t *mir.Type, state *layoutState) (TypeLayout, *Error) {
	switch t.Kind {
	case mir.TypeVoid:
		return TypeLayout{Size: 0, Align: 1}, nil
	case mir.TypeBool, mir.TypeU8:
		return TypeLayout{Size: 1, Align: 1}, nil
	case mir.TypeI32, mir.TypeU32:
		return TypeLayout{Size: 4, Align: 4}, nil
	case mir.TypeI64, mir.TypeU64:
		// i386 aligns 8-byte integers to 4
		align := 8
		if e.Target.Name == "i386" {
			align = 4
		}
		return TypeLayout{Size: 8, Align: align}, nil
	case mir.TypePtr:
		n := e.Target.ptrSize()
		return TypeLayout{Size: n, Align: n}, nil
	case mir.TypeStruct:
		return e.structLayout(t.Struct, state)
	}
	return TypeLayout{Size: 0, Align: 1}, nil
}

func (e *Engine) structLayout(st *mir.Struct, state *layoutState) (TypeLayout, *Error) {
	key := st.Name
	if cached, ok := e.cache[key]; ok {
		return cached.Layout, cached.Err
	}
	if idx, ok := state.index[key]; ok {
		cycle := append(append([]string(nil), state.stack[idx:]...), key)
		err := &Error{Kind: ErrRecursiveUnsized, Type: key, Cycle: cycle}
		e.cache[key] = cacheEntry{Layout: TypeLayout{Size: 0, Align: 1}, Err: err}
		return TypeLayout{Size: 0, Align: 1}, err
	}

	state.index[key] = len(state.stack)
	state.stack = append(state.stack, key)
	l, err := e.computeStruct(st, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, key)

	e.cache[key] = cacheEntry{Layout: l, Err: err}
	return l, err
}

func (e *Engine) computeStruct(st *mir.Struct, state *layoutState) (TypeLayout, *Error) {
	offsets := make([]int, len(st.Fields))
	var size uint64
	align := 1
	for i, f := range st.Fields {
		fl, err := e.layoutOf(f.Type, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		size = roundUp(size, fl.Align)
		off, convErr := safecast.Conv[int](size)
		if convErr != nil {
			return TypeLayout{Size: 0, Align: 1}, &Error{Kind: ErrTooLarge, Type: st.Name, Err: convErr}
		}
		offsets[i] = off
		size += uint64(fl.Size)
		align = max(align, fl.Align)
	}
	size = roundUp(size, align)
	// sizes must stay addressable on the target
	if e.Target.ptrSize() == 4 {
		if _, err := safecast.Conv[uint32](size); err != nil {
			return TypeLayout{Size: 0, Align: 1}, &Error{Kind: ErrTooLarge, Type: st.Name, Err: err}
		}
	}
	n, err := safecast.Conv[int](size)
	if err != nil {
		return TypeLayout{Size: 0, Align: 1}, &Error{Kind: ErrTooLarge, Type: st.Name, Err: err}
	}
	return TypeLayout{Size: n, Align: align, FieldOffsets: offsets}, nil
}

// SizeOf returns the size of a type in bytes.
func (e *Engine) SizeOf(t *mir.Type) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Size, err
}

// AlignOf returns the alignment requirement of a type in bytes.
func (e *Engine) AlignOf(t *mir.Type) (int, error) {
	l, err := e.LayoutOf(t)
	return l.Align, err
}

// FieldOffset returns the byte offset of a struct field.
func (e *Engine) FieldOffset(structT *mir.Type, fieldIdx int) (int, error) {
	l, err := e.LayoutOf(structT)
	if err != nil {
		return 0, err
	}
	if fieldIdx < 0 || fieldIdx >= len(l.FieldOffsets) {
		return 0, nil
	}
	return l.FieldOffsets[fieldIdx], nil
}

// Module lays out every struct of m, keyed by struct identity.
func (e *Engine) Module(m *mir.Module) (map[string]TypeLayout, error) {
	out := make(map[string]TypeLayout, len(m.Structs))
	for _, st := range m.Structs {
		l, err := e.LayoutOf(&mir.Type{Kind: mir.TypeStruct, Struct: st})
		if err != nil {
			return nil, err
		}
		out[st.Name] = l
	}
	return out, nil
}

func roundUp(n uint64, align int) uint64 {
	if align <= 1 {
		return n
	}
	a := uint64(align)
	if r := n % a; r != 0 {
		return n + (a - r)
	}
	return n
}
