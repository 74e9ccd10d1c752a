package hir

import "ferrite/internal/types"

// Module is the resolved module: every reachable instantiation plus every
// non-generic function, in resolution order.
type Module struct {
	Name  string
	Funcs []*Func
	// Structs holds the concrete struct instantiations in first-use order.
	Structs []*types.Type
	// Entry is the symbol of the entry function, empty in library mode.
	Entry string
	// Width is the pointer width the module was checked at. Mixed
	// arithmetic on usize is promoted under it, so such a module lowers
	// only at the same width.
	Width types.PtrWidth
}

// Func returns the function with the given symbol.
func (m *Module) Func(symbol string) *Func {
	for _, f := range m.Funcs {
		if f.Symbol == symbol {
			return f
		}
	}
	return nil
}

// FuncsNamed returns every instantiation of the declared name.
func (m *Module) FuncsNamed(name string) []*Func {
	var out []*Func
	for _, f := range m.Funcs {
		if f.Name == name {
			out = append(out, f)
		}
	}
	return out
}
