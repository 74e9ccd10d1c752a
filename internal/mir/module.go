package mir

import "ferrite/internal/types"

// Module is the concrete module handed to the backend.
type Module struct {
	Name  string
	Width types.PtrWidth
	// Structs lists every struct reachable from a function, dependencies
	// first.
	Structs []*Struct
	Funcs   []*Func
	Entry   string
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

// Struct returns the struct with the given identity.
func (m *Module) Struct(name string) *Struct {
	for _, s := range m.Structs {
		if s.Name == name {
			return s
		}
	}
	return nil
}
