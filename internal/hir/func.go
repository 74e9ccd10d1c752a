package hir

import (
	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// FuncFlags represents function modifiers as a bitmask.
type FuncFlags uint32

const (
	// FuncIntrinsic indicates a compiler-provided function without body.
	FuncIntrinsic FuncFlags = 1 << iota
	// FuncEntrypoint indicates the program entry point.
	FuncEntrypoint
	// FuncInstance indicates an instantiation of a generic function.
	FuncInstance
	// FuncMethod indicates an interface implementation (Recv::method).
	FuncMethod
	// FuncVariadic indicates extra arguments after the declared ones.
	FuncVariadic
)

// HasFlag returns true if the given flag is set.
func (f FuncFlags) HasFlag(flag FuncFlags) bool {
	return f&flag != 0
}

// String returns a human-readable representation of flags.
func (f FuncFlags) String() string {
	s := ""
	if f.HasFlag(FuncIntrinsic) {
		s += "@intrinsic "
	}
	if f.HasFlag(FuncEntrypoint) {
		s += "@entrypoint "
	}
	if f.HasFlag(FuncInstance) {
		s += "@instance "
	}
	if f.HasFlag(FuncMethod) {
		s += "@method "
	}
	if f.HasFlag(FuncVariadic) {
		s += "@variadic "
	}
	return s
}

// Param represents a function parameter.
type Param struct {
	Name string
	Type *types.Type
	Span source.Span
}

// Func is one resolved, generics-free function instantiation.
type Func struct {
	// Name is the declared name.
	Name string
	// Identity is the mangled identity name(args)->ret.
	Identity string
	// Symbol is the backend symbol.
	Symbol      string
	GenericArgs []*types.Type
	Params      []Param
	Result      *types.Type
	Alloc       ast.AllocMode
	Flags       FuncFlags
	Body        []*Stmt // nil for intrinsics
	Span        source.Span
}
