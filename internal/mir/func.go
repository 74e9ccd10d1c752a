package mir

import (
	"ferrite/internal/ast"
	"ferrite/internal/hir"
	"ferrite/internal/source"
)

type LocalID int32

const NoLocalID LocalID = -1

type LocalFlags uint8

const (
	// LocalFlagParam marks parameter slots; they come first in Locals.
	LocalFlagParam LocalFlags = 1 << iota
	// LocalFlagByRef marks a parameter holding the address of an aggregate
	// argument; its Type is the pointer type.
	LocalFlagByRef
)

// Local is one storage slot of a function.
type Local struct {
	Name  string
	Type  *Type
	Flags LocalFlags
	Span  source.Span
}

// Param is one declared parameter. Type is the declared type; for ByRef
// parameters the callee receives *Type.
type Param struct {
	Name  string
	Type  *Type
	Local LocalID
	ByRef bool
}

// Func is one concrete function.
type Func struct {
	Name     string
	Symbol   string
	Identity string
	Params   []Param
	Result   *Type
	// SRet is set when Result is an aggregate returned through a hidden
	// pointer supplied by the caller.
	SRet   bool
	Alloc  ast.AllocMode
	Flags  hir.FuncFlags
	Locals []Local
	Body   []*Stmt // nil for intrinsics
	Span   source.Span
}

func (f *Func) IsIntrinsic() bool {
	return f.Flags.HasFlag(hir.FuncIntrinsic)
}

func (f *Func) addLocal(l Local) LocalID {
	f.Locals = append(f.Locals, l)
	return LocalID(len(f.Locals) - 1)
}
