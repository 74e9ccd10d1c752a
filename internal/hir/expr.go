package hir

import (
	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// ExprKind enumerates resolved expression kinds.
type ExprKind uint8

const (
	// ExprVar represents a variable reference.
	ExprVar ExprKind = iota
	// ExprLiteral represents int, bool and string literals.
	ExprLiteral
	// ExprUnaryOp represents -x, !x, *x and &x.
	ExprUnaryOp
	// ExprBinaryOp represents binary operators with their promotion.
	ExprBinaryOp
	// ExprCall represents a call of one concrete instantiation.
	ExprCall
	// ExprStructLit represents struct literals.
	ExprStructLit
	// ExprIndex represents pointer indexing.
	ExprIndex
	// ExprFieldAccess represents field access.
	ExprFieldAccess
	// ExprCast represents an explicit conversion.
	ExprCast
)

func (k ExprKind) String() string {
	switch k {
	case ExprVar:
		return "Var"
	case ExprLiteral:
		return "Literal"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprCall:
		return "Call"
	case ExprStructLit:
		return "StructLit"
	case ExprIndex:
		return "Index"
	case ExprFieldAccess:
		return "FieldAccess"
	case ExprCast:
		return "Cast"
	default:
		return "Unknown"
	}
}

// Expr is a typed expression. Type is never nil; it is types.Unknown after
// a reported error.
type Expr struct {
	Kind ExprKind
	Type *types.Type
	Span source.Span
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// VarData holds data for ExprVar.
type VarData struct {
	Name string
}

func (VarData) exprData() {}

// LiteralData holds data for ExprLiteral.
type LiteralData struct {
	Kind      ast.LitKind
	Text      string
	IntValue  uint64
	BoolValue bool
}

func (LiteralData) exprData() {}

// UnaryOpData holds data for ExprUnaryOp.
type UnaryOpData struct {
	Op      ast.ExprUnaryOp
	Operand *Expr
}

func (UnaryOpData) exprData() {}

// BinaryOpData holds data for ExprBinaryOp. Operand is the type both sides
// share after promotion; it differs from the expression type for
// comparisons. Promotion is set only for numeric operands.
type BinaryOpData struct {
	Op        ast.ExprBinaryOp
	Left      *Expr
	Right     *Expr
	Operand   *types.Type
	Promotion *types.Promotion
}

func (BinaryOpData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	// Name is the callee as written (Recv::method for method calls).
	Name string
	// Identity is the mangled instantiation identity, empty when the call
	// could not be specialized.
	Identity string
	// Symbol is the backend symbol of the instantiation.
	Symbol string
	Args   []*Expr
	// Variadic counts trailing arguments bound to the variadic marker.
	Variadic int
}

func (CallData) exprData() {}

// Resolved reports whether the call was bound to an instantiation.
func (c CallData) Resolved() bool {
	return c.Identity != ""
}

// FieldInit is one initializer of a struct literal, Index being the position
// of the field in the struct declaration.
type FieldInit struct {
	Name  string
	Index int
	Value *Expr
	Span  source.Span
}

// StructLitData holds data for ExprStructLit. Fields keep literal order.
type StructLitData struct {
	Fields []FieldInit
}

func (StructLitData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Target *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// FieldAccessData holds data for ExprFieldAccess.
type FieldAccessData struct {
	Target   *Expr
	Field    string
	FieldIdx int // -1 if unknown
}

func (FieldAccessData) exprData() {}

// CastData holds data for ExprCast; the target type is Expr.Type.
type CastData struct {
	Value *Expr
}

func (CastData) exprData() {}

// IsLvalue reports whether e denotes a storage location.
func (e *Expr) IsLvalue() bool {
	switch e.Kind {
	case ExprVar, ExprIndex:
		return true
	case ExprFieldAccess:
		return e.Data.(FieldAccessData).Target.IsLvalue()
	case ExprUnaryOp:
		return e.Data.(UnaryOpData).Op == ast.ExprUnaryDeref
	}
	return false
}
