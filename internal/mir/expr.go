package mir

import (
	"ferrite/internal/ast"
	"ferrite/internal/source"
)

type ExprKind uint8

const (
	ExprLocal  ExprKind = iota // value of a non-aggregate-by-ref local
	ExprConst                  // integer, bool or string constant
	ExprUnary                  // -x, !x
	ExprBinary                 // operands already cast to Operand
	ExprCast                   // width or signedness change, pointer cast
	ExprCall
	ExprStructLit
	ExprLoad   // read a place
	ExprAddrOf // address of a place
)

func (k ExprKind) String() string {
	switch k {
	case ExprLocal:
		return "Local"
	case ExprConst:
		return "Const"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCast:
		return "Cast"
	case ExprCall:
		return "Call"
	case ExprStructLit:
		return "StructLit"
	case ExprLoad:
		return "Load"
	case ExprAddrOf:
		return "AddrOf"
	default:
		return "Invalid"
	}
}

// Expr is a fully typed concrete expression.
type Expr struct {
	Kind ExprKind
	Type *Type
	Span source.Span
	Data ExprData
}

type ExprData interface {
	exprData()
}

type LocalData struct {
	Local LocalID
}

func (LocalData) exprData() {}

type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstBool
	ConstString
)

type ConstData struct {
	Kind ConstKind
	Int  uint64 // two's complement bits for negative folded values
	Bool bool
	Str  string
}

func (ConstData) exprData() {}

type UnaryData struct {
	Op      ast.ExprUnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds a binary operation. Left and Right both have type
// Operand; the expression type is Operand or bool.
type BinaryData struct {
	Op      ast.ExprBinaryOp
	Left    *Expr
	Right   *Expr
	Operand *Type
}

func (BinaryData) exprData() {}

type CastData struct {
	Value *Expr
}

func (CastData) exprData() {}

// CallData holds a call. Aggregate arguments of declared parameters are
// passed as AddrOf expressions; SRet mirrors the callee.
type CallData struct {
	Symbol   string
	Args     []*Expr
	Variadic int
	SRet     bool
}

func (CallData) exprData() {}

// StructLitData holds field values in declaration order.
type StructLitData struct {
	Fields []*Expr
}

func (StructLitData) exprData() {}

type PlaceData struct {
	Place Place
}

func (PlaceData) exprData() {}

type PlaceProjKind uint8

const (
	PlaceProjDeref PlaceProjKind = iota
	PlaceProjField
	PlaceProjIndex
)

// PlaceProj is one step from a storage location to a sub-location. Deref
// and Index apply to pointer values: Index(i) is *(p + i).
type PlaceProj struct {
	Kind      PlaceProjKind
	FieldName string
	FieldIdx  int
	Index     *Expr
}

// Place names a storage location. The root is a local slot, or, when Local
// is NoLocalID, a temporary holding the value of Base.
type Place struct {
	Local LocalID
	Base  *Expr
	Proj  []PlaceProj
}

func (p Place) IsLocal() bool {
	return p.Local != NoLocalID && len(p.Proj) == 0
}

func (p Place) with(proj PlaceProj) Place {
	out := Place{Local: p.Local, Base: p.Base, Proj: make([]PlaceProj, 0, len(p.Proj)+1)}
	out.Proj = append(out.Proj, p.Proj...)
	out.Proj = append(out.Proj, proj)
	return out
}
