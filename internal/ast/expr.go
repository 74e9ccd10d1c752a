package ast

import "ferrite/internal/source"

// ExprKind enumerates syntactic expression kinds.
type ExprKind uint8

const (
	// ExprIdent is a variable reference.
	ExprIdent ExprKind = iota
	// ExprLit is an integer, bool or string literal.
	ExprLit
	// ExprUnary is -x, !x, *x or &x.
	ExprUnary
	// ExprBinary is an arithmetic, logical or comparison operator.
	ExprBinary
	// ExprCall is a call of a named function, optionally qualified as Recv::method.
	ExprCall
	// ExprStructLit is Name<Args>{ field: value, ... }.
	ExprStructLit
	// ExprIndex is target[index]; target must be a pointer.
	ExprIndex
	// ExprField is target.field.
	ExprField
	// ExprCast is value as Type.
	ExprCast
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Lit"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprStructLit:
		return "StructLit"
	case ExprIndex:
		return "Index"
	case ExprField:
		return "Field"
	case ExprCast:
		return "Cast"
	default:
		return "Unknown"
	}
}

// Expr is a syntactic expression node.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the kind-specific payload of an Expr.
type ExprData interface {
	exprData()
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitBool
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitBool:
		return "bool"
	case LitString:
		return "string"
	default:
		return "?"
	}
}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// LitData holds data for ExprLit. Text is the raw source text for ints
// ("42", "0xff"), "true"/"false" for bools and the unquoted value for strings.
type LitData struct {
	Kind LitKind
	Text string
}

func (LitData) exprData() {}

// UnaryData holds data for ExprUnary.
type UnaryData struct {
	Op      ExprUnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    ExprBinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	// Recv is the receiver type name for Recv::method calls, empty otherwise.
	Recv string
	Name string
	// GenericArgs is nil when no explicit generic arguments were written.
	GenericArgs []*Type
	Args        []*Expr
}

func (CallData) exprData() {}

// QualifiedName returns Recv::Name or Name.
func (c CallData) QualifiedName() string {
	if c.Recv == "" {
		return c.Name
	}
	return c.Recv + "::" + c.Name
}

// FieldInit is one field: value pair of a struct literal.
type FieldInit struct {
	Name  string
	Value *Expr
	Span  source.Span
}

// StructLitData holds data for ExprStructLit.
type StructLitData struct {
	Name        string
	GenericArgs []*Type
	Fields      []FieldInit
}

func (StructLitData) exprData() {}

// IndexData holds data for ExprIndex.
type IndexData struct {
	Target *Expr
	Index  *Expr
}

func (IndexData) exprData() {}

// FieldData holds data for ExprField.
type FieldData struct {
	Target *Expr
	Field  string
}

func (FieldData) exprData() {}

// CastData holds data for ExprCast.
type CastData struct {
	Value *Expr
	Type  *Type
}

func (CastData) exprData() {}

// Ident returns the payload of an ExprIdent node.
func (e *Expr) Ident() (IdentData, bool) {
	d, ok := e.Data.(IdentData)
	return d, ok
}
