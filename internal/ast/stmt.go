package ast

import "ferrite/internal/source"

// StmtKind enumerates syntactic statement kinds.
type StmtKind uint8

const (
	// StmtLet declares a local: let name: Type = value.
	StmtLet StmtKind = iota
	// StmtReturn returns an optional value.
	StmtReturn
	// StmtExpr evaluates an expression for its effect.
	StmtExpr
	// StmtAssign stores a value into an lvalue.
	StmtAssign
	// StmtIf is if/else with block bodies.
	StmtIf
	// StmtWhile is a while loop.
	StmtWhile
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtReturn:
		return "Return"
	case StmtExpr:
		return "Expr"
	case StmtAssign:
		return "Assign"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	default:
		return "Unknown"
	}
}

// Stmt is a syntactic statement node.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the kind-specific payload of a Stmt.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet. Type may be nil or TypeInfer, in which
// case the initializer's type is used; Value may be nil only when Type is set.
type LetData struct {
	Name  string
	Type  *Type
	Value *Expr
}

func (LetData) stmtData() {}

// ReturnData holds data for StmtReturn; Value is nil for a bare return.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Target *Expr
	Value  *Expr
}

func (AssignData) stmtData() {}

// IfData holds data for StmtIf; Else is nil without an else branch.
type IfData struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt
}

func (IfData) stmtData() {}

// WhileData holds data for StmtWhile.
type WhileData struct {
	Cond *Expr
	Body []*Stmt
}

func (WhileData) stmtData() {}
