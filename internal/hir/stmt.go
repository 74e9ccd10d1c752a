package hir

import (
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// StmtKind enumerates resolved statement kinds.
type StmtKind uint8

const (
	// StmtLet represents variable declaration.
	StmtLet StmtKind = iota
	// StmtExpr represents an expression evaluated for its effect.
	StmtExpr
	// StmtAssign represents a store into an lvalue.
	StmtAssign
	// StmtReturn represents return statement.
	StmtReturn
	// StmtIf represents if/else statement.
	StmtIf
	// StmtWhile represents while loop.
	StmtWhile
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtExpr:
		return "Expr"
	case StmtAssign:
		return "Assign"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	default:
		return "Unknown"
	}
}

// Stmt represents a resolved statement.
type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

// StmtData is the interface for statement-specific data.
type StmtData interface {
	stmtData()
}

// LetData holds data for StmtLet. Value is nil for a declaration without
// initializer.
type LetData struct {
	Name  string
	Type  *types.Type
	Value *Expr
}

func (LetData) stmtData() {}

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

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr // nil for bare return
}

func (ReturnData) stmtData() {}

// IfData holds data for StmtIf.
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
