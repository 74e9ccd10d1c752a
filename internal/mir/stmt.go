package mir

import "ferrite/internal/source"

type StmtKind uint8

const (
	StmtLet StmtKind = iota
	StmtEval
	StmtStore
	StmtReturn
	StmtIf
	StmtWhile
)

func (k StmtKind) String() string {
	switch k {
	case StmtLet:
		return "Let"
	case StmtEval:
		return "Eval"
	case StmtStore:
		return "Store"
	case StmtReturn:
		return "Return"
	case StmtIf:
		return "If"
	case StmtWhile:
		return "While"
	default:
		return "Invalid"
	}
}

type Stmt struct {
	Kind StmtKind
	Span source.Span
	Data StmtData
}

type StmtData interface {
	stmtData()
}

// LetData initializes a local; Value is nil for declarations without an
// initializer.
type LetData struct {
	Local LocalID
	Value *Expr
}

func (LetData) stmtData() {}

type EvalData struct {
	Expr *Expr
}

func (EvalData) stmtData() {}

type StoreData struct {
	Place Place
	Value *Expr
}

func (StoreData) stmtData() {}

type ReturnData struct {
	Value *Expr // nil for void
}

func (ReturnData) stmtData() {}

type IfData struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt
}

func (IfData) stmtData() {}

type WhileData struct {
	Cond *Expr
	Body []*Stmt
}

func (WhileData) stmtData() {}
