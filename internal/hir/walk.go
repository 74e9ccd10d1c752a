package hir

// Inspect visits e and its children depth-first; returning false from fn
// skips the children of that node.
func Inspect(e *Expr, fn func(*Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch d := e.Data.(type) {
	case UnaryOpData:
		Inspect(d.Operand, fn)
	case BinaryOpData:
		Inspect(d.Left, fn)
		Inspect(d.Right, fn)
	case CallData:
		for _, a := range d.Args {
			Inspect(a, fn)
		}
	case StructLitData:
		for _, f := range d.Fields {
			Inspect(f.Value, fn)
		}
	case IndexData:
		Inspect(d.Target, fn)
		Inspect(d.Index, fn)
	case FieldAccessData:
		Inspect(d.Target, fn)
	case CastData:
		Inspect(d.Value, fn)
	}
}

// InspectStmts visits every expression in a statement list, including
// nested blocks.
func InspectStmts(stmts []*Stmt, fn func(*Expr) bool) {
	for _, s := range stmts {
		switch d := s.Data.(type) {
		case LetData:
			Inspect(d.Value, fn)
		case ExprStmtData:
			Inspect(d.Expr, fn)
		case AssignData:
			Inspect(d.Target, fn)
			Inspect(d.Value, fn)
		case ReturnData:
			Inspect(d.Value, fn)
		case IfData:
			Inspect(d.Cond, fn)
			InspectStmts(d.Then, fn)
			InspectStmts(d.Else, fn)
		case WhileData:
			Inspect(d.Cond, fn)
			InspectStmts(d.Body, fn)
		}
	}
}
