package mir

import (
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/hir"
	"ferrite/internal/source"
	"ferrite/internal/symbols"
	"ferrite/internal/types"
)

type lowerer struct {
	width types.PtrWidth
	// checkedWidth is the width the resolver used, zero when unknown.
	checkedWidth types.PtrWidth
	mod          *Module
	structs      map[string]*Type

	// per function
	hfn   *hir.Func
	fn    *Func
	scope *symbols.Stack[LocalID]
}

// Lower concretizes a resolved module for the given pointer width. The
// input must be free of unknown and generic types; any breach is a
// resolver defect and panics with *InvariantError.
func Lower(m *hir.Module, width types.PtrWidth) *Module {
	l := &lowerer{
		width:        width,
		checkedWidth: m.Width,
		structs:      make(map[string]*Type),
		mod:          &Module{Name: m.Name, Width: width, Entry: m.Entry},
	}
	if !width.Valid() {
		l.fail(source.Span{}, "unsupported pointer width %d", width)
	}
	for _, st := range m.Structs {
		l.lowerType(st, source.Span{})
	}
	l.mod.Funcs = make([]*Func, 0, len(m.Funcs))
	for _, f := range m.Funcs {
		l.mod.Funcs = append(l.mod.Funcs, l.lowerFunc(f))
	}
	return l.mod
}

// TryLower is Lower with invariant panics returned as errors. Other
// panics propagate.
func TryLower(m *hir.Module, width types.PtrWidth) (out *Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InvariantError)
			if !ok {
				panic(r)
			}
			out, err = nil, ie
		}
	}()
	return Lower(m, width), nil
}

func (l *lowerer) fail(sp source.Span, format string, args ...any) {
	name := ""
	if l.hfn != nil {
		name = l.hfn.Identity
	}
	panic(&InvariantError{Func: name, Span: sp, Msg: fmt.Sprintf(format, args...)})
}

func (l *lowerer) lowerType(t *types.Type, sp source.Span) *Type {
	if t.IsUnknown() {
		l.fail(sp, "unknown type reached the concretizer")
	}
	switch t.Kind {
	case types.KindGeneric:
		l.fail(sp, "unbound generic parameter %s reached the concretizer", t.Generic.Name)
	case types.KindPointer:
		return PtrTo(l.lowerType(t.Elem, sp))
	case types.KindStruct:
		return l.lowerStruct(t, sp)
	}
	ct := FromKind(types.Concrete(t.Kind, l.width))
	if ct == nil {
		l.fail(sp, "no concrete type for %s", t)
	}
	return ct
}

// lowerStruct returns the concrete struct for t. The shell is cached before
// the fields are lowered so that self reference through a pointer ends on
// the shell; Structs receives the struct after its by-value dependencies.
func (l *lowerer) lowerStruct(t *types.Type, sp source.Span) *Type {
	if ct, ok := l.structs[t.Struct.Name]; ok {
		return ct
	}
	ct := &Type{Kind: TypeStruct, Struct: &Struct{Name: t.Struct.Name, BaseName: t.Struct.BaseName}}
	l.structs[t.Struct.Name] = ct
	fields := make([]Field, len(t.Struct.Fields))
	for i, f := range t.Struct.Fields {
		fields[i] = Field{Name: f.Name, Type: l.lowerType(f.Type, sp)}
	}
	ct.Struct.Fields = fields
	l.mod.Structs = append(l.mod.Structs, ct.Struct)
	return ct
}

func (l *lowerer) lowerFunc(f *hir.Func) *Func {
	l.hfn = f
	fn := &Func{
		Name:     f.Name,
		Symbol:   f.Symbol,
		Identity: f.Identity,
		Result:   l.lowerType(f.Result, f.Span),
		Alloc:    f.Alloc,
		Flags:    f.Flags,
		Span:     f.Span,
	}
	fn.SRet = fn.Result.IsAggregate()
	l.fn = fn
	l.scope = symbols.NewStack[LocalID]()
	defer l.scope.Push(symbols.ScopeFunction)()

	for _, p := range f.Params {
		ty := l.lowerType(p.Type, p.Span)
		local := Local{Name: p.Name, Type: ty, Flags: LocalFlagParam, Span: p.Span}
		byRef := ty.IsAggregate()
		if byRef {
			local.Type = PtrTo(ty)
			local.Flags |= LocalFlagByRef
		}
		id := fn.addLocal(local)
		l.scope.Define(p.Name, id)
		fn.Params = append(fn.Params, Param{Name: p.Name, Type: ty, Local: id, ByRef: byRef})
	}
	if f.Body == nil {
		return fn
	}

	fn.Body = make([]*Stmt, 0, len(f.Body)+1)
	// a by-reference parameter that the body writes to or takes the
	// address of gets a private copy: the caller's value must not change
	written := writtenVars(f.Body)
	for _, p := range fn.Params {
		if !p.ByRef || !written[p.Name] {
			continue
		}
		id := fn.addLocal(Local{Name: p.Name, Type: p.Type, Span: f.Span})
		fn.Body = append(fn.Body, &Stmt{Kind: StmtLet, Span: f.Span, Data: LetData{
			Local: id,
			Value: &Expr{Kind: ExprLoad, Type: p.Type, Span: f.Span, Data: PlaceData{Place: Place{
				Local: p.Local,
				Proj:  []PlaceProj{{Kind: PlaceProjDeref}},
			}}},
		}})
		l.scope.Define(p.Name, id)
	}
	fn.Body = append(fn.Body, l.lowerBlock(f.Body)...)
	return fn
}

// writtenVars collects variables that are assigned through a field path
// or whose address is taken.
func writtenVars(body []*hir.Stmt) map[string]bool {
	out := make(map[string]bool)
	root := func(e *hir.Expr) {
		for e != nil {
			switch e.Kind {
			case hir.ExprVar:
				out[e.Data.(hir.VarData).Name] = true
				return
			case hir.ExprFieldAccess:
				e = e.Data.(hir.FieldAccessData).Target
			default:
				return
			}
		}
	}
	var walk func([]*hir.Stmt)
	walk = func(stmts []*hir.Stmt) {
		for _, s := range stmts {
			switch d := s.Data.(type) {
			case hir.AssignData:
				root(d.Target)
			case hir.IfData:
				walk(d.Then)
				walk(d.Else)
			case hir.WhileData:
				walk(d.Body)
			}
		}
	}
	walk(body)
	hir.InspectStmts(body, func(e *hir.Expr) bool {
		if u, ok := e.Data.(hir.UnaryOpData); ok && u.Op == ast.ExprUnaryRef {
			root(u.Operand)
		}
		return true
	})
	return out
}

func (l *lowerer) lowerBlock(stmts []*hir.Stmt) []*Stmt {
	out := make([]*Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s))
	}
	return out
}

func (l *lowerer) lowerNested(stmts []*hir.Stmt) []*Stmt {
	if stmts == nil {
		return nil
	}
	defer l.scope.Push(symbols.ScopeBlock)()
	return l.lowerBlock(stmts)
}

func (l *lowerer) lowerStmt(s *hir.Stmt) *Stmt {
	out := &Stmt{Span: s.Span}
	switch d := s.Data.(type) {
	case hir.LetData:
		ty := l.lowerType(d.Type, s.Span)
		var value *Expr
		if d.Value != nil {
			value = l.lowerExpr(d.Value)
		}
		id := l.fn.addLocal(Local{Name: d.Name, Type: ty, Span: s.Span})
		l.scope.Define(d.Name, id)
		out.Kind, out.Data = StmtLet, LetData{Local: id, Value: value}
	case hir.ExprStmtData:
		out.Kind, out.Data = StmtEval, EvalData{Expr: l.lowerExpr(d.Expr)}
	case hir.AssignData:
		place := l.place(d.Target)
		out.Kind, out.Data = StmtStore, StoreData{Place: place, Value: l.lowerExpr(d.Value)}
	case hir.ReturnData:
		var value *Expr
		if d.Value != nil {
			value = l.lowerExpr(d.Value)
		}
		out.Kind, out.Data = StmtReturn, ReturnData{Value: value}
	case hir.IfData:
		out.Kind, out.Data = StmtIf, IfData{
			Cond: l.lowerExpr(d.Cond),
			Then: l.lowerNested(d.Then),
			Else: l.lowerNested(d.Else),
		}
	case hir.WhileData:
		body := l.lowerNested(d.Body)
		if body == nil {
			body = []*Stmt{}
		}
		out.Kind, out.Data = StmtWhile, WhileData{Cond: l.lowerExpr(d.Cond), Body: body}
	default:
		l.fail(s.Span, "unexpected statement %s", s.Kind)
	}
	return out
}

func (l *lowerer) widthNote() string {
	if l.checkedWidth == 0 || l.checkedWidth == l.width {
		return ""
	}
	return fmt.Sprintf(" (module checked at %d bits)", l.checkedWidth)
}
