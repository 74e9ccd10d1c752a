package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/symbols"
	"ferrite/internal/types"
)

func (tc *typeChecker) resolveBlock(stmts []*ast.Stmt) ([]*hir.Stmt, error) {
	out := make([]*hir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		hs, err := tc.resolveStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, hs)
	}
	return out, nil
}

// resolveNested resolves a block in its own variable frame.
func (tc *typeChecker) resolveNested(stmts []*ast.Stmt) ([]*hir.Stmt, error) {
	if stmts == nil {
		return nil, nil
	}
	defer tc.varScope.Push(symbols.ScopeBlock)()
	return tc.resolveBlock(stmts)
}

func (tc *typeChecker) resolveStmt(s *ast.Stmt) (*hir.Stmt, error) {
	switch d := s.Data.(type) {
	case ast.LetData:
		return tc.resolveLet(s, d)

	case ast.ReturnData:
		return tc.resolveReturn(s, d)

	case ast.ExprStmtData:
		e, err := tc.resolveExpr(d.Expr, nil)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtExpr, Span: s.Span, Data: hir.ExprStmtData{Expr: e}}, nil

	case ast.AssignData:
		return tc.resolveAssign(s, d)

	case ast.IfData:
		cond, err := tc.resolveCond(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := tc.resolveNested(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := tc.resolveNested(d.Else)
		if err != nil {
			return nil, err
		}
		return &hir.Stmt{Kind: hir.StmtIf, Span: s.Span, Data: hir.IfData{Cond: cond, Then: then, Else: els}}, nil

	case ast.WhileData:
		cond, err := tc.resolveCond(d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := tc.resolveNested(d.Body)
		if err != nil {
			return nil, err
		}
		if body == nil {
			body = []*hir.Stmt{}
		}
		return &hir.Stmt{Kind: hir.StmtWhile, Span: s.Span, Data: hir.WhileData{Cond: cond, Body: body}}, nil
	}
	panic("sema: unexpected statement payload")
}

func (tc *typeChecker) resolveLet(s *ast.Stmt, d ast.LetData) (*hir.Stmt, error) {
	var declared *types.Type
	if !d.Type.IsInfer() {
		declared = tc.resolveType(d.Type)
	}
	var value *hir.Expr
	if d.Value != nil {
		v, err := tc.resolveExpr(d.Value, declared)
		if err != nil {
			return nil, err
		}
		value = v
	}

	ty := declared
	switch {
	case declared == nil && value == nil:
		tc.report(diag.SemaTypeNotFound, s.Span, "variable `%s` needs a type annotation or an initializer", d.Name)
		ty = types.Unknown
	case declared == nil:
		ty = value.Type
		if ty.Kind == types.KindVoid {
			tc.report(diag.SemaTypeMismatch, d.Value.Span, "cannot bind `%s` to a void value", d.Name)
			ty = types.Unknown
		}
	case value != nil && !types.CanInsert(declared, value.Type):
		tc.report(diag.SemaAssignMismatch, d.Value.Span,
			"cannot initialize `%s` of type `%s` with a value of type `%s`", d.Name, declared, value.Type)
	}
	tc.varScope.Define(d.Name, ty)
	return &hir.Stmt{Kind: hir.StmtLet, Span: s.Span, Data: hir.LetData{Name: d.Name, Type: ty, Value: value}}, nil
}

func (tc *typeChecker) resolveReturn(s *ast.Stmt, d ast.ReturnData) (*hir.Stmt, error) {
	ret := tc.returnType
	if ret == nil {
		ret = types.Void
	}
	out := &hir.Stmt{Kind: hir.StmtReturn, Span: s.Span}
	if d.Value == nil {
		if ret.Kind != types.KindVoid && !ret.IsUnknown() {
			tc.report(diag.SemaReturnMismatch, s.Span, "missing return value of type `%s`", ret)
		}
		out.Data = hir.ReturnData{}
		return out, nil
	}
	var ann *types.Type
	if ret.Kind != types.KindVoid {
		ann = ret
	}
	v, err := tc.resolveExpr(d.Value, ann)
	if err != nil {
		return nil, err
	}
	if !types.CanInsert(ret, v.Type) {
		tc.report(diag.SemaReturnMismatch, d.Value.Span, "cannot return `%s` from a function returning `%s`", v.Type, ret)
	}
	out.Data = hir.ReturnData{Value: v}
	return out, nil
}

func (tc *typeChecker) resolveAssign(s *ast.Stmt, d ast.AssignData) (*hir.Stmt, error) {
	target, err := tc.resolveExpr(d.Target, nil)
	if err != nil {
		return nil, err
	}
	if !target.IsLvalue() {
		tc.report(diag.SemaNotAssignable, d.Target.Span, "cannot assign to this expression")
	}
	var ann *types.Type
	if !target.Type.IsUnknown() {
		ann = target.Type
	}
	value, err := tc.resolveExpr(d.Value, ann)
	if err != nil {
		return nil, err
	}
	if !types.CanInsert(target.Type, value.Type) {
		tc.report(diag.SemaAssignMismatch, d.Value.Span,
			"cannot assign a value of type `%s` to a location of type `%s`", value.Type, target.Type)
	}
	return &hir.Stmt{Kind: hir.StmtAssign, Span: s.Span, Data: hir.AssignData{Target: target, Value: value}}, nil
}

func (tc *typeChecker) resolveCond(e *ast.Expr) (*hir.Expr, error) {
	cond, err := tc.resolveExpr(e, types.Bool)
	if err != nil {
		return nil, err
	}
	if !types.CanInsert(types.Bool, cond.Type) {
		tc.report(diag.SemaTypeMismatch, e.Span, "condition has type `%s`, expected `bool`", cond.Type)
	}
	return cond, nil
}
