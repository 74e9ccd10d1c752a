package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/types"
)

// resolveStructLit resolves Name<Args>{...}. Generic arguments come from
// the literal itself, else from a same-family annotation, else from the
// field values.
func (tc *typeChecker) resolveStructLit(e *ast.Expr, d ast.StructLitData, ann *types.Type) (*hir.Expr, error) {
	def, ok := tc.structs[d.Name]
	if !ok {
		tc.report(diag.SemaTypeNotFound, e.Span, "type `%s` not found", d.Name)
		return emptyStructLit(e), nil
	}

	// values resolved ahead of time while inferring generic arguments
	pre := map[int]*hir.Expr{}

	var args []*types.Type
	switch {
	case d.GenericArgs != nil:
		if len(d.GenericArgs) != len(def.Generics) {
			tc.report(diag.SemaGenericArity, e.Span,
				"type `%s` expects %d generic arguments, got %d", d.Name, len(def.Generics), len(d.GenericArgs))
			return emptyStructLit(e), nil
		}
		args = make([]*types.Type, len(d.GenericArgs))
		for i, a := range d.GenericArgs {
			args[i] = tc.resolveType(a)
		}
	case len(def.Generics) == 0:
	case ann.IsStruct() && ann.Struct.BaseName == def.Name && len(ann.Struct.Args) == len(def.Generics):
		args = ann.Struct.Args
	default:
		var err error
		args, err = tc.inferStructArgs(e, d, def, pre)
		if err != nil {
			return nil, err
		}
		if args == nil {
			return emptyStructLit(e), nil
		}
	}
	for _, a := range args {
		if a.IsUnknown() {
			return emptyStructLit(e), nil
		}
	}
	if !tc.checkRestrictions(def.Generics, args, e.Span) {
		return emptyStructLit(e), nil
	}

	st := tc.instantiateStruct(def, args, e.Span)
	if st.IsUnknown() {
		return emptyStructLit(e), nil
	}

	fields := make([]hir.FieldInit, 0, len(d.Fields))
	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		idx := st.Struct.FieldIndex(f.Name)
		var fieldType *types.Type
		if idx >= 0 {
			fieldType = st.Struct.Fields[idx].Type
		}
		value := pre[i]
		if value == nil {
			v, err := tc.resolveExpr(f.Value, fieldType)
			if err != nil {
				return nil, err
			}
			value = v
		}
		switch {
		case idx < 0:
			tc.report(diag.SemaUnknownField, f.Span, "type `%s` has no field `%s`", st.Struct.Name, f.Name)
			continue
		case seen[f.Name]:
			tc.report(diag.SemaDuplicateField, f.Span, "field `%s` is initialized more than once", f.Name)
			continue
		}
		seen[f.Name] = true
		if !types.CanInsert(fieldType, value.Type) {
			tc.report(diag.SemaTypeMismatch, f.Value.Span,
				"field `%s` has type `%s`, got `%s`", f.Name, fieldType, value.Type)
		}
		fields = append(fields, hir.FieldInit{Name: f.Name, Index: idx, Value: value, Span: f.Span})
	}
	for _, decl := range st.Struct.Fields {
		if !seen[decl.Name] {
			tc.report(diag.SemaFieldNotFound, e.Span, "missing field `%s` in literal of `%s`", decl.Name, st.Struct.Name)
		}
	}
	return &hir.Expr{Kind: hir.ExprStructLit, Type: st, Span: e.Span, Data: hir.StructLitData{Fields: fields}}, nil
}

func emptyStructLit(e *ast.Expr) *hir.Expr {
	return &hir.Expr{Kind: hir.ExprStructLit, Type: types.Unknown, Span: e.Span, Data: hir.StructLitData{}}
}

// inferStructArgs binds the generic parameters of def by unifying declared
// field types with the types of the literal's values. Resolved values are
// stored in pre by field position. A nil result means inference failed and
// was reported.
func (tc *typeChecker) inferStructArgs(e *ast.Expr, d ast.StructLitData, def *ast.TypeDefData, pre map[int]*hir.Expr) ([]*types.Type, error) {
	declared := make(map[string]*ast.Type, len(def.Fields))
	for _, f := range def.Fields {
		declared[f.Name] = f.Type
	}
	params := make(map[string]bool, len(def.Generics))
	for _, gp := range def.Generics {
		params[gp.Name] = true
	}
	bound := make(map[string]*types.Type, len(def.Generics))
	for i, f := range d.Fields {
		v, err := tc.resolveExpr(f.Value, nil)
		if err != nil {
			return nil, err
		}
		pre[i] = v
		if pattern, ok := declared[f.Name]; ok {
			unify(pattern, v.Type, params, bound)
		}
	}
	args := make([]*types.Type, len(def.Generics))
	for i, gp := range def.Generics {
		t, ok := bound[gp.Name]
		if !ok {
			tc.report(diag.SemaCannotInferGenerics, e.Span,
				"cannot infer generic argument `%s` of `%s`; pass it explicitly", gp.Name, def.Name)
			return nil, nil
		}
		args[i] = t
	}
	return args, nil
}

// unify matches a declared type pattern against an actual type and binds
// generic parameter names on first sight.
func unify(pattern *ast.Type, actual *types.Type, params map[string]bool, bound map[string]*types.Type) {
	if pattern == nil || actual.IsUnknown() {
		return
	}
	switch pattern.Kind {
	case ast.TypePtr:
		if actual.IsPointer() {
			unify(pattern.Elem, actual.Elem, params, bound)
		}
	case ast.TypeRef:
		if params[pattern.Name] && len(pattern.Args) == 0 {
			if _, ok := bound[pattern.Name]; !ok {
				bound[pattern.Name] = actual
			}
			return
		}
		if actual.IsStruct() && actual.Struct.BaseName == pattern.Name && len(actual.Struct.Args) == len(pattern.Args) {
			for i, a := range pattern.Args {
				unify(a, actual.Struct.Args[i], params, bound)
			}
		}
	}
}
