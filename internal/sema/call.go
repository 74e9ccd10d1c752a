package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/mono"
	"ferrite/internal/symbols"
	"ferrite/internal/types"
)

// signature resolves the parameter and return types of fe with its generic
// parameters bound positionally to args, in a fresh type stack.
func (tc *typeChecker) signature(fe *fnEntry, args []*types.Type) (params []*types.Type, ret *types.Type) {
	saved := tc.typeScope
	tc.typeScope = tc.newTypeScope()
	defer func() { tc.typeScope = saved }()
	defer tc.typeScope.Push(symbols.ScopeGeneric)()

	decl := fe.fn.Decl
	for i, gp := range decl.Generics {
		if i < len(args) {
			tc.typeScope.Define(gp.Name, args[i])
		}
	}
	params = make([]*types.Type, len(decl.Params))
	for i, p := range decl.Params {
		params[i] = tc.resolveType(p.Type)
	}
	return params, tc.resolveType(decl.Ret)
}

// templateArgs binds every generic parameter of decl to itself.
func templateArgs(decl *ast.FnDecl) []*types.Type {
	args := make([]*types.Type, len(decl.Generics))
	for i, gp := range decl.Generics {
		args[i] = types.NewGeneric(gp.Name, gp.Restrictions...)
	}
	return args
}

// lookupCallee finds the callee of a call. For Recv::method the receiver
// may be a generic parameter in scope; it is replaced by the base name of
// its binding. A receiver bound to an unbound generic yields (nil, true):
// the call is inside a template check and resolves to Unknown.
func (tc *typeChecker) lookupCallee(d ast.CallData) (fe *fnEntry, template bool) {
	if d.Recv == "" {
		return tc.funcs[d.Name], false
	}
	recv := d.Recv
	if _, isStruct := tc.structs[recv]; !isStruct {
		if bound, ok := tc.typeScope.Lookup(recv); ok {
			if bound.Kind == types.KindGeneric || bound.IsUnknown() {
				return nil, true
			}
			recv = bound.BaseName()
		}
	}
	return tc.funcs[recv+"::"+d.Name], false
}

// resolveCall implements the specialization state machine of a call site:
// explicit generic arguments, non-generic callee, inference from the
// expected return type, and the unresolved fallback, in that order.
func (tc *typeChecker) resolveCall(e *ast.Expr, d ast.CallData, ann *types.Type) (*hir.Expr, error) {
	name := d.QualifiedName()
	fe, template := tc.lookupCallee(d)
	if template {
		args, err := tc.resolveArgsUnannotated(d.Args)
		if err != nil {
			return nil, err
		}
		return unresolvedCall(e, name, args), nil
	}
	if fe == nil {
		return nil, &FatalError{Span: e.Span, Callee: name}
	}
	decl := fe.fn.Decl

	var generics []*types.Type
	switch {
	case d.GenericArgs != nil:
		if len(d.GenericArgs) != len(decl.Generics) {
			tc.report(diag.SemaGenericArity, e.Span,
				"function `%s` expects %d generic arguments, got %d", name, len(decl.Generics), len(d.GenericArgs))
			if err := tc.scheduleTemplate(fe, e); err != nil {
				return nil, err
			}
			args, err := tc.resolveArgsUnannotated(d.Args)
			if err != nil {
				return nil, err
			}
			return unresolvedCall(e, name, args), nil
		}
		generics = make([]*types.Type, len(d.GenericArgs))
		for i, a := range d.GenericArgs {
			generics[i] = tc.resolveType(a)
		}

	case !decl.IsGeneric():
		// plain call, memoized by identity below

	default:
		var ok bool
		generics, ok = tc.inferFromAnnotation(e, name, decl, ann)
		if !ok {
			return unresolvedCall(e, name, nil), nil
		}
	}

	for _, g := range generics {
		if g.IsUnknown() {
			args, err := tc.resolveArgsUnannotated(d.Args)
			if err != nil {
				return nil, err
			}
			return unresolvedCall(e, name, args), nil
		}
	}
	if !tc.checkRestrictions(decl.Generics, generics, e.Span) {
		return unresolvedCall(e, name, nil), nil
	}

	params, ret := tc.signature(fe, generics)
	args, variadic, err := tc.resolveArgs(e, name, decl, params, d.Args)
	if err != nil {
		return nil, err
	}
	resultType := ret
	if ret.IsVoidPtr() && ann.IsPointer() {
		resultType = ann
	}
	call := &hir.Expr{
		Kind: hir.ExprCall,
		Type: resultType,
		Span: e.Span,
		Data: hir.CallData{Name: name, Args: args, Variadic: variadic},
	}

	if hasUnknown(params, ret) || tc.muted() {
		// nothing to specialize: errors were reported while building the
		// signature, or this is a template check
		return call, nil
	}
	inst, _, err := tc.registry.Ensure(mono.Request{
		Name:        fe.name,
		Decl:        fe.fn,
		GenericArgs: generics,
		Params:      params,
		Ret:         ret,
		Caller:      tc.cur,
		Site:        e.Span,
	})
	if err != nil {
		if depthErr, ok := err.(*mono.DepthError); ok {
			tc.report(diag.SemaInstantiationDepth, e.Span, "%s", depthErr.Error())
			call.Type = types.Unknown
			return call, nil
		}
		return nil, err
	}
	data := call.Data.(hir.CallData)
	data.Identity = inst.Identity
	data.Symbol = inst.Symbol
	call.Data = data
	return call, nil
}

// inferFromAnnotation binds the generic parameters of decl from a struct
// annotation of the same family as the declared return type.
func (tc *typeChecker) inferFromAnnotation(e *ast.Expr, name string, decl *ast.FnDecl, ann *types.Type) ([]*types.Type, bool) {
	ret := decl.Ret
	if ann.IsStruct() && ret != nil && ret.Kind == ast.TypeRef {
		if _, isStruct := tc.structs[ret.Name]; isStruct {
			if ann.Struct.BaseName != ret.Name {
				tc.report(diag.SemaGenericFamilyMismatch, e.Span,
					"call to `%s` returns the `%s` family but `%s` is expected", name, ret.Name, ann.Struct.BaseName)
				return nil, false
			}
			if len(ann.Struct.Args) == len(decl.Generics) {
				return ann.Struct.Args, true
			}
		}
	}
	tc.report(diag.SemaCannotInferGenerics, e.Span,
		"cannot infer generic arguments of `%s`; pass them explicitly", name)
	return nil, false
}

// scheduleTemplate queues one muted check of the callee's body with its
// generic parameters left unbound.
func (tc *typeChecker) scheduleTemplate(fe *fnEntry, e *ast.Expr) error {
	if tc.muted() {
		return nil
	}
	_, _, err := tc.registry.Ensure(mono.Request{
		Name:   fe.name,
		Decl:   fe.fn,
		Ret:    types.Unknown,
		Muted:  true,
		Caller: tc.cur,
		Site:   e.Span,
	})
	if _, ok := err.(*mono.DepthError); ok {
		return nil
	}
	return err
}

// resolveArgs resolves positional arguments against the parameter types
// and the remaining ones as variadic arguments.
func (tc *typeChecker) resolveArgs(e *ast.Expr, name string, decl *ast.FnDecl, params []*types.Type, in []*ast.Expr) ([]*hir.Expr, int, error) {
	if len(in) < len(params) || (len(in) > len(params) && !decl.Variadic) {
		tc.report(diag.SemaArgumentCount, e.Span,
			"function `%s` expects %d arguments, got %d", name, len(params), len(in))
	}
	out := make([]*hir.Expr, 0, len(in))
	variadic := 0
	for i, a := range in {
		if i >= len(params) {
			arg, err := tc.resolveExpr(a, nil)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, arg)
			variadic++
			continue
		}
		arg, err := tc.resolveExpr(a, params[i])
		if err != nil {
			return nil, 0, err
		}
		if !types.CanInsert(params[i], arg.Type) {
			tc.report(diag.SemaTypeMismatch, a.Span,
				"argument %d of `%s` has type `%s`, expected `%s`", i+1, name, arg.Type, params[i])
		}
		out = append(out, arg)
	}
	return out, variadic, nil
}

func (tc *typeChecker) resolveArgsUnannotated(in []*ast.Expr) ([]*hir.Expr, error) {
	out := make([]*hir.Expr, 0, len(in))
	for _, a := range in {
		arg, err := tc.resolveExpr(a, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

func unresolvedCall(e *ast.Expr, name string, args []*hir.Expr) *hir.Expr {
	return &hir.Expr{
		Kind: hir.ExprCall,
		Type: types.Unknown,
		Span: e.Span,
		Data: hir.CallData{Name: name, Args: args},
	}
}

func (tc *typeChecker) muted() bool {
	return tc.cur != nil && tc.cur.Muted
}
