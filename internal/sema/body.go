package sema

import (
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/mono"
	"ferrite/internal/symbols"
	"ferrite/internal/trace"
	"ferrite/internal/types"
)

// resolveInstance resolves the body of one queued instance with fresh type
// and variable stacks rooted at the primitives.
func (tc *typeChecker) resolveInstance(inst *mono.Instance) (*hir.Func, error) {
	sp := trace.Begin(tc.tracer, trace.ScopeFunc, "fn:"+inst.Identity, tc.parent)
	defer sp.End("")

	decl := inst.Decl.Decl
	savedRep, savedTypes, savedVars := tc.rep, tc.typeScope, tc.varScope
	tc.cur = inst
	tc.typeScope = tc.newTypeScope()
	tc.varScope = symbols.NewStack[*types.Type]()
	if inst.Muted {
		tc.rep = diag.NopReporter{}
	}
	defer func() {
		tc.rep, tc.typeScope, tc.varScope = savedRep, savedTypes, savedVars
		tc.cur = nil
		tc.returnType = nil
	}()

	generics := inst.GenericArgs
	params, ret := inst.Params, inst.Ret
	if inst.Muted {
		generics = templateArgs(decl)
		params, ret = tc.signature(&fnEntry{name: inst.Name, fn: inst.Decl}, generics)
	}

	defer tc.typeScope.Push(symbols.ScopeGeneric)()
	for i, gp := range decl.Generics {
		if i < len(generics) {
			tc.typeScope.Define(gp.Name, generics[i])
		}
	}
	defer tc.varScope.Push(symbols.ScopeFunction)()

	fn := &hir.Func{
		Name:        inst.Name,
		Identity:    inst.Identity,
		Symbol:      inst.Symbol,
		GenericArgs: inst.GenericArgs,
		Params:      make([]hir.Param, len(decl.Params)),
		Result:      ret,
		Alloc:       decl.Alloc,
		Span:        decl.Span,
	}
	for i, p := range decl.Params {
		fn.Params[i] = hir.Param{Name: p.Name, Type: params[i], Span: p.Span}
		tc.varScope.Define(p.Name, params[i])
	}
	if decl.Intrinsic {
		fn.Flags |= hir.FuncIntrinsic
	}
	if decl.Variadic {
		fn.Flags |= hir.FuncVariadic
	}
	if len(inst.GenericArgs) > 0 {
		fn.Flags |= hir.FuncInstance
	}
	if inst.Name != decl.Name {
		fn.Flags |= hir.FuncMethod
	}
	if tc.opts.Entry != "" && inst.Name == tc.opts.Entry {
		fn.Flags |= hir.FuncEntrypoint
	}

	if inst.Decl.Body == nil {
		return fn, nil
	}
	tc.returnType = ret
	body, err := tc.resolveBlock(inst.Decl.Body)
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}
