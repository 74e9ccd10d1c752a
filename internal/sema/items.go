package sema

import (
	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/source"
	"ferrite/internal/types"
)

// collect fills the function, struct and interface registries from every
// module in load order and validates item-level references.
func (tc *typeChecker) collect(mods []*ast.Module, known []string) {
	moduleNames := make(map[string]bool, len(mods)+len(known))
	for _, m := range mods {
		moduleNames[m.Name] = true
	}
	for _, k := range known {
		moduleNames[k] = true
	}
	primitive := make(map[string]bool)
	for _, p := range types.Primitives() {
		primitive[p.String()] = true
	}

	var impls []*ast.ImplData
	var uses []*ast.Item
	for _, m := range mods {
		for _, it := range m.Items {
			switch d := it.Data.(type) {
			case *ast.FnData:
				tc.addFunc(&fnEntry{name: d.Decl.Name, fn: d}, it.Span)
			case *ast.ImplData:
				impls = append(impls, d)
				tc.addFunc(&fnEntry{name: d.For + "::" + d.Fn.Decl.Name, fn: d.Fn, impl: d}, it.Span)
			case *ast.TypeDefData:
				if primitive[d.Name] {
					tc.report(diag.SemaDuplicateDefinition, it.Span, "type `%s` redefines a built-in type", d.Name)
					continue
				}
				if _, dup := tc.structs[d.Name]; dup {
					tc.report(diag.SemaDuplicateDefinition, it.Span, "type `%s` is defined more than once", d.Name)
					continue
				}
				tc.structs[d.Name] = d
				tc.defOrder = append(tc.defOrder, d)
			case *ast.InterfaceData:
				if _, dup := tc.ifaces[d.Name]; dup {
					tc.report(diag.SemaDuplicateDefinition, it.Span, "interface `%s` is defined more than once", d.Name)
					continue
				}
				tc.ifaces[d.Name] = d
			case *ast.UseData:
				uses = append(uses, it)
			}
		}
	}

	for _, it := range uses {
		path := it.Data.(*ast.UseData).Path
		if !moduleNames[path] {
			tc.report(diag.SemaUnknownModule, it.Span, "module `%s` is not loaded", path)
		}
	}
	for _, d := range impls {
		tc.checkImpl(d)
	}
	for _, fe := range tc.fnOrder {
		tc.checkRestrictionNames(fe.fn.Decl.Generics)
	}
	for _, d := range tc.defOrder {
		tc.checkRestrictionNames(d.Generics)
	}
}

func (tc *typeChecker) addFunc(fe *fnEntry, span source.Span) {
	if prev, dup := tc.funcs[fe.name]; dup {
		tc.reportWithNote(diag.SemaDuplicateDefinition, fe.fn.Decl.Span, prev.fn.Decl.Span,
			"previous definition", "function `%s` is defined more than once", fe.name)
		return
	}
	decl := fe.fn.Decl
	if decl.Span.Empty() {
		decl.Span = span
	}
	if fe.fn.Body == nil && !decl.Intrinsic {
		tc.report(diag.SemaMissingBody, decl.Span, "function `%s` has no body and is not an intrinsic", fe.name)
	}
	tc.funcs[fe.name] = fe
	tc.fnOrder = append(tc.fnOrder, fe)
}

func (tc *typeChecker) checkImpl(d *ast.ImplData) {
	iface, ok := tc.ifaces[d.Interface]
	if !ok {
		tc.report(diag.SemaInterfaceNotFound, d.Fn.Decl.Span, "interface `%s` not found", d.Interface)
		return
	}
	found := false
	for _, m := range iface.Methods {
		if m.Name == d.Fn.Decl.Name {
			found = true
			break
		}
	}
	if !found {
		tc.report(diag.SemaInterfaceMethodNotFound, d.Fn.Decl.Span,
			"method `%s` is not part of interface `%s`", d.Fn.Decl.Name, d.Interface)
		return
	}
	byType := tc.impls[d.Interface]
	if byType == nil {
		byType = make(map[string]map[string]bool)
		tc.impls[d.Interface] = byType
	}
	methods := byType[d.For]
	if methods == nil {
		methods = make(map[string]bool)
		byType[d.For] = methods
	}
	methods[d.Fn.Decl.Name] = true
}

func (tc *typeChecker) checkRestrictionNames(params []ast.GenericParam) {
	for _, gp := range params {
		for _, r := range gp.Restrictions {
			if _, ok := tc.ifaces[r]; !ok {
				tc.report(diag.SemaInterfaceNotFound, gp.Span, "interface `%s` in restriction of `%s` not found", r, gp.Name)
			}
		}
	}
}

// satisfies reports whether t implements every method of interface name.
// Unbound generics satisfy the interfaces they are restricted by.
func (tc *typeChecker) satisfies(t *types.Type, name string) bool {
	if t.IsUnknown() {
		return true
	}
	if t.Kind == types.KindGeneric {
		for _, r := range t.Generic.Restrictions {
			if r == name {
				return true
			}
		}
		return false
	}
	iface, ok := tc.ifaces[name]
	if !ok {
		// already reported by checkRestrictionNames
		return true
	}
	methods := tc.impls[name][t.BaseName()]
	for _, m := range iface.Methods {
		if !methods[m.Name] {
			return false
		}
	}
	return true
}

// checkRestrictions verifies that each bound argument satisfies the
// restrictions of its generic parameter.
func (tc *typeChecker) checkRestrictions(params []ast.GenericParam, args []*types.Type, span source.Span) bool {
	ok := true
	for i, gp := range params {
		if i >= len(args) {
			break
		}
		for _, r := range gp.Restrictions {
			if !tc.satisfies(args[i], r) {
				tc.report(diag.SemaRestrictionNotSatisfied, span,
					"type `%s` does not implement interface `%s` required by `%s`", args[i], r, gp.Name)
				ok = false
			}
		}
	}
	return ok
}

// checkTypeDefs resolves every non-generic struct declaration and checks
// generic ones once with their parameters left unbound.
func (tc *typeChecker) checkTypeDefs() {
	for _, d := range tc.defOrder {
		var args []*types.Type
		for _, gp := range d.Generics {
			args = append(args, types.NewGeneric(gp.Name, gp.Restrictions...))
		}
		tc.instantiateStruct(d, args, source.Span{})
	}
}
