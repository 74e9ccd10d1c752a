package sema

import (
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/source"
	"ferrite/internal/symbols"
	"ferrite/internal/trace"
	"ferrite/internal/types"
)

// resolveType resolves a syntactic type against the current type scope and
// the struct registry. A nil type is void.
func (tc *typeChecker) resolveType(t *ast.Type) *types.Type {
	return tc.resolveTypeRef(t, false)
}

func (tc *typeChecker) resolveTypeRef(t *ast.Type, behindPtr bool) *types.Type {
	if t == nil {
		return types.Void
	}
	switch t.Kind {
	case ast.TypePtr:
		elem := tc.resolveTypeRef(t.Elem, true)
		return types.PtrTo(elem)
	case ast.TypeInfer:
		// annotation propagation removes every inference marker before
		// resolution; the decoder rejects them outside let statements.
		panic(fmt.Sprintf("sema: inference marker reached type resolution at %s", t.Span))
	}

	if def, ok := tc.structs[t.Name]; ok {
		if len(t.Args) != len(def.Generics) {
			tc.report(diag.SemaGenericArity, t.Span,
				"type `%s` expects %d generic arguments, got %d", t.Name, len(def.Generics), len(t.Args))
			return types.Unknown
		}
		// аргументы — ссылки: вложенность по значению проверяется после
		// построения полей
		args := make([]*types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = tc.resolveTypeRef(a, true)
		}
		for _, a := range args {
			if a.IsUnknown() {
				return types.Unknown
			}
		}
		if !tc.checkRestrictions(def.Generics, args, t.Span) {
			return types.Unknown
		}
		return tc.instantiateStructRef(def, args, t.Span, behindPtr)
	}

	found, ok := tc.typeScope.Lookup(t.Name)
	if !ok {
		tc.report(diag.SemaTypeNotFound, t.Span, "type `%s` not found", t.Name)
		return types.Unknown
	}
	if len(t.Args) > 0 {
		tc.report(diag.SemaGenericArity, t.Span,
			"type `%s` expects 0 generic arguments, got %d", t.Name, len(t.Args))
		return types.Unknown
	}
	return found
}

// instantiateStruct resolves def under the given generic arguments.
func (tc *typeChecker) instantiateStruct(def *ast.TypeDefData, args []*types.Type, span source.Span) *types.Type {
	return tc.instantiateStructRef(def, args, span, false)
}

// instantiateStructRef returns the cached instantiation def<args> or builds
// it. Field types resolve in a fresh type stack whose only frame binds the
// declared generic parameters. While a struct is being built, a reference
// to it through a pointer or as a generic argument yields the shared shell;
// a direct by-value field reference is an infinitely sized type. Once the
// fields are known, containment through generic structs (Wrap<Node> with
// Wrap<T>{v: T}) is checked by walking the by-value fields.
func (tc *typeChecker) instantiateStructRef(def *ast.TypeDefData, args []*types.Type, span source.Span, behindPtr bool) *types.Type {
	identity := types.StructName(def.Name, args)
	if st, ok := tc.structCache[identity]; ok {
		if tc.structActive[identity] && !behindPtr {
			tc.report(diag.SemaRecursiveType, span, "type `%s` contains itself by value", identity)
			return types.Unknown
		}
		return st
	}

	sp := trace.Begin(tc.tracer, trace.ScopeNode, "struct:"+identity, tc.parent)
	defer sp.End("")

	shell := types.NewStruct(def.Name, args, nil)
	tc.structCache[identity] = shell
	tc.structOrder = append(tc.structOrder, shell)
	tc.structActive[identity] = true
	defer delete(tc.structActive, identity)

	saved := tc.typeScope
	tc.typeScope = tc.newTypeScope()
	defer func() { tc.typeScope = saved }()
	defer tc.typeScope.Push(symbols.ScopeGeneric)()
	for i, gp := range def.Generics {
		tc.typeScope.Define(gp.Name, args[i])
	}

	fields := make([]types.Field, 0, len(def.Fields))
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if seen[f.Name] {
			tc.report(diag.SemaDuplicateField, f.Span, "field `%s` is declared more than once in `%s`", f.Name, def.Name)
			continue
		}
		seen[f.Name] = true
		fields = append(fields, types.Field{Name: f.Name, Type: tc.resolveType(f.Type)})
	}
	shell.Struct.Fields = fields
	if containsByValue(shell, identity, map[string]bool{}) {
		tc.report(diag.SemaRecursiveType, span, "type `%s` contains itself by value", identity)
	}
	return shell
}

// containsByValue reports whether a by-value field of t, followed through
// nested structs, is the struct named identity. Pointers end the walk.
func containsByValue(t *types.Type, identity string, seen map[string]bool) bool {
	for _, f := range t.Struct.Fields {
		ft := f.Type
		if ft == nil || ft.Kind != types.KindStruct || ft.Struct == nil {
			continue
		}
		if ft.Struct.Name == identity {
			return true
		}
		if seen[ft.Struct.Name] {
			continue
		}
		seen[ft.Struct.Name] = true
		if containsByValue(ft, identity, seen) {
			return true
		}
	}
	return false
}
