package sema

import (
	"context"
	"errors"
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/mono"
	"ferrite/internal/source"
	"ferrite/internal/symbols"
	"ferrite/internal/trace"
	"ferrite/internal/types"
)

// Options configure a resolution pass.
type Options struct {
	Reporter diag.Reporter
	// Width is the target pointer width; zero selects 64 bits.
	Width types.PtrWidth
	// Entry names the entry function; empty means library mode.
	Entry string
	// MaxDepth bounds generic instantiation chains; zero selects
	// mono.DefaultMaxDepth.
	MaxDepth int
	// KnownModules lists module names a Use item may refer to besides the
	// modules being checked.
	KnownModules []string
}

// Result stores the artefacts of one pass.
type Result struct {
	Module    *hir.Module
	Instances *mono.Registry
}

// Check resolves the given modules (prelude first, then user modules) into
// one resolved module. Recoverable problems go to opts.Reporter; the
// returned error is non-nil only for fatal conditions, in which case no
// module is produced.
func Check(ctx context.Context, mods []*ast.Module, opts Options) (*Result, error) {
	if opts.Width == 0 {
		opts.Width = types.Ptr64
	}
	if !opts.Width.Valid() {
		return nil, fmt.Errorf("sema: unsupported pointer width %d", opts.Width)
	}
	rep := opts.Reporter
	if rep == nil {
		rep = diag.NopReporter{}
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "sema", trace.CurrentSpan(ctx).SpanID)

	tc := newTypeChecker(diag.NewDedupReporter(rep), opts, tracer, span.ID())
	tc.collect(mods, opts.KnownModules)
	if err := tc.run(ctx); err != nil {
		span.End("fatal")
		return nil, err
	}

	name := ""
	if len(mods) > 0 {
		name = mods[len(mods)-1].Name
	}
	res := &Result{
		Module: &hir.Module{
			Name:    name,
			Funcs:   tc.registry.Funcs(),
			Structs: tc.concreteStructs(),
			Entry:   tc.entrySymbol,
			Width:   tc.width,
		},
		Instances: tc.registry,
	}
	span.WithExtra("instances", fmt.Sprint(tc.registry.Len())).End("")
	return res, nil
}

// fnEntry is one callable in the function registry.
type fnEntry struct {
	name string // registry key: name or Recv::method
	fn   *ast.FnData
	impl *ast.ImplData // nil for free functions
}

type typeChecker struct {
	opts     Options
	width    types.PtrWidth
	reporter diag.Reporter // pass-wide reporter
	tracer   trace.Tracer
	parent   uint64

	funcs    map[string]*fnEntry
	fnOrder  []*fnEntry
	structs  map[string]*ast.TypeDefData
	defOrder []*ast.TypeDefData
	ifaces   map[string]*ast.InterfaceData
	// impls[interface][type base name] holds implemented method names.
	impls map[string]map[string]map[string]bool

	structCache  map[string]*types.Type
	structOrder  []*types.Type
	structActive map[string]bool

	registry    *mono.Registry
	entrySymbol string

	// Per-body state. Bodies never nest: calls only compute signatures and
	// queue instances, so these are swapped, not stacked.
	rep        diag.Reporter
	typeScope  *symbols.Stack[*types.Type]
	varScope   *symbols.Stack[*types.Type]
	cur        *mono.Instance
	returnType *types.Type
}

func newTypeChecker(rep diag.Reporter, opts Options, tracer trace.Tracer, parent uint64) *typeChecker {
	tc := &typeChecker{
		opts:         opts,
		width:        opts.Width,
		reporter:     rep,
		rep:          rep,
		tracer:       tracer,
		parent:       parent,
		funcs:        make(map[string]*fnEntry),
		structs:      make(map[string]*ast.TypeDefData),
		ifaces:       make(map[string]*ast.InterfaceData),
		impls:        make(map[string]map[string]map[string]bool),
		structCache:  make(map[string]*types.Type),
		structActive: make(map[string]bool),
		registry:     mono.NewRegistry(opts.MaxDepth),
	}
	tc.typeScope = tc.newTypeScope()
	tc.varScope = symbols.NewStack[*types.Type]()
	return tc
}

// newTypeScope returns a type stack whose root frame binds the primitives.
func (tc *typeChecker) newTypeScope() *symbols.Stack[*types.Type] {
	s := symbols.NewStack[*types.Type]()
	for _, p := range types.Primitives() {
		s.Define(p.String(), p)
	}
	return s
}

// run drives resolution: type declarations, then the entry function, then
// every other non-generic function, then drains the instantiation work list.
func (tc *typeChecker) run(ctx context.Context) error {
	tc.checkTypeDefs()

	var roots []*fnEntry
	if entry := tc.opts.Entry; entry != "" {
		fe := tc.funcs[entry]
		switch {
		case fe == nil:
			tc.report(diag.SemaEntrypointNotFound, source.Span{}, "entry function `%s` not found", entry)
		case fe.fn.Decl.IsGeneric():
			tc.report(diag.SemaEntrypointNotFound, fe.fn.Decl.Span, "entry function `%s` must not be generic", entry)
		default:
			roots = append(roots, fe)
		}
	}
	for _, fe := range tc.fnOrder {
		if fe.fn.Decl.IsGeneric() || (len(roots) > 0 && fe == roots[0]) {
			continue
		}
		roots = append(roots, fe)
	}

	for i, fe := range roots {
		inst, err := tc.requestRoot(fe)
		if err != nil {
			return err
		}
		if i == 0 && fe.name == tc.opts.Entry && inst != nil {
			tc.entrySymbol = inst.Symbol
		}
	}
	return tc.drain(ctx)
}

func (tc *typeChecker) requestRoot(fe *fnEntry) (*mono.Instance, error) {
	params, ret := tc.signature(fe, nil)
	inst, _, err := tc.registry.Ensure(mono.Request{
		Name:   fe.name,
		Decl:   fe.fn,
		Params: params,
		Ret:    ret,
		Site:   fe.fn.Decl.Span,
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// drain resolves queued instance bodies until the work list is empty.
func (tc *typeChecker) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		inst, ok := tc.registry.Next()
		if !ok {
			return nil
		}
		fn, err := tc.resolveInstance(inst)
		if err != nil {
			tc.registry.Fail(inst)
			var fatal *FatalError
			if errors.As(err, &fatal) && fatal.Instance == "" {
				fatal.Instance = inst.Identity
			}
			return err
		}
		tc.registry.Complete(inst, fn)
	}
}

// concreteStructs lists resolved struct instantiations free of generics
// and unknowns, in first-use order.
func (tc *typeChecker) concreteStructs() []*types.Type {
	out := make([]*types.Type, 0, len(tc.structOrder))
	for _, st := range tc.structOrder {
		if types.HasGeneric(st) || types.HasUnknown(st) {
			continue
		}
		out = append(out, st)
	}
	return out
}

func hasUnknown(params []*types.Type, ret *types.Type) bool {
	if types.HasUnknown(ret) || types.HasGeneric(ret) {
		return true
	}
	for _, p := range params {
		if types.HasUnknown(p) || types.HasGeneric(p) {
			return true
		}
	}
	return false
}
