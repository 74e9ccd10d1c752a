package driver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ferrite/internal/ast"
	"ferrite/internal/astio"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/layout"
	"ferrite/internal/mir"
	"ferrite/internal/mono"
	"ferrite/internal/observ"
	"ferrite/internal/project"
	"ferrite/internal/sema"
	"ferrite/internal/source"
	"ferrite/internal/stdlib"
	"ferrite/internal/trace"
)

// DefaultMaxDiagnostics bounds the bag when neither the manifest nor the
// command line set a limit.
const DefaultMaxDiagnostics = 100

// Options configure one pipeline run.
type Options struct {
	// Target selects the pointer width; the zero value means x86_64.
	Target layout.Target
	// Entry names the entry function; empty checks a library.
	Entry     string
	NoPrelude bool
	// MaxDepth bounds generic instantiation chains; zero keeps the
	// resolver default.
	MaxDepth       int
	MaxDiagnostics int
	// Timings appends an OBS8001 diagnostic with phase durations.
	Timings  bool
	Cache    *DiskCache
	Observer PhaseObserver
	// OnResult is called by CheckFiles as soon as an input is finished,
	// possibly from several goroutines at once.
	OnResult func(*Result)
}

// OptionsFromManifest maps the [build] section of a manifest. Command line
// flags are applied on top by the caller.
func OptionsFromManifest(m *project.Manifest) Options {
	if m == nil {
		return Options{}
	}
	b := m.Config.Build
	return Options{
		Target:         m.Target(),
		Entry:          b.Entry,
		NoPrelude:      !b.PreludeEnabled(),
		MaxDepth:       b.MaxInstantiationDepth,
		MaxDiagnostics: b.MaxDiagnostics,
	}
}

func (o Options) normalized() Options {
	if o.Target.PtrWidth == 0 {
		o.Target = layout.X86_64()
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = DefaultMaxDiagnostics
	}
	return o
}

// Result is the outcome of one input. HIR and MIR are nil when the
// pipeline stopped early or when the outcome came from the cache.
type Result struct {
	Path       string
	ModuleName string
	FileSet    *source.FileSet
	File       source.FileID
	Bag        *diag.Bag
	HIR        *hir.Module
	Instances  *mono.Registry
	MIR        *mir.Module
	Layouts    map[string]layout.TypeLayout
	Timing     *observ.Report
	Cached     bool
	// Err is the fatal error of this input when it ran under CheckFiles.
	Err error
}

// Broken reports whether the input failed to compile.
func (r *Result) Broken() bool {
	return r.Err != nil || r.Bag.HasErrors()
}

// CompileFile reads path and runs Compile on its contents. A read failure
// is reported as an IO1000 diagnostic.
func CompileFile(ctx context.Context, path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loadFailure(path, err, opts.normalized()), nil
	}
	return Compile(ctx, path, data, opts)
}

// Compile runs decode, sema, lowering, validation and layout on one
// syntactic module document. Language errors end up in Result.Bag; the
// returned error is a fatal resolution error or cancellation.
func Compile(ctx context.Context, path string, data []byte, opts Options) (*Result, error) {
	opts = opts.normalized()
	tracer := trace.FromContext(ctx)
	sp := trace.Begin(tracer, trace.ScopeDriver, "compile:"+path, trace.CurrentSpan(ctx).SpanID)
	defer sp.End("")
	ctx = trace.WithSpan(ctx, sp)

	timer := observ.NewTimer()
	phases := phaseTracker{path: path, observer: opts.Observer, track: timer.Track}
	res := &Result{Path: path, FileSet: source.NewFileSet(), Bag: diag.NewBag(opts.MaxDiagnostics)}
	defer func() {
		report := timer.Report()
		res.Timing = &report
		if opts.Timings {
			appendTimingDiagnostic(res.Bag, path, report)
		}
	}()

	done := phases.begin("decode")
	user, ok := decodeInput(res, data)
	done("")
	if !ok {
		return res, nil
	}
	mods := []*ast.Module{user}

	if !opts.NoPrelude {
		done = phases.begin("prelude")
		prelude, err := stdlib.Load(res.FileSet)
		done("")
		if err != nil {
			return res, err
		}
		mods = []*ast.Module{prelude, user}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	done = phases.begin("sema")
	checked, err := sema.Check(ctx, mods, sema.Options{
		Reporter: diag.BagReporter{Bag: res.Bag},
		Width:    opts.Target.PtrWidth,
		Entry:    opts.Entry,
		MaxDepth: opts.MaxDepth,
	})
	done(fmt.Sprintf("%d diagnostics", res.Bag.Len()))
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	res.HIR = checked.Module
	res.Instances = checked.Instances
	if res.Bag.HasErrors() {
		sp.WithExtra("broken", "true")
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	done = phases.begin("lower")
	lowered, err := mir.TryLower(checked.Module, opts.Target.PtrWidth)
	done("")
	if err != nil {
		var ie *mir.InvariantError
		if !errors.As(err, &ie) {
			return res, err
		}
		res.Bag.Add(diag.NewError(diag.InternalInvariant, ie.Span, ie.Error()))
		return res, nil
	}

	done = phases.begin("validate")
	err = mir.Validate(lowered)
	done("")
	if err != nil {
		res.Bag.Add(diag.NewError(diag.InternalFailure, source.Span{File: res.File}, err.Error()))
		return res, nil
	}

	done = phases.begin("layout")
	layouts, err := layout.New(opts.Target).Module(lowered)
	done(fmt.Sprintf("%d structs", len(layouts)))
	if err != nil {
		res.Bag.Add(diag.NewError(diag.InternalFailure, source.Span{File: res.File}, err.Error()))
		return res, nil
	}
	res.MIR = lowered
	res.Layouts = layouts
	return res, nil
}

// Check is Compile behind the disk cache. A hit restores the diagnostics
// only; HIR and MIR stay nil.
func Check(ctx context.Context, path string, data []byte, opts Options) (*Result, error) {
	opts = opts.normalized()
	if opts.Cache == nil {
		return Compile(ctx, path, data, opts)
	}
	key := cacheKey(path, data, opts)
	var payload DiskPayload
	hit, err := opts.Cache.Get(key, &payload)
	if err != nil {
		// испорченная запись — просто пересчитываем
		hit = false
	}
	if hit && payload.usable() {
		return restore(path, data, &payload, opts), nil
	}

	res, err := Compile(ctx, path, data, opts)
	if err != nil {
		return res, err
	}
	if err := opts.Cache.Put(key, bagToPayload(res)); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "cache:put", err.Error(), trace.CurrentSpan(ctx).SpanID)
	}
	return res, nil
}

// restore rebuilds a result from a cached payload. Files are registered in
// the same order as in Compile so cached spans resolve.
func restore(path string, data []byte, payload *DiskPayload, opts Options) *Result {
	res := &Result{Path: path, FileSet: source.NewFileSet(), Cached: true}
	res.Bag = diag.NewBag(0)
	if _, ok := decodeInput(res, data); ok && !opts.NoPrelude {
		res.FileSet.Add(stdlib.Path, stdlib.Source(), source.FileVirtual|source.FilePrelude)
	}
	res.Bag = payloadToBag(payload, opts.MaxDiagnostics)
	res.ModuleName = payload.Module
	return res
}

// decodeInput registers the input in res.FileSet and converts it. Failures
// are reported into res.Bag.
func decodeInput(res *Result, data []byte) (*ast.Module, bool) {
	format, ok := astio.FormatFor(res.Path)
	if !ok {
		res.File = res.FileSet.Add(res.Path, nil, 0)
		res.Bag.Add(diag.NewError(diag.IOUnknownFormat, source.Span{File: res.File},
			fmt.Sprintf("cannot tell the format of %s; expected .yaml, .yml or .mp", res.Path)))
		return nil, false
	}
	doc, err := astio.Parse(res.Path, data, format)
	if err != nil {
		res.File = res.FileSet.Add(res.Path, nil, 0)
		res.Bag.Add(diag.NewError(diag.IODecodeError, source.Span{File: res.File}, err.Error()))
		return nil, false
	}
	res.File = res.FileSet.Add(res.Path, doc.Source(), 0)
	res.ModuleName = doc.Name()
	m, err := doc.Module(res.File)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IODecodeError, source.Span{File: res.File}, err.Error()))
		return nil, false
	}
	return m, true
}

func loadFailure(path string, err error, opts Options) *Result {
	res := &Result{Path: path, FileSet: source.NewFileSet(), Bag: diag.NewBag(opts.MaxDiagnostics)}
	res.File = res.FileSet.Add(path, nil, 0)
	res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: res.File}, "failed to load file: "+err.Error()))
	return res
}
