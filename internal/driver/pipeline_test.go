package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ferrite/internal/diag"
	"ferrite/internal/layout"
	"ferrite/internal/mono"
	"ferrite/internal/sema"
	"ferrite/internal/types"
)

const pairDoc = `
module: main
items:
  - kind: type
    name: Pair
    generics: [{name: T}]
    fields:
      - {name: a, type: T}
      - {name: b, type: T}
  - kind: fn
    name: sum
    generics: [{name: T}]
    params: [{name: p, type: Pair<T>}]
    ret: T
    body:
      - kind: return
        value:
          kind: binary
          op: "+"
          left: {kind: field, target: {kind: ident, name: p}, field: a}
          right: {kind: field, target: {kind: ident, name: p}, field: b}
  - kind: fn
    name: main
    body:
      - kind: let
        name: p
        type: Pair<i64>
        value:
          kind: struct
          name: Pair
          fields:
            - {name: a, value: {kind: int, text: "1"}}
            - {name: b, value: {kind: int, text: "2"}}
      - kind: let
        name: s
        value: {kind: call, name: sum, generics: [i64], args: [{kind: ident, name: p}]}
      - kind: let
        name: v
        value: {kind: call, name: vec_new, generics: [u8]}
`

const brokenDoc = `
module: main
items:
  - kind: fn
    name: main
    body:
      - kind: let
        name: x
        value: {kind: ident, name: missing}
`

const fatalDoc = `
module: main
items:
  - kind: fn
    name: main
    body:
      - kind: expr
        value: {kind: call, name: nowhere}
`

func codes(bag *diag.Bag) []diag.Code {
	out := []diag.Code{}
	for _, d := range bag.Items() {
		if d.Code != diag.ObsTimings {
			out = append(out, d.Code)
		}
	}
	return out
}

func compile(t *testing.T, path, doc string, opts Options) *Result {
	t.Helper()
	res, err := Compile(context.Background(), path, []byte(doc), opts)
	if err != nil {
		t.Fatalf("compile %s: %v", path, err)
	}
	return res
}

func TestCompileProducesConcreteModule(t *testing.T) {
	res := compile(t, "pair.yaml", pairDoc, Options{Entry: "main"})
	if diff := cmp.Diff([]diag.Code{}, codes(res.Bag)); diff != "" {
		for _, d := range res.Bag.Items() {
			t.Logf("%s: %s", d.Code.ID(), d.Message)
		}
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	if res.MIR == nil || res.HIR == nil {
		t.Fatal("expected both resolved and concrete modules")
	}
	if res.MIR.Width != types.Ptr64 {
		t.Fatalf("default width %d", res.MIR.Width)
	}
	if res.ModuleName != "main" {
		t.Fatalf("module name %q", res.ModuleName)
	}
	if len(res.HIR.FuncsNamed("sum")) != 1 || len(res.HIR.FuncsNamed("vec_new")) != 1 {
		t.Fatal("expected one instance of sum and of vec_new")
	}
	// Pair<i64> and Vec<u8>
	if len(res.Layouts) != 2 {
		t.Fatalf("layouts %v", res.Layouts)
	}
	if res.Timing == nil || len(res.Timing.Phases) == 0 {
		t.Fatal("timing report missing")
	}
	var dump strings.Builder
	if err := mono.Dump(&dump, res.Instances, res.FileSet); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump.String(), "fn sum<i64>(") {
		t.Fatalf("registry dump lacks sum<i64>:\n%s", dump.String())
	}
}

func TestCompileHonoursTarget(t *testing.T) {
	res := compile(t, "pair.yaml", pairDoc, Options{Entry: "main", Target: layout.I386()})
	if res.MIR == nil {
		t.Fatalf("no module: %v", codes(res.Bag))
	}
	if res.MIR.Width != types.Ptr32 {
		t.Fatalf("width %d", res.MIR.Width)
	}
	for name, l := range res.Layouts {
		if strings.HasPrefix(name, "Vec") && l.Size != 12 {
			t.Fatalf("%s size %d on i386", name, l.Size)
		}
	}
}

func TestCompileWithoutPreludeRejectsVec(t *testing.T) {
	_, err := Compile(context.Background(), "pair.yaml", []byte(pairDoc), Options{Entry: "main", NoPrelude: true})
	var fatal *sema.FatalError
	if !errors.As(err, &fatal) || fatal.Callee != "vec_new" {
		t.Fatalf("expected fatal error for vec_new, got %v", err)
	}
}

func TestCompileStopsOnDiagnostics(t *testing.T) {
	res := compile(t, "broken.yaml", brokenDoc, Options{})
	if diff := cmp.Diff([]diag.Code{diag.SemaVariableNotFound}, codes(res.Bag)); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
	if res.MIR != nil {
		t.Fatal("a broken module must not be concretized")
	}
	if !res.Broken() {
		t.Fatal("result should be broken")
	}
}

func TestCompileFatalError(t *testing.T) {
	res, err := Compile(context.Background(), "fatal.yaml", []byte(fatalDoc), Options{})
	var fatal *sema.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *sema.FatalError, got %v", err)
	}
	if fatal.Callee != "nowhere" || res.MIR != nil {
		t.Fatalf("fatal %+v", fatal)
	}
	if !strings.HasPrefix(err.Error(), "fatal.yaml: ") {
		t.Fatalf("error not prefixed with path: %v", err)
	}
}

func TestCompileDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		path string
		doc  string
		want diag.Code
	}{
		{"malformed", "bad.yaml", "module: [", diag.IODecodeError},
		{"unknown key", "bad.yaml", "module: main\nbogus: 1\n", diag.IODecodeError},
		{"format", "main.txt", pairDoc, diag.IOUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compile(t, tt.path, tt.doc, Options{})
			if diff := cmp.Diff([]diag.Code{tt.want}, codes(res.Bag)); diff != "" {
				t.Fatalf("diagnostics (-want +got):\n%s", diff)
			}
			if res.HIR != nil {
				t.Fatal("undecodable input must not reach sema")
			}
		})
	}
}

func TestCompileReportsTimings(t *testing.T) {
	var mu sync.Mutex
	var events []PhaseEvent
	opts := Options{
		Entry:   "main",
		Timings: true,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}
	res := compile(t, "pair.yaml", pairDoc, opts)
	if res.Bag.Count(diag.ObsTimings) != 1 {
		t.Fatalf("expected one timing diagnostic, got %d", res.Bag.Count(diag.ObsTimings))
	}
	var names []string
	for _, ev := range events {
		if ev.Status == PhaseEnd {
			names = append(names, ev.Name)
		}
		if ev.Path != "pair.yaml" {
			t.Fatalf("event path %q", ev.Path)
		}
	}
	want := []string{"decode", "prelude", "sema", "lower", "validate", "layout"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("phases (-want +got):\n%s", diff)
	}
}

func TestCompileFileMissing(t *testing.T) {
	res, err := CompileFile(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]diag.Code{diag.IOLoadFileError}, codes(res.Bag)); diff != "" {
		t.Fatalf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestOptionsFromManifestDefaults(t *testing.T) {
	opts := OptionsFromManifest(nil).normalized()
	if opts.Target != layout.X86_64() || opts.MaxDiagnostics != DefaultMaxDiagnostics || opts.NoPrelude {
		t.Fatalf("defaults %+v", opts)
	}
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckFilesKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.yaml", pairDoc),
		writeFile(t, dir, "b.yaml", brokenDoc),
		writeFile(t, dir, "c.yaml", fatalDoc),
		filepath.Join(dir, "d.yaml"),
	}
	results, err := CheckFiles(context.Background(), paths, Options{Entry: "main"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results", len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Fatalf("result %d is for %s", i, res.Path)
		}
	}
	if results[0].Broken() {
		t.Fatalf("a.yaml broken: %v", codes(results[0].Bag))
	}
	if !results[1].Broken() || results[1].Err != nil {
		t.Fatal("b.yaml should carry diagnostics only")
	}
	var fatal *sema.FatalError
	if !errors.As(results[2].Err, &fatal) {
		t.Fatalf("c.yaml error %v", results[2].Err)
	}
	if results[3].Bag.Count(diag.IOLoadFileError) != 1 {
		t.Fatal("d.yaml should fail to load")
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CheckFiles(ctx, []string{writeFile(t, dir, "a.yaml", pairDoc)}, Options{}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
