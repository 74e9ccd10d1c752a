package stdlib_test

import (
	"context"
	"testing"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/mir"
	"ferrite/internal/sema"
	"ferrite/internal/source"
	"ferrite/internal/stdlib"
	"ferrite/internal/types"
)

func TestPreludeDecodes(t *testing.T) {
	fs := source.NewFileSet()
	m, err := stdlib.Load(fs)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != stdlib.ModuleName {
		t.Fatalf("prelude module named %q", m.Name)
	}
	f := fs.Get(m.File)
	if f == nil || f.Flags&source.FilePrelude == 0 {
		t.Fatalf("prelude file not registered as prelude: %+v", f)
	}
	var intrinsics int
	for _, fn := range m.Fns() {
		if fn.Decl.Intrinsic {
			intrinsics++
			if fn.Body != nil {
				t.Errorf("intrinsic %s has a body", fn.Decl.Name)
			}
		}
	}
	if intrinsics != 4 {
		t.Fatalf("intrinsics=%d", intrinsics)
	}
}

func TestPreludeVecInstantiates(t *testing.T) {
	prelude, err := stdlib.Load(source.NewFileSet())
	if err != nil {
		t.Fatal(err)
	}
	u8 := []*ast.Type{ast.Named("u8")}
	user := &ast.Module{Name: "main", Items: []*ast.Item{
		ast.FnItem(&ast.FnDecl{Name: "main"},
			ast.Let("v", ast.Named("Vec", ast.Named("u8")), ast.Call("vec_new", u8)),
			ast.Effect(ast.Call("vec_push", u8, ast.Unary(ast.ExprUnaryRef, ast.Ident("v")), ast.Int("7"))),
			ast.Let("n", nil, ast.Call("vec_len", u8, ast.Unary(ast.ExprUnaryRef, ast.Ident("v")))),
		),
	}}
	bag := diag.NewBag(100)
	res, err := sema.Check(context.Background(), []*ast.Module{prelude, user}, sema.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Entry:    "main",
	})
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() > 0 {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code.ID(), d.Message)
		}
		t.Fatal("prelude use produced diagnostics")
	}
	for _, want := range []string{"vec_new", "vec_push", "vec_len", "__alloc", "__free"} {
		if len(res.Module.FuncsNamed(want)) != 1 {
			t.Errorf("%s instantiated %d times", want, len(res.Module.FuncsNamed(want)))
		}
	}
	if len(res.Module.FuncsNamed("vec_get")) != 0 {
		t.Error("unreachable vec_get was instantiated")
	}

	for _, w := range []types.PtrWidth{types.Ptr32, types.Ptr64} {
		low, err := mir.TryLower(res.Module, w)
		if err != nil {
			t.Fatalf("lower at %d: %v", w, err)
		}
		if err := mir.Validate(low); err != nil {
			t.Fatalf("validate at %d: %v", w, err)
		}
		vec := low.Struct("Vec<u8>")
		if vec == nil {
			t.Fatalf("Vec<u8> missing at %d", w)
		}
		want := mir.FromKind(w.SizeKind())
		if vec.Fields[1].Type != want {
			t.Fatalf("Vec<u8>.len is %s at %d bits, want %s", vec.Fields[1].Type, w, want)
		}
	}
}
