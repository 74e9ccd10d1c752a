package mir_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"ferrite/internal/ast"
	"ferrite/internal/diag"
	"ferrite/internal/hir"
	"ferrite/internal/mir"
	"ferrite/internal/sema"
	"ferrite/internal/types"
)

func named(name string, args ...*ast.Type) *ast.Type { return ast.Named(name, args...) }

func fn(name string, params []ast.Param, ret *ast.Type, body ...*ast.Stmt) *ast.Item {
	return ast.FnItem(&ast.FnDecl{Name: name, Params: params, Ret: ret}, body...)
}

func params(pairs ...any) []ast.Param {
	out := make([]ast.Param, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, ast.Param{Name: pairs[i].(string), Type: pairs[i+1].(*ast.Type)})
	}
	return out
}

func pointDef() *ast.Item {
	return ast.TypeDefItem("Point", nil,
		ast.FieldDecl{Name: "x", Type: named("i32")},
		ast.FieldDecl{Name: "y", Type: named("i32")},
	)
}

// check resolves items at 64 bits and fails on any diagnostic.
func check(t *testing.T, entry string, items ...*ast.Item) *hir.Module {
	t.Helper()
	bag := diag.NewBag(100)
	res, err := sema.Check(context.Background(), []*ast.Module{{Name: "main", Items: items}}, sema.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Entry:    entry,
	})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if bag.Len() > 0 {
		for _, d := range bag.Items() {
			t.Logf("%s: %s", d.Code.ID(), d.Message)
		}
		t.Fatalf("unexpected diagnostics")
	}
	return res.Module
}

func lower(t *testing.T, m *hir.Module, w types.PtrWidth) *mir.Module {
	t.Helper()
	out, err := mir.TryLower(m, w)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := mir.Validate(out); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return out
}

func TestUSizeConcretizesByWidth(t *testing.T) {
	m := check(t, "",
		fn("size", params("a", named("usize"), "b", named("usize")), named("usize"),
			ast.Return(ast.Binary(ast.ExprBinaryAdd, ast.Ident("a"), ast.Ident("b")))),
	)
	for _, tc := range []struct {
		width types.PtrWidth
		want  *mir.Type
	}{
		{types.Ptr32, mir.U32},
		{types.Ptr64, mir.U64},
	} {
		f := lower(t, m, tc.width).Func("size")
		if f == nil {
			t.Fatalf("size missing at %d bits", tc.width)
		}
		if f.Result != tc.want || f.Params[0].Type != tc.want || f.Params[1].Type != tc.want {
			t.Fatalf("%d bits: size(%s, %s) -> %s, want %s", tc.width, f.Params[0].Type, f.Params[1].Type, f.Result, tc.want)
		}
		sum := f.Body[0].Data.(mir.ReturnData).Value
		if bin := sum.Data.(mir.BinaryData); bin.Operand != tc.want || bin.Left.Kind == mir.ExprCast {
			t.Fatalf("%d bits: usize + usize lowered as %s with left %s", tc.width, bin.Operand, bin.Left.Kind)
		}
	}
}

func TestMixedSignednessInsertsCasts(t *testing.T) {
	m := check(t, "",
		fn("mix", params("a", named("i32"), "b", named("u32")), named("i64"),
			ast.Return(ast.Binary(ast.ExprBinaryAdd, ast.Ident("a"), ast.Ident("b")))),
	)
	f := lower(t, m, types.Ptr64).Func("mix")
	bin := f.Body[0].Data.(mir.ReturnData).Value.Data.(mir.BinaryData)
	if bin.Operand != mir.I64 {
		t.Fatalf("common type %s, want i64", bin.Operand)
	}
	for _, side := range []*mir.Expr{bin.Left, bin.Right} {
		if side.Kind != mir.ExprCast || side.Type != mir.I64 {
			t.Fatalf("operand %s of type %s, want cast to i64", side.Kind, side.Type)
		}
	}
}

func TestStructsPassByHiddenPointer(t *testing.T) {
	m := check(t, "main",
		pointDef(),
		fn("mk", params("v", named("i32")), named("Point"),
			ast.Return(ast.StructLit("Point", nil, ast.Field("x", ast.Ident("v")), ast.Field("y", ast.Ident("v"))))),
		fn("sum", params("p", named("Point")), named("i32"),
			ast.Return(ast.Binary(ast.ExprBinaryAdd, ast.Member(ast.Ident("p"), "x"), ast.Member(ast.Ident("p"), "y")))),
		fn("main", nil, nil,
			ast.Let("p", nil, ast.Call("mk", nil, ast.Int("1"))),
			ast.Let("s", nil, ast.Call("sum", nil, ast.Ident("p"))),
		),
	)
	mod := lower(t, m, types.Ptr64)
	if mod.Entry != "main" {
		t.Fatalf("entry %q", mod.Entry)
	}
	if st := mod.Struct("Point"); st == nil || len(st.Fields) != 2 {
		t.Fatalf("Point not lowered: %+v", st)
	}

	mk := mod.Func("mk")
	if !mk.SRet {
		t.Fatal("mk returns a struct and must use sret")
	}

	sum := mod.Func("sum")
	p := sum.Params[0]
	if !p.ByRef || sum.Locals[p.Local].Type.Kind != mir.TypePtr {
		t.Fatalf("sum param %+v with slot type %s", p, sum.Locals[p.Local].Type)
	}
	if sum.Locals[p.Local].Flags&mir.LocalFlagByRef == 0 {
		t.Fatal("byref flag missing")
	}
	if len(sum.Locals) != 1 {
		t.Fatalf("read-only byref param must not be copied, locals=%d", len(sum.Locals))
	}
	left := sum.Body[0].Data.(mir.ReturnData).Value.Data.(mir.BinaryData).Left
	place := left.Data.(mir.PlaceData).Place
	if len(place.Proj) != 2 || place.Proj[0].Kind != mir.PlaceProjDeref || place.Proj[1].FieldName != "x" {
		t.Fatalf("p.x lowered to %+v", place)
	}

	call := mod.Func("main").Body[1].Data.(mir.LetData).Value
	arg := call.Data.(mir.CallData).Args[0]
	if arg.Kind != mir.ExprAddrOf || arg.Type.Kind != mir.TypePtr {
		t.Fatalf("struct argument passed as %s of %s", arg.Kind, arg.Type)
	}
	if !mod.Func("main").Body[0].Data.(mir.LetData).Value.Data.(mir.CallData).SRet {
		t.Fatal("call to mk must carry sret")
	}
}

func TestWrittenByRefParamIsCopied(t *testing.T) {
	m := check(t, "",
		pointDef(),
		fn("bump", params("p", named("Point")), named("i32"),
			ast.Assign(ast.Member(ast.Ident("p"), "x"), ast.Int("5")),
			ast.Return(ast.Member(ast.Ident("p"), "x"))),
	)
	f := lower(t, m, types.Ptr64).Func("bump")
	if len(f.Locals) != 2 {
		t.Fatalf("locals=%d, want param plus copy", len(f.Locals))
	}
	let, ok := f.Body[0].Data.(mir.LetData)
	if !ok || let.Local != 1 || let.Value.Kind != mir.ExprLoad {
		t.Fatalf("first statement %+v is not the entry copy", f.Body[0])
	}
	store := f.Body[1].Data.(mir.StoreData)
	if store.Place.Local != 1 || len(store.Place.Proj) != 1 || store.Place.Proj[0].Kind != mir.PlaceProjField {
		t.Fatalf("store goes to %+v, want the copy", store.Place)
	}
}

func TestPromotionDisagreementIsInvariantError(t *testing.T) {
	// checked at 64 bits: usize + u32 is u64
	m := check(t, "",
		fn("f", params("a", named("usize"), "b", named("u32")), named("u64"),
			ast.Return(ast.Binary(ast.ExprBinaryAdd, ast.Ident("a"), ast.Ident("b")))),
	)
	if _, err := mir.TryLower(m, types.Ptr64); err != nil {
		t.Fatalf("lowering at the checked width failed: %v", err)
	}
	_, err := mir.TryLower(m, types.Ptr32)
	var ie *mir.InvariantError
	if !errors.As(err, &ie) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if ie.Func != "f(usize, u32)->u64" {
		t.Fatalf("invariant error names %q", ie.Func)
	}
	if m.Width != types.Ptr64 || !strings.Contains(ie.Msg, "module checked at 64 bits") {
		t.Fatalf("invariant error does not name the checked width: %q", ie.Msg)
	}
}

func TestUnknownTypeIsInvariantError(t *testing.T) {
	m := &hir.Module{Name: "bad", Funcs: []*hir.Func{{
		Name: "f", Identity: "f()->?", Symbol: "f", Result: types.Unknown,
	}}}
	_, err := mir.TryLower(m, types.Ptr64)
	var ie *mir.InvariantError
	if !errors.As(err, &ie) || !strings.Contains(ie.Error(), "unknown type") {
		t.Fatalf("expected unknown-type invariant error, got %v", err)
	}
}

func TestUnspecializedCallIsInvariantError(t *testing.T) {
	call := &hir.Expr{Kind: hir.ExprCall, Type: types.Void, Data: hir.CallData{Name: "nope"}}
	m := &hir.Module{Name: "bad", Funcs: []*hir.Func{{
		Name: "main", Identity: "main()->void", Symbol: "main", Result: types.Void,
		Body: []*hir.Stmt{{Kind: hir.StmtExpr, Data: hir.ExprStmtData{Expr: call}}},
	}}}
	_, err := mir.TryLower(m, types.Ptr64)
	var ie *mir.InvariantError
	if !errors.As(err, &ie) || !strings.Contains(ie.Msg, "never specialized") {
		t.Fatalf("expected invariant error, got %v", err)
	}
}

func TestValidateReportsViolations(t *testing.T) {
	f := &mir.Func{
		Name: "f", Symbol: "f", Result: mir.I32,
		Locals: []mir.Local{{Name: "x", Type: mir.Bool}},
		Body: []*mir.Stmt{
			{Kind: mir.StmtLet, Data: mir.LetData{Local: 0, Value: &mir.Expr{
				Kind: mir.ExprConst, Type: mir.I32, Data: mir.ConstData{Kind: mir.ConstInt, Int: 1},
			}}},
			{Kind: mir.StmtEval, Data: mir.EvalData{Expr: &mir.Expr{
				Kind: mir.ExprCall, Type: mir.Void, Data: mir.CallData{Symbol: "missing"},
			}}},
			{Kind: mir.StmtReturn, Data: mir.ReturnData{}},
		},
	}
	err := mir.Validate(&mir.Module{Name: "bad", Width: types.Ptr64, Funcs: []*mir.Func{f}})
	if err == nil {
		t.Fatal("expected violations")
	}
	for _, want := range []string{"function f:", "does not fit", "missing function missing", "return without value"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q lacks %q", err, want)
		}
	}
}

func TestDump(t *testing.T) {
	m := check(t, "",
		fn("add", params("a", named("i32"), "b", named("i32")), named("i32"),
			ast.Return(ast.Binary(ast.ExprBinaryAdd, ast.Ident("a"), ast.Ident("b")))),
	)
	var buf bytes.Buffer
	if err := mir.Dump(&buf, lower(t, m, types.Ptr32)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"module main ptr=32",
		"fn add(L0, L1) -> i32:",
		"    L0: i32 name=a param",
		"    return (L0 + L1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump lacks %q:\n%s", want, out)
		}
	}
}
