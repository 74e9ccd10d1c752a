package astio

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ferrite/internal/layout"
	"ferrite/internal/mir"
	"ferrite/internal/types"
)

func pairModule(width types.PtrWidth) *mir.Module {
	pair := &mir.Struct{Name: "Pair<u8>", BaseName: "Pair", Fields: []mir.Field{
		{Name: "a", Type: mir.U8},
		{Name: "n", Type: mir.I64},
	}}
	pairT := &mir.Type{Kind: mir.TypeStruct, Struct: pair}
	arg := &mir.Expr{Kind: mir.ExprLocal, Type: mir.U8, Data: mir.LocalData{Local: 0}}
	wide := &mir.Expr{Kind: mir.ExprCast, Type: mir.I64, Data: mir.CastData{Value: arg}}
	mk := &mir.Func{
		Name: "mk", Symbol: "mk", Identity: "mk(u8)->Pair<u8>",
		Params: []mir.Param{{Name: "v", Type: mir.U8, Local: 0}},
		Result: pairT, SRet: true,
		Locals: []mir.Local{{Name: "v", Type: mir.U8, Flags: mir.LocalFlagParam}},
		Body: []*mir.Stmt{{Kind: mir.StmtReturn, Data: mir.ReturnData{Value: &mir.Expr{
			Kind: mir.ExprStructLit, Type: pairT, Data: mir.StructLitData{Fields: []*mir.Expr{arg, wide}},
		}}}},
	}
	return &mir.Module{Name: "main", Width: width, Structs: []*mir.Struct{pair}, Funcs: []*mir.Func{mk}}
}

func TestEncodeMIR(t *testing.T) {
	data, err := EncodeMIR(pairModule(types.Ptr64), layout.X86_64())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeMIR(data)
	if err != nil {
		t.Fatal(err)
	}
	if doc.PtrWidth != 64 || doc.Target != "x86_64" {
		t.Fatalf("header %d %s", doc.PtrWidth, doc.Target)
	}
	want := MIRStruct{Name: "Pair<u8>", Base: "Pair", Size: 16, Align: 8, Fields: []MIRField{
		{Name: "a", Type: "u8", Offset: 0},
		{Name: "n", Type: "i64", Offset: 8},
	}}
	if diff := cmp.Diff([]MIRStruct{want}, doc.Structs); diff != "" {
		t.Fatalf("struct table (-want +got):\n%s", diff)
	}
	fn := doc.Funcs[0]
	if !fn.SRet || fn.Result != "Pair<u8>" || len(fn.Body) != 1 {
		t.Fatalf("func %+v", fn)
	}
	ret := fn.Body[0]
	if ret.Kind != "return" || ret.Value.Kind != "struct" || ret.Value.Args[1].Kind != "cast" {
		t.Fatalf("body %+v", ret)
	}
	if ret.Value.Args[0].Local == nil || *ret.Value.Args[0].Local != 0 {
		t.Fatal("local reference lost")
	}
}

func TestEncodeMIRRejectsWidthMismatch(t *testing.T) {
	_, err := EncodeMIR(pairModule(types.Ptr64), layout.Wasm32())
	if err == nil || !strings.Contains(err.Error(), "wasm32") {
		t.Fatalf("expected width mismatch, got %v", err)
	}
}
