package astio

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"ferrite/internal/ast"
	"ferrite/internal/source"
	"ferrite/internal/testkit"
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
    name: main
    span: [0, 40]
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
        value:
          kind: binary
          op: "+"
          left: {kind: field, target: {kind: ident, name: p}, field: a}
          right: {kind: field, target: {kind: ident, name: p}, field: b}
      - kind: if
        cond: {kind: binary, op: "<", left: {kind: ident, name: s}, right: {kind: int, text: "0"}}
        then:
          - kind: return
`

func TestDecodeYAML(t *testing.T) {
	m, err := Decode("pair.yaml", []byte(pairDoc), FormatYAML, 3)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "main" || m.File != 3 || len(m.Items) != 2 {
		t.Fatalf("module %q file=%d items=%d", m.Name, m.File, len(m.Items))
	}
	def := m.Items[0].Data.(*ast.TypeDefData)
	if def.Name != "Pair" || len(def.Generics) != 1 || def.Fields[1].Type.String() != "T" {
		t.Fatalf("type def %+v", def)
	}
	fn := m.Items[1].Data.(*ast.FnData)
	if fn.Decl.Ret != nil {
		t.Fatalf("main returns %s", fn.Decl.Ret)
	}
	if fn.Decl.Span != (source.Span{File: 3, Start: 0, End: 40}) {
		t.Fatalf("span %v", fn.Decl.Span)
	}
	let := fn.Body[0].Data.(ast.LetData)
	if let.Type.String() != "Pair<i64>" {
		t.Fatalf("let type %s", let.Type)
	}
	lit := let.Value.Data.(ast.StructLitData)
	if lit.GenericArgs != nil {
		t.Fatal("absent generics must decode as nil")
	}
	inferred := fn.Body[1].Data.(ast.LetData)
	if inferred.Type != nil {
		t.Fatalf("let without type decoded as %s", inferred.Type)
	}
	ifd := fn.Body[2].Data.(ast.IfData)
	if ifd.Else != nil || len(ifd.Then) != 1 {
		t.Fatalf("if %+v", ifd)
	}
}

func TestDecodeMsgpackMatchesYAML(t *testing.T) {
	doc, err := Parse("pair.yaml", []byte(pairDoc), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&doc.wire)
	if err != nil {
		t.Fatal(err)
	}
	fromYAML, err := doc.Module(0)
	if err != nil {
		t.Fatal(err)
	}
	fromMP, err := Decode("pair.mp", data, FormatMsgpack, 0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(fromYAML, fromMP); diff != "" {
		t.Fatalf("msgpack and yaml disagree (-yaml +mp):\n%s", diff)
	}
}

func TestDecodedSpansStayInDocument(t *testing.T) {
	text := "fn main() {\n  let p = Pair<i64>{a: 1, b: 2};\n  let s = p.a + p.b;\n}\n"
	doc, err := Parse("pair.yaml", []byte("source: "+strconv.Quote(text)+"\n"+pairDoc), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id := fs.Add("pair.yaml", doc.Source(), 0)
	m, err := doc.Module(id)
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckSpanInvariants(m, fs.Get(id)); err != nil {
		t.Fatal(err)
	}
}

func TestInferOutsideLetIsRejected(t *testing.T) {
	docs := map[string]string{
		"param": `
module: m
items:
  - kind: fn
    name: f
    params: [{name: x, type: _}]
    body: []
`,
		"nested in let": `
module: m
items:
  - kind: fn
    name: f
    body:
      - {kind: let, name: v, type: "Vec<_>", value: {kind: int, text: "1"}}
`,
		"call generic": `
module: m
items:
  - kind: fn
    name: f
    body:
      - {kind: expr, expr: {kind: call, name: g, generics: ["_"]}}
`,
	}
	for name, src := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("x.yaml", []byte(src), FormatYAML, 0)
			if !errors.Is(err, ErrInferOutsideLet) {
				t.Fatalf("got %v, want ErrInferOutsideLet", err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Where == "" {
				t.Fatalf("error %v lacks location", err)
			}
		})
	}
}

func TestIdentifiersAreNFC(t *testing.T) {
	// e followed by a combining acute accent
	src := "module: m\nitems:\n  - kind: fn\n    name: \"cafe\u0301\"\n    body: []\n"
	m, err := Decode("x.yaml", []byte(src), FormatYAML, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Items[0].Data.(*ast.FnData).Decl.Name; got != "caf\u00e9" {
		t.Fatalf("name %q is not NFC", got)
	}
}

func TestExplicitEmptyGenericsAreKept(t *testing.T) {
	src := `
module: m
items:
  - kind: fn
    name: f
    body:
      - {kind: expr, expr: {kind: call, name: g, generics: []}}
`
	m, err := Decode("x.yaml", []byte(src), FormatYAML, 0)
	if err != nil {
		t.Fatal(err)
	}
	call := m.Items[0].Data.(*ast.FnData).Body[0].Data.(ast.ExprStmtData).Expr.Data.(ast.CallData)
	if call.GenericArgs == nil || len(call.GenericArgs) != 0 {
		t.Fatalf("generics %#v", call.GenericArgs)
	}
}

func TestMalformedDocuments(t *testing.T) {
	tests := []struct {
		name, src string
	}{
		{"no module", "items: []\n"},
		{"unknown field", "module: m\nbogus: 1\n"},
		{"unknown item", "module: m\nitems: [{kind: class}]\n"},
		{"bad operator", "module: m\nitems: [{kind: fn, name: f, body: [{kind: expr, expr: {kind: binary, op: '**', left: {kind: int, text: '1'}, right: {kind: int, text: '2'}}}]}]\n"},
		{"bad type", "module: m\nitems: [{kind: type, name: S, fields: [{name: a, type: 'Vec<i32'}]}]\n"},
		{"bad alloc", "module: m\nitems: [{kind: fn, name: f, alloc: gc, body: []}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bad.yaml", []byte(tt.src), FormatYAML, 0)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"i32", "i32"},
		{"*u8", "*u8"},
		{"Vec< *Pair<u8, i64> >", "Vec<*Pair<u8, i64>>"},
		{"Opt<>", "Opt"},
		{"_", "_"},
		{"_x", "_x"},
	}
	for _, tt := range tests {
		got, err := parseType(tt.in, source.Span{})
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("%q parsed as %q, want %q", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "<i32>", "Vec<i32", "Vec<i32;>", "a b"} {
		if _, err := parseType(bad, source.Span{}); err == nil {
			t.Errorf("%q parsed without error", bad)
		}
	}
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{"a.yaml": FormatYAML, "b.YML": FormatYAML, "c.mp": FormatMsgpack, "d.msgpack": FormatMsgpack} {
		got, ok := FormatFor(path)
		if !ok || got != want {
			t.Errorf("FormatFor(%q) = %v, %v", path, got, ok)
		}
	}
	if _, ok := FormatFor("e.txt"); ok {
		t.Error("unknown extension accepted")
	}
}
