package ast

import "testing"

func TestTypeString(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{Named("i32"), "i32"},
		{PtrTo(Named("u8")), "*u8"},
		{Named("Pair", Named("T")), "Pair<T>"},
		{Named("Map", Named("K"), PtrTo(Named("Vec", Named("u8")))), "Map<K, *Vec<u8>>"},
		{Infer(), "_"},
		{nil, "_"},
	}
	for _, tc := range cases {
		if got := tc.ty.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestParseOperators(t *testing.T) {
	for op := ExprBinaryAdd; op <= ExprBinaryGreaterEq; op++ {
		back, ok := ParseBinaryOp(op.String())
		if !ok || back != op {
			t.Fatalf("binary %v does not parse back (got %v, %v)", op, back, ok)
		}
	}
	if _, ok := ParseBinaryOp("**"); ok {
		t.Fatalf("unexpected operator accepted")
	}
	if op, ok := ParseUnaryOp("&"); !ok || op != ExprUnaryRef {
		t.Fatalf("expected & to parse as ref")
	}
}

func TestOperatorClasses(t *testing.T) {
	if !ExprBinaryMod.IsArithmetic() || ExprBinaryEq.IsArithmetic() {
		t.Fatalf("arithmetic class is wrong")
	}
	if !ExprBinaryLessEq.IsComparison() || ExprBinaryLogicalOr.IsComparison() {
		t.Fatalf("comparison class is wrong")
	}
	if !ExprBinaryLogicalAnd.IsLogical() {
		t.Fatalf("&& must be logical")
	}
}

func TestModuleFns(t *testing.T) {
	m := &Module{Items: []*Item{
		TypeDefItem("P", nil),
		FnItem(&FnDecl{Name: "a"}),
		UseItem("std"),
		FnItem(&FnDecl{Name: "b"}),
	}}
	fns := m.Fns()
	if len(fns) != 2 || fns[0].Decl.Name != "a" || fns[1].Decl.Name != "b" {
		t.Fatalf("unexpected functions: %+v", fns)
	}
}
