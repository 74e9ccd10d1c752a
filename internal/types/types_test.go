package types

import "testing"

func TestCanInsertVoidPointerIsBidirectional(t *testing.T) {
	voidPtr := PtrTo(Void)
	for _, p := range []*Type{PtrTo(I32), PtrTo(PtrTo(U8)), PtrTo(NewStruct("P", nil, nil)), voidPtr} {
		if !CanInsert(voidPtr, p) {
			t.Errorf("%s must be insertable into *void", p)
		}
		if !CanInsert(p, voidPtr) {
			t.Errorf("*void must be insertable into %s", p)
		}
	}
	if CanInsert(PtrTo(I32), PtrTo(U8)) || CanInsert(PtrTo(U8), PtrTo(I32)) {
		t.Fatalf("unrelated pointers must not be insertable")
	}
	if CanInsert(I32, I64) {
		t.Fatalf("distinct integers are not insertable without a cast")
	}
	if CanInsert(voidPtr, I32) {
		t.Fatalf("*void accepts pointers only")
	}
	if !CanInsert(I32, Unknown) || !CanInsert(Unknown, PtrTo(U8)) {
		t.Fatalf("unknown must be accepted silently")
	}
}

func TestStructIdentity(t *testing.T) {
	a := NewStruct("Pair", []*Type{U8}, []Field{{Name: "a", Type: U8}})
	b := NewStruct("Pair", []*Type{U8}, nil)
	c := NewStruct("Pair", []*Type{I32}, nil)
	if a.Struct.Name != "Pair<u8>" {
		t.Fatalf("unexpected identity %q", a.Struct.Name)
	}
	if !Equal(a, b) {
		t.Fatalf("same base and args must be equal")
	}
	if Equal(a, c) || a.Struct.Name == c.Struct.Name {
		t.Fatalf("different args must differ")
	}
	nested := NewStruct("Vec", []*Type{PtrTo(a)}, nil)
	if nested.String() != "Vec<*Pair<u8>>" {
		t.Fatalf("unexpected nested identity %q", nested.String())
	}
}

func TestHasGenericAndUnknown(t *testing.T) {
	g := NewStruct("Box", []*Type{NewGeneric("T")}, []Field{{Name: "v", Type: NewGeneric("T")}})
	if !HasGeneric(g) || HasGeneric(NewStruct("Box", []*Type{I32}, nil)) {
		t.Fatalf("HasGeneric mismatch")
	}
	if !HasUnknown(PtrTo(Unknown)) || HasUnknown(PtrTo(I32)) {
		t.Fatalf("HasUnknown mismatch")
	}
}

func TestLiteralClassification(t *testing.T) {
	cases := []struct {
		text string
		want *Type
	}{
		{"0", I32},
		{"2147483647", I32},
		{"2147483648", I64},
		{"9223372036854775808", U64},
		{"0xff", I32},
	}
	for _, tc := range cases {
		v, ok := ParseIntLiteral(tc.text)
		if !ok {
			t.Fatalf("%q must parse", tc.text)
		}
		if got := ClassifyLiteral(v); !Equal(got, tc.want) {
			t.Errorf("%q classified as %s, want %s", tc.text, got, tc.want)
		}
	}
	if _, ok := ParseIntLiteral("18446744073709551616"); ok {
		t.Fatalf("overflowing literal must not parse")
	}
	if Fits(256, KindU8, Ptr64, false) || !Fits(255, KindU8, Ptr64, false) {
		t.Fatalf("u8 range is wrong")
	}
	if Fits(1<<32, KindUSize, Ptr32, false) || !Fits(1<<32, KindUSize, Ptr64, false) {
		t.Fatalf("usize range must follow the target width")
	}
	if !Fits(2147483648, KindI32, Ptr64, true) {
		t.Fatalf("-2147483648 fits i32")
	}
}
