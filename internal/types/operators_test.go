package types

import (
	"testing"

	"ferrite/internal/ast"
)

func TestBinarySpecsLogicalAnd(t *testing.T) {
	spec, ok := BinarySpecFor(ast.ExprBinaryLogicalAnd)
	if !ok {
		t.Fatalf("expected spec for logical and")
	}
	if spec.Left&FamilyBool == 0 || spec.Right&FamilyBool == 0 {
		t.Fatalf("logical and expects bool operands, got %+v", spec)
	}
	if spec.Result != BinaryResultBool {
		t.Fatalf("expected bool result, got %+v", spec)
	}
}

func TestEveryBinaryOpHasSpec(t *testing.T) {
	for op := ast.ExprBinaryAdd; op <= ast.ExprBinaryGreaterEq; op++ {
		if _, ok := BinarySpecFor(op); !ok {
			t.Fatalf("missing spec for %s", op)
		}
	}
}

func TestFamilyAccepts(t *testing.T) {
	if !FamilyNumeric.Accepts(USize) || FamilyNumeric.Accepts(Bool) {
		t.Fatalf("numeric family mismatch")
	}
	if FamilyNumeric.Accepts(Unknown) {
		t.Fatalf("unknown belongs to no family")
	}
	if !FamilyAny.Accepts(NewGeneric("T")) {
		t.Fatalf("any accepts everything")
	}
}
