package types

import (
	"errors"
	"testing"
)

var numericKinds = []Kind{KindI32, KindI64, KindU32, KindU64, KindUSize, KindU8}

func TestPromoteTable(t *testing.T) {
	cases := []struct {
		l, r   Kind
		w      PtrWidth
		common Kind
		left   Cast
		right  Cast
	}{
		{KindI32, KindI32, Ptr64, KindI32, Cast{}, Cast{}},
		{KindU8, KindI32, Ptr64, KindI32, castTo(KindI32), Cast{}},
		{KindI32, KindI64, Ptr64, KindI64, castTo(KindI64), Cast{}},
		{KindU32, KindU64, Ptr32, KindU64, castTo(KindU64), Cast{}},
		{KindI32, KindU32, Ptr64, KindI64, castTo(KindI64), castTo(KindI64)},
		{KindI64, KindU64, Ptr64, KindI64, Cast{}, castTo(KindI64)},
		{KindI32, KindU64, Ptr64, KindU64, castTo(KindU64), Cast{}},
		{KindUSize, KindUSize, Ptr32, KindUSize, Cast{}, Cast{}},
		{KindUSize, KindU64, Ptr64, KindU64, Cast{}, Cast{}},
		{KindUSize, KindU64, Ptr32, KindU64, castTo(KindU64), Cast{}},
		{KindUSize, KindU32, Ptr32, KindU32, Cast{}, Cast{}},
		{KindUSize, KindU32, Ptr64, KindU64, Cast{}, castTo(KindU64)},
		{KindI32, KindUSize, Ptr32, KindI64, castTo(KindI64), castTo(KindI64)},
		{KindU8, KindUSize, Ptr64, KindU64, castTo(KindU64), Cast{}},
	}
	for _, tc := range cases {
		p, err := PromoteKinds(tc.l, tc.r, tc.w)
		if err != nil {
			t.Fatalf("%s/%s: unexpected error %v", tc.l, tc.r, err)
		}
		if p.Common != tc.common || p.Left != tc.left || p.Right != tc.right {
			t.Errorf("%s op %s (w=%d): got {%s %s %s}, want {%s %s %s}",
				tc.l, tc.r, tc.w, p.Left, p.Right, p.Common, tc.left, tc.right, tc.common)
		}
	}
}

func TestPromoteSymmetricCommonType(t *testing.T) {
	for _, w := range []PtrWidth{Ptr32, Ptr64} {
		for _, a := range numericKinds {
			for _, b := range numericKinds {
				ab, err1 := PromoteKinds(a, b, w)
				ba, err2 := PromoteKinds(b, a, w)
				if err1 != nil || err2 != nil {
					t.Fatalf("unexpected errors: %v %v", err1, err2)
				}
				if ab.Common != ba.Common {
					t.Errorf("w=%d: promote(%s,%s)=%s but promote(%s,%s)=%s", w, a, b, ab.Common, b, a, ba.Common)
				}
				if ab.Left != ba.Right || ab.Right != ba.Left {
					t.Errorf("w=%d: casts of %s/%s are not mirrored", w, a, b)
				}
			}
		}
	}
}

func TestPromoteUSizeMatchesMappedKind(t *testing.T) {
	for _, w := range []PtrWidth{Ptr32, Ptr64} {
		for _, x := range numericKinds {
			if x == KindUSize {
				continue
			}
			got, _ := PromoteKinds(KindUSize, x, w)
			want, _ := PromoteKinds(w.SizeKind(), x, w)
			if got != want {
				t.Errorf("w=%d: promote(usize,%s)=%+v, promote(%s,%s)=%+v", w, x, got, w.SizeKind(), x, want)
			}
		}
	}
}

func TestPromoteCastTargetsAreFixedWidth(t *testing.T) {
	for _, w := range []PtrWidth{Ptr32, Ptr64} {
		for _, a := range numericKinds {
			for _, b := range numericKinds {
				p, _ := PromoteKinds(a, b, w)
				if (p.Left.Apply && p.Left.To == KindUSize) || (p.Right.Apply && p.Right.To == KindUSize) {
					t.Fatalf("w=%d: %s/%s casts to usize", w, a, b)
				}
			}
		}
	}
}

func TestPromoteRejectsNonNumeric(t *testing.T) {
	bad := []*Type{Bool, Void, Unknown, PtrTo(I32), NewStruct("P", nil, nil), NewGeneric("T")}
	for _, b := range bad {
		_, err := Promote(I32, b, Ptr64)
		var perr *PromotionError
		if !errors.As(err, &perr) {
			t.Fatalf("expected PromotionError for i32 and %s, got %v", b, err)
		}
		if _, err := Promote(b, I64, Ptr64); err == nil {
			t.Fatalf("expected error for %s and i64", b)
		}
	}
}
