package types

import "fmt"

// PtrWidth is the target pointer width in bits.
type PtrWidth uint8

const (
	Ptr32 PtrWidth = 32
	Ptr64 PtrWidth = 64
)

// Valid reports whether w is a supported width.
func (w PtrWidth) Valid() bool {
	return w == Ptr32 || w == Ptr64
}

// SizeKind is the fixed-width kind usize maps to under w.
func (w PtrWidth) SizeKind() Kind {
	if w == Ptr32 {
		return KindU32
	}
	return KindU64
}

// Bytes returns the pointer size in bytes.
func (w PtrWidth) Bytes() int {
	return int(w) / 8
}

// Concrete maps usize to its fixed-width kind and leaves other kinds alone.
func Concrete(k Kind, w PtrWidth) Kind {
	if k == KindUSize {
		return w.SizeKind()
	}
	return k
}

// Bits returns the width of a numeric kind under w, 0 for non-numeric kinds.
func Bits(k Kind, w PtrWidth) int {
	switch Concrete(k, w) {
	case KindU8:
		return 8
	case KindI32, KindU32:
		return 32
	case KindI64, KindU64:
		return 64
	}
	return 0
}

// Cast is an optional numeric conversion of one operand. The zero value
// means the operand is used as is.
type Cast struct {
	Apply bool
	To    Kind
}

func (c Cast) String() string {
	if !c.Apply {
		return "-"
	}
	return "as " + c.To.String()
}

func castTo(k Kind) Cast {
	return Cast{Apply: true, To: k}
}

// Promotion describes how both operands of a binary operator are brought to
// one common numeric type.
type Promotion struct {
	Left   Cast
	Right  Cast
	Common Kind
}

// PromotionError reports a promotion request involving a non-numeric type.
type PromotionError struct {
	Left, Right string
}

func (e *PromotionError) Error() string {
	return fmt.Sprintf("cannot promote %s and %s: both operands must be integers", e.Left, e.Right)
}

// Promote computes the promotion of l op r for the given pointer width. It is
// the single table shared by the checker and the concretizer.
func Promote(l, r *Type, w PtrWidth) (Promotion, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return Promotion{}, &PromotionError{Left: l.String(), Right: r.String()}
	}
	return PromoteKinds(l.Kind, r.Kind, w)
}

// PromoteKinds is Promote over bare kinds.
//
// Rules:
//   - identical kinds need no cast (usize op usize stays usize);
//   - usize behaves as its mapped kind, so usize op u64 on a 64-bit target
//     needs no cast either;
//   - equal signedness: the narrower side widens;
//   - mixed signedness: the wider side wins; at equal width both go to the
//     next wider signed kind, saturating at i64.
//
// Cast targets are always fixed-width kinds.
func PromoteKinds(l, r Kind, w PtrWidth) (Promotion, error) {
	if !l.IsNumeric() || !r.IsNumeric() {
		return Promotion{}, &PromotionError{Left: l.String(), Right: r.String()}
	}
	if l == r {
		return Promotion{Common: l}, nil
	}
	cl, cr := Concrete(l, w), Concrete(r, w)
	common := commonKind(cl, cr, w)
	p := Promotion{Common: common}
	if cl != common {
		p.Left = castTo(common)
	}
	if cr != common {
		p.Right = castTo(common)
	}
	return p, nil
}

func commonKind(l, r Kind, w PtrWidth) Kind {
	if l == r {
		return l
	}
	lb, rb := Bits(l, w), Bits(r, w)
	if l.IsSigned() == r.IsSigned() {
		if lb >= rb {
			return l
		}
		return r
	}
	signed, unsigned := l, r
	sb, ub := lb, rb
	if r.IsSigned() {
		signed, unsigned = r, l
		sb, ub = rb, lb
	}
	switch {
	case sb > ub:
		return signed
	case ub > sb:
		return unsigned
	default:
		return KindI64
	}
}
