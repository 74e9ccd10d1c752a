package types

import (
	"math"
	"strconv"
)

// ParseIntLiteral parses the raw text of a non-negative integer literal.
// Prefixes 0x/0o/0b and '_' separators are accepted.
func ParseIntLiteral(text string) (uint64, bool) {
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// MaxValue is the largest value representable by numeric kind k under w.
func MaxValue(k Kind, w PtrWidth) uint64 {
	switch Concrete(k, w) {
	case KindU8:
		return math.MaxUint8
	case KindI32:
		return math.MaxInt32
	case KindU32:
		return math.MaxUint32
	case KindI64:
		return math.MaxInt64
	case KindU64:
		return math.MaxUint64
	}
	return 0
}

// Fits reports whether the non-negative value v is representable by k.
// negated marks a literal under unary minus, which may reach MaxValue+1
// for signed kinds.
func Fits(v uint64, k Kind, w PtrWidth, negated bool) bool {
	limit := MaxValue(k, w)
	if negated {
		if !k.IsSigned() {
			return v == 0
		}
		return v <= limit+1
	}
	return v <= limit
}

// ClassifyLiteral picks the narrowest of i32, i64, u64 that holds v.
func ClassifyLiteral(v uint64) *Type {
	switch {
	case v <= math.MaxInt32:
		return I32
	case v <= math.MaxInt64:
		return I64
	default:
		return U64
	}
}
