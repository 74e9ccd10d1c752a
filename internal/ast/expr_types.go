package ast

// ExprBinaryOp enumerates binary operators.
type ExprBinaryOp uint8

const (
	// Арифметические

	// ExprBinaryAdd represents the addition operator (+).
	ExprBinaryAdd ExprBinaryOp = iota
	// ExprBinarySub represents the subtraction operator (-).
	ExprBinarySub
	// ExprBinaryMul represents the multiplication operator (*).
	ExprBinaryMul
	// ExprBinaryDiv represents the division operator (/).
	ExprBinaryDiv
	// ExprBinaryMod represents the remainder operator (%).
	ExprBinaryMod
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor
	ExprBinaryShiftLeft
	ExprBinaryShiftRight

	// Логические
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
)

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	case ExprBinaryBitAnd:
		return "&"
	case ExprBinaryBitOr:
		return "|"
	case ExprBinaryBitXor:
		return "^"
	case ExprBinaryShiftLeft:
		return "<<"
	case ExprBinaryShiftRight:
		return ">>"
	case ExprBinaryLogicalAnd:
		return "&&"
	case ExprBinaryLogicalOr:
		return "||"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNotEq:
		return "!="
	case ExprBinaryLess:
		return "<"
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryGreaterEq:
		return ">="
	default:
		return "?"
	}
}

// IsArithmetic reports operators whose result is the promoted operand type.
func (op ExprBinaryOp) IsArithmetic() bool {
	return op <= ExprBinaryShiftRight
}

// IsLogical reports short-circuit boolean operators.
func (op ExprBinaryOp) IsLogical() bool {
	return op == ExprBinaryLogicalAnd || op == ExprBinaryLogicalOr
}

// IsComparison reports operators that always yield bool.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

// IsEquality reports == and !=.
func (op ExprBinaryOp) IsEquality() bool {
	return op == ExprBinaryEq || op == ExprBinaryNotEq
}

// ParseBinaryOp maps an operator symbol back to ExprBinaryOp.
func ParseBinaryOp(sym string) (ExprBinaryOp, bool) {
	for op := ExprBinaryAdd; op <= ExprBinaryGreaterEq; op++ {
		if op.String() == sym {
			return op, true
		}
	}
	return 0, false
}

// ExprUnaryOp enumerates unary operators.
type ExprUnaryOp uint8

const (
	// ExprUnaryMinus represents the unary minus operator (-).
	ExprUnaryMinus ExprUnaryOp = iota
	// ExprUnaryNot represents the logical NOT operator (!).
	ExprUnaryNot
	// ExprUnaryDeref represents the dereference operator (*).
	ExprUnaryDeref
	// ExprUnaryRef represents taking an address (&).
	ExprUnaryRef
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryNot:
		return "!"
	case ExprUnaryDeref:
		return "*"
	case ExprUnaryRef:
		return "&"
	default:
		return "?"
	}
}

// ParseUnaryOp maps an operator symbol back to ExprUnaryOp.
func ParseUnaryOp(sym string) (ExprUnaryOp, bool) {
	for op := ExprUnaryMinus; op <= ExprUnaryRef; op++ {
		if op.String() == sym {
			return op, true
		}
	}
	return 0, false
}
