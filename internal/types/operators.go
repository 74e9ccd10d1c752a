package types

import "ferrite/internal/ast"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint32

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilyBool
	FamilySignedInt
	FamilyUnsignedInt
	FamilyPointer
	FamilyStruct
)

const (
	FamilyIntegral = FamilySignedInt | FamilyUnsignedInt
	FamilyNumeric  = FamilyIntegral
)

// FamilyOf classifies t. Unknown and generic types belong to no family.
func FamilyOf(t *Type) FamilyMask {
	if t == nil {
		return FamilyNone
	}
	switch t.Kind {
	case KindBool:
		return FamilyBool
	case KindI32, KindI64:
		return FamilySignedInt
	case KindU8, KindU32, KindU64, KindUSize:
		return FamilyUnsignedInt
	case KindPointer:
		return FamilyPointer
	case KindStruct:
		return FamilyStruct
	}
	return FamilyNone
}

// Accepts reports whether t belongs to one of the families in m.
func (m FamilyMask) Accepts(t *Type) bool {
	if m&FamilyAny != 0 {
		return true
	}
	return FamilyOf(t)&m != 0
}

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	// BinaryResultNumeric is the promoted common type of both operands.
	BinaryResultNumeric
	BinaryResultBool
)

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint16

const (
	BinaryFlagNone         BinaryFlags = 0
	BinaryFlagShortCircuit BinaryFlags = 1 << iota
	BinaryFlagCommutative
	// BinaryFlagSameType requires equal operand types unless both are numeric.
	BinaryFlagSameType
)

// BinarySpec lists operand families and expected result for an operation.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result BinaryResult
	Flags  BinaryFlags
}

// UnaryResult indicates how to derive the resulting type.
type UnaryResult uint8

const (
	UnaryResultUnknown UnaryResult = iota
	UnaryResultSame
	UnaryResultBool
	UnaryResultReference // &expr
	UnaryResultDeref     // *expr
)

// UnaryFlags capture operator-specific metadata.
type UnaryFlags uint8

const (
	UnaryFlagNone                UnaryFlags = 0
	UnaryFlagRequiresAddressable UnaryFlags = 1 << iota
)

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand FamilyMask
	Result  UnaryResult
	Flags   UnaryFlags
}

var (
	arith   = BinarySpec{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric}
	arithC  = BinarySpec{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative}
	ordered = BinarySpec{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultBool}
	logical = BinarySpec{Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool, Flags: BinaryFlagShortCircuit}
	equal   = BinarySpec{
		Left:   FamilyNumeric | FamilyBool | FamilyPointer,
		Right:  FamilyNumeric | FamilyBool | FamilyPointer,
		Result: BinaryResultBool,
		Flags:  BinaryFlagSameType | BinaryFlagCommutative,
	}
)

var binarySpecTable = map[ast.ExprBinaryOp]BinarySpec{
	ast.ExprBinaryAdd:        arithC,
	ast.ExprBinarySub:        arith,
	ast.ExprBinaryMul:        arithC,
	ast.ExprBinaryDiv:        arith,
	ast.ExprBinaryMod:        arith,
	ast.ExprBinaryBitAnd:     arithC,
	ast.ExprBinaryBitOr:      arithC,
	ast.ExprBinaryBitXor:     arithC,
	ast.ExprBinaryShiftLeft:  arith,
	ast.ExprBinaryShiftRight: arith,
	ast.ExprBinaryLogicalAnd: logical,
	ast.ExprBinaryLogicalOr:  logical,
	ast.ExprBinaryEq:         equal,
	ast.ExprBinaryNotEq:      equal,
	ast.ExprBinaryLess:       ordered,
	ast.ExprBinaryLessEq:     ordered,
	ast.ExprBinaryGreater:    ordered,
	ast.ExprBinaryGreaterEq:  ordered,
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.ExprUnaryMinus: {Operand: FamilySignedInt, Result: UnaryResultSame},
	ast.ExprUnaryNot:   {Operand: FamilyBool | FamilyIntegral, Result: UnaryResultSame},
	ast.ExprUnaryDeref: {Operand: FamilyPointer, Result: UnaryResultDeref},
	ast.ExprUnaryRef:   {Operand: FamilyAny, Result: UnaryResultReference, Flags: UnaryFlagRequiresAddressable},
}

// BinarySpecFor returns operand rules for the given operator.
func BinarySpecFor(op ast.ExprBinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// UnarySpecFor returns operand/result hints for unary operators.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}
