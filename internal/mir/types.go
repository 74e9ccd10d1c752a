package mir

import "ferrite/internal/types"

// TypeKind enumerates concrete type kinds. There is no size type, no
// generic and no unknown: those are discharged by Lower.
type TypeKind uint8

const (
	TypeI32 TypeKind = iota + 1
	TypeI64
	TypeU32
	TypeU64
	TypeU8
	TypeBool
	TypeVoid
	TypePtr
	TypeStruct
)

func (k TypeKind) String() string {
	switch k {
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeU8:
		return "u8"
	case TypeBool:
		return "bool"
	case TypeVoid:
		return "void"
	case TypePtr:
		return "ptr"
	case TypeStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Type is a concrete, fixed-width type.
type Type struct {
	Kind   TypeKind
	Elem   *Type   // TypePtr
	Struct *Struct // TypeStruct
}

// Struct is a fully laid out struct instantiation. Name is the
// instantiation identity (Vec<u8>), BaseName the declared name.
type Struct struct {
	Name     string
	BaseName string
	Fields   []Field
}

type Field struct {
	Name string
	Type *Type
}

var (
	I32  = &Type{Kind: TypeI32}
	I64  = &Type{Kind: TypeI64}
	U32  = &Type{Kind: TypeU32}
	U64  = &Type{Kind: TypeU64}
	U8   = &Type{Kind: TypeU8}
	Bool = &Type{Kind: TypeBool}
	Void = &Type{Kind: TypeVoid}
)

func PtrTo(elem *Type) *Type {
	return &Type{Kind: TypePtr, Elem: elem}
}

// FromKind maps a fixed-width resolved kind to its concrete type. It
// returns nil for usize and for every non-primitive kind.
func FromKind(k types.Kind) *Type {
	switch k {
	case types.KindI32:
		return I32
	case types.KindI64:
		return I64
	case types.KindU32:
		return U32
	case types.KindU64:
		return U64
	case types.KindU8:
		return U8
	case types.KindBool:
		return Bool
	case types.KindVoid:
		return Void
	}
	return nil
}

// ResolvedKind is the inverse of FromKind for integer types; it lets the
// concretizer feed concrete operands back into types.Promote.
func (t *Type) ResolvedKind() types.Kind {
	switch t.Kind {
	case TypeI32:
		return types.KindI32
	case TypeI64:
		return types.KindI64
	case TypeU32:
		return types.KindU32
	case TypeU64:
		return types.KindU64
	case TypeU8:
		return types.KindU8
	case TypeBool:
		return types.KindBool
	case TypeVoid:
		return types.KindVoid
	}
	return types.KindUnknown
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypePtr:
		return "*" + t.Elem.String()
	case TypeStruct:
		return t.Struct.Name
	default:
		return t.Kind.String()
	}
}

func (t *Type) IsInteger() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case TypeI32, TypeI64, TypeU32, TypeU64, TypeU8:
		return true
	}
	return false
}

func (t *Type) IsSigned() bool {
	return t != nil && (t.Kind == TypeI32 || t.Kind == TypeI64)
}

// IsAggregate reports types passed by hidden pointer.
func (t *Type) IsAggregate() bool {
	return t != nil && t.Kind == TypeStruct
}

// Bits returns the width of integer types, 8 for bool, 0 otherwise.
func (t *Type) Bits() int {
	switch t.Kind {
	case TypeI32, TypeU32:
		return 32
	case TypeI64, TypeU64:
		return 64
	case TypeU8, TypeBool:
		return 8
	}
	return 0
}

// Equal compares structurally; structs compare by identity.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case TypePtr:
		return Equal(a.Elem, b.Elem)
	case TypeStruct:
		return a.Struct.Name == b.Struct.Name
	}
	return true
}

// FieldIndex returns the position of name, -1 if absent.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
