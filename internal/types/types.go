package types

import (
	"fmt"
	"strings"
)

// Kind enumerates resolved type kinds.
type Kind uint8

const (
	// KindUnknown is the poisoned placeholder produced after an error has
	// been reported. Consumers must not report it again.
	KindUnknown Kind = iota
	KindI32
	KindI64
	KindU32
	KindU64
	// KindUSize is the pointer-width unsigned integer.
	KindUSize
	KindU8
	KindBool
	KindVoid
	KindPointer
	KindStruct
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "{unknown}"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindUSize:
		return "usize"
	case KindU8:
		return "u8"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	case KindGeneric:
		return "generic"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsNumeric reports integer kinds, including usize.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindI32, KindI64, KindU32, KindU64, KindUSize, KindU8:
		return true
	}
	return false
}

// IsSigned reports signed integer kinds.
func (k Kind) IsSigned() bool {
	return k == KindI32 || k == KindI64
}

// Type is a structurally resolved type. Values are immutable once built.
type Type struct {
	Kind    Kind
	Elem    *Type    // KindPointer
	Struct  *Struct  // KindStruct
	Generic *Generic // KindGeneric
}

// Field is one resolved struct field.
type Field struct {
	Name string
	Type *Type
}

// Struct is a resolved (possibly instantiated) struct type.
type Struct struct {
	// Name is the instantiation identity: BaseName, or BaseName<args>.
	Name     string
	BaseName string
	Fields   []Field
	Args     []*Type
}

// FieldIndex returns the position of the named field or -1.
func (s *Struct) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Generic is an unbound generic parameter.
type Generic struct {
	Name         string
	Restrictions []string
}

var (
	Unknown = &Type{Kind: KindUnknown}
	I32     = &Type{Kind: KindI32}
	I64     = &Type{Kind: KindI64}
	U32     = &Type{Kind: KindU32}
	U64     = &Type{Kind: KindU64}
	USize   = &Type{Kind: KindUSize}
	U8      = &Type{Kind: KindU8}
	Bool    = &Type{Kind: KindBool}
	Void    = &Type{Kind: KindVoid}
)

// Primitives lists the built-in type names bound in the root type scope.
func Primitives() []*Type {
	return []*Type{I32, I64, U32, U64, USize, U8, Bool, Void}
}

// FromKind returns the shared primitive type for k, nil for composite kinds.
func FromKind(k Kind) *Type {
	switch k {
	case KindUnknown:
		return Unknown
	case KindI32:
		return I32
	case KindI64:
		return I64
	case KindU32:
		return U32
	case KindU64:
		return U64
	case KindUSize:
		return USize
	case KindU8:
		return U8
	case KindBool:
		return Bool
	case KindVoid:
		return Void
	}
	return nil
}

// PtrTo builds a pointer type.
func PtrTo(elem *Type) *Type {
	return &Type{Kind: KindPointer, Elem: elem}
}

// NewGeneric builds an unbound generic parameter type.
func NewGeneric(name string, restrictions ...string) *Type {
	return &Type{Kind: KindGeneric, Generic: &Generic{Name: name, Restrictions: restrictions}}
}

// NewStruct builds a struct type; the identity name is derived from base
// and args.
func NewStruct(base string, args []*Type, fields []Field) *Type {
	return &Type{Kind: KindStruct, Struct: &Struct{
		Name:     StructName(base, args),
		BaseName: base,
		Fields:   fields,
		Args:     args,
	}}
}

// StructName renders the instantiation identity of base<args>.
func StructName(base string, args []*Type) string {
	if len(args) == 0 {
		return base
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

func (t *Type) String() string {
	if t == nil {
		return "{nil}"
	}
	switch t.Kind {
	case KindPointer:
		return "*" + t.Elem.String()
	case KindStruct:
		return t.Struct.Name
	case KindGeneric:
		return t.Generic.Name
	default:
		return t.Kind.String()
	}
}

// IsUnknown reports the poisoned placeholder; nil counts as unknown.
func (t *Type) IsUnknown() bool {
	return t == nil || t.Kind == KindUnknown
}

func (t *Type) IsNumeric() bool {
	return t != nil && t.Kind.IsNumeric()
}

func (t *Type) IsPointer() bool {
	return t != nil && t.Kind == KindPointer
}

// IsVoidPtr reports *void.
func (t *Type) IsVoidPtr() bool {
	return t.IsPointer() && t.Elem != nil && t.Elem.Kind == KindVoid
}

func (t *Type) IsStruct() bool {
	return t != nil && t.Kind == KindStruct
}

// BaseName returns the name used to look up implementations for t: the
// struct base name or the primitive name.
func (t *Type) BaseName() string {
	if t.IsStruct() {
		return t.Struct.BaseName
	}
	return t.String()
}

// Equal reports structural equality. Struct types compare by identity name.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindPointer:
		return Equal(a.Elem, b.Elem)
	case KindStruct:
		return a.Struct.Name == b.Struct.Name
	case KindGeneric:
		return a.Generic.Name == b.Generic.Name
	default:
		return true
	}
}

// CanInsert reports whether a value of type src may be stored in a slot of
// type dst. Besides equality, *void accepts any pointer and any pointer
// accepts *void. Unknown on either side is accepted since it was already
// reported.
func CanInsert(dst, src *Type) bool {
	if dst.IsUnknown() || src.IsUnknown() {
		return true
	}
	if Equal(dst, src) {
		return true
	}
	if dst.IsPointer() && src.IsPointer() {
		return dst.IsVoidPtr() || src.IsVoidPtr()
	}
	return false
}

// Contains reports whether pred holds for t or any type nested in it.
func Contains(t *Type, pred func(*Type) bool) bool {
	return contains(t, pred, map[*Struct]bool{})
}

func contains(t *Type, pred func(*Type) bool, seen map[*Struct]bool) bool {
	if t == nil {
		return false
	}
	if pred(t) {
		return true
	}
	switch t.Kind {
	case KindPointer:
		return contains(t.Elem, pred, seen)
	case KindStruct:
		if seen[t.Struct] {
			return false
		}
		seen[t.Struct] = true
		for _, a := range t.Struct.Args {
			if contains(a, pred, seen) {
				return true
			}
		}
		for _, f := range t.Struct.Fields {
			if contains(f.Type, pred, seen) {
				return true
			}
		}
	}
	return false
}

// HasUnknown reports whether Unknown occurs anywhere inside t.
func HasUnknown(t *Type) bool {
	return Contains(t, func(x *Type) bool { return x.Kind == KindUnknown })
}

// HasGeneric reports whether an unbound generic occurs anywhere inside t.
func HasGeneric(t *Type) bool {
	return Contains(t, func(x *Type) bool { return x.Kind == KindGeneric })
}
