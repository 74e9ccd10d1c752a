package ast

import "ferrite/internal/source"

// ItemKind enumerates top-level items.
type ItemKind uint8

const (
	ItemFn ItemKind = iota
	ItemImpl
	ItemTypeDef
	ItemInterface
	ItemUse
)

func (k ItemKind) String() string {
	switch k {
	case ItemFn:
		return "Function"
	case ItemImpl:
		return "Implementation"
	case ItemTypeDef:
		return "TypeDef"
	case ItemInterface:
		return "Interface"
	case ItemUse:
		return "Use"
	default:
		return "Unknown"
	}
}

// AllocMode is the optional allocation-mode marker on a function declaration.
type AllocMode uint8

const (
	AllocDefault AllocMode = iota
	AllocStack
	AllocHeap
)

func (m AllocMode) String() string {
	switch m {
	case AllocStack:
		return "stack"
	case AllocHeap:
		return "heap"
	default:
		return "default"
	}
}

// ParseAllocMode maps the textual marker back to AllocMode.
func ParseAllocMode(s string) (AllocMode, bool) {
	switch s {
	case "", "default":
		return AllocDefault, true
	case "stack":
		return AllocStack, true
	case "heap":
		return AllocHeap, true
	}
	return AllocDefault, false
}

// GenericParam is a declared generic parameter with interface restrictions.
type GenericParam struct {
	Name         string
	Restrictions []string
	Span         source.Span
}

// Param is a declared function parameter.
type Param struct {
	Name string
	Type *Type
	Span source.Span
}

// FnDecl is a function signature.
type FnDecl struct {
	Name     string
	Generics []GenericParam
	Params   []Param
	// Variadic marks that extra arguments may follow Params.
	Variadic  bool
	Ret       *Type // nil means void
	Alloc     AllocMode
	Intrinsic bool
	Span      source.Span
}

// IsGeneric reports whether the declaration has generic parameters.
func (d *FnDecl) IsGeneric() bool {
	return len(d.Generics) > 0
}

// Item is a top-level declaration.
type Item struct {
	Kind ItemKind
	Span source.Span
	Data ItemData
}

// ItemData is the kind-specific payload of an Item.
type ItemData interface {
	itemData()
}

// FnData holds data for ItemFn. Body is nil for intrinsics.
type FnData struct {
	Decl *FnDecl
	Body []*Stmt
}

func (*FnData) itemData() {}

// ImplData holds data for ItemImpl: the implementation of one interface
// method for the named type.
type ImplData struct {
	Interface string
	For       string
	Fn        *FnData
}

func (*ImplData) itemData() {}

// FieldDecl is one declared struct field.
type FieldDecl struct {
	Name string
	Type *Type
	Span source.Span
}

// TypeDefData holds data for ItemTypeDef.
type TypeDefData struct {
	Name     string
	Generics []GenericParam
	Fields   []FieldDecl
}

func (*TypeDefData) itemData() {}

// InterfaceData holds data for ItemInterface.
type InterfaceData struct {
	Name    string
	Methods []*FnDecl
}

func (*InterfaceData) itemData() {}

// UseData holds data for ItemUse.
type UseData struct {
	Path string
}

func (*UseData) itemData() {}

// Module is one syntactic module as produced by the parser.
type Module struct {
	Name  string
	File  source.FileID
	Items []*Item
}

// Fns returns the function items of m in declaration order.
func (m *Module) Fns() []*FnData {
	var out []*FnData
	for _, it := range m.Items {
		if fn, ok := it.Data.(*FnData); ok {
			out = append(out, fn)
		}
	}
	return out
}
