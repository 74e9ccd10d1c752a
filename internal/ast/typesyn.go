package ast

import (
	"strings"

	"ferrite/internal/source"
)

// TypeKind enumerates syntactic type forms.
type TypeKind uint8

const (
	// TypeRef is a named type with optional generic arguments: Name<Args...>.
	TypeRef TypeKind = iota
	// TypePtr is a pointer to Elem.
	TypePtr
	// TypeInfer stands for an omitted annotation; it is eliminated before
	// type resolution by propagating the initializer's type.
	TypeInfer
)

// Type is an unresolved, purely syntactic type reference.
type Type struct {
	Kind TypeKind
	Span source.Span
	Name string  // TypeRef
	Args []*Type // TypeRef generic arguments, nil when none were written
	Elem *Type   // TypePtr
}

// IsInfer reports whether t is missing or an explicit inference marker.
func (t *Type) IsInfer() bool {
	return t == nil || t.Kind == TypeInfer
}

func (t *Type) String() string {
	if t == nil {
		return "_"
	}
	switch t.Kind {
	case TypePtr:
		return "*" + t.Elem.String()
	case TypeInfer:
		return "_"
	}
	if len(t.Args) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteByte('<')
	for i, a := range t.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}
