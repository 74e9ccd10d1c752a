package mono

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"ferrite/internal/types"
)

// Identity renders the canonical key of one instantiation:
//
//	name(params)->ret            non-generic
//	name<args>(params)->ret      generic
//
// Generic arguments are part of the key so that parameters used only in
// the body (size_of<T>()) still give distinct instantiations.
func Identity(name string, generics, params []*types.Type, ret *types.Type) string {
	var b strings.Builder
	b.WriteString(name)
	if len(generics) > 0 {
		b.WriteByte('<')
		writeTypes(&b, generics)
		b.WriteByte('>')
	}
	b.WriteByte('(')
	writeTypes(&b, params)
	b.WriteString(")->")
	b.WriteString(ret.String())
	return b.String()
}

// TemplateIdentity is the key of a muted template check of name, used when
// a call site supplied a wrong number of generic arguments.
func TemplateIdentity(name string) string {
	return name + "<?>"
}

func writeTypes(b *strings.Builder, ts []*types.Type) {
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
}

// SymbolName returns the backend symbol of an instantiation. Non-generic
// functions keep their name; instances get a stable hash suffix of their
// identity. Method separators are flattened to '.'.
func SymbolName(name, identity string, generic bool) string {
	base := strings.ReplaceAll(name, "::", ".")
	if !generic {
		return base
	}
	return base + "$" + strconv.FormatUint(xxhash.Sum64String(identity), 16)
}
