package layout

import (
	"slices"

	"ferrite/internal/types"
)

// Target describes the pointer properties of an ABI target.
type Target struct {
	Name     string // e.g. "x86_64"
	PtrWidth types.PtrWidth
}

func X86_64() Target {
	return Target{Name: "x86_64", PtrWidth: types.Ptr64}
}

func I386() Target {
	return Target{Name: "i386", PtrWidth: types.Ptr32}
}

func Wasm32() Target {
	return Target{Name: "wasm32", PtrWidth: types.Ptr32}
}

var targets = map[string]func() Target{
	"x86_64": X86_64,
	"amd64":  X86_64,
	"i386":   I386,
	"x86":    I386,
	"wasm32": Wasm32,
}

// TargetByName resolves a target name as written in ferrite.toml or on the
// command line.
func TargetByName(name string) (Target, bool) {
	mk, ok := targets[name]
	if !ok {
		return Target{}, false
	}
	return mk(), true
}

// TargetNames lists the accepted target names.
func TargetNames() []string {
	out := make([]string, 0, len(targets))
	for name := range targets {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (t Target) ptrSize() int {
	return t.PtrWidth.Bytes()
}
