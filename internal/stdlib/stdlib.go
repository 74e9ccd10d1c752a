// Package stdlib embeds the standard prelude: the generic Vec<T> and the
// allocator and print intrinsics every program may call.
package stdlib

import (
	_ "embed"
	"fmt"

	"ferrite/internal/ast"
	"ferrite/internal/astio"
	"ferrite/internal/source"
)

// ModuleName is the name user modules refer to in `use` items.
const ModuleName = "prelude"

// Path is the virtual path of the prelude in a FileSet.
const Path = "<prelude>/prelude.yaml"

//go:embed prelude.yaml
var preludeYAML []byte

// Source returns the embedded prelude document.
func Source() []byte {
	return preludeYAML
}

// Load decodes the prelude and registers it in fs.
func Load(fs *source.FileSet) (*ast.Module, error) {
	id := fs.Add(Path, preludeYAML, source.FileVirtual|source.FilePrelude)
	m, err := astio.Decode(Path, preludeYAML, astio.FormatYAML, id)
	if err != nil {
		return nil, fmt.Errorf("stdlib: %w", err)
	}
	return m, nil
}
