package diagfmt

import (
	"path/filepath"
	"strings"

	"ferrite/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	Context  int8
	PathMode PathMode
	// BaseDir anchors PathModeRelative and PathModeAuto.
	BaseDir   string
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// autoDepth is how many directories an absolute path may have before
// PathModeAuto falls back to the base name.
const autoDepth = 4

// formatPath renders the path of f. The prelude keeps its virtual name.
func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	p := f.Path
	if f.Flags&source.FilePrelude != 0 {
		return p
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(p); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, ok := relativeTo(p, base); ok {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(p)
	case PathModeAuto:
		if rel, ok := relativeTo(p, base); ok {
			return rel
		}
		if filepath.IsAbs(p) && strings.Count(filepath.ToSlash(p), "/") > autoDepth {
			return filepath.Base(p)
		}
	}
	return p
}

func relativeTo(p, base string) (string, bool) {
	if base == "" {
		return "", false
	}
	rel, err := filepath.Rel(base, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
