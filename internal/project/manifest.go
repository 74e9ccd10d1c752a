package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"ferrite/internal/layout"
)

// Manifest is a loaded ferrite.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest sections.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	// Target is a layout target name; empty selects x86_64.
	Target string `toml:"target"`
	// Entry names the entry function; empty checks a library.
	Entry   string `toml:"entry"`
	Prelude *bool  `toml:"prelude"`
	// Sources are glob patterns of syntactic module documents, relative
	// to the manifest directory.
	Sources               []string `toml:"sources"`
	MaxInstantiationDepth int      `toml:"max_instantiation_depth"`
	MaxDiagnostics        int      `toml:"max_diagnostics"`
}

// PreludeEnabled reports whether the standard prelude is loaded; it is
// unless the manifest says prelude = false.
func (c BuildConfig) PreludeEnabled() bool {
	return c.Prelude == nil || *c.Prelude
}

// Error is a manifest problem. Field is the dotted key, empty for parse
// failures.
type Error struct {
	Path  string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: [%s]: %v", e.Path, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	// ErrPackageSectionMissing indicates that [package] is missing.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Load parses and validates a manifest.
func Load(path string) (*Manifest, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, &Error{Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}
	if !meta.IsDefined("package") {
		return nil, &Error{Path: path, Err: ErrPackageSectionMissing}
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, &Error{Path: path, Err: ErrPackageNameMissing}
	}
	if err := cfg.Build.validate(); err != nil {
		err.Path = path
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func (c BuildConfig) validate() *Error {
	if c.Target != "" {
		if _, ok := layout.TargetByName(c.Target); !ok {
			return &Error{Field: "build.target", Err: fmt.Errorf("unknown target %q (known: %s)", c.Target, strings.Join(layout.TargetNames(), ", "))}
		}
	}
	if c.MaxInstantiationDepth < 0 {
		return &Error{Field: "build.max_instantiation_depth", Err: errors.New("must not be negative")}
	}
	if _, err := safecast.Conv[uint16](c.MaxDiagnostics); err != nil {
		return &Error{Field: "build.max_diagnostics", Err: fmt.Errorf("out of range: %w", err)}
	}
	return nil
}

// Target resolves [build].target, x86_64 by default.
func (m *Manifest) Target() layout.Target {
	if t, ok := layout.TargetByName(m.Config.Build.Target); ok {
		return t
	}
	return layout.X86_64()
}

// SourceFiles expands [build].sources into sorted, deduplicated paths. A
// manifest without sources lists every .yaml and .mp document next to it.
func (m *Manifest) SourceFiles() ([]string, error) {
	patterns := m.Config.Build.Sources
	if len(patterns) == 0 {
		patterns = []string{"*.yaml", "*.yml", "*.mp"}
	}
	var out []string
	for _, p := range patterns {
		matches, err := filepath.Glob(filepath.Join(m.Root, filepath.FromSlash(p)))
		if err != nil {
			return nil, &Error{Path: m.Path, Field: "build.sources", Err: err}
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
