package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "demo"

[build]
target = "wasm32"
entry = "main"
prelude = false
sources = ["src/*.yaml"]
max_instantiation_depth = 16
`)
	writeFile(t, filepath.Join(root, "src", "b.yaml"), "module: b\n")
	writeFile(t, filepath.Join(root, "src", "a.yaml"), "module: a\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Entry != "main" {
		t.Fatalf("config %+v", m.Config)
	}
	if m.Config.Build.PreludeEnabled() {
		t.Fatal("prelude = false ignored")
	}
	if tg := m.Target(); tg.Name != "wasm32" || tg.PtrWidth != 32 {
		t.Fatalf("target %+v", tg)
	}
	files, err := m.SourceFiles()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(root, "src", "a.yaml"), filepath.Join(root, "src", "b.yaml")}
	if diff := cmp.Diff(want, files); diff != "" {
		t.Fatalf("sources (-want +got):\n%s", diff)
	}
}

func TestDiscoverWithoutManifest(t *testing.T) {
	_, ok, err := Discover(t.TempDir())
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
		is    error
	}{
		{"no package", "[build]\nentry = \"main\"\n", "", ErrPackageSectionMissing},
		{"no name", "[package]\n", "", ErrPackageNameMissing},
		{"bad target", "[package]\nname = \"x\"\n[build]\ntarget = \"sparc\"\n", "build.target", nil},
		{"negative depth", "[package]\nname = \"x\"\n[build]\nmax_instantiation_depth = -1\n", "build.max_instantiation_depth", nil},
		{"huge limit", "[package]\nname = \"x\"\n[build]\nmax_diagnostics = 100000\n", "build.max_diagnostics", nil},
		{"unknown key", "[package]\nname = \"x\"\nversion = \"1\"\n", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.text)
			_, err := Load(path)
			var perr *Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if perr.Field != tt.field {
				t.Fatalf("field %q, want %q (%v)", perr.Field, tt.field, err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %v is not %v", err, tt.is)
			}
		})
	}
}
