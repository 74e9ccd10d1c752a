package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"ferrite/internal/driver"
	"ferrite/internal/observ"
)

func TestOutputNameFromPath(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"app.yaml", ".mp", "app.mp"},
		{filepath.Join("src", "lib.yml"), ".mp", filepath.Join("src", "lib.mp")},
		{"doc.mp", ".mp", "doc.out.mp"},
		{"noext", ".mp", "noext.mp"},
	}
	for _, tt := range tests {
		if got := outputNameFromPath(tt.in, tt.ext); got != tt.want {
			t.Errorf("outputNameFromPath(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}

func TestReadSwitch(t *testing.T) {
	for in, want := range map[string]switchMode{"": modeAuto, "AUTO": modeAuto, " on ": modeOn, "off": modeOff} {
		got, err := readSwitch("color", in)
		if err != nil || got != want {
			t.Errorf("readSwitch(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := readSwitch("ui", "sometimes"); err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Errorf("expected an error naming --ui, got %v", err)
	}
	if modeOn.enabled(nil) != true || modeOff.enabled(nil) != false {
		t.Error("explicit modes must not consult the terminal")
	}
}

func TestPrintTimingsSkipsCached(t *testing.T) {
	results := []*driver.Result{
		{Path: "a.yaml", Timing: &observ.Report{TotalMS: 1.5, Phases: []observ.PhaseReport{
			{Name: "decode", DurationMS: 0.5},
			{Name: "layout", DurationMS: 1, Note: "2 structs"},
		}}},
		{Path: "b.yaml", Cached: true},
	}
	var buf bytes.Buffer
	printTimings(&buf, results)
	out := buf.String()
	if !strings.HasPrefix(out, "a.yaml: 1.5 ms\n") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "(2 structs)") {
		t.Errorf("missing phase note:\n%s", out)
	}
	if strings.Contains(out, "b.yaml") {
		t.Errorf("cached result must not be listed:\n%s", out)
	}
}

func TestCollectVersionFull(t *testing.T) {
	p := collectVersion(true)
	if p.Tool != "ferrite" || p.Version == "" {
		t.Fatalf("unexpected payload %+v", p)
	}
	if p.GitCommit == "" || p.BuildDate == "" {
		t.Errorf("full payload must fill unknown fields: %+v", p)
	}
}
