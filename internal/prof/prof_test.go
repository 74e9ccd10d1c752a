package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Heap:  filepath.Join(dir, "heap.pprof"),
		Trace: filepath.Join(dir, "rt.trace"),
	}
	if !cfg.Enabled() {
		t.Fatal("config with paths must be enabled")
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, p := range []string{cfg.CPU, cfg.Heap, cfg.Trace} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", filepath.Base(p), err)
		}
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	if err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
	if (Config{}).Enabled() {
		t.Error("empty config must be disabled")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Errorf("nil session Stop: %v", err)
	}
}
