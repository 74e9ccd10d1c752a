package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"ferrite/internal/diag"
	"ferrite/internal/layout"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "ferrite"))
	if err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if ok, err := cache.Get(42, &out); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}
	in := &DiskPayload{
		Path:   "main.yaml",
		Module: "main",
		Broken: true,
		Diagnostics: []CachedDiagnostic{{
			Severity: uint8(diag.SevError),
			Code:     uint16(diag.SemaTypeMismatch),
			Message:  "boom",
			Span:     [3]uint32{0, 4, 9},
			Notes:    []CachedNote{{Span: [3]uint32{0, 1, 2}, Message: "here"}},
		}},
	}
	if err := cache.Put(42, in); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(42, &out)
	if !ok || err != nil {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(in, &out); diff != "" {
		t.Fatalf("payload (-put +get):\n%s", diff)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cache.Dir()); !os.IsNotExist(err) {
		t.Fatalf("cache dir survived DropAll: %v", err)
	}
}

func TestNilDiskCacheIsInert(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(1, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(1, &DiskPayload{}); ok || err != nil {
		t.Fatalf("nil cache hit: %v %v", ok, err)
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	data := []byte(pairDoc)
	base := Options{Entry: "main"}.normalized()
	key := cacheKey("a.yaml", data, base)
	if key != cacheKey("a.yaml", data, base) {
		t.Fatal("key is not deterministic")
	}
	variants := map[string]Options{
		"target":  func() Options { o := base; o.Target = layout.Wasm32(); return o }(),
		"entry":   func() Options { o := base; o.Entry = ""; return o }(),
		"prelude": func() Options { o := base; o.NoPrelude = true; return o }(),
		"depth":   func() Options { o := base; o.MaxDepth = 3; return o }(),
	}
	for name, opts := range variants {
		if cacheKey("a.yaml", data, opts) == key {
			t.Errorf("%s does not change the key", name)
		}
	}
	if cacheKey("a.yaml", append([]byte("# x\n"), data...), base) == key {
		t.Error("input bytes do not change the key")
	}
}

func TestCheckRestoresFromCache(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}
	ctx := context.Background()

	first, err := Check(ctx, "broken.yaml", []byte(brokenDoc), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first check cannot be a cache hit")
	}
	second, err := Check(ctx, "broken.yaml", []byte(brokenDoc), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatal("second check should hit the cache")
	}
	if diff := cmp.Diff(first.Bag.Items(), second.Bag.Items(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("restored diagnostics (-fresh +cached):\n%s", diff)
	}
	if !second.Broken() || second.ModuleName != "main" {
		t.Fatalf("restored result %+v", second)
	}
	if second.FileSet.Get(second.Bag.Items()[0].Primary.File) == nil {
		t.Fatal("cached span does not resolve")
	}
}

func TestCheckIgnoresDamagedPayload(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}.normalized()
	data := []byte(brokenDoc)
	key := cacheKey("broken.yaml", data, opts)
	bad := &DiskPayload{Path: "broken.yaml", Diagnostics: []CachedDiagnostic{{Severity: 7, Message: "?"}}}
	if err := cache.Put(key, bad); err != nil {
		t.Fatal(err)
	}
	res, err := Check(context.Background(), "broken.yaml", data, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatal("payload with an unknown severity must not be restored")
	}
	if !res.Broken() {
		t.Fatal("recompiled result lost its diagnostics")
	}
}
