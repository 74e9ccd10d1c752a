package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStackShadowingAndPop(t *testing.T) {
	s := NewStack[int]()
	s.Define("x", 1)
	pop := s.Push(ScopeFunction)
	s.Define("x", 2)
	s.Define("y", 3)
	if v, _ := s.Lookup("x"); v != 2 {
		t.Fatalf("inner x must shadow outer, got %d", v)
	}
	pop()
	if v, _ := s.Lookup("x"); v != 1 {
		t.Fatalf("outer x must be visible after pop, got %d", v)
	}
	if _, ok := s.Lookup("y"); ok {
		t.Fatalf("y must not escape its frame")
	}
	if s.Depth() != 1 {
		t.Fatalf("expected only the root frame, depth=%d", s.Depth())
	}
}

func TestFrameKeepsInsertionOrder(t *testing.T) {
	s := NewStack[string]()
	defer s.Push(ScopeGeneric)()
	s.Define("T", "i32")
	s.Define("U", "u8")
	s.Define("T", "i64")
	if diff := cmp.Diff([]string{"T", "U"}, s.Top().Names()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
	if v, _ := s.Top().Get("T"); v != "i64" {
		t.Fatalf("redefinition must replace value, got %q", v)
	}
}

func TestUnbalancedPopPanics(t *testing.T) {
	s := NewStack[int]()
	outer := s.Push(ScopeFunction)
	inner := s.Push(ScopeBlock)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-order pop")
		}
		inner()
		outer()
	}()
	outer()
}

func TestPopReleasesOnPanic(t *testing.T) {
	s := NewStack[int]()
	func() {
		defer func() { _ = recover() }()
		defer s.Push(ScopeStructLit)()
		s.Define("tmp", 1)
		panic("abort")
	}()
	if s.Depth() != 1 {
		t.Fatalf("frame leaked across abort, depth=%d", s.Depth())
	}
}
