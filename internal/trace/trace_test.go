package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestStreamTracerIndentsChildren(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	root := Begin(tr, ScopePass, "sema", 0)
	child := Begin(tr, ScopeFunc, "fn:main()->void", root.ID())
	Begin(tr, ScopeNode, "struct:Vec<u8>", child.ID()).End("")
	child.End("")
	root.WithExtra("instances", "1").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines (node scope filtered), got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "  → fn:main()->void") {
		t.Errorf("child not indented: %q", lines[1])
	}
	if !strings.HasSuffix(lines[3], "← sema {instances=1}") {
		t.Errorf("unexpected end line: %q", lines[3])
	}
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		Point(r, ScopeNode, "p", "", 0)
	}
	events := r.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Seq <= events[i-1].Seq {
			t.Fatalf("snapshot not ordered: %v", events)
		}
	}
}

func TestRingTracerAtErrorLevelRecordsEverything(t *testing.T) {
	r := NewRingTracer(8, LevelError)
	Begin(r, ScopeNode, "struct:Pair<u8>", 0).End("")
	if n := len(r.Snapshot()); n != 2 {
		t.Fatalf("expected begin+end in ring, got %d", n)
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	sp := Begin(Nop, ScopePass, "sema", 7)
	if sp.ID() != 7 {
		t.Fatalf("disabled span should inherit parent id, got %d", sp.ID())
	}
	if d := sp.WithExtra("k", "v").End("done"); d != 0 {
		t.Fatalf("disabled span reported duration %v", d)
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatal("empty context should yield Nop")
	}
	r := NewRingTracer(4, LevelPhase)
	ctx = WithTracer(ctx, r)
	sp := Begin(FromContext(ctx), ScopeDriver, "check", 0)
	ctx = WithSpan(ctx, sp)
	if got := CurrentSpan(ctx).SpanID; got != sp.ID() || got == 0 {
		t.Fatalf("span id not propagated: %d", got)
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		l, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if l.String() != strings.ToLower(s) {
			t.Errorf("round trip %q -> %q", s, l)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
