package ui

import (
	"strings"
	"testing"

	"ferrite/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan Event)
	m := NewProgressModel("checking", []string{"a.yaml", "b.yaml"}, events).(*progressModel)

	m.Update(eventMsg(FromPhase(driver.PhaseEvent{Path: "a.yaml", Name: "sema", Status: driver.PhaseStart})))
	if m.items[0].status != "checking" || m.items[0].stage != StageSema {
		t.Fatalf("item a %+v", m.items[0])
	}
	// later phases never move a file backwards
	m.Update(eventMsg(FromPhase(driver.PhaseEvent{Path: "a.yaml", Name: "decode"})))
	if m.items[0].stage != StageSema {
		t.Fatalf("stage went back to %d", m.items[0].stage)
	}
	if got := m.percent(); got != 0.2 {
		t.Fatalf("percent %v", got)
	}

	m.Update(eventMsg(Finished("a.yaml", false)))
	m.Update(eventMsg(Finished("b.yaml", true)))
	m.Update(eventMsg(FromPhase(driver.PhaseEvent{Path: "b.yaml", Name: "layout"})))
	if m.items[0].status != "done" || m.items[1].status != "error" {
		t.Fatalf("items %+v", m.items)
	}
	if m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("finished=%d percent=%v", m.finished(), m.percent())
	}

	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("done message should quit")
	}
	view := m.View()
	if !strings.Contains(view, "done: checking (2/2)") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestUnknownFileIgnored(t *testing.T) {
	m := NewProgressModel("x", []string{"a.yaml"}, nil).(*progressModel)
	if cmd := m.applyEvent(Event{File: "zzz.yaml", Status: StatusDone}); cmd != nil {
		t.Fatal("event for an unknown file produced a command")
	}
}

func TestTruncateUsesDisplayWidth(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.yaml", 20, "short.yaml"},
		{"a/very/long/path/file.yaml", 10, "a/ve..."},
		{"файлы/名前.yaml", 8, "фа..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
