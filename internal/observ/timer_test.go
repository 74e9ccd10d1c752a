package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestReportTotalsTopLevelPhases(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	done := tm.Track("check")
	tm.End(tm.Begin("check/a.yaml"), "ok")
	done("1 file")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases=%d", len(r.Phases))
	}
	// check: begin at 1, end at 4; nested: 2..3
	if r.Phases[0].DurationMS != 3 || r.Phases[1].DurationMS != 1 {
		t.Fatalf("durations %+v", r.Phases)
	}
	if r.TotalMS != 3 {
		t.Fatalf("total %v, want 3", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "// 1 file") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("")
	if r := tm.Report(); len(r.Phases) != 0 {
		t.Fatal("nil timer reported phases")
	}
}
