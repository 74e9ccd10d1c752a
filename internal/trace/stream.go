package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes events to an io.Writer as they arrive. Text output is
// indented by span nesting.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
	depth  map[uint64]int // open span -> depth
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{
		w:      w,
		level:  level,
		format: format,
		start:  time.Now(),
		depth:  make(map[uint64]int),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	depth := 0
	if d, ok := t.depth[ev.ParentID]; ok && ev.ParentID != 0 {
		depth = d + 1
	}
	switch ev.Kind {
	case KindSpanBegin:
		t.depth[ev.SpanID] = depth
	case KindSpanEnd:
		if d, ok := t.depth[ev.SpanID]; ok {
			depth = d
		}
		delete(t.depth, ev.SpanID)
	}
	// трассировка не должна ронять компиляцию
	_, _ = t.w.Write(FormatEvent(ev, t.format, depth, t.start))
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stderr/stdout-like and
// does not implement io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
