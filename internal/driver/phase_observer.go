package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary of one input.
type PhaseEvent struct {
	Path    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted by Compile and Check. With
// CheckFiles it is called from several goroutines at once.
type PhaseObserver func(PhaseEvent)

// phaseTracker pairs the observ timer with the observer so each phase is
// recorded once and reported to both.
type phaseTracker struct {
	path     string
	observer PhaseObserver
	track    func(name string) func(note string)
}

func (p phaseTracker) begin(name string) func(note string) {
	start := time.Now()
	if p.observer != nil {
		p.observer(PhaseEvent{Path: p.path, Name: name, Status: PhaseStart})
	}
	end := p.track(name)
	return func(note string) {
		end(note)
		if p.observer != nil {
			p.observer(PhaseEvent{Path: p.path, Name: name, Status: PhaseEnd, Elapsed: time.Since(start)})
		}
	}
}
