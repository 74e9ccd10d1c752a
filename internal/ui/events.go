package ui

import "ferrite/internal/driver"

// Stage is the coarse pipeline step shown for a file.
type Stage uint8

const (
	StageNone Stage = iota
	StageDecode
	StageSema
	StageLower
	StageLayout
)

// Status is the state of a file or of the whole run.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event drives the progress model. An empty File addresses the run as a
// whole.
type Event struct {
	File   string
	Stage  Stage
	Status Status
}

// FromPhase maps a driver phase boundary to a progress event. Phase ends
// keep the file working; completion is reported by the caller with
// Finished once the result is known.
func FromPhase(ev driver.PhaseEvent) Event {
	return Event{File: ev.Path, Stage: stageOf(ev.Name), Status: StatusWorking}
}

// Finished reports the final state of one file.
func Finished(path string, broken bool) Event {
	if broken {
		return Event{File: path, Status: StatusError}
	}
	return Event{File: path, Status: StatusDone}
}

func stageOf(phase string) Stage {
	switch phase {
	case "decode", "prelude":
		return StageDecode
	case "sema":
		return StageSema
	case "lower", "validate":
		return StageLower
	case "layout":
		return StageLayout
	}
	return StageNone
}
