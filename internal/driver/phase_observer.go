package driver

import (
	"time"

	"a68/internal/session"
)

// PhaseStatus is the kind of a PhaseEvent.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseSkipped is sent for each semantic phase that did not run
	// because the program has syntax errors.
	PhaseSkipped
)

func (s PhaseStatus) String() string {
	switch s {
	case PhaseStart:
		return "start"
	case PhaseEnd:
		return "end"
	case PhaseSkipped:
		return "skipped"
	}
	return "unknown"
}

// PhaseEvent marks a phase boundary. Elapsed and Result are set on
// PhaseEnd only.
type PhaseEvent struct {
	Phase   session.Phase
	Status  PhaseStatus
	Elapsed time.Duration
	Result  session.Result
}

// PhaseObserver is called synchronously from Run, on the goroutine
// compiling the file.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(phase session.Phase, status PhaseStatus, elapsed time.Duration, r session.Result) {
	if o == nil {
		return
	}
	o(PhaseEvent{Phase: phase, Status: status, Elapsed: elapsed, Result: r})
}
