package session

// Phase names one pass of the front end. The names double as trace span
// and timer labels.
type Phase string

const (
	PhaseScan       Phase = "scan"
	PhaseRefine     Phase = "refine"
	PhaseBrackets   Phase = "brackets"
	PhaseTopDown    Phase = "top-down"
	PhaseBottomUp   Phase = "bottom-up"
	PhaseBind       Phase = "bind"
	PhaseModes      Phase = "modes"
	PhaseModeCheck  Phase = "mode-check"
	PhaseCoerce     Phase = "coerce"
	PhaseScopeCheck Phase = "scope-check"
)

// Phases lists every phase in pipeline order.
func Phases() []Phase {
	return []Phase{
		PhaseScan, PhaseRefine, PhaseBrackets, PhaseTopDown, PhaseBottomUp,
		PhaseBind, PhaseModes, PhaseModeCheck, PhaseCoerce, PhaseScopeCheck,
	}
}

// IsSyntax reports whether p belongs to the syntax half of the pipeline.
func (p Phase) IsSyntax() bool {
	switch p {
	case PhaseScan, PhaseRefine, PhaseBrackets, PhaseTopDown, PhaseBottomUp, PhaseBind:
		return true
	}
	return false
}

// Status is the outcome of one phase.
type Status uint8

const (
	// StatusOK means no errors were reported.
	StatusOK Status = iota
	// StatusRecovered means errors were reported but the tree is usable.
	StatusRecovered
	// StatusFatal means the phase gave up; later phases must not run.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRecovered:
		return "recovered"
	case StatusFatal:
		return "fatal"
	}
	return "unknown"
}

// Result is what a phase hands back to the driver.
type Result struct {
	Phase    Phase  `json:"phase" msgpack:"phase"`
	Status   Status `json:"status" msgpack:"status"`
	Errors   int    `json:"errors" msgpack:"errors"`
	Warnings int    `json:"warnings" msgpack:"warnings"`
	Note     string `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if a > b {
		return a
	}
	return b
}
