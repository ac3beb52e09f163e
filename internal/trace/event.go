package trace

import "time"

// Kind is the shape of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one compilation
	ScopePass                    // one front-end phase
	ScopeRange                   // one range, serial clause or bracket pair inside a phase
	ScopeNode                    // one reduction or coercion
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeRange:  "range",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Tracers may keep the pointer only for the
// duration of Emit.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	GID      uint64 // goroutine that emitted the event
	Name     string // phase or rule name: "scan", "bottom-up", "reduce"
	Detail   string
	Extra    map[string]string
}
