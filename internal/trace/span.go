package trace

import "time"

// Span is an open begin/end pair. A span that was filtered out by the
// level still accepts every call and emits nothing.
type Span struct {
	tracer Tracer
	id     uint64
	parent uint64
	gid    uint64
	scope  Scope
	name   string
	start  time.Time
	extra  map[string]string
	ended  bool
}

var dropped = &Span{tracer: Nop, ended: true}

// Begin opens a span under parent (0 for a root span) and emits its begin
// event.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return dropped
	}
	s := &Span{
		tracer: t,
		id:     NextSpanID(),
		parent: parent,
		gid:    getGoroutineID(),
		scope:  scope,
		name:   name,
		start:  time.Now(),
	}
	s.emit(KindSpanBegin, s.start, "", nil)
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string, extra map[string]string) {
	s.tracer.Emit(&Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
		Extra:    extra,
	})
}

// End emits the end event with the accumulated extras and returns the
// span's duration. Only the first call emits.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.ended {
		return 0
	}
	s.ended = true
	now := time.Now()
	s.emit(KindSpanEnd, now, detail, s.extra)
	return now.Sub(s.start)
}

// WithExtra records a key/value pair for the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.ended {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 4)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID; 0 for a dropped span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
