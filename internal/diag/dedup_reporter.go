package diag

import (
	"strings"

	"a68/internal/source"
)

// DedupReporter drops a diagnostic when one with the same code, severity,
// primary span and message was already reported, so a phrase checked twice
// is reported once.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]struct{}
	suppressed int
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, template string, args []string, notes []Note) {
	if r == nil {
		return
	}
	var msg strings.Builder
	msg.WriteString(template)
	for _, a := range args {
		msg.WriteByte(0)
		msg.WriteString(a)
	}
	key := dedupKey{code: code, sev: sev, span: primary, msg: msg.String()}
	if _, dup := r.seen[key]; dup {
		r.suppressed++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, template, args, notes)
	}
}

// Suppressed returns how many duplicates were dropped.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
