package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format is the encoding of emitted events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // one indented line per event
	FormatNDJSON               // one JSON object per line
)

// ParseFormat reads a format name; "json" is accepted for ndjson.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent encodes ev as one newline-terminated record.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(timeLayout),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		data = fmt.Appendf(nil, `{"kind":"error","detail":%q}`, err.Error())
	}
	return append(data, '\n')
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "> ",
	KindSpanEnd:   "< ",
	KindPoint:     "* ",
	KindHeartbeat: "~ ",
}

// formatText renders
//
//	[seq] g<gid> <indent><mark>name (detail) {k=v, ...}
//
// Indentation grows with the scope, so a pass is nested under its
// compile span and reductions under their pass.
func formatText(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "[%6d] g%-4d ", ev.Seq, ev.GID)
	if ev.Scope > ScopeDriver {
		b.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	b.WriteString(kindMarks[ev.Kind])
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		b.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + "=" + ev.Extra[k])
		}
		b.WriteByte('}')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}
