// Package observ measures how long each front-end phase took.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed phase of a compilation.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer records phases in the order they were started. A nil Timer is
// valid and records nothing, so sessions without --timings pay nothing.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 10)} }

// Begin starts a phase and returns the index to pass to End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PhaseReport: сжатая информация о фазе для сериализации и кэша.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report snapshots the finished phases in milliseconds.
func (t *Timer) Report() Report {
	var r Report
	if t == nil {
		return r
	}
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note})
	}
	r.TotalMS = millis(total)
	return r
}

// Summary renders r as an aligned table headed by title.
func (r Report) Summary(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "timings for %s:\n", title)
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %8.3f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.3f ms\n", "total", r.TotalMS)
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
