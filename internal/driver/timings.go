package driver

import (
	"encoding/json"
	"strconv"

	"a68/internal/diag"
	"a68/internal/observ"
	"a68/internal/source"
)

// timingNote is the JSON carried by the ObsTimings note.
type timingNote struct {
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Slowest string               `json:"slowest,omitempty"`
	Phases  []observ.PhaseReport `json:"phases"`
}

func ms(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// timingDiagnostic turns a timer report into an informational diagnostic
// whose note holds the report as JSON.
func timingDiagnostic(path string, report observ.Report) *diag.Diagnostic {
	note := timingNote{Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	var slowest float64
	for _, p := range report.Phases {
		if note.Slowest == "" || p.DurationMS > slowest {
			note.Slowest, slowest = p.Name, p.DurationMS
		}
	}
	data, err := json.Marshal(note)
	if err != nil {
		return nil
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings: total %s ms, slowest phase %s (%s ms)",
		ms(report.TotalMS), note.Slowest, ms(slowest))
	d = d.WithNote(source.Span{}, string(data))
	return &d
}

// addTiming appends d even to a full bag: the limit is for the
// diagnostics of the program, not for the report about the run.
func addTiming(bag *diag.Bag, d *diag.Diagnostic) {
	if bag == nil || d == nil || bag.Add(d) {
		return
	}
	extra := diag.NewBag(1)
	extra.Add(d)
	bag.Merge(extra)
}
