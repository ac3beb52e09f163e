package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.a68", []byte("BEGIN\n  STRING s = \"open\nEND"))
	d := diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: fileID, Start: 19, End: 24}, "unterminated string denotation")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 5}, "inside this clause")

	var buf bytes.Buffer
	err := JSON(&buf, bagOf(d), fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("count %d", output.Count)
	}
	got := output.Diagnostics[0]
	if got.Severity != "ERROR" || got.Code != "LEX1002" || got.Message != "unterminated string denotation" {
		t.Fatalf("diagnostic %+v", got)
	}
	if got.Title == "" {
		t.Error("title missing")
	}
	loc := got.Location
	if loc.File != "test.a68" || loc.StartByte != 19 || loc.EndByte != 24 || loc.StartLine != 2 || loc.StartCol != 14 {
		t.Fatalf("location %+v", loc)
	}
	if len(got.Notes) != 1 || got.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes %+v", got.Notes)
	}
}

func TestJSONWithoutPositionsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.a68", []byte("SKIP\nSKIP\n"))
	d := diag.New(diag.SevWarning, diag.ModVoided, source.Span{File: fileID, Start: 5, End: 9}, "voided")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 4}, "note")

	var buf bytes.Buffer
	if err := JSON(&buf, bagOf(d), fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	got := output.Diagnostics[0]
	if got.Location.StartLine != 0 || got.Notes != nil {
		t.Fatalf("positions or notes leaked: %+v", got)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.a68", []byte("SKIP; SKIP; SKIP"))
	var ds []diag.Diagnostic
	for i := uint32(0); i < 3; i++ {
		ds = append(ds, diag.New(diag.SevWarning, diag.ModVoided, source.Span{File: fileID, Start: 6 * i, End: 6*i + 4}, "voided"))
	}
	out := BuildDiagnosticsOutput(bagOf(ds...), fs, JSONOpts{Max: 2})
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count %d", out.Count)
	}
}

func TestJSONTimingNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("t.a68", []byte("SKIP"))
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings")
	d = d.WithNote(source.Span{}, `{"total_ms":1.5,"phases":[]}`)
	out := BuildDiagnosticsOutput(bagOf(d), fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing payload dropped: %+v", out.Diagnostics[0])
	}
}

func TestJSONFiles(t *testing.T) {
	var buf bytes.Buffer
	reports := []FileReport{{
		Path:   "a.a68",
		Status: session.StatusRecovered.String(),
		Phases: []session.Result{{Phase: session.PhaseScan, Status: session.StatusOK}},
		DiagnosticsOutput: DiagnosticsOutput{
			Diagnostics: []DiagnosticJSON{{Severity: "ERROR", Code: "DCL3002", Message: "x"}},
			Count:       1,
		},
	}}
	if err := JSONFiles(&buf, reports); err != nil {
		t.Fatal(err)
	}
	var back []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0]["status"] != "recovered" || back[0]["count"] != float64(1) {
		t.Fatalf("decoded %v", back)
	}
	if _, ok := back[0]["diagnostics"]; !ok {
		t.Fatal("embedded diagnostics not flattened")
	}

	buf.Reset()
	if err := JSONFiles(&buf, nil); err != nil || bytes.TrimSpace(buf.Bytes())[0] != '[' {
		t.Fatalf("empty report %q %v", buf.String(), err)
	}
}
