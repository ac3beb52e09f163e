package session

import (
	"context"
	"testing"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/source"
)

func newSession(t *testing.T, opts config.Options) *Session {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.a68", []byte("SKIP\n"))
	return New(context.Background(), fs, id, opts)
}

func TestReporterFilters(t *testing.T) {
	opts := config.Default()
	opts.Warnings = false
	s := newSession(t, opts)
	diag.ReportWarning(s, diag.ModVoided, source.Span{}, "voided").Emit()
	diag.ReportWarning(s, diag.LexPortability, source.Span{}, "not portable").Emit()
	if s.Bag.Len() != 0 {
		t.Fatalf("warnings should be filtered, got %d", s.Bag.Len())
	}

	opts.PortCheck = true
	s = newSession(t, opts)
	diag.ReportWarning(s, diag.LexPortability, source.Span{}, "not portable").Emit()
	if s.Bag.Len() != 1 {
		t.Fatalf("portability warning should pass with portcheck")
	}
}

func TestErrorCeilingHalts(t *testing.T) {
	opts := config.Default()
	opts.MaxErrors = 2
	s := newSession(t, opts)
	for i := range 5 {
		sp := source.Span{Start: uint32(i), End: uint32(i + 1)} //nolint:gosec // test
		diag.ReportError(s, diag.DclUndeclared, sp, "undeclared").Emit()
	}
	if !s.Halted() {
		t.Fatalf("session should be halted")
	}
	items := s.Bag.Items()
	if len(items) != 3 || items[2].Code != diag.SynTooManyErrors {
		t.Fatalf("expected two errors and one halt notice, got %d", len(items))
	}
	r := s.Run(PhaseModeCheck, func() Status {
		t.Fatalf("phase ran after halt")
		return StatusOK
	})
	if r.Status != StatusFatal {
		t.Fatalf("halted run status %v", r.Status)
	}
}

func TestDuplicatesAreNotCounted(t *testing.T) {
	s := newSession(t, config.Default())
	sp := source.Span{Start: 1, End: 2}
	diag.ReportError(s, diag.DclUndeclared, sp, "%s undeclared", "x").Emit()
	diag.ReportError(s, diag.DclUndeclared, sp, "%s undeclared", "x").Emit()
	if s.Errors() != 1 {
		t.Fatalf("errors = %d", s.Errors())
	}
}

func TestDepthGuard(t *testing.T) {
	opts := config.Default()
	opts.MaxDepth = 3
	s := newSession(t, opts)
	r := s.Run(PhaseTopDown, func() Status {
		for range 3 {
			if !s.Enter(source.Span{}) {
				t.Fatalf("guard fired early")
			}
		}
		if s.Enter(source.Span{}) {
			t.Fatalf("guard did not fire")
		}
		s.Enter(source.Span{})
		return StatusOK
	})
	if r.Status != StatusFatal || r.Errors != 1 {
		t.Fatalf("result %+v", r)
	}
}

func TestRunClassifiesStatus(t *testing.T) {
	s := newSession(t, config.Default())
	ok := s.Run(PhaseScan, func() Status { return StatusOK })
	if ok.Status != StatusOK {
		t.Fatalf("clean phase: %v", ok.Status)
	}
	rec := s.Run(PhaseBrackets, func() Status {
		diag.ReportSyntax(s, diag.SynMissingCloser, source.Span{}, "missing %s", "FI").Emit()
		return StatusOK
	})
	if rec.Status != StatusRecovered || rec.Errors != 1 {
		t.Fatalf("phase with errors: %+v", rec)
	}
	if s.SyntaxErrors() != 1 {
		t.Fatalf("syntax errors = %d", s.SyntaxErrors())
	}
	if last, _ := s.Last(); last.Phase != PhaseBrackets {
		t.Fatalf("last phase %s", last.Phase)
	}
	if !s.Scopes.Prelude.IsValid() {
		t.Fatalf("prelude not built")
	}
}
