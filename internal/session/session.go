// Package session holds the state of one compilation: the source, options,
// arenas, mode table, diagnostics and the per-phase bookkeeping. Every pass
// receives the session explicitly; there is no process-wide state.
package session

import (
	"context"
	"fmt"

	"a68/internal/ast"
	"a68/internal/bignum"
	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/modes"
	"a68/internal/observ"
	"a68/internal/source"
	"a68/internal/symbols"
	"a68/internal/token"
	"a68/internal/trace"
)

// Session is one compilation in flight.
type Session struct {
	Ctx    context.Context
	Files  *source.FileSet
	File   *source.File
	Opts   config.Options
	Tokens []token.Token
	Tree   *ast.Tree
	Scopes *symbols.Table
	Modes  *modes.Table
	Digits *bignum.Table
	Bag    *diag.Bag
	Tracer trace.Tracer
	Timer  *observ.Timer

	Results []Result

	reporter diag.Reporter
	errors   int
	warnings int
	halted   bool
	tooDeep  bool
	depth    int
	pass     *trace.Span
}

// New prepares a session for one file of fs. The standard environment is
// built immediately so that every later pass can rely on it.
func New(ctx context.Context, fs *source.FileSet, file source.FileID, opts config.Options) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.Normalize()
	s := &Session{
		Ctx:    ctx,
		Files:  fs,
		File:   fs.Get(file),
		Opts:   opts,
		Modes:  modes.NewTable(),
		Scopes: symbols.NewTable(symbols.Hints{}),
		Digits: bignum.NewTable(opts.LongDigits, opts.LongLongDigits),
		Bag:    diag.NewBag(0),
		Tracer: trace.FromContext(ctx),
	}
	s.reporter = diag.NewDedupReporter(sink{s})
	s.Scopes.BuildPrelude(s.Modes)
	return s
}

// Report implements diag.Reporter. Warnings are dropped when disabled and
// portability warnings unless requested; once more than MaxErrors errors
// have been recorded the session halts and reports that once.
func (s *Session) Report(code diag.Code, sev diag.Severity, primary source.Span, template string, args []string, notes []diag.Note) {
	if s.halted {
		return
	}
	if code == diag.LexPortability && !s.Opts.PortCheck {
		return
	}
	if sev == diag.SevWarning && !s.Opts.Warnings && code != diag.LexPortability {
		return
	}
	s.reporter.Report(code, sev, primary, template, args, notes)
}

// sink sits behind the dedup filter so that repeated reports are not counted.
type sink struct{ s *Session }

func (k sink) Report(code diag.Code, sev diag.Severity, primary source.Span, template string, args []string, notes []diag.Note) {
	s := k.s
	if s.halted {
		return
	}
	d := &diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Template: template,
		Args:     args,
		Primary:  primary,
		Notes:    notes,
	}
	if sev.IsError() {
		s.errors++
		if s.errors > s.Opts.MaxErrors {
			s.halted = true
			s.Bag.Add(&diag.Diagnostic{
				Severity: diag.SevError,
				Code:     diag.SynTooManyErrors,
				Template: "too many errors (more than %s); compilation halted",
				Args:     []string{fmt.Sprint(s.Opts.MaxErrors)},
				Primary:  primary,
			})
			return
		}
	} else if sev == diag.SevWarning {
		s.warnings++
	}
	s.Bag.Add(d)
}

// Errors returns the number of errors recorded so far.
func (s *Session) Errors() int { return s.errors }

// Warnings returns the number of warnings recorded so far.
func (s *Session) Warnings() int { return s.warnings }

// Halted reports whether the session stopped accepting work.
func (s *Session) Halted() bool {
	if s.halted {
		return true
	}
	if s.Ctx.Err() != nil {
		s.halted = true
	}
	return s.halted
}

// Enter guards recursion depth. It returns false, after reporting once, when
// the nesting exceeds MaxDepth; the caller must then unwind without Leave.
func (s *Session) Enter(at source.Span) bool {
	if s.depth >= s.Opts.MaxDepth {
		if !s.tooDeep {
			s.tooDeep = true
			diag.ReportSyntax(s, diag.SynTooDeep, at, "program too deeply nested (more than %s levels)", fmt.Sprint(s.Opts.MaxDepth)).Emit()
		}
		return false
	}
	s.depth++
	return true
}

// Leave undoes a successful Enter.
func (s *Session) Leave() {
	if s.depth > 0 {
		s.depth--
	}
}

// TooDeep reports whether the depth guard fired in this session.
func (s *Session) TooDeep() bool { return s.tooDeep }

// Run executes one phase: it opens a trace span and a timer entry, counts
// the diagnostics the phase adds and records the Result. A halted session
// makes every later phase fatal without running it.
func (s *Session) Run(phase Phase, fn func() Status) Result {
	if s.Halted() {
		r := Result{Phase: phase, Status: StatusFatal, Note: "halted"}
		s.Results = append(s.Results, r)
		return r
	}
	errs, warns := s.errors, s.warnings
	idx := s.Timer.Begin(string(phase))
	s.pass = trace.Begin(s.Tracer, trace.ScopePass, string(phase), trace.CurrentSpan(s.Ctx).SpanID)
	s.depth = 0
	s.tooDeep = false

	status := fn()

	r := Result{
		Phase:    phase,
		Status:   status,
		Errors:   s.errors - errs,
		Warnings: s.warnings - warns,
	}
	if r.Errors > 0 && r.Status == StatusOK {
		r.Status = StatusRecovered
	}
	if s.Halted() || s.tooDeep {
		r.Status = StatusFatal
	}
	r.Note = fmt.Sprintf("errors=%d warnings=%d", r.Errors, r.Warnings)
	s.pass.WithExtra("status", r.Status.String()).End(r.Note)
	s.pass = nil
	s.Timer.End(idx, r.Note)
	s.Results = append(s.Results, r)
	return r
}

// Trace emits a node-level point event under the running phase span.
func (s *Session) Trace(name, detail string) {
	var parent uint64
	if s.pass != nil {
		parent = s.pass.ID()
	}
	trace.Point(s.Tracer, trace.ScopeNode, name, detail, parent)
}

// TraceReductions reports whether reduction events should be produced.
func (s *Session) TraceReductions() bool {
	return s.Opts.TraceReductions && s.Tracer != nil && s.Tracer.Enabled()
}

// SyntaxErrors counts errors recorded by syntax phases.
func (s *Session) SyntaxErrors() int {
	n := 0
	for _, r := range s.Results {
		if r.Phase.IsSyntax() {
			n += r.Errors
		}
	}
	return n
}

// Last returns the most recent phase result.
func (s *Session) Last() (Result, bool) {
	if len(s.Results) == 0 {
		return Result{}, false
	}
	return s.Results[len(s.Results)-1], true
}
