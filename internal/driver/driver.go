// Package driver runs the front-end phases over one source file or a batch
// of them. Each phase reports a session.Result; the driver decides from it
// whether the next phase may run.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/lexer"
	"a68/internal/observ"
	"a68/internal/parser"
	"a68/internal/scopecheck"
	"a68/internal/sema"
	"a68/internal/session"
	"a68/internal/source"
	"a68/internal/trace"
)

// Stage определяет, до какой фазы доходит компиляция.
type Stage string

const (
	StageTokenize Stage = "tokenize"
	StageSyntax   Stage = "syntax"
	StageModes    Stage = "modes"
	StageAll      Stage = "all"
)

// ParseStage accepts the stage names used on the command line.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageTokenize, StageSyntax, StageModes, StageAll:
		return Stage(s), nil
	case "":
		return StageAll, nil
	}
	return "", fmt.Errorf("unknown stage %q (expected tokenize|syntax|modes|all)", s)
}

// Options controls one compilation.
type Options struct {
	Config         config.Options
	Stage          Stage
	MaxDiagnostics int
	Timings        bool
	// Discover looks for a68.toml next to the source and above it; the
	// file's settings are applied on top of Config.
	Discover bool
	// Override is applied after discovery; command-line flags go here so
	// that they win over the project file.
	Override func(*config.Options)
	Observer PhaseObserver
}

// Result is the outcome of one compilation.
type Result struct {
	Session    *session.Session
	Path       string
	ConfigPath string
	Status     session.Status
	Timing     *observ.Report
}

// Bag returns the diagnostics of the compilation.
func (r *Result) Bag() *diag.Bag {
	if r == nil || r.Session == nil {
		return nil
	}
	return r.Session.Bag
}

// Compile loads path and runs the phases up to opts.Stage.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	conf, confPath, err := resolveConfig(filepath.Dir(path), opts)
	if err != nil {
		return nil, err
	}
	res := compile(ctx, fs, id, conf, opts)
	res.ConfigPath = confPath
	return res, nil
}

// CompileSource compiles an in-memory program. No project file is consulted.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	conf := opts.Config
	if opts.Override != nil {
		opts.Override(&conf)
	}
	return compile(ctx, fs, id, conf, opts)
}

func resolveConfig(dir string, opts Options) (config.Options, string, error) {
	conf := opts.Config
	var confPath string
	if opts.Discover {
		var err error
		conf, confPath, err = config.Discover(dir, conf)
		if err != nil {
			return conf, "", fmt.Errorf("failed to read project file: %w", err)
		}
	}
	if opts.Override != nil {
		opts.Override(&conf)
	}
	return conf, confPath, nil
}

func compile(ctx context.Context, fs *source.FileSet, id source.FileID, conf config.Options, opts Options) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	file := fs.Get(id)
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile", trace.CurrentSpan(ctx).SpanID).
		WithExtra("file", file.Path).
		WithExtra("stage", string(opts.Stage))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID(), File: file.Path})

	s := session.New(ctx, fs, id, conf)
	s.Bag = diag.NewBag(opts.MaxDiagnostics)
	if opts.Timings {
		s.Timer = observ.NewTimer()
	}

	status := Run(s, opts.Stage, opts.Observer)
	s.Bag.Sort()

	res := &Result{Session: s, Path: file.Path, Status: status}
	if s.Timer != nil {
		report := s.Timer.Report()
		res.Timing = &report
		addTiming(s.Bag, timingDiagnostic(file.Path, report))
	}
	span.WithExtra("status", status.String()).
		End(fmt.Sprintf("errors=%d warnings=%d", s.Errors(), s.Warnings()))
	return res
}

type step struct {
	phase session.Phase
	run   func(*session.Session) session.Status
}

func scan(s *session.Session) session.Status {
	s.Tokens = lexer.Tokenize(source.Lines(s.File), lexer.Options{Config: &s.Opts, Reporter: s})
	return session.StatusOK
}

func refine(s *session.Session) session.Status {
	s.Tokens = lexer.Refine(s.Tokens, s)
	return session.StatusOK
}

var pipeline = []step{
	{session.PhaseScan, scan},
	{session.PhaseRefine, refine},
	{session.PhaseBrackets, parser.CheckBrackets},
	{session.PhaseTopDown, parser.TopDown},
	{session.PhaseBottomUp, parser.BottomUp},
	{session.PhaseBind, parser.Bind},
	{session.PhaseModes, sema.CollectModes},
	{session.PhaseModeCheck, sema.CheckModes},
	{session.PhaseCoerce, sema.InsertCoercions},
	{session.PhaseScopeCheck, scopecheck.Check},
}

// lastPhase is the final phase a stage runs.
func lastPhase(stage Stage) session.Phase {
	switch stage {
	case StageTokenize:
		return session.PhaseRefine
	case StageSyntax:
		return session.PhaseBind
	case StageModes:
		return session.PhaseCoerce
	}
	return session.PhaseScopeCheck
}

// Run executes the phases of stage over s and returns the worst status.
// A fatal phase stops the run. Syntax phases keep going after recovered
// errors so that later ones see the repaired tree; the semantic phases run
// only on a program without syntax errors.
func Run(s *session.Session, stage Stage, observer PhaseObserver) session.Status {
	last := lastPhase(stage)
	worst := session.StatusOK
	for i, st := range pipeline {
		if !st.phase.IsSyntax() && s.SyntaxErrors() > 0 {
			for _, rest := range pipeline[i:] {
				observer.emit(rest.phase, PhaseSkipped, 0, session.Result{})
				if rest.phase == last {
					break
				}
			}
			break
		}
		observer.emit(st.phase, PhaseStart, 0, session.Result{})
		start := time.Now()
		r := s.Run(st.phase, func() session.Status { return st.run(s) })
		observer.emit(st.phase, PhaseEnd, time.Since(start), r)
		worst = session.Worst(worst, r.Status)
		if r.Status == session.StatusFatal || st.phase == last {
			break
		}
	}
	return worst
}
