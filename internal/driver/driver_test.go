package driver

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/observ"
	"a68/internal/session"
	"a68/internal/testkit"
)

func phasesOf(s *session.Session) []session.Phase {
	var out []session.Phase
	for _, r := range s.Results {
		out = append(out, r.Phase)
	}
	return out
}

func codes(ds []*diag.Diagnostic) []diag.Code {
	var out []diag.Code
	for _, d := range ds {
		out = append(out, d.Code)
	}
	return out
}

func defaults() Options {
	return Options{Config: config.Default(), Stage: StageAll}
}

func TestCompileRunsEveryPhase(t *testing.T) {
	res := CompileSource(context.Background(), "ok.a68", []byte("BEGIN INT i := 1; print (i) END"), defaults())
	if res.Status != session.StatusOK {
		t.Fatalf("status %s: %v", res.Status, codes(res.Bag().Items()))
	}
	if got := phasesOf(res.Session); !slices.Equal(got, session.Phases()) {
		t.Fatalf("phases %v", got)
	}
}

func TestStageStopsEarly(t *testing.T) {
	opts := defaults()
	opts.Stage = StageTokenize
	res := CompileSource(context.Background(), "t.a68", []byte("print (1)"), opts)
	got := phasesOf(res.Session)
	if !slices.Equal(got, []session.Phase{session.PhaseScan, session.PhaseRefine}) {
		t.Fatalf("phases %v", got)
	}
	if res.Session.Tree != nil || len(res.Session.Tokens) == 0 {
		t.Fatal("tokenize stage must produce tokens and no tree")
	}

	opts.Stage = StageSyntax
	res = CompileSource(context.Background(), "t.a68", []byte("print (1)"), opts)
	if last, _ := res.Session.Last(); last.Phase != session.PhaseBind {
		t.Fatalf("syntax stage ended with %s", last.Phase)
	}
}

func TestFatalPhaseStops(t *testing.T) {
	res := CompileSource(context.Background(), "bad.a68", []byte("print ((1)"), defaults())
	if res.Status != session.StatusFatal {
		t.Fatalf("status %s", res.Status)
	}
	last, _ := res.Session.Last()
	if last.Phase != session.PhaseBrackets || last.Status != session.StatusFatal {
		t.Fatalf("last result %+v", last)
	}
}

func TestSyntaxErrorsSkipSemanticPhases(t *testing.T) {
	opts := defaults()
	var skipped []session.Phase
	opts.Observer = func(ev PhaseEvent) {
		if ev.Status == PhaseSkipped {
			skipped = append(skipped, ev.Phase)
		}
	}
	res := CompileSource(context.Background(), "undeclared.a68", []byte("x := 1"), opts)
	want := []session.Phase{session.PhaseModes, session.PhaseModeCheck, session.PhaseCoerce, session.PhaseScopeCheck}
	if !slices.Equal(skipped, want) {
		t.Fatalf("skipped %v", skipped)
	}
	if res.Status != session.StatusRecovered {
		t.Fatalf("status %s", res.Status)
	}
	for _, p := range phasesOf(res.Session) {
		if !p.IsSyntax() {
			t.Fatalf("phase %s ran after syntax errors", p)
		}
	}
	if !slices.Contains(codes(res.Bag().Items()), diag.DclUndeclared) {
		t.Fatalf("got %v", codes(res.Bag().Items()))
	}
}

func TestNoCascadeAfterFirstError(t *testing.T) {
	cases := []struct {
		src  string
		want diag.Code
	}{
		{"go; go.\ngo: SKIP.", diag.LexRefinementApplied},
		{"MODE A = UNION (A, INT); SKIP", diag.ModNotWellFormed},
	}
	for _, tc := range cases {
		res := CompileSource(context.Background(), "cascade.a68", []byte(tc.src), defaults())
		got := codes(res.Bag().Items())
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("%q: got %v, want [%s]", tc.src, got, tc.want.ID())
		}
	}
}

func TestPrintRowsAndStructures(t *testing.T) {
	for _, src := range []string{
		"[] INT r = (1, 2, 3); print (r)",
		"STRUCT (INT a, REAL b) s = (1, 2.0); print (s)",
	} {
		res := CompileSource(context.Background(), "print.a68", []byte(src), defaults())
		if res.Status != session.StatusOK {
			t.Errorf("%q: status %s: %v", src, res.Status, codes(res.Bag().Items()))
		}
	}
}

func TestObserverAndTimings(t *testing.T) {
	opts := defaults()
	opts.Timings = true
	var events []PhaseEvent
	opts.Observer = func(ev PhaseEvent) { events = append(events, ev) }
	res := CompileSource(context.Background(), "t.a68", []byte("print (1)"), opts)

	if len(events) != 2*len(session.Phases()) {
		t.Fatalf("%d events", len(events))
	}
	for i := 0; i < len(events); i += 2 {
		start, end := events[i], events[i+1]
		if start.Status != PhaseStart || end.Status != PhaseEnd || start.Phase != end.Phase {
			t.Fatalf("unpaired events %+v %+v", start, end)
		}
		if end.Result.Phase != end.Phase {
			t.Fatalf("end event carries %+v", end.Result)
		}
	}
	if res.Timing == nil || len(res.Timing.Phases) != len(session.Phases()) {
		t.Fatalf("timing report %+v", res.Timing)
	}
	if !slices.Contains(codes(res.Bag().Items()), diag.ObsTimings) {
		t.Fatal("no timing diagnostic")
	}
}

func TestTimingDiagnosticSurvivesFullBag(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError})
	report := observ.Report{TotalMS: 3, Phases: []observ.PhaseReport{
		{Name: "scan", DurationMS: 1},
		{Name: "bottom-up", DurationMS: 2},
	}}
	addTiming(bag, timingDiagnostic("p.a68", report))
	if bag.Len() != 2 {
		t.Fatalf("bag holds %d", bag.Len())
	}
	d := bag.Items()[1]
	if msg := d.Message(); msg != "timings: total 3.00 ms, slowest phase bottom-up (2.00 ms)" {
		t.Fatalf("message %q", msg)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"slowest":"bottom-up"`) {
		t.Fatalf("notes %+v", d.Notes)
	}
}

func TestProjectFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("[compiler]\nwarnings = false\nmax_errors = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(dir, "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(nested, "main.a68")
	if err := os.WriteFile(path, []byte("INT i = 1; i; SKIP"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := defaults()
	opts.Discover = true
	res, err := Compile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(res.ConfigPath) != config.FileName {
		t.Fatalf("config path %q", res.ConfigPath)
	}
	if res.Session.Opts.Warnings || res.Session.Opts.MaxErrors != 7 {
		t.Fatalf("project file not applied: %+v", res.Session.Opts)
	}
	if res.Bag().HasWarnings() {
		t.Fatalf("warnings disabled, got %v", codes(res.Bag().Items()))
	}

	opts.Override = func(o *config.Options) { o.Warnings = true }
	res, err = Compile(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(codes(res.Bag().Items()), diag.ModVoided) {
		t.Fatalf("override lost: %v", codes(res.Bag().Items()))
	}
}

func TestCompileMissingFile(t *testing.T) {
	if _, err := Compile(context.Background(), filepath.Join(t.TempDir(), "none.a68"), defaults()); err == nil {
		t.Fatal("expected an error")
	}
}

func TestResultKey(t *testing.T) {
	content := [32]byte{1, 2, 3}
	a := ResultKey(content, config.Default(), StageAll)
	if a != ResultKey(content, config.Default(), "") {
		t.Fatal("empty stage must mean all")
	}
	other := config.Default()
	other.Brackets = true
	if a == ResultKey(content, other, StageAll) {
		t.Fatal("options must change the key")
	}
	if a == ResultKey(content, config.Default(), StageSyntax) {
		t.Fatal("stage must change the key")
	}
	if a.IsZero() || len(a.String()) != 64 {
		t.Fatalf("bad digest %s", a)
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache, err := NewResultCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res := CompileSource(context.Background(), "c.a68", []byte("x := 1"), defaults())
	key := ResultKey(res.Session.File.Hash, res.Session.Opts, StageAll)

	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("empty cache: ok=%t err=%v", ok, err)
	}
	if err := cache.Put(key, toCached(res)); err != nil {
		t.Fatal(err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%t err=%v", ok, err)
	}
	if got.Status != res.Status || len(got.Results) != len(res.Session.Results) {
		t.Fatalf("cached %+v", got)
	}
	want := res.Bag().Items()
	if len(got.Diagnostics) != len(want) {
		t.Fatalf("%d diagnostics cached, want %d", len(got.Diagnostics), len(want))
	}
	for i, d := range got.Diagnostics {
		if d.Code != want[i].Code || d.Message() != want[i].Message() || d.Primary != want[i].Primary {
			t.Fatalf("diagnostic %d: %s, want %s", i, d, want[i])
		}
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func writeSources(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestListSources(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"b.a68":         "SKIP",
		"a.a68":         "SKIP",
		"sub/c.a68":     "SKIP",
		"notes.txt":     "",
		".hidden/d.a68": "SKIP",
	})
	got, err := ListSources(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.a68"), filepath.Join(dir, "b.a68"), filepath.Join(dir, "sub", "c.a68")}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := writeSources(t, map[string]string{
		"good.a68":   "print (1)",
		"escape.a68": "PROC f = REF INT: (LOC INT x; x); SKIP",
		"broken.a68": "print ((1)",
	})
	paths, err := ListSources(dir)
	if err != nil {
		t.Fatal(err)
	}
	paths = append(paths, filepath.Join(dir, "missing.a68"))

	cache, err := NewResultCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	final := map[string]ProgressStatus{}
	opts := BatchOptions{Options: defaults(), Jobs: 2, Cache: cache}
	opts.Progress = func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		final[ev.File] = ev.Status
	}

	results, stats, err := CheckFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	byName := map[string]FileResult{}
	for i, r := range results {
		if r.Path != paths[i] {
			t.Fatalf("result %d is for %s", i, r.Path)
		}
		byName[filepath.Base(r.Path)] = r
	}
	if r := byName["good.a68"]; r.Status != session.StatusOK || r.Err != nil {
		t.Fatalf("good: %+v", r)
	}
	if r := byName["escape.a68"]; !slices.Contains(codes(r.Diagnostics), diag.ScpEscape) {
		t.Fatalf("escape: %v", codes(r.Diagnostics))
	}
	if r := byName["broken.a68"]; r.Status != session.StatusFatal {
		t.Fatalf("broken: %s", r.Status)
	}
	if r := byName["missing.a68"]; r.Err == nil {
		t.Fatal("missing file without error")
	}
	if stats.Compiled != 3 || stats.Failed != 1 || stats.CacheHits != 0 {
		t.Fatalf("stats %+v", stats)
	}
	if final[paths[0]] == ProgressQueued || final[filepath.Join(dir, "good.a68")] != ProgressDone {
		t.Fatalf("progress %v", final)
	}

	again, stats, err := CheckFiles(context.Background(), paths[:3], opts)
	if err != nil {
		t.Fatal(err)
	}
	if stats.CacheHits != 3 {
		t.Fatalf("second run stats %+v", stats)
	}
	for i, r := range again {
		if !r.Cached || r.Status != results[i].Status || len(r.Diagnostics) != len(results[i].Diagnostics) {
			t.Fatalf("cached result differs for %s", r.Path)
		}
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	dir := writeSources(t, map[string]string{"a.a68": "SKIP", "b.a68": "SKIP"})
	paths, _ := ListSources(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckFiles(ctx, paths, BatchOptions{Options: defaults()}); err == nil {
		t.Fatal("cancelled batch must fail")
	}
}

func TestTestdataTreesAreWellFormed(t *testing.T) {
	paths, err := ListSources(filepath.Join("..", "..", "testdata"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no testdata")
	}
	for _, path := range paths {
		res, err := Compile(context.Background(), path, defaults())
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		s := res.Session
		if s.Tree == nil {
			continue
		}
		if err := testkit.CheckTree(s.Tree, s.File); err != nil {
			t.Errorf("%s: %v", path, err)
		}
		if filepath.Base(filepath.Dir(path)) == "errors" && !s.Bag.HasErrors() {
			t.Errorf("%s: expected diagnostics", path)
		}
	}
}
