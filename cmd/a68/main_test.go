package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/diagfmt"
	"a68/internal/driver"
	"a68/internal/session"
	"a68/internal/source"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "a68", SilenceUsage: true, SilenceErrors: true}
	addOutputFlags(root)
	addCompilerFlags(root)
	addTraceFlags(root)
	check := &cobra.Command{Use: "check", Args: cobra.MinimumNArgs(1), RunE: runCheck}
	addCheckFlags(check)
	root.AddCommand(check)
	return root
}

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.a68", "BEGIN INT i := 1; print (i) END")
	writeFile(t, dir, "bad.a68", "BEGIN INT i = 1.5; print (i) END")

	root := newTestRoot()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"check", "--ui=off", "--cache=false", "--color=off", "--format=json", dir})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v, stderr: %s", err, stderr.String())
	}

	var reports []diagfmt.FileReport
	if err := json.Unmarshal(stdout.Bytes(), &reports); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, stdout.String())
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports", len(reports))
	}
	// ListSources sorts: bad.a68 first
	bad, good := reports[0], reports[1]
	if !strings.HasSuffix(bad.Path, "bad.a68") || !strings.HasSuffix(good.Path, "good.a68") {
		t.Fatalf("paths %q %q", bad.Path, good.Path)
	}
	if good.Status != "ok" || good.Count != 0 {
		t.Fatalf("good: status %s, %d diagnostics", good.Status, good.Count)
	}
	if bad.Count == 0 || bad.Diagnostics[0].Severity != "ERROR" {
		t.Fatalf("bad: %+v", bad.DiagnosticsOutput)
	}
	if len(good.Phases) != len(session.Phases()) {
		t.Fatalf("good ran %d phases", len(good.Phases))
	}
}

func TestCheckPrettyAndSummary(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.a68", "BEGIN INT i := 1; print (i) END")

	root := newTestRoot()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"check", "--ui=off", "--cache=false", "--color=off", good})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("err = %v, stderr: %s", err, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected output: %s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "checked 1 file(s), 31 B: 0 error(s), 0 warning(s)") {
		t.Fatalf("summary: %q", stderr.String())
	}
}

func TestCheckTimings(t *testing.T) {
	good := writeFile(t, t.TempDir(), "good.a68", "SKIP")
	root := newTestRoot()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"check", "--ui=off", "--cache=false", "--color=off", "--timings", good})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("err = %v, stderr: %s", err, stderr.String())
	}
	for _, want := range []string{"timings for " + good + ":", "scope-check", "total"} {
		if !strings.Contains(stderr.String(), want) {
			t.Fatalf("stderr lacks %q: %s", want, stderr.String())
		}
	}
}

func TestCheckRejectsBadFlags(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.a68", "SKIP")
	for _, args := range [][]string{
		{"check", "--format=xml", good},
		{"check", "--ui=maybe", good},
		{"check", "--stage=codegen", good},
		{"check", "--stropping=lower", good},
		{"check", "--max-errors=0", good},
		{"check", "--path-mode=weird", good},
		{"check", filepath.Join(dir, "missing.a68")},
	} {
		root := newTestRoot()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		err := root.ExecuteContext(context.Background())
		if err == nil || errors.Is(err, errDiagnostics) {
			t.Errorf("%v: err = %v", args, err)
		}
	}
}

func TestCompilerOverride(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	addCompilerFlags(c)
	if err := c.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	override, err := compilerOverride(c)
	if err != nil || override != nil {
		t.Fatalf("no flags: override=%v err=%v", override != nil, err)
	}

	c = &cobra.Command{Use: "x"}
	addCompilerFlags(c)
	if err := c.ParseFlags([]string{"--stropping=quote", "--warnings=false", "--max-errors=5", "--brackets"}); err != nil {
		t.Fatal(err)
	}
	override, err = compilerOverride(c)
	if err != nil || override == nil {
		t.Fatalf("override=%v err=%v", override != nil, err)
	}
	o := config.Default()
	o.PortCheck = true // not on the command line, must survive
	override(&o)
	if o.Stropping != config.StropQuote || o.Warnings || o.MaxErrors != 5 || !o.Brackets || !o.PortCheck {
		t.Fatalf("options %+v", o)
	}
}

func TestInitProject(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	var out bytes.Buffer
	if err := initProject(&out, dir, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), config.FileName) || !strings.Contains(out.String(), "hello.a68\n") {
		t.Fatalf("output %q", out.String())
	}
	opts, path, err := config.Discover(dir, config.Default())
	if err != nil || path == "" {
		t.Fatalf("discover: %q %v", path, err)
	}
	if opts != config.Default() {
		t.Fatalf("default project file changed options: %+v", opts)
	}

	if err := initProject(&out, dir, false); err == nil {
		t.Fatal("second init succeeded")
	}
	out.Reset()
	if err := initProject(&out, dir, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "hello.a68 (existing)") {
		t.Fatalf("output %q", out.String())
	}

	res, err := driver.Compile(context.Background(), filepath.Join(dir, "hello.a68"), driver.Options{Config: config.Default(), Discover: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != session.StatusOK {
		t.Fatalf("hello.a68: %s", res.Status)
	}
}

func TestProgressView(t *testing.T) {
	if _, err := parseProgressView("sometimes"); err == nil {
		t.Fatal("bad view accepted")
	}
	for flag, want := range map[string]progressView{
		" ON ": progressAlways, "always": progressAlways,
		"never": progressNever, "": progressAuto,
	} {
		v, err := parseProgressView(flag)
		if err != nil || v != want {
			t.Fatalf("%q: %v %v", flag, v, err)
		}
	}
	if progressNever.String() != "off" {
		t.Fatalf("never prints as %s", progressNever)
	}
	if !progressAlways.showProgress(1) || progressNever.showProgress(10) || progressAuto.showProgress(1) {
		t.Fatal("showProgress")
	}
}

func TestFailed(t *testing.T) {
	warn := diag.New(diag.SevWarning, diag.ModVoided, source.Span{}, "voided")
	results := []driver.FileResult{{Status: session.StatusOK, Diagnostics: []*diag.Diagnostic{&warn}}}
	if failed(results, false) {
		t.Fatal("warning failed the batch")
	}
	if !failed(results, true) {
		t.Fatal("warnings-as-errors ignored")
	}
	if !failed([]driver.FileResult{{Err: os.ErrNotExist}}, false) {
		t.Fatal("unreadable file ignored")
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf); err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "a68" || p.Version == "" {
		t.Fatalf("%+v", p)
	}
}
